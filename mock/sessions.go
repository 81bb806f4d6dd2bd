package mock

import (
	"context"

	"github.com/fwojciec/docscrape"
)

var _ docscrape.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of docscrape.SessionService.
type SessionService struct {
	CreateSessionFn   func(ctx context.Context, rec *docscrape.SessionRecord, failures []docscrape.Failure) error
	FindSessionByIDFn func(ctx context.Context, id string) (*docscrape.SessionRecord, error)
	FindSessionsFn    func(ctx context.Context, filter docscrape.SessionFilter) ([]*docscrape.SessionRecord, error)
}

func (s *SessionService) CreateSession(ctx context.Context, rec *docscrape.SessionRecord, failures []docscrape.Failure) error {
	return s.CreateSessionFn(ctx, rec, failures)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*docscrape.SessionRecord, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context, filter docscrape.SessionFilter) ([]*docscrape.SessionRecord, error) {
	return s.FindSessionsFn(ctx, filter)
}
