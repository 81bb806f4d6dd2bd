package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/crawl"
	"github.com/google/uuid"
)

// ShutdownTimeout is how long in-flight requests get to finish on Close.
const ShutdownTimeout = 5 * time.Second

// DownloadReadyPrefix marks the artifact-availability sentinel on the
// progress stream. It is the final line of a successful scrape response and
// carries the archive name to pass to the download endpoint.
const DownloadReadyPrefix = "DOWNLOAD_READY:"

// Server exposes scraping over HTTP: a form page, a streaming scrape
// trigger, artifact download, and run history.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	Addr string

	Crawler  *crawl.Crawler
	Archives docscrape.ArchiveStore
	Sessions docscrape.SessionService
	Logger   *slog.Logger
}

// NewServer creates a Server with routes registered. Dependencies are
// assigned before Open.
func NewServer() *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		Logger: slog.Default(),
	}
	s.server = &http.Server{Handler: s.mux}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /scrape", s.handleScrape)
	s.mux.HandleFunc("GET /download/{filename}", s.handleDownload)
	s.mux.HandleFunc("GET /sessions", s.handleSessions)

	return s
}

// Open starts listening on Addr. It returns immediately; request serving
// runs in a background goroutine until Close.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server terminated", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts the server down, waiting up to ShutdownTimeout for
// in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the listening server. Useful in tests where
// Addr is ":0".
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>docscrape</title></head>
<body>
<h1>Documentation Scraper</h1>
<form method="POST" action="/scrape">
<label>Table of Contents URL <input type="url" name="toc_url" required></label>
<label>Output filename <input type="text" name="output_file" required></label>
<button type="submit">Scrape</button>
</form>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

// handleScrape runs a crawl and streams its progress as plain text. Each
// progress line is flushed as soon as its page completes. On success the
// final line is the DOWNLOAD_READY sentinel carrying the archive name.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error: malformed form data.", http.StatusBadRequest)
		return
	}
	tocURL := r.PostFormValue("toc_url")
	outputFile := r.PostFormValue("output_file")
	if tocURL == "" || outputFile == "" {
		http.Error(w, "Error: Both URL and Filename are required.", http.StatusBadRequest)
		return
	}

	// A per-request unique prefix keeps concurrent runs from clobbering
	// each other's artifacts.
	name := uuid.New().String() + "_" + docscrape.NormalizeArchiveName(outputFile)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	_, err := s.Crawler.Run(r.Context(), tocURL, name, func(e crawl.Event) {
		io.WriteString(w, crawl.FormatEvent(e))
		flush()
	})
	if err != nil {
		// The failure line has already been streamed where one applies;
		// the stream simply ends without a sentinel.
		s.Logger.Warn("scrape failed", "toc_url", tocURL, "err", err)
		return
	}

	io.WriteString(w, DownloadReadyPrefix+name)
	flush()
}

// handleDownload serves a stored archive as an attachment. The ETag is an
// xxhash of the content, so unchanged artifacts can be revalidated cheaply.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	rc, err := s.Archives.OpenArchive(r.Context(), filename)
	if err != nil {
		s.error(w, r, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		s.error(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(data))
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+redact(filename)+`"`)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleSessions returns past runs as JSON, newest first. Optional query
// parameters: toc_url, offset, limit.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.Sessions == nil {
		s.error(w, r, docscrape.Errorf(docscrape.EUNAVAILABLE, "Session history is not configured."))
		return
	}

	var filter docscrape.SessionFilter
	if v := r.URL.Query().Get("toc_url"); v != "" {
		filter.TOCURL = &v
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	sessions, err := s.Sessions.FindSessions(r.Context(), filter)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []*docscrape.SessionRecord{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(struct {
		Sessions []*docscrape.SessionRecord `json:"sessions"`
	}{Sessions: sessions})
}

// error writes an application error as an HTTP response, mapping error
// codes to status codes and hiding internal error details.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := docscrape.ErrorCode(err)
	if code == docscrape.EINTERNAL {
		s.Logger.Error("internal error", "path", r.URL.Path, "err", err)
	}
	http.Error(w, docscrape.ErrorMessage(err), statusFromCode(code))
}

func statusFromCode(code string) int {
	switch code {
	case docscrape.EINVALID:
		return http.StatusBadRequest
	case docscrape.ENOTFOUND:
		return http.StatusNotFound
	case docscrape.ECONFLICT:
		return http.StatusConflict
	case docscrape.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// redact trims control characters from a filename for header use.
func redact(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
