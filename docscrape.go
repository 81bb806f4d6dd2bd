// Package docscrape crawls a documentation site starting from a table of
// contents page, extracts structured content from every linked page, and
// persists the run as a single JSON artifact with summary statistics and
// a failure log.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package docscrape
