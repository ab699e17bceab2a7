package ops

import (
	"context"
	"fmt"
	"os"
)

// Completion is the generative assistant surface the session needs. The
// concrete client lives in internal/ai; tests substitute a fake.
type Completion interface {
	Available() bool
	SuggestQueries(ctx context.Context, dbPath string) (string, error)
}

// AnalyzeDatabase asks the assistant for SQL queries worth running against
// an extracted SQLite database. An unconfigured assistant is a normal state,
// journaled and reported, not an error: acquisitions must work on
// air-gapped stations.
func (s *Session) AnalyzeDatabase(ctx context.Context, assistant Completion, dbPath string) error {
	c, err := s.requireCase()
	if err != nil {
		return err
	}
	if assistant == nil || !assistant.Available() {
		c.Journal.Record("AI Analysis", "Skipped - assistant not configured")
		s.infof("AI assistant is not configured (no API key), skipping.")
		return nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database %s: %w", dbPath, err)
	}

	c.Journal.Record("AI Analysis", fmt.Sprintf("Query suggestions requested for %s", dbPath))
	text, err := assistant.SuggestQueries(ctx, dbPath)
	if err != nil {
		c.Journal.Record("AI Analysis", fmt.Sprintf("Request failed: %v", err))
		return err
	}
	c.Journal.Record("AI Analysis", "Suggestions received")
	s.infof("%s", text)
	return nil
}
