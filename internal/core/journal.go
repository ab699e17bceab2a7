package core

import (
	"fmt"
	"log"
	"os"
	"strings"
)

const timestampLayout = "2006-01-02 15:04:05"

// Journal is the append-only chain-of-custody record of one case: one entry
// per line, `[timestamp] [Category] Message`, with a SHA-256 stamp appended
// when the entry references an existing artifact. Entries are never edited
// or removed; ordering is write order.
//
// Journal writes never fail toward the caller: losing a log line must not
// abort an in-progress acquisition, so I/O errors are reported as warnings
// on the diagnostic logger instead.
type Journal struct {
	path   string
	f      *os.File
	clock  Clock
	logger *log.Logger
}

// OpenJournal opens (or creates) the journal file in append mode. Each write
// is followed by an fsync so no buffered entry survives a crash unwritten.
func OpenJournal(path string, clock Clock, logger *log.Logger) (*Journal, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{path: path, f: f, clock: clock, logger: logger}, nil
}

// Record appends one timestamped entry under a free-form category label.
func (j *Journal) Record(category, message string) {
	j.record(category, message, "")
}

// RecordArtifact appends an entry stamped with the current SHA-256 of the
// artifact at path. A missing artifact records a plain entry; the hash label
// is the on-disk contract and must not change between releases.
func (j *Journal) RecordArtifact(category, message, artifactPath string) {
	j.record(category, message, artifactPath)
}

func (j *Journal) record(category, message, artifactPath string) {
	entry := fmt.Sprintf("[%s] [%s] %s", j.clock.Now().Format(timestampLayout), category, message)
	if artifactPath != "" {
		if _, err := os.Stat(artifactPath); err == nil {
			entry += " | Hachage (SHA256) : " + HashFile(artifactPath)
		}
	}
	j.WriteLine(entry)
}

// WriteLine appends a raw line to the journal, used to mirror external tool
// output into the custody record. The line is synced immediately.
func (j *Journal) WriteLine(s string) {
	if j == nil || j.f == nil {
		return
	}
	s = strings.TrimRight(s, "\n")
	if _, err := j.f.WriteString(s + "\n"); err != nil {
		j.logger.Printf("warning: journal write failed: %v", err)
		return
	}
	if err := j.f.Sync(); err != nil {
		j.logger.Printf("warning: journal sync failed: %v", err)
	}
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Contents returns the verbatim journal text via a separate read-only open,
// leaving the append handle untouched. No parsing of historical entries.
func (j *Journal) Contents() (string, error) {
	b, err := os.ReadFile(j.path)
	if err != nil {
		return "", fmt.Errorf("read journal: %w", err)
	}
	return string(b), nil
}

// Close flushes and releases the file handle. Records written afterward are
// dropped with a warning rather than reopening the file.
func (j *Journal) Close() error {
	if j == nil || j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}
