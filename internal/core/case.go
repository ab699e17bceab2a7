package core

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed per-case file names. Everything else under a case root is evidence.
const (
	JournalFileName  = "journal.log"
	MetadataFileName = "case.json"
)

// Metadata is the persisted identity of a case.
type Metadata struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Operator   string `json:"operator,omitempty"`
	CreatedUTC string `json:"created_utc"`
}

// Case is one investigative unit: a directory under the acquisition root
// plus its open journal. All evidence paths are subpaths of Root.
type Case struct {
	Meta    Metadata
	Root    string
	Journal *Journal
}

// SubDir returns a category subdirectory of the case root, creating it and
// any parents on first use.
func (c *Case) SubDir(parts ...string) (string, error) {
	dir := filepath.Join(append([]string{c.Root}, parts...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// Manager owns the acquisition root and the single current case of a
// session. At most one journal handle is open at a time: activating a case
// closes the previous one.
type Manager struct {
	root     string
	operator string
	clock    Clock
	logger   *log.Logger
	current  *Case
}

// NewManager creates the acquisition root if absent and returns a manager
// with no active case.
func NewManager(root, operator string, clock Clock, logger *log.Logger) (*Manager, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create acquisition root: %w", err)
	}
	return &Manager{root: root, operator: operator, clock: clock, logger: logger}, nil
}

// Root returns the acquisition root directory.
func (m *Manager) Root() string {
	return m.root
}

// Create makes a new empty case directory with a fresh journal and metadata,
// records the creation, and sets the case current. An existing directory of
// the same name fails with ErrDuplicateCase before any filesystem mutation.
func (m *Manager) Create(name string) (*Case, error) {
	// The trimmed name is the directory name; trimming here keeps the
	// validated name and the created path identical.
	name = strings.TrimSpace(name)
	if err := ValidateCaseName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(m.root, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateCase)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create case directory: %w", err)
	}
	meta := Metadata{
		ID:         uuid.NewString(),
		Name:       name,
		Operator:   m.operator,
		CreatedUTC: m.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := writeMetadata(dir, meta); err != nil {
		return nil, err
	}
	j, err := OpenJournal(filepath.Join(dir, JournalFileName), m.clock, m.logger)
	if err != nil {
		return nil, err
	}
	c := &Case{Meta: meta, Root: dir, Journal: j}
	j.Record("Case", fmt.Sprintf("Created case %q (id %s)", name, meta.ID))
	m.setCurrent(c)
	return c, nil
}

// Load opens an existing case, appends a "loaded" entry to its journal and
// sets it current. A missing directory fails with ErrCaseNotFound.
func (m *Manager) Load(name string) (*Case, error) {
	name = strings.TrimSpace(name)
	if err := ValidateCaseName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(m.root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", name, ErrCaseNotFound)
	}
	meta := readMetadata(dir, name)
	j, err := OpenJournal(filepath.Join(dir, JournalFileName), m.clock, m.logger)
	if err != nil {
		return nil, err
	}
	c := &Case{Meta: meta, Root: dir, Journal: j}
	j.Record("Case", fmt.Sprintf("Loaded case %q", name))
	m.setCurrent(c)
	return c, nil
}

// Current returns the active case, or ErrNoActiveCase. Every evidence
// operation checks this first and refuses to proceed without one.
func (m *Manager) Current() (*Case, error) {
	if m.current == nil {
		return nil, ErrNoActiveCase
	}
	return m.current, nil
}

// List returns the names of all cases under the acquisition root, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases the current case's journal handle, if any.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Journal.Close()
	m.current = nil
	return err
}

func (m *Manager) setCurrent(c *Case) {
	if m.current != nil {
		if err := m.current.Journal.Close(); err != nil {
			m.logger.Printf("warning: closing previous journal: %v", err)
		}
	}
	m.current = c
}

func writeMetadata(dir string, meta Metadata) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFileName), b, 0o600); err != nil {
		return fmt.Errorf("write case metadata: %w", err)
	}
	return nil
}

// readMetadata tolerates a missing or unreadable case.json so cases created
// by older releases still load.
func readMetadata(dir, name string) Metadata {
	meta := Metadata{Name: name}
	b, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return meta
	}
	_ = json.Unmarshal(b, &meta)
	meta.Name = name
	return meta
}
