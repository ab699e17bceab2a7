package core

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f fakeClock) Now() time.Time { return f.t }

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "acquisitions"), "tester", fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestCreateThenLoadYieldsSameRoot(t *testing.T) {
	m := newTestManager(t)

	created, err := m.Create("Case_Alpha")
	require.NoError(t, err)
	require.DirExists(t, created.Root)
	require.FileExists(t, filepath.Join(created.Root, JournalFileName))
	require.FileExists(t, filepath.Join(created.Root, MetadataFileName))
	assert.NotEmpty(t, created.Meta.ID)

	loaded, err := m.Load("Case_Alpha")
	require.NoError(t, err)
	assert.Equal(t, created.Root, loaded.Root)
	assert.Equal(t, created.Meta.ID, loaded.Meta.ID)

	cur, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, loaded, cur)
}

func TestCreateTrimsSurroundingWhitespace(t *testing.T) {
	m := newTestManager(t)

	created, err := m.Create("  Case_Alpha ")
	require.NoError(t, err)
	assert.Equal(t, "Case_Alpha", created.Meta.Name)
	assert.Equal(t, "Case_Alpha", filepath.Base(created.Root))

	// The exact name and a padded variant both resolve to the same case.
	loaded, err := m.Load("Case_Alpha")
	require.NoError(t, err)
	assert.Equal(t, created.Root, loaded.Root)

	padded, err := m.Load(" Case_Alpha  ")
	require.NoError(t, err)
	assert.Equal(t, created.Root, padded.Root)
}

func TestCreateDuplicateFailsWithoutMutation(t *testing.T) {
	m := newTestManager(t)

	c, err := m.Create("Case_Alpha")
	require.NoError(t, err)

	before, err := os.ReadDir(c.Root)
	require.NoError(t, err)

	_, err = m.Create("Case_Alpha")
	require.ErrorIs(t, err, ErrDuplicateCase)

	after, err := os.ReadDir(c.Root)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))

	// The original case stays current.
	cur, err := m.Current()
	require.NoError(t, err)
	assert.Equal(t, "Case_Alpha", cur.Meta.Name)
}

func TestCreateInvalidName(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"", "   ", "../escape", "a/b", ".hidden"} {
		_, err := m.Create(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestLoadMissingCase(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Load("nope")
	require.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCurrentWithoutCase(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Current()
	require.ErrorIs(t, err, ErrNoActiveCase)
}

func TestSwitchingCasesClosesPreviousJournal(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Create("First")
	require.NoError(t, err)

	_, err = m.Create("Second")
	require.NoError(t, err)

	// The first journal handle is closed; further writes are dropped with a
	// warning instead of landing in the file.
	firstLog := filepath.Join(first.Root, JournalFileName)
	before, err := os.ReadFile(firstLog)
	require.NoError(t, err)
	first.Journal.Record("Case", "should be dropped")
	after, err := os.ReadFile(firstLog)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	cur, err := m.Current()
	require.NoError(t, err)
	assert.Equal(t, "Second", cur.Meta.Name)
}

func TestListCases(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create("Bravo")
	require.NoError(t, err)
	_, err = m.Create("Alpha")
	require.NoError(t, err)

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, names)
}
