// Package report renders the chain of custody report for a case as a PDF.
//
// Artifact hashes in the report are recomputed at generation time rather
// than copied from the journal. A file altered after acquisition therefore
// shows a hash in the report that no longer matches the one stamped in the
// journal text, which is exactly the discrepancy a reviewer needs to see.
package report

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"mobiletk/internal/core"
)

const reportSuffix = "_Report.pdf"

// Artifact is one evidence file listed in the report.
type Artifact struct {
	Name    string
	RelPath string
	SHA256  string
}

// Summary describes a generated report.
type Summary struct {
	Path      string
	Artifacts []Artifact
	Generated time.Time
}

// Generate writes <case>_Report.pdf into the case root and journals the
// report itself as an artifact.
func Generate(c *core.Case, operator string, clock core.Clock) (*Summary, error) {
	if c == nil {
		return nil, core.ErrNoActiveCase
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	now := clock.Now()

	artifacts, err := collectArtifacts(c.Root)
	if err != nil {
		return nil, err
	}
	journal, err := c.Journal.Contents()
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	dest := filepath.Join(c.Root, c.Meta.Name+reportSuffix)
	if err := render(dest, c, operator, now, artifacts, journal); err != nil {
		return nil, err
	}

	c.Journal.RecordArtifact("Report", fmt.Sprintf("Generated %s", filepath.Base(dest)), dest)
	return &Summary{Path: dest, Artifacts: artifacts, Generated: now}, nil
}

// collectArtifacts walks the case tree, hashing every file except the
// journal, the case metadata and previously generated reports.
func collectArtifacts(root string) ([]Artifact, error) {
	var artifacts []Artifact
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := d.Name()
		if name == core.JournalFileName || name == core.MetadataFileName || strings.HasSuffix(name, reportSuffix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		artifacts = append(artifacts, Artifact{
			Name:    name,
			RelPath: filepath.ToSlash(rel),
			SHA256:  core.HashFile(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect artifacts: %w", err)
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].RelPath < artifacts[j].RelPath })
	return artifacts, nil
}

func render(dest string, c *core.Case, operator string, now time.Time, artifacts []Artifact, journal string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Chain of Custody Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, safeText(value), "", 1, "L", false, 0, "")
	}
	field("Case:", c.Meta.Name)
	if c.Meta.ID != "" {
		field("Case ID:", c.Meta.ID)
	}
	if operator != "" {
		field("Operator:", operator)
	}
	field("Generated:", now.Format("2006-01-02 15:04:05"))
	pdf.Ln(4)

	sectionTitle(pdf, "Acquired Artifacts")
	if len(artifacts) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No acquisition files found.", "", 1, "L", false, 0, "")
	}
	for _, a := range artifacts {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, safeText(a.RelPath), "", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(0, 5, "SHA256: "+a.SHA256, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Custody Journal")
	pdf.SetFont("Courier", "", 8)
	for _, line := range strings.Split(strings.TrimRight(journal, "\n"), "\n") {
		pdf.MultiCell(0, 4, safeText(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(dest); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

// safeText replaces characters outside the PDF core font range so journal
// lines carrying arbitrary tool output never corrupt the document.
func safeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r > 0xFF {
			return '?'
		}
		return r
	}, s)
}
