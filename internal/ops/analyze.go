package ops

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mobiletk/internal/core"
)

// Extensions skipped by keyword search: binary containers and media where a
// line scan is noise, plus the backup archives themselves.
var searchSkipExt = map[string]bool{
	".ab":  true,
	".jpg": true,
	".png": true,
	".mp4": true,
	".pdf": true,
	".log": true,
	".db":  true,
}

// SearchKeywords scans every text file under the case root for whole-word,
// case-insensitive occurrences of the given keywords, printing each hit and
// returning the total match count. The journal and case metadata are
// excluded so the custody record never matches itself.
func (s *Session) SearchKeywords(ctx context.Context, keywords []string) (int, error) {
	c, err := s.requireCase()
	if err != nil {
		return 0, err
	}

	var patterns []*regexp.Regexp
	var cleaned []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		cleaned = append(cleaned, kw)
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	if len(patterns) == 0 {
		return 0, fmt.Errorf("keywords: %w", core.ErrInvalidInput)
	}

	c.Journal.Record("Keyword Search", fmt.Sprintf("Search started for: %s", strings.Join(cleaned, ", ")))

	matches := 0
	err = filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if name == core.JournalFileName || name == core.MetadataFileName {
			return nil
		}
		if searchSkipExt[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		n, scanErr := s.searchFile(path, patterns)
		if scanErr != nil {
			s.infof("Skipping %s: %v", path, scanErr)
			return nil
		}
		matches += n
		return nil
	})
	if err != nil {
		c.Journal.Record("Keyword Search", fmt.Sprintf("Search aborted: %v", err))
		return matches, err
	}

	c.Journal.Record("Keyword Search", fmt.Sprintf("Search finished, %d matching line(s)", matches))
	s.infof("%d matching line(s).", matches)
	return matches, nil
}

func (s *Session) searchFile(path string, patterns []*regexp.Regexp) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	matches := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		lower := strings.ToLower(sc.Text())
		for _, p := range patterns {
			if p.MatchString(lower) {
				s.infof("%s:%d: %s", path, lineNo, strings.TrimSpace(sc.Text()))
				matches++
				break
			}
		}
	}
	return matches, sc.Err()
}

// RunILEAPP hands a decoded iOS backup to iLEAPP and collects its HTML
// report under the case's iLEAPP directory. iLEAPP is optional tooling, so a
// missing configuration is ErrToolMissing rather than a startup failure.
func (s *Session) RunILEAPP(ctx context.Context, backupPath string) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	if s.Config.Tools.ILEAPP == "" {
		return "", fmt.Errorf("ileapp is not configured, set tools.ileapp in the config file: %w", core.ErrToolMissing)
	}
	if _, err := os.Stat(backupPath); err != nil {
		return "", fmt.Errorf("backup path %s: %w", backupPath, err)
	}
	outDir, err := c.SubDir(DirILEAPP)
	if err != nil {
		return "", err
	}

	c.Journal.Record("iLEAPP", fmt.Sprintf("Analysis of %s started", backupPath))
	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.ILEAPP, "-t", "fs", "-i", backupPath, "-o", outDir); err != nil {
		c.Journal.Record("iLEAPP", fmt.Sprintf("Analysis failed: %v", err))
		return "", err
	}
	c.Journal.Record("iLEAPP", fmt.Sprintf("Analysis finished, report under %s", outDir))
	return outDir, nil
}
