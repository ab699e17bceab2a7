// Package export bundles a complete case directory into a portable archive
// for handoff to another examiner, optionally encrypted to an age recipient.
package export

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
)

// Metadata describes the produced archive.
type Metadata struct {
	Path         string `json:"archive_path"`
	Encrypted    bool   `json:"encrypted"`
	FileCount    int    `json:"file_count"`
	BytesWritten int64  `json:"bytes_written"`
}

// ValidateRecipient checks that key is a usable age X25519 public key.
func ValidateRecipient(key string) error {
	if !strings.HasPrefix(key, "age1") {
		return fmt.Errorf("age public key must start with 'age1'")
	}
	if _, err := age.ParseX25519Recipient(key); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// BundleCase archives caseRoot, journal and all, into
// mobiletk_<case>_<timestamp>.tar.gz under outDir, appending ".age" and
// encrypting when recipient is non-empty. Entries are prefixed with the
// case name so the archive extracts into its own directory.
func BundleCase(ctx context.Context, caseRoot, caseName, outDir string, timestamp time.Time, recipient string) (*Metadata, error) {
	timeStr := timestamp.UTC().Format("20060102T150405Z")
	baseFilename := fmt.Sprintf("mobiletk_%s_%s.tar.gz", caseName, timeStr)

	outputPath := filepath.Join(outDir, baseFilename)
	encrypted := recipient != ""
	if encrypted {
		outputPath += ".age"
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", outputPath, err)
	}
	defer outFile.Close()

	var gzWriter *gzip.Writer
	var encWriter io.WriteCloser
	if encrypted {
		r, err := age.ParseX25519Recipient(recipient)
		if err != nil {
			return nil, fmt.Errorf("parse age public key: %w", err)
		}
		encWriter, err = age.Encrypt(outFile, r)
		if err != nil {
			return nil, fmt.Errorf("create age encryption writer: %w", err)
		}
		gzWriter = gzip.NewWriter(encWriter)
	} else {
		gzWriter = gzip.NewWriter(outFile)
	}
	tarWriter := tar.NewWriter(gzWriter)

	fileCount := 0
	counter := &countingWriter{wrapped: tarWriter}

	err = filepath.WalkDir(caseRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == caseRoot {
			return nil
		}
		relPath, err := filepath.Rel(caseRoot, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		tarPath := caseName + "/" + filepath.ToSlash(relPath)

		if d.IsDir() {
			return tarWriter.WriteHeader(&tar.Header{
				Name:     tarPath + "/",
				Mode:     0o755,
				Typeflag: tar.TypeDir,
				ModTime:  timestamp,
			})
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := tarWriter.WriteHeader(&tar.Header{
			Name:    tarPath,
			Mode:    0o644,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}); err != nil {
			return fmt.Errorf("tar header for %s: %w", path, err)
		}
		if _, err := io.Copy(counter, file); err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
		fileCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk case directory: %w", err)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("close tar writer: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	if encrypted {
		if err := encWriter.Close(); err != nil {
			return nil, fmt.Errorf("close age encryption writer: %w", err)
		}
	}

	bytesWritten := counter.count
	if stat, err := outFile.Stat(); err == nil {
		bytesWritten = stat.Size()
	}

	return &Metadata{
		Path:         outputPath,
		Encrypted:    encrypted,
		FileCount:    fileCount,
		BytesWritten: bytesWritten,
	}, nil
}

// countingWriter wraps another writer and counts bytes written.
type countingWriter struct {
	wrapped io.Writer
	count   int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.wrapped.Write(p)
	c.count += int64(n)
	return n, err
}
