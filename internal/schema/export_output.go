// Package schema defines the stable JSON shapes mobiletk emits for
// machine consumers. Field names are part of the external contract;
// renaming one breaks downstream ingestion.
package schema

import (
	"time"

	"mobiletk/internal/export"
)

// ExportOutput is the JSON document printed after a case export.
type ExportOutput struct {
	Command      string `json:"command"`
	Case         string `json:"case"`
	ArchivePath  string `json:"archive_path"`
	Encrypted    bool   `json:"encrypted"`
	RecipientSet bool   `json:"recipient_set"`
	FileCount    int    `json:"file_count"`
	BytesWritten int64  `json:"bytes_written"`
	TimestampUTC string `json:"timestamp_utc"`
}

// NewExportOutput builds the export result document from archive metadata.
func NewExportOutput(caseName string, meta *export.Metadata, recipientSet bool, timestamp time.Time) ExportOutput {
	return ExportOutput{
		Command:      "export",
		Case:         caseName,
		ArchivePath:  meta.Path,
		Encrypted:    meta.Encrypted,
		RecipientSet: recipientSet,
		FileCount:    meta.FileCount,
		BytesWritten: meta.BytesWritten,
		TimestampUTC: timestamp.UTC().Format(time.RFC3339),
	}
}
