// Package core provides the case, journal and command execution framework
// for mobiletk.
package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Clock provides time functions for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

var caseNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateCaseName checks that a case name is non-empty and safe to use as a
// directory name under the acquisition root. Returns ErrInvalidName otherwise.
func ValidateCaseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if !caseNameRe.MatchString(name) {
		return fmt.Errorf("%q contains unsafe characters: %w", name, ErrInvalidName)
	}
	return nil
}

var unsafeArtifactChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeName cleans a device-side file name for use inside the case tree.
// Pulled artifacts keep their original name where possible; anything that
// could be problematic in a local path is replaced with underscores.
func SanitizeName(name string) string {
	name = unsafeArtifactChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "unnamed"
	}
	return name
}
