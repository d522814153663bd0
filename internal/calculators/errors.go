package calculators

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnregisteredVariant means no calculator is registered for an
	// (exposure class, credit status) pair. Fatal at selection time.
	ErrUnregisteredVariant = errors.New("no calculator registered for this exposure class and status")

	// ErrNotImplemented marks a registered placeholder variant. Invoking it
	// fails rather than silently producing zeros.
	ErrNotImplemented = errors.New("calculator variant is not implemented")
)

// RowIssue lists the validation problems of one exposure record.
type RowIssue struct {
	ExposureID string
	Issues     []string
}

// ValidationError aggregates every offending exposure found during input
// validation, not just the first, so one pass over the report fixes the file.
type ValidationError struct {
	Rows []RowIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		parts = append(parts, fmt.Sprintf("%s: %s", r.ExposureID, strings.Join(r.Issues, "; ")))
	}
	return fmt.Sprintf("validation failed for %d exposure(s): %s", len(e.Rows), strings.Join(parts, " | "))
}
