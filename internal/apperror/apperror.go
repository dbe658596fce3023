// Package apperror carries per-company-code failures through a batch run.
// A failure names the code and the stage that failed so the CLI can report
// it without aborting the remaining codes.
package apperror

import "fmt"

// Stage identifies the processing step that failed for a company code.
type Stage string

const (
	StageScrape  Stage = "scrape"
	StageParse   Stage = "parse"
	StageHistory Stage = "history"
	StagePersist Stage = "persist"
)

// Error is a non-fatal per-code failure.
type Error struct {
	CompanyCode string
	Stage       Stage
	Err         error
}

func New(code string, stage Stage, err error) *Error {
	return &Error{CompanyCode: code, Stage: stage, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.CompanyCode, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
