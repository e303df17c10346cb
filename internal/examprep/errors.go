package examprep

import "fmt"

// SkipRecord explains why one source file contributed no content.
type SkipRecord struct {
	FilePath string `json:"filePath"`
	Reason   string `json:"reason"`
}

// UnsupportedContentError reports that no file in the batch yielded usable
// content. Generation must not run on zero content, so this is a hard stop.
type UnsupportedContentError struct {
	Skipped []SkipRecord
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("no usable content in %d file(s)", len(e.Skipped))
}

// ModuleBusyError reports that another request holds the module's processing
// lock.
type ModuleBusyError struct{}

func (e *ModuleBusyError) Error() string { return "module is already being processed" }

// StageError tags a pipeline failure with the checkpoint it occurred at, a
// coarse execution-trace breadcrumb for error responses.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }
