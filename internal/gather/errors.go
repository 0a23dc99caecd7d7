package gather

import "fmt"

// GlobError reports an invalid user-supplied glob pattern. A single bad
// pattern aborts the whole gather before any traversal begins.
type GlobError struct {
	Pattern   string
	Processed string
	Err       error
}

func (globError *GlobError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q (processed as %q): %v",
		globError.Pattern, globError.Processed, globError.Err)
}

func (globError *GlobError) Unwrap() error {
	return globError.Err
}

// FileReadError reports an I/O failure on one selected file. It is collected
// as a warning; the rest of the batch still completes.
type FileReadError struct {
	Path string
	Err  error
}

func (readError *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %q: %v", readError.Path, readError.Err)
}

func (readError *FileReadError) Unwrap() error {
	return readError.Err
}

// TreeConflictError reports a structural clash while assembling the tree:
// a path attempted to descend through a component already recorded as a file.
// The offending insertion is skipped; assembly continues for other paths.
type TreeConflictError struct {
	Path      string
	Component string
}

func (conflictError *TreeConflictError) Error() string {
	return fmt.Sprintf("tree conflict for path %q: cannot create children within file component %q",
		conflictError.Path, conflictError.Component)
}
