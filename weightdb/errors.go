package weightdb

import "fmt"

// ModelLoadError means the weight model could not be read or is malformed.
// It is fatal for a run.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("weight model: %v", e.Err)
	}
	return fmt.Sprintf("weight model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}
