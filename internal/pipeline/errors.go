package pipeline

import (
	"errors"
	"fmt"

	"github.com/hyperjump/pdfsift/internal/scanner"
)

// ErrNotDirectory is matched when the configured path exists but is not a directory.
var ErrNotDirectory = scanner.ErrNotDirectory

// ErrDocumentNotFound is returned by Resolve for a name that is not a listed document.
var ErrDocumentNotFound = errors.New("document not found")

// ConfigurationError reports an unusable document directory. It is returned by New
// before any extraction is attempted.
type ConfigurationError struct {
	Dir string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid document directory %q: %v", e.Dir, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
