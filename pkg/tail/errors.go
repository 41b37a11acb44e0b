package tail

import (
	"fmt"

	"github.com/bft-labs/logtail/internal/domain"
)

// ErrInterrupted is matched by the error Next and Run return once their
// context ends.
var ErrInterrupted = domain.ErrInterrupted

// CreateError reports that PolicyCreate could not create the target file.
type CreateError struct {
	Path string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create log file %s: %v", e.Path, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }
