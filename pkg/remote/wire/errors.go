package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEnd indicates the bytes received do not end with END.
	ErrNoEnd = errors.New("missing end marker")
	// ErrShortFrame indicates fewer bytes than a frame were received.
	ErrShortFrame = errors.New("short frame")
	// ErrNoStart indicates the frame is not preceded by START.
	ErrNoStart = errors.New("missing start marker")
)

// FrameError reports a malformed frame with the bytes received.
type FrameError struct {
	Reason error
	Raw    []byte
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("bad frame % x: %v", e.Raw, e.Reason)
}

// Unwrap returns the reason.
func (e *FrameError) Unwrap() error {
	return e.Reason
}
