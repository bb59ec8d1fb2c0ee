package pkg

import "errors"

// Save-media errors.
var (
	// ErrNoMedia indicates no save media backend has been registered.
	ErrNoMedia = errors.New("no save media")

	// ErrWrite indicates data failed to commit to save media.
	ErrWrite = errors.New("save media write failed")

	// ErrTimeout indicates a save media operation timed out.
	ErrTimeout = errors.New("save media operation timed out")

	// ErrOutOfBounds indicates an access outside the valid media range.
	ErrOutOfBounds = errors.New("save media access out of bounds")

	// ErrMediaInUse indicates the media is held by another session.
	ErrMediaInUse = errors.New("save media in use")

	// ErrIncompatibleCommand indicates a command the installed media
	// does not support.
	ErrIncompatibleCommand = errors.New("incompatible save media command")
)

// Status represents the completion status of a save media operation,
// as reported by a backend or carried over the serial bridge protocol.
//
// The numeric values are part of the bridge wire protocol and must not
// be reordered.
type Status int

// Operation status values.
const (
	StatusSuccess     Status = iota // Operation completed successfully
	StatusWriteFailed               // Data failed to commit
	StatusTimeout                   // Operation timed out
	StatusOutOfBounds               // Access outside valid media range
	StatusBadCommand                // Command not supported by media
	StatusNoMedia                   // No media attached
)

// String returns a string representation of the operation status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusWriteFailed:
		return "write failed"
	case StatusTimeout:
		return "timeout"
	case StatusOutOfBounds:
		return "out of bounds"
	case StatusBadCommand:
		return "bad command"
	case StatusNoMedia:
		return "no media"
	default:
		return "unknown"
	}
}

// Error returns the corresponding error for the operation status.
func (s Status) Error() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusWriteFailed:
		return ErrWrite
	case StatusTimeout:
		return ErrTimeout
	case StatusOutOfBounds:
		return ErrOutOfBounds
	case StatusBadCommand:
		return ErrIncompatibleCommand
	case StatusNoMedia:
		return ErrNoMedia
	default:
		return ErrIncompatibleCommand
	}
}
