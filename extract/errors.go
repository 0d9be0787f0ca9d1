package extract

import "github.com/pkg/errors"

// Sentinel error kinds. Each is wrapped with call-site context via
// github.com/pkg/errors and unwrapped with errors.Cause.
var (
	// ErrSourceOpen is returned when a Cursor cannot be opened or bound to
	// its requested columns.
	ErrSourceOpen = errors.New("sra: cannot open source")
	// ErrSourceRead is returned on a mid-stream cell decode error.
	ErrSourceRead = errors.New("sra: source read failed")
	// ErrInvalidSpot is returned when a spot fails an I1/I2 invariant and
	// JoinOptions.TerminateOnInvalid is set.
	ErrInvalidSpot = errors.New("sra: invalid spot")
	// ErrWriteFail is returned on any writer I/O failure.
	ErrWriteFail = errors.New("sra: write failed")
	// ErrAllocFail is returned on allocation failure in a worker.
	ErrAllocFail = errors.New("sra: allocation failed")
)
