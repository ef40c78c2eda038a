package gorast

import (
	"errors"
	"fmt"
)

// ErrNoEngine is returned when no raster engine backend has been installed
// with RegisterEngine.
var ErrNoEngine = errors.New("no raster engine registered")

// ErrorCategory classifies engine diagnostics
type ErrorCategory int

const (
	// CE_None is not an error
	CE_None ErrorCategory = iota
	// CE_Debug is a debug level
	CE_Debug
	// CE_Warning is a warning level
	CE_Warning
	// CE_Failure is an error
	CE_Failure
	// CE_Fatal is an unrecoverable error
	CE_Fatal
)

// UnsupportedPixelTypeError is returned when a raster or dataset carries a
// pixel type that cannot be carried across the bridge, in either direction.
// It is surfaced before any native allocation occurs.
type UnsupportedPixelTypeError struct {
	Type fmt.Stringer
}

func (e *UnsupportedPixelTypeError) Error() string {
	return fmt.Sprintf("unsupported pixel type %s", e.Type)
}

// DatasetOpenError wraps a failure to open a dataset, keeping the requested
// identifier alongside the underlying cause.
type DatasetOpenError struct {
	Name string
	Err  error
}

func (e *DatasetOpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Name, e.Err)
}

func (e *DatasetOpenError) Unwrap() error { return e.Err }

// RasterWriteError is returned when the engine fails to produce an output
// dataset. It carries the engine's last error diagnostic, which is the
// authoritative description of what went wrong.
type RasterWriteError struct {
	Driver   string
	Dest     string
	Category ErrorCategory
	Code     int
	Message  string
}

func (e *RasterWriteError) Error() string {
	return fmt.Sprintf("write %s as %s: engine error %d: %s", e.Dest, e.Driver, e.Code, e.Message)
}

// TempFileCleanupError is returned when the temporary file staged for a
// stream destination could not be deleted after its content was copied out.
type TempFileCleanupError struct {
	Path string
	Err  error
}

func (e *TempFileCleanupError) Error() string {
	return fmt.Sprintf("remove temp file %s: %v", e.Path, e.Err)
}

func (e *TempFileCleanupError) Unwrap() error { return e.Err }

// InvalidDatasetError is returned when a nil or already closed dataset
// reaches an operation that requires a live handle.
type InvalidDatasetError struct {
	Op string
}

func (e *InvalidDatasetError) Error() string {
	return fmt.Sprintf("%s: invalid dataset", e.Op)
}
