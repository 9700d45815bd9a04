package sheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates the payload is not a recognised spreadsheet container
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrNoSheets indicates the workbook decoded but holds no sheets
var ErrNoSheets = errors.New("spreadsheet contains no sheets")

// DecodeError is returned when a spreadsheet payload cannot be turned into a Grid
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decoding spreadsheet: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s spreadsheet: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
