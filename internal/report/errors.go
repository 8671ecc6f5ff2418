package report

import (
	"errors"
	"fmt"
)

// ErrUndefined marks a statistic that has no defined value for the matched
// rows (correlation over fewer than two rows or a zero-variance series,
// median over an empty subset). Reports return it instead of NaN or 0.
var ErrUndefined = errors.New("statistic undefined")

// ConversionError reports text content that could not be converted to a
// number. The policy is to fail the report rather than coerce to null or
// zero, so bad exports surface instead of skewing averages.
type ConversionError struct {
	Column string
	Value  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s value %q: %v", e.Column, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
