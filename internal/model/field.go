package model

import (
	"errors"
	"fmt"
)

// Field names a single numeric bar attribute for extraction queries.
type Field string

const (
	FieldOpen     Field = "open"
	FieldHigh     Field = "high"
	FieldLow      Field = "low"
	FieldClose    Field = "close"
	FieldVolume   Field = "volume"
	FieldAdjClose Field = "adjusted_close"
)

// ErrUnknownField is returned when a field name is not one of the
// recognized bar attributes.
var ErrUnknownField = errors.New("unknown bar field")

// Value extracts the named attribute from a bar.
func (f Field) Value(b Bar) (float64, error) {
	switch f {
	case FieldOpen:
		return b.Open, nil
	case FieldHigh:
		return b.High, nil
	case FieldLow:
		return b.Low, nil
	case FieldClose:
		return b.Close, nil
	case FieldVolume:
		return b.Volume, nil
	case FieldAdjClose:
		return b.AdjClose, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
}
