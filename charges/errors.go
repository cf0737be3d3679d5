package charges

import (
	"errors"
	"fmt"
	"math"
)

// ErrOpenTrade is returned when P&L is requested for a trade without an exit.
var ErrOpenTrade = errors.New("trade is open: no exit price")

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field string
	Value any
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Msg)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Msg: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Value: v, Msg: "must be greater than zero"}
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Msg: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Value: v, Msg: "must not be negative"}
	}
	return nil
}
