package histogram

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ValidationError so callers can test
// for configuration problems with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

type ValidationError struct {
	Context string
	Field   string
	Value   interface{}
	Reason  string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s value %v - %s", ve.Context, ve.Field, ve.Value, ve.Reason)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidateInterval checks that interval merges whole runs of intensity
// levels, i.e. that it is positive and divides 256.
func ValidateInterval(interval int) error {
	if interval < 1 || interval > Levels {
		return &ValidationError{
			Context: "histogram",
			Field:   "interval",
			Value:   interval,
			Reason:  fmt.Sprintf("must be between 1 and %d", Levels),
		}
	}

	if Levels%interval != 0 {
		return &ValidationError{
			Context: "histogram",
			Field:   "interval",
			Value:   interval,
			Reason:  fmt.Sprintf("must divide %d evenly", Levels),
		}
	}

	return nil
}

// ValidateGridCount accepts 0 (no spatial grid) or any positive count.
func ValidateGridCount(grid int) error {
	if grid < 0 {
		return &ValidationError{
			Context: "histogram",
			Field:   "grid_count",
			Value:   grid,
			Reason:  "must be 0 (no grid) or positive",
		}
	}
	return nil
}

func validateImage(img *Image, operation string) error {
	if img == nil {
		return fmt.Errorf("image is nil for operation: %s", operation)
	}

	if img.Width <= 0 || img.Height <= 0 {
		return &ValidationError{
			Context: operation,
			Field:   "dimensions",
			Value:   fmt.Sprintf("%dx%d", img.Width, img.Height),
			Reason:  "width and height must be positive",
		}
	}

	if len(img.Pix) != img.Width*img.Height*Channels {
		return fmt.Errorf("image pixel buffer has %d bytes, want %d for operation: %s",
			len(img.Pix), img.Width*img.Height*Channels, operation)
	}

	return nil
}
