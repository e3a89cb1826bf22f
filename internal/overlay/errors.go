package overlay

import "errors"

// Validation failures. Render wraps them with the offending row; match with
// errors.Is.
var (
	ErrInvalidDataset  = errors.New("invalid dataset")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrInvalidCount    = errors.New("invalid count")
)

// reason names an error for the failure metric.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDataset):
		return "dataset"
	case errors.Is(err, ErrInvalidGeometry):
		return "geometry"
	case errors.Is(err, ErrInvalidCount):
		return "count"
	}
	return "other"
}
