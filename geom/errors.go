package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate is matched by InvalidCoordinateError.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInsufficientPoints is matched by InsufficientPointsError.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrDegenerateInput is matched by DegenerateInputError.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrDimensionMismatch is matched by DimensionMismatchError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidDimension is returned for dimensions below MinDimension.
	ErrInvalidDimension = errors.New("invalid dimension")
)

// MinDimension is the smallest supported point dimension.
const MinDimension = 2

// InvalidCoordinateError reports a NaN or infinite coordinate.
type InvalidCoordinateError struct {
	Index int // Index the point would have received
	Axis  int
	Value float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: point %d axis %d is %v", e.Index, e.Axis, e.Value)
}

// Is reports whether target is ErrInvalidCoordinate.
func (e *InvalidCoordinateError) Is(target error) bool { return target == ErrInvalidCoordinate }

// InsufficientPointsError reports that fewer than Dimension+1 points were given.
type InsufficientPointsError struct {
	Dimension int
	Count     int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need at least %d in %d dimensions, got %d",
		e.Dimension+1, e.Dimension, e.Count)
}

// Is reports whether target is ErrInsufficientPoints.
func (e *InsufficientPointsError) Is(target error) bool { return target == ErrInsufficientPoints }

// DegenerateInputError reports an input whose convex hull has zero volume, or a
// configuration the construction could not resolve numerically.
type DegenerateInputError struct {
	Dimension int
	Rank      int // affine rank that was found
	Reason    string
}

func (e *DegenerateInputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("degenerate input: %s (dimension %d, affine rank %d)", e.Reason, e.Dimension, e.Rank)
	}
	return fmt.Sprintf("degenerate input: affine rank %d in %d dimensions", e.Rank, e.Dimension)
}

// Is reports whether target is ErrDegenerateInput.
func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// DimensionMismatchError reports a point or query of the wrong length.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }
