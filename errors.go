package delaunay

import (
	"errors"

	"github.com/hupe1980/delaunay/codec"
	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/internal/resource"
)

// Error types returned by Build. They match their sentinels via errors.Is
// and can be inspected with errors.As.
type (
	// InvalidCoordinateError reports a NaN or infinite coordinate.
	InvalidCoordinateError = geom.InvalidCoordinateError

	// InsufficientPointsError reports fewer than Dimension+1 points.
	InsufficientPointsError = geom.InsufficientPointsError

	// DegenerateInputError reports input whose hull has zero volume.
	DegenerateInputError = geom.DegenerateInputError

	// DimensionMismatchError reports points of differing dimension.
	DimensionMismatchError = geom.DimensionMismatchError
)

var (
	// ErrInvalidCoordinate is matched by InvalidCoordinateError.
	ErrInvalidCoordinate = geom.ErrInvalidCoordinate

	// ErrInsufficientPoints is matched by InsufficientPointsError.
	ErrInsufficientPoints = geom.ErrInsufficientPoints

	// ErrDegenerateInput is matched by DegenerateInputError.
	ErrDegenerateInput = geom.ErrDegenerateInput

	// ErrDimensionMismatch is matched by DimensionMismatchError.
	ErrDimensionMismatch = geom.ErrDimensionMismatch

	// ErrInvalidDimension is returned for points with fewer than two coordinates.
	ErrInvalidDimension = geom.ErrInvalidDimension

	// ErrMemoryLimitExceeded is returned when a build or load would exceed
	// the configured memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrCorruptSnapshot is returned by Load for snapshots that fail validation.
	ErrCorruptSnapshot = codec.ErrCorrupt

	// ErrNilStore is returned by Save and Load without a store.
	ErrNilStore = errors.New("delaunay: nil blob store")
)
