package repository

import (
	"context"

	"tripdocs-service/internal/domain/entity"
)

// TripBatchWriter persists one processing run's records as a single atomic
// batch: the parent document's type update plus every child flight leg or
// accommodation with its nested places. Either all records commit or none.
type TripBatchWriter interface {
	CommitBatch(ctx context.Context, batch *entity.TripBatch) error
}
