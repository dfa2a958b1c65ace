package repository

import (
	"context"
	"time"
)

// RouteRepository looks up known flight durations between two airports
type RouteRepository interface {
	// GetDuration returns the flight duration for an origin/destination
	// pair, or an error when the route is unknown
	GetDuration(ctx context.Context, originCode, destinationCode string) (time.Duration, error)
}
