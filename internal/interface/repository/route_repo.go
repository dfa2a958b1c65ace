package repository

import (
	"context"
	"time"

	"tripdocs-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRouteRepository implements the RouteRepository interface
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM flight route repository
func NewGormRouteRepository(db *gorm.DB) repository.RouteRepository {
	return &GormRouteRepository{
		db: db,
	}
}

// FlightRoutes GORM model for database mapping
type FlightRoutes struct {
	gorm.Model
	ID              uint           `gorm:"primaryKey"`
	Origin          string         `gorm:"column:origin"`
	Destination     string         `gorm:"column:destination"`
	DurationMinutes int            `gorm:"column:duration_minutes"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (FlightRoutes) TableName() string {
	return "m_flight_routes"
}

// GetDuration finds the flight duration for an origin/destination pair,
// trying the reversed pair before giving up
func (r *GormRouteRepository) GetDuration(ctx context.Context, originCode, destinationCode string) (time.Duration, error) {
	var route FlightRoutes
	result := r.db.WithContext(ctx).Unscoped().
		Where("origin = ? AND destination = ?", originCode, destinationCode).
		First(&route)

	if result.Error == gorm.ErrRecordNotFound {
		result = r.db.WithContext(ctx).Unscoped().
			Where("origin = ? AND destination = ?", destinationCode, originCode).
			First(&route)
	}

	if result.Error != nil {
		return 0, result.Error
	}

	return time.Duration(route.DurationMinutes) * time.Minute, nil
}
