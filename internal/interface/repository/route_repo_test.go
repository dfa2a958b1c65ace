package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRouteRepoWithMock(t *testing.T) (*GormRouteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return &GormRouteRepository{db: gormDB}, mock
}

func routeRows(minutes int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "origin", "destination", "duration_minutes"}).
		AddRow(1, "CCU", "BLR", minutes)
}

func TestGetDurationDirectHit(t *testing.T) {
	repo, mock := newRouteRepoWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM "m_flight_routes" WHERE origin = \$1 AND destination = \$2`).
		WithArgs("CCU", "BLR", 1).
		WillReturnRows(routeRows(150))

	d, err := repo.GetDuration(context.Background(), "CCU", "BLR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 150*time.Minute {
		t.Fatalf("expected 150m, got %v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetDurationTriesReversedPair(t *testing.T) {
	repo, mock := newRouteRepoWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM "m_flight_routes" WHERE origin = \$1 AND destination = \$2`).
		WithArgs("BLR", "CCU", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "duration_minutes"}))
	mock.ExpectQuery(`SELECT (.+) FROM "m_flight_routes" WHERE origin = \$1 AND destination = \$2`).
		WithArgs("CCU", "BLR", 1).
		WillReturnRows(routeRows(150))

	d, err := repo.GetDuration(context.Background(), "BLR", "CCU")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 150*time.Minute {
		t.Fatalf("expected 150m from reversed pair, got %v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetDurationUnknownRoute(t *testing.T) {
	repo, mock := newRouteRepoWithMock(t)

	empty := []string{"id", "origin", "destination", "duration_minutes"}
	mock.ExpectQuery(`SELECT (.+) FROM "m_flight_routes"`).
		WillReturnRows(sqlmock.NewRows(empty))
	mock.ExpectQuery(`SELECT (.+) FROM "m_flight_routes"`).
		WillReturnRows(sqlmock.NewRows(empty))

	if _, err := repo.GetDuration(context.Background(), "AAA", "ZZZ"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
