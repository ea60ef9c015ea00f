package repository

import (
	"context"

	"weather-api/internal/domain"
)

// WeatherRepository defines persistence operations for weather records.
type WeatherRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, record *domain.WeatherRecord) (int64, error)
	Get(ctx context.Context, id int64) (*domain.WeatherRecord, error)
	// List returns all records ordered by (date ascending, city ascending).
	List(ctx context.Context) ([]domain.WeatherRecord, error)
	Update(ctx context.Context, record *domain.WeatherRecord) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	// BulkInsert writes all records in one transaction; on error nothing
	// is committed.
	BulkInsert(ctx context.Context, records []domain.WeatherRecord) error
}
