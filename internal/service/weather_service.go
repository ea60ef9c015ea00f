package service

import (
	"context"
	"errors"
	"time"

	"weather-api/internal/domain"
	"weather-api/internal/repository"
)

// WeatherService coordinates record level operations backed by the
// repository.
type WeatherService interface {
	Create(ctx context.Context, cityName string, date time.Time, temperature float64) (*domain.WeatherRecord, error)
	List(ctx context.Context) ([]domain.WeatherRecord, error)
	// Update fully replaces city/date/temperature of the record with the
	// given id and returns the stored row.
	Update(ctx context.Context, record *domain.WeatherRecord) (*domain.WeatherRecord, error)
	Delete(ctx context.Context, id int64) error
	// Seed loads the bootstrap data set when the table is empty and
	// returns the number of records written.
	Seed(ctx context.Context) (int, error)
}

type weatherService struct {
	records repository.WeatherRepository
}

func NewWeatherService(records repository.WeatherRepository) WeatherService {
	return &weatherService{records: records}
}

func (s *weatherService) Create(ctx context.Context, cityName string, date time.Time, temperature float64) (*domain.WeatherRecord, error) {
	if cityName == "" {
		return nil, errors.New("city name is required")
	}
	if date.IsZero() {
		return nil, errors.New("date is required")
	}

	record := &domain.WeatherRecord{
		CityName:    cityName,
		Date:        date,
		Temperature: temperature,
	}
	if _, err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *weatherService) List(ctx context.Context) ([]domain.WeatherRecord, error) {
	return s.records.List(ctx)
}

func (s *weatherService) Update(ctx context.Context, record *domain.WeatherRecord) (*domain.WeatherRecord, error) {
	if record.CityName == "" {
		return nil, errors.New("city name is required")
	}
	if record.Date.IsZero() {
		return nil, errors.New("date is required")
	}
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.records.Get(ctx, record.ID)
}

func (s *weatherService) Delete(ctx context.Context, id int64) error {
	return s.records.Delete(ctx, id)
}

func (s *weatherService) Seed(ctx context.Context) (int, error) {
	count, err := s.records.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	if err := s.records.BulkInsert(ctx, seedRecords()); err != nil {
		return 0, err
	}
	return len(seedRecords()), nil
}

func seedRecords() []domain.WeatherRecord {
	day := func(d int) time.Time {
		return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
	}
	return []domain.WeatherRecord{
		{CityName: "New York", Date: day(14), Temperature: 5.0},
		{CityName: "London", Date: day(14), Temperature: 8.0},
		{CityName: "Tokyo", Date: day(14), Temperature: 12.0},
		{CityName: "Paris", Date: day(14), Temperature: 6.0},
		{CityName: "New York", Date: day(15), Temperature: 7.0},
		{CityName: "London", Date: day(15), Temperature: 9.0},
		{CityName: "Tokyo", Date: day(15), Temperature: 13.0},
		{CityName: "Paris", Date: day(15), Temperature: 7.0},
		{CityName: "New York", Date: day(16), Temperature: 6.0},
		{CityName: "London", Date: day(16), Temperature: 10.0},
		{CityName: "Tokyo", Date: day(16), Temperature: 14.0},
		{CityName: "Paris", Date: day(16), Temperature: 8.0},
	}
}
