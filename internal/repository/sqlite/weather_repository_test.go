package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"weather-api/internal/domain"
	"weather-api/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testWeatherRepo(t *testing.T) repository.WeatherRepository {
	t.Helper()
	repo := NewWeatherRepository(openTestDB(t))
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init weather repository: %v", err)
	}
	return repo
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestWeatherRepository_CreateAndGet(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	record := &domain.WeatherRecord{CityName: "Paris", Date: day(14), Temperature: 6.0}
	id, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CityName != "Paris" || !got.Date.Equal(day(14)) || got.Temperature != 6.0 {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestWeatherRepository_ListOrdering(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	for _, r := range []domain.WeatherRecord{
		{CityName: "Tokyo", Date: day(15), Temperature: 13.0},
		{CityName: "Paris", Date: day(14), Temperature: 6.0},
		{CityName: "London", Date: day(14), Temperature: 8.0},
		{CityName: "New York", Date: day(14), Temperature: 5.0},
	} {
		record := r
		if _, err := repo.Create(ctx, &record); err != nil {
			t.Fatalf("create %s: %v", r.CityName, err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"London", "New York", "Paris", "Tokyo"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, city := range want {
		if records[i].CityName != city {
			t.Errorf("position %d: expected %s, got %s", i, city, records[i].CityName)
		}
	}
	if !records[3].Date.Equal(day(15)) {
		t.Errorf("later date should sort last, got %v", records[3].Date)
	}
}

func TestWeatherRepository_DuplicateCityDateAllowed(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		record := &domain.WeatherRecord{CityName: "Paris", Date: day(14), Temperature: float64(i)}
		if _, err := repo.Create(ctx, record); err != nil {
			t.Fatalf("create duplicate %d: %v", i, err)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records, got %d", count)
	}
}

func TestWeatherRepository_Update(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	record := &domain.WeatherRecord{CityName: "Paris", Date: day(14), Temperature: 6.0}
	id, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Update(ctx, &domain.WeatherRecord{
		ID: id, CityName: "Lyon", Date: day(15), Temperature: 9.5,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CityName != "Lyon" || !got.Date.Equal(day(15)) || got.Temperature != 9.5 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestWeatherRepository_UpdateMissing(t *testing.T) {
	repo := testWeatherRepo(t)

	err := repo.Update(context.Background(), &domain.WeatherRecord{
		ID: 9999, CityName: "Nowhere", Date: day(14), Temperature: 0,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWeatherRepository_Delete(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	record := &domain.WeatherRecord{CityName: "Paris", Date: day(14), Temperature: 6.0}
	id, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a second delete, got %v", err)
	}
}

func TestWeatherRepository_BulkInsert(t *testing.T) {
	repo := testWeatherRepo(t)
	ctx := context.Background()

	records := []domain.WeatherRecord{
		{CityName: "Paris", Date: day(14), Temperature: 6.0},
		{CityName: "London", Date: day(14), Temperature: 8.0},
		{CityName: "Tokyo", Date: day(15), Temperature: 13.0},
	}
	if err := repo.BulkInsert(ctx, records); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(records)) {
		t.Errorf("expected %d records, got %d", len(records), count)
	}
}
