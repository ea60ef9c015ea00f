package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weather-api/internal/domain"
	"weather-api/internal/repository"
)

const createWeatherTable = `
CREATE TABLE IF NOT EXISTS weather_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city_name TEXT NOT NULL,
	date TEXT NOT NULL,
	temperature REAL NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// dates are stored as ISO day strings so lexical order is chronological
var weatherIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_weather_records_city_name ON weather_records(city_name);`,
	`CREATE INDEX IF NOT EXISTS idx_weather_records_date ON weather_records(date);`,
}

type WeatherRepository struct {
	db *sql.DB
}

func NewWeatherRepository(db *sql.DB) repository.WeatherRepository {
	return &WeatherRepository{db: db}
}

func (r *WeatherRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createWeatherTable); err != nil {
		return fmt.Errorf("create weather_records table: %w", err)
	}
	for _, stmt := range weatherIndexes {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create weather_records index: %w", err)
		}
	}
	return nil
}

func (r *WeatherRepository) Create(ctx context.Context, record *domain.WeatherRecord) (int64, error) {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO weather_records (city_name, date, temperature, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		record.CityName,
		record.Date.Format(domain.DateLayout),
		record.Temperature,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert weather record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("weather record last insert id: %w", err)
	}
	record.ID = id
	return id, nil
}

func (r *WeatherRepository) Get(ctx context.Context, id int64) (*domain.WeatherRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, city_name, date, temperature, created_at, updated_at
FROM weather_records
WHERE id = ?`,
		id,
	)
	return scanWeatherRecord(row)
}

func (r *WeatherRepository) List(ctx context.Context) ([]domain.WeatherRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, city_name, date, temperature, created_at, updated_at
FROM weather_records
ORDER BY date, city_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list weather records: %w", err)
	}
	defer rows.Close()

	var records []domain.WeatherRecord
	for rows.Next() {
		record, err := scanWeatherRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weather records: %w", err)
	}
	return records, nil
}

func (r *WeatherRepository) Update(ctx context.Context, record *domain.WeatherRecord) error {
	record.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE weather_records
SET city_name = ?, date = ?, temperature = ?, updated_at = ?
WHERE id = ?`,
		record.CityName,
		record.Date.Format(domain.DateLayout),
		record.Temperature,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update weather record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update weather record rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("weather record %d: %w", record.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *WeatherRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weather_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete weather record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete weather record rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("weather record %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *WeatherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weather_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count weather records: %w", err)
	}
	return count, nil
}

func (r *WeatherRepository) BulkInsert(ctx context.Context, records []domain.WeatherRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range records {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO weather_records (city_name, date, temperature, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
			records[i].CityName,
			records[i].Date.Format(domain.DateLayout),
			records[i].Temperature,
			now,
			now,
		); err != nil {
			return fmt.Errorf("bulk insert weather record %q: %w", records[i].CityName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

func scanWeatherRecord(row interface {
	Scan(dest ...any) error
}) (*domain.WeatherRecord, error) {
	var (
		record  domain.WeatherRecord
		dateStr string
	)
	if err := row.Scan(
		&record.ID,
		&record.CityName,
		&dateStr,
		&record.Temperature,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("weather record: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan weather record: %w", err)
	}
	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse weather record date %q: %w", dateStr, err)
	}
	record.Date = date
	return &record, nil
}
