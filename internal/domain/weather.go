package domain

import "time"

// DateLayout is the day-granularity format used for record dates, both in
// the database and over the wire.
const DateLayout = "2006-01-02"

// WeatherRecord is one temperature observation for a city on a calendar day.
// Nothing prevents two records for the same (city, date) pair.
type WeatherRecord struct {
	ID          int64
	CityName    string
	Date        time.Time
	Temperature float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
