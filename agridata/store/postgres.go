// Package store provides database-backed agridata.Provider implementations:
// PostgreSQL for a relational layout with an in-database join, MongoDB for a
// single collection of pre-joined documents.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/config"
)

// PostgresProvider implements agridata.Provider on PostgreSQL. Production
// and climate rows live in separate tables and Query joins them server-side.
type PostgresProvider struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns default PostgreSQL configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "krishiq",
		SSLMode:  "disable",
	}
}

// Validate checks the configuration before connecting.
func (c *PostgresConfig) Validate() error {
	return config.ValidatePostgresConfig(c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgresProvider connects to PostgreSQL and bootstraps the schema.
func NewPostgresProvider(cfg *PostgresConfig) (*PostgresProvider, error) {
	if cfg == nil {
		cfg = DefaultPostgresConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL config: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	p := &PostgresProvider{db: db}
	if err := p.createTables(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return p, nil
}

// createTables creates the production and climate tables if they don't
// exist. The serial id keeps insertion order so Query output is stable.
func (p *PostgresProvider) createTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS agri_production (
		id BIGSERIAL PRIMARY KEY,
		state TEXT NOT NULL,
		district TEXT NOT NULL,
		crop TEXT NOT NULL,
		season TEXT NOT NULL DEFAULT '',
		year INT NOT NULL,
		area_hectares DOUBLE PRECISION NOT NULL DEFAULT 0,
		yield_tonnes_per_ha DOUBLE PRECISION NOT NULL DEFAULT 0,
		production_tonnes DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT '',
		dataset TEXT NOT NULL DEFAULT '',
		UNIQUE (state, district, crop, season, year)
	);
	CREATE INDEX IF NOT EXISTS idx_agri_production_state_year ON agri_production(state, year);

	CREATE TABLE IF NOT EXISTS climate_observations (
		id BIGSERIAL PRIMARY KEY,
		state TEXT NOT NULL,
		district TEXT NOT NULL,
		year INT NOT NULL,
		avg_temperature_c DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_rainfall_mm DOUBLE PRECISION NOT NULL DEFAULT 0,
		humidity_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT '',
		dataset TEXT NOT NULL DEFAULT '',
		UNIQUE (state, district, year)
	);
	CREATE INDEX IF NOT EXISTS idx_climate_observations_state_year ON climate_observations(state, year);
	`

	_, err := p.db.ExecContext(ctx, query)
	return err
}

// AddProduction upserts production rows keyed by state, district, crop,
// season, and year.
func (p *PostgresProvider) AddProduction(ctx context.Context, rows ...agridata.Production) error {
	query := `
	INSERT INTO agri_production
		(state, district, crop, season, year, area_hectares, yield_tonnes_per_ha, production_tonnes, source, dataset)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (state, district, crop, season, year) DO UPDATE SET
		area_hectares = EXCLUDED.area_hectares,
		yield_tonnes_per_ha = EXCLUDED.yield_tonnes_per_ha,
		production_tonnes = EXCLUDED.production_tonnes,
		source = EXCLUDED.source,
		dataset = EXCLUDED.dataset
	`

	for _, r := range rows {
		_, err := p.db.ExecContext(ctx, query,
			r.State, r.District, r.Crop, r.Season, r.Year,
			r.AreaHectares, r.YieldTonnesPerHa, r.ProductionTonnes,
			r.Source, r.Dataset,
		)
		if err != nil {
			return fmt.Errorf("failed to add production row: %w", err)
		}
	}
	return nil
}

// AddClimate upserts climate rows keyed by state, district, and year.
func (p *PostgresProvider) AddClimate(ctx context.Context, rows ...agridata.Climate) error {
	query := `
	INSERT INTO climate_observations
		(state, district, year, avg_temperature_c, total_rainfall_mm, humidity_percent, source, dataset)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (state, district, year) DO UPDATE SET
		avg_temperature_c = EXCLUDED.avg_temperature_c,
		total_rainfall_mm = EXCLUDED.total_rainfall_mm,
		humidity_percent = EXCLUDED.humidity_percent,
		source = EXCLUDED.source,
		dataset = EXCLUDED.dataset
	`

	for _, r := range rows {
		_, err := p.db.ExecContext(ctx, query,
			r.State, r.District, r.Year,
			r.AvgTemperatureC, r.TotalRainfallMM, r.HumidityPercent,
			r.Source, r.Dataset,
		)
		if err != nil {
			return fmt.Errorf("failed to add climate row: %w", err)
		}
	}
	return nil
}

// Query joins the two tables on state, district, and year and returns the
// records matching f in production insertion order. Filters compare
// case-insensitively; a NULL array parameter disables that constraint.
func (p *PostgresProvider) Query(ctx context.Context, f agridata.Filter) ([]agridata.Record, error) {
	query := `
	SELECT p.state, p.district, p.year, p.crop, p.season,
	       p.area_hectares, p.yield_tonnes_per_ha, p.production_tonnes,
	       c.avg_temperature_c, c.total_rainfall_mm, c.humidity_percent,
	       p.source, p.dataset, c.source, c.dataset
	FROM agri_production p
	JOIN climate_observations c
	  ON LOWER(p.state) = LOWER(c.state)
	 AND LOWER(p.district) = LOWER(c.district)
	 AND p.year = c.year
	WHERE ($1::text[] IS NULL OR LOWER(p.state) = ANY($1))
	  AND ($2::text[] IS NULL OR LOWER(p.crop) = ANY($2))
	  AND ($3::bigint[] IS NULL OR p.year = ANY($3))
	  AND ($4::text[] IS NULL OR LOWER(p.district) = ANY($4))
	ORDER BY p.id
	`

	rows, err := p.db.QueryContext(ctx, query,
		lowerArray(f.States), lowerArray(f.Crops), intArray(f.Years), lowerArray(f.Districts))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []agridata.Record
	for rows.Next() {
		var r agridata.Record
		err := rows.Scan(
			&r.State, &r.District, &r.Year, &r.Crop, &r.Season,
			&r.AreaHectares, &r.YieldTonnesPerHa, &r.ProductionTonnes,
			&r.AvgTemperatureC, &r.TotalRainfallMM, &r.HumidityPercent,
			&r.AgriSource, &r.AgriDataset, &r.ClimateSource, &r.ClimateDataset,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Clear removes all rows from both tables.
func (p *PostgresProvider) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM agri_production"); err != nil {
		return fmt.Errorf("failed to clear production rows: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, "DELETE FROM climate_observations"); err != nil {
		return fmt.Errorf("failed to clear climate rows: %w", err)
	}
	return nil
}

// Close closes the PostgreSQL connection.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

// Ping checks if the PostgreSQL connection is alive.
func (p *PostgresProvider) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

var _ agridata.Provider = (*PostgresProvider)(nil)

// lowerArray lowercases values for the case-insensitive ANY comparisons,
// returning nil (SQL NULL) when the filter is empty.
func lowerArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return pq.Array(lowered)
}

func intArray(values []int) interface{} {
	if len(values) == 0 {
		return nil
	}
	converted := make([]int64, len(values))
	for i, v := range values {
		converted[i] = int64(v)
	}
	return pq.Array(converted)
}
