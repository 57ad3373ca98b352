package config

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/shotchart/pkg/migrate"
	"github.com/chrissnell/shotchart/pkg/shotchart"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteProvider implements WritableProvider for a SQLite profile database
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (or creates) the database at dbPath and brings its
// schema up to date
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	return NewSQLiteProviderWithLogger(dbPath, nil)
}

// NewSQLiteProviderWithLogger is NewSQLiteProvider with migration progress
// logged to logger
func NewSQLiteProviderWithLogger(dbPath string, logger *zap.SugaredLogger) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// one connection keeps SQLite writers from contending for the file lock
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrationFiles, "migrations", ""), logger)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads every profile from the database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	profiles, err := s.GetProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &ConfigData{Profiles: profiles}, nil
}

// GetProfiles returns all profiles ordered by name
func (s *SQLiteProvider) GetProfiles() ([]ProfileData, error) {
	rows, err := s.db.Query(`SELECT id, name, prefer_fahrenheit FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []ProfileData
	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		var profile ProfileData
		var preferFahrenheit sql.NullBool

		if err := rows.Scan(&id, &profile.Name, &preferFahrenheit); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profile.PreferFahrenheit = fromNullBool(preferFahrenheit)

		index[id] = len(profiles)
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	settings, err := s.chartSettings("")
	if err != nil {
		return nil, err
	}
	for id, channels := range settings {
		if i, ok := index[id]; ok {
			profiles[i].ChartSettings = channels
		}
	}

	return profiles, nil
}

// GetProfile returns the profile called name
func (s *SQLiteProvider) GetProfile(name string) (*ProfileData, error) {
	var id int64
	var preferFahrenheit sql.NullBool

	err := s.db.QueryRow(`SELECT id, prefer_fahrenheit FROM profiles WHERE name = ?`, name).
		Scan(&id, &preferFahrenheit)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", name, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile %s: %w", name, err)
	}

	settings, err := s.chartSettings(name)
	if err != nil {
		return nil, err
	}

	return &ProfileData{
		Name:             name,
		PreferFahrenheit: fromNullBool(preferFahrenheit),
		ChartSettings:    settings[id],
	}, nil
}

// chartSettings loads chart settings keyed by profile id, limited to one
// profile when name is set
func (s *SQLiteProvider) chartSettings(name string) (map[int64]map[string]shotchart.Settings, error) {
	query := `
		SELECT cs.profile_id, cs.channel, cs.title, cs.color, cs.suffix,
		       cs.dashed, cs.hidden, cs.opacity, cs.series_type
		FROM chart_settings cs
		JOIN profiles p ON p.id = cs.profile_id
	`
	var args []interface{}
	if name != "" {
		query += " WHERE p.name = ?"
		args = append(args, name)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart settings: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]map[string]shotchart.Settings)
	for rows.Next() {
		var profileID int64
		var channel string
		var title, color, suffix, seriesType sql.NullString
		var dashed, hidden sql.NullBool
		var opacity sql.NullFloat64

		err := rows.Scan(&profileID, &channel, &title, &color, &suffix,
			&dashed, &hidden, &opacity, &seriesType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chart settings row: %w", err)
		}

		if result[profileID] == nil {
			result[profileID] = make(map[string]shotchart.Settings)
		}
		result[profileID][channel] = shotchart.Settings{
			Title:   fromNullString(title),
			Color:   fromNullString(color),
			Suffix:  fromNullString(suffix),
			Dashed:  fromNullBool(dashed),
			Hidden:  fromNullBool(hidden),
			Opacity: fromNullFloat64(opacity),
			Type:    fromNullString(seriesType),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chart settings: %w", err)
	}

	return result, nil
}

// IsReadOnly returns false for SQLite provider
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveProfile inserts or updates a profile and replaces its chart settings
// in one transaction
func (s *SQLiteProvider) SaveProfile(profile *ProfileData) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO profiles (name, prefer_fahrenheit, created_at, updated_at)
		VALUES (?, ?, datetime('now'), datetime('now'))
		ON CONFLICT(name) DO UPDATE SET
			prefer_fahrenheit = excluded.prefer_fahrenheit,
			updated_at = datetime('now')
	`, profile.Name, nullBool(profile.PreferFahrenheit))
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", profile.Name, err)
	}

	var profileID int64
	if err := tx.QueryRow(`SELECT id FROM profiles WHERE name = ?`, profile.Name).Scan(&profileID); err != nil {
		return fmt.Errorf("failed to get profile ID: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM chart_settings WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("failed to clear chart settings: %w", err)
	}

	channels := make([]string, 0, len(profile.ChartSettings))
	for channel := range profile.ChartSettings {
		channels = append(channels, channel)
	}
	sort.Strings(channels)

	for _, channel := range channels {
		if err := s.insertChartSettings(tx, profileID, channel, profile.ChartSettings[channel]); err != nil {
			return fmt.Errorf("failed to insert chart settings for %s: %w", channel, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) insertChartSettings(tx *sql.Tx, profileID int64, channel string, settings shotchart.Settings) error {
	query := `
		INSERT INTO chart_settings (
			profile_id, channel, title, color, suffix, dashed, hidden, opacity, series_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query,
		profileID, channel,
		nullString(settings.Title), nullString(settings.Color), nullString(settings.Suffix),
		nullBool(settings.Dashed), nullBool(settings.Hidden),
		nullFloat64(settings.Opacity), nullString(settings.Type),
	)
	return err
}

// DeleteProfile removes a profile and its chart settings
func (s *SQLiteProvider) DeleteProfile(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM chart_settings WHERE profile_id IN (SELECT id FROM profiles WHERE name = ?)`, name)
	if err != nil {
		return fmt.Errorf("failed to delete chart settings: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", name, ErrProfileNotFound)
	}

	return tx.Commit()
}

// Helper functions for handling nullable fields
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func fromNullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func fromNullFloat64(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
