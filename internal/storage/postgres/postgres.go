package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"

	"camGateway/internal/config"
	"camGateway/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

//go:embed migrations
var migrationsFS embed.FS

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = runMigrations(dbCfg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{DB: db}, nil
}

func runMigrations(dbCfg *config.Database) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(dbCfg.User),
		url.QueryEscape(dbCfg.Password),
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// SaveImage inserts a metadata record for an already-stored object and returns
// the record with the assigned id and creation timestamp.
func (s *Storage) SaveImage(ctx context.Context, rec models.ImageRecord) (*models.ImageRecord, error) {
	const op = "storage.postgres.SaveImage"

	imageID := uuid.New()

	query := `
        INSERT INTO images (id, device_id, url, public_id, width, height, bytes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, device_id, url, public_id, width, height, bytes, created_at`

	var saved models.ImageRecord

	err := s.DB.QueryRowContext(ctx, query,
		imageID,
		rec.DeviceID,
		rec.URL,
		rec.PublicID,
		rec.Width,
		rec.Height,
		rec.Bytes,
	).Scan(
		&saved.ID,
		&saved.DeviceID,
		&saved.URL,
		&saved.PublicID,
		&saved.Width,
		&saved.Height,
		&saved.Bytes,
		&saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &saved, nil
}

// ListImages returns up to limit records, newest first. An empty deviceID
// matches all devices.
func (s *Storage) ListImages(ctx context.Context, deviceID string, limit int) ([]models.ImageRecord, error) {
	const op = "storage.postgres.ListImages"

	query := `
        SELECT id, device_id, url, public_id, width, height, bytes, created_at
        FROM images
        WHERE ($1 = '' OR device_id = $1)
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := s.DB.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	images := make([]models.ImageRecord, 0, limit)

	for rows.Next() {
		var rec models.ImageRecord

		err = rows.Scan(
			&rec.ID,
			&rec.DeviceID,
			&rec.URL,
			&rec.PublicID,
			&rec.Width,
			&rec.Height,
			&rec.Bytes,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		images = append(images, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
