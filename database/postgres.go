package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autotrip/models"

	"github.com/phuslu/log"

	_ "github.com/lib/pq"
)

// PostgresStore keeps sessions in the planning_sessions table.
type PostgresStore struct {
	db *sql.DB
}

// ─── Init ─────────────────────────────────────────────────────────────────────

// OpenPostgres connects, waits for the database to come up and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// managed databases can take a moment to accept connections
	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		log.Warn().Int("attempt", i+1).Err(err).Msg("⏳ Waiting for database...")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database after retries: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("✅ Database connected and migrated")
	return s, nil
}

// ─── Migrations ───────────────────────────────────────────────────────────────

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS planning_sessions (
		id                TEXT PRIMARY KEY,
		step              INTEGER NOT NULL DEFAULT 1,
		request           JSONB NOT NULL,
		selected_hotel_id TEXT NOT NULL DEFAULT '',
		itinerary         JSONB,
		itinerary_status  TEXT NOT NULL DEFAULT 'idle',
		itinerary_error   TEXT NOT NULL DEFAULT '',
		trip_id           TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ DEFAULT NOW(),
		updated_at        TIMESTAMPTZ DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_planning_sessions_updated_at
		ON planning_sessions(updated_at DESC)`,
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func (s *PostgresStore) Create(ctx context.Context, sess *Session) error {
	request, itinerary, err := encodeSession(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO planning_sessions
			(id, step, request, selected_hotel_id, itinerary, itinerary_status, itinerary_error, trip_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sess.ID, sess.Step, request, sess.SelectedHotelID, itinerary,
		sess.ItineraryStatus, sess.ItineraryError, sess.TripID, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	var request []byte
	var itinerary []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, step, request, selected_hotel_id, itinerary, itinerary_status, itinerary_error, trip_id, created_at, updated_at
		FROM planning_sessions WHERE id = $1`, id).
		Scan(&sess.ID, &sess.Step, &request, &sess.SelectedHotelID, &itinerary,
			&sess.ItineraryStatus, &sess.ItineraryError, &sess.TripID, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if err := json.Unmarshal(request, &sess.Request); err != nil {
		return nil, fmt.Errorf("decode session request: %w", err)
	}
	if len(itinerary) > 0 {
		if err := json.Unmarshal(itinerary, &sess.Itinerary); err != nil {
			return nil, fmt.Errorf("decode session itinerary: %w", err)
		}
	}
	return sess, nil
}

func (s *PostgresStore) Update(ctx context.Context, sess *Session) error {
	request, itinerary, err := encodeSession(sess)
	if err != nil {
		return err
	}
	sess.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE planning_sessions
		SET step = $2, request = $3, selected_hotel_id = $4, itinerary = $5,
			itinerary_status = $6, itinerary_error = $7, trip_id = $8, updated_at = $9
		WHERE id = $1`,
		sess.ID, sess.Step, request, sess.SelectedHotelID, itinerary,
		sess.ItineraryStatus, sess.ItineraryError, sess.TripID, sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateItinerary(ctx context.Context, id, status, errMsg string, it *models.Itinerary) error {
	itinerary, err := encodeItinerary(it)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE planning_sessions
		SET itinerary = $2, itinerary_status = $3, itinerary_error = $4, updated_at = $5
		WHERE id = $1`,
		id, itinerary, status, errMsg, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update session itinerary: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Kind() string { return "postgres" }

// ─── Helpers ──────────────────────────────────────────────────────────────────

// encodeSession returns the JSONB parameters as text; lib/pq sends []byte as
// bytea. A missing itinerary is stored as NULL.
func encodeSession(sess *Session) (string, any, error) {
	request, err := json.Marshal(sess.Request)
	if err != nil {
		return "", nil, fmt.Errorf("encode session request: %w", err)
	}
	itinerary, err := encodeItinerary(sess.Itinerary)
	if err != nil {
		return "", nil, err
	}
	return string(request), itinerary, nil
}

// encodeItinerary returns the JSONB text, or nil for NULL.
func encodeItinerary(it *models.Itinerary) (any, error) {
	if it == nil {
		return nil, nil
	}
	data, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("encode session itinerary: %w", err)
	}
	return string(data), nil
}
