package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/roguehammer/internal/game/stats"
	"github.com/cory-johannsen/roguehammer/internal/game/world"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one finished run as stored in the runs table.
type RunRecord struct {
	ID        uuid.UUID
	Layout    string
	Outcome   world.Outcome
	Seed      uint64
	Frames    int
	Summary   stats.Summary
	CreatedAt time.Time
}

// NewRunRecord builds a record for res with a fresh ID.
func NewRunRecord(res world.Result, seed uint64) RunRecord {
	return RunRecord{
		ID:      uuid.New(),
		Layout:  res.Layout,
		Outcome: res.Outcome,
		Seed:    seed,
		Frames:  res.Frames,
		Summary: res.Summary,
	}
}

// RunRepository persists run history.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, layout, outcome, seed, frames,
	enemies_killed, damage_dealt, damage_taken, rooms_cleared,
	bullets_fired, bullets_hit, items, coins, created_at`

// Save inserts rec.
//
// Precondition: rec.ID must be set and unique.
// Postcondition: Returns rec with CreatedAt set by the database.
func (r *RunRepository) Save(ctx context.Context, rec RunRecord) (RunRecord, error) {
	s := rec.Summary
	err := r.db.QueryRow(ctx,
		`INSERT INTO runs (id, layout, outcome, seed, frames,
			enemies_killed, damage_dealt, damage_taken, rooms_cleared,
			bullets_fired, bullets_hit, items, coins)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at`,
		rec.ID, rec.Layout, string(rec.Outcome), int64(rec.Seed), rec.Frames,
		s.EnemiesKilled, s.DamageDealt, s.DamageTaken, s.RoomsCleared,
		s.BulletsFired, s.BulletsHit, s.ItemsCollected, s.Coins,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("inserting run %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Get retrieves a run by ID.
//
// Postcondition: Returns ErrRunNotFound if no run has that ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RunRecord{}, ErrRunNotFound
		}
		return RunRecord{}, fmt.Errorf("querying run %s: %w", id, err)
	}
	return rec, nil
}

// Recent returns up to limit runs, newest first.
//
// Precondition: limit must be positive.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

func scanRun(row pgx.Row) (RunRecord, error) {
	var (
		rec     RunRecord
		outcome string
		seed    int64
	)
	s := &rec.Summary
	err := row.Scan(&rec.ID, &rec.Layout, &outcome, &seed, &rec.Frames,
		&s.EnemiesKilled, &s.DamageDealt, &s.DamageTaken, &s.RoomsCleared,
		&s.BulletsFired, &s.BulletsHit, &s.ItemsCollected, &s.Coins, &rec.CreatedAt)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Outcome = world.Outcome(outcome)
	rec.Seed = uint64(seed)
	return rec, nil
}
