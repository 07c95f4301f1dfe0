package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savishkar/mediakit/core"
	"github.com/savishkar/mediakit/rotation"
)

// Schema is the DDL for the rotation columns on the events table.  Slots are
// stored as a JSONB document so the whole rotation state updates as one row.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
    id                   TEXT PRIMARY KEY,
    qr_slots             JSONB NOT NULL DEFAULT '[]',
    current_qr_index     INT   NOT NULL DEFAULT 0,
    payment_qr_code      TEXT  NOT NULL DEFAULT '',
    payment_upi          TEXT  NOT NULL DEFAULT '',
    payment_account_name TEXT  NOT NULL DEFAULT ''
);`

// PG is the Postgres-backed Store.  RecordUsage wraps the whole
// read-modify-write in one transaction with a row lock, making concurrent
// increments on the same event serialize instead of overwriting each other.
type PG struct {
	db  *pgxpool.Pool
	log core.Logger
}

// NewPG creates a PG store over the given pool.  logger may be nil.
func NewPG(db *pgxpool.Pool, logger core.Logger) *PG {
	return &PG{db: db, log: core.OrNop(logger)}
}

// Init creates the events table if missing.
func (s *PG) Init(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (s *PG) GetActive(ctx context.Context, eventID string) (rotation.ActiveQR, error) {
	ev, err := s.load(ctx, s.db, eventID, false)
	if err != nil {
		return rotation.ActiveQR{}, err
	}
	active, err := rotation.ActiveSlot(ev)
	if err != nil {
		return fallback(s.log, eventID, ev, err)
	}
	return active, nil
}

func (s *PG) RecordUsage(ctx context.Context, eventID string) (rotation.ActiveQR, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return rotation.ActiveQR{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	ev, err := s.load(ctx, tx, eventID, true)
	if err != nil {
		return rotation.ActiveQR{}, err
	}

	switched, err := rotation.RecordUsage(ev)
	if err != nil {
		return fallback(s.log, eventID, ev, err)
	}

	slots, err := json.Marshal(ev.Slots)
	if err != nil {
		return rotation.ActiveQR{}, fmt.Errorf("marshal slots: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE events SET qr_slots = $1, current_qr_index = $2 WHERE id = $3`,
		slots, ev.ActiveIndex, eventID,
	); err != nil {
		return rotation.ActiveQR{}, fmt.Errorf("update event %s: %w", eventID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return rotation.ActiveQR{}, fmt.Errorf("commit: %w", err)
	}

	if switched {
		s.log.Info("rotation.switched", "event_id", eventID, "active_index", ev.ActiveIndex)
	}
	return rotation.ActiveSlot(ev)
}

// querier covers both pool and transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PG) load(ctx context.Context, q querier, eventID string, forUpdate bool) (*rotation.Event, error) {
	query := `SELECT qr_slots, current_qr_index, payment_qr_code, payment_upi, payment_account_name
	          FROM events WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var raw []byte
	ev := &rotation.Event{ID: eventID}
	err := q.QueryRow(ctx, query, eventID).Scan(
		&raw, &ev.ActiveIndex, &ev.LegacyQR, &ev.LegacyPaymentID, &ev.LegacyAccountLabel,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}
	if err := json.Unmarshal(raw, &ev.Slots); err != nil {
		return nil, fmt.Errorf("decode slots for event %s: %w", eventID, err)
	}
	return ev, nil
}
