// Package repo provides the gate repository implementation
package repo

import (
	"context"
	"time"

	perr "cargogate/internal/platform/errors"
	"cargogate/internal/platform/store"
	"cargogate/internal/services/gate/domain"

	"github.com/google/uuid"
)

// PG is the postgres-backed storage for verdicts and the block list
type PG struct {
	db store.RowQuerier
}

// NewPG constructs the repository over any querier (pool or tx)
func NewPG(db store.RowQuerier) *PG { return &PG{db: db} }

// InsertVerdict appends one audit row. The id is generated here when empty
func (r *PG) InsertVerdict(ctx context.Context, v domain.VerdictRecord) error {
	id := v.ID
	if id == "" {
		id = uuid.NewString()
	}
	at := v.CheckedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO verdicts
			(id, checked_at, sender_id, group_id, blocked, reason, term, is_dispatcher, auto_block)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, at, v.SenderID, v.GroupID, v.Blocked, v.Reason, v.Term, v.IsDispatcher, v.AutoBlock,
	)
	return perr.WrapIf(err, perr.ErrorCodeDB, "insert verdict")
}

// UpsertBlocked adds or refreshes a block list row. Re-blocking an already
// blocked sender keeps the original blocked_at and updates the reason
func (r *PG) UpsertBlocked(ctx context.Context, b domain.BlockedSender) error {
	at := b.BlockedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO blocked_senders (sender_id, reason, term, blocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sender_id) DO UPDATE
			SET reason = EXCLUDED.reason, term = EXCLUDED.term`,
		b.SenderID, b.Reason, b.Term, at,
	)
	return perr.WrapIf(err, perr.ErrorCodeDB, "upsert blocked sender")
}

// IsBlocked reports whether senderID is on the block list
func (r *PG) IsBlocked(ctx context.Context, senderID string) (bool, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM blocked_senders WHERE sender_id = $1`, senderID,
	).Scan(&n)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeDB, "blocklist lookup")
	}
	return n > 0, nil
}

// ListBlocked returns the block list, most recent first
func (r *PG) ListBlocked(ctx context.Context) ([]domain.BlockedSender, error) {
	return store.Many(ctx, r.db, func(row store.Row) (domain.BlockedSender, error) {
		var b domain.BlockedSender
		err := row.Scan(&b.SenderID, &b.Reason, &b.Term, &b.BlockedAt)
		return b, err
	}, `
		SELECT sender_id, reason, term, blocked_at
		FROM blocked_senders
		ORDER BY blocked_at DESC`)
}

// DeleteBlocked removes senderID from the block list and reports whether a
// row was actually deleted
func (r *PG) DeleteBlocked(ctx context.Context, senderID string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM blocked_senders WHERE sender_id = $1`, senderID)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeDB, "delete blocked sender")
	}
	return ct.RowsAffected() > 0, nil
}

// RecentVerdicts returns the newest audit rows, capped at limit
func (r *PG) RecentVerdicts(ctx context.Context, limit int) ([]domain.VerdictRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return store.Many(ctx, r.db, func(row store.Row) (domain.VerdictRecord, error) {
		var v domain.VerdictRecord
		err := row.Scan(
			&v.ID, &v.CheckedAt, &v.SenderID, &v.GroupID,
			&v.Blocked, &v.Reason, &v.Term, &v.IsDispatcher, &v.AutoBlock,
		)
		return v, err
	}, `
		SELECT id, checked_at, sender_id, group_id, blocked, reason, term, is_dispatcher, auto_block
		FROM verdicts
		ORDER BY checked_at DESC
		LIMIT $1`, limit)
}
