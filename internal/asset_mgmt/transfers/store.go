package transfers

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/db"
)

// Store is implemented by the MySQL store and the memory store.
type Store interface {
	Insert(ctx context.Context, t *Transfer) error
	Get(ctx context.Context, id string) (*Transfer, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Transfer, error)
	List(ctx context.Context, f Filter) ([]Transfer, int64, error)
	// UpdateStatus writes t only if the stored status still equals expected;
	// otherwise it returns CONFLICT.
	UpdateStatus(ctx context.Context, t *Transfer, expected Status) error
	CountByStatus(ctx context.Context, st Status) (int64, error)
	HasForAsset(ctx context.Context, assetID string) (bool, error)

	// analytics
	MonthlyCounts(ctx context.Context, since time.Time) ([]MonthCount, error)
	Recent(ctx context.Context, limit int) ([]Transfer, error)
}

func errTransferNotFound(id string) error { return apperr.NotFoundf("transfer %s not found", id) }

var errLostRace = apperr.Conflict("transfer was modified concurrently")

type SQLStore struct{ db *sql.DB }

func NewSQLStore(conn *sql.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) conn(ctx context.Context) db.DBTX { return db.Conn(ctx, s.db) }

const selectTransfer = `
	SELECT transfer_id, asset_id, requester_id, from_user_id, from_location_id,
		to_user_id, to_location_id, approver_id, status, reason, notes, rejection_reason,
		requested_at, approved_at, completed_at, cancelled_at, updated_at
	FROM transfers`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(sc scanner) (*Transfer, error) {
	var t Transfer
	var notes, rejection sql.NullString
	var approved, completed, cancelled sql.NullTime
	if err := sc.Scan(
		&t.ID, &t.AssetID, &t.RequesterID, &t.FromUserID, &t.FromLocationID,
		&t.ToUserID, &t.ToLocationID, &t.ApproverID, &t.Status, &t.Reason, &notes, &rejection,
		&t.RequestedAt, &approved, &completed, &cancelled, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if rejection.Valid {
		t.RejectionReason = &rejection.String
	}
	for _, p := range []struct {
		src sql.NullTime
		dst **time.Time
	}{{approved, &t.ApprovedAt}, {completed, &t.CompletedAt}, {cancelled, &t.CancelledAt}} {
		if p.src.Valid {
			v := p.src.Time
			*p.dst = &v
		}
	}
	return &t, nil
}

func (s *SQLStore) Insert(ctx context.Context, t *Transfer) error {
	const q = `
	INSERT INTO transfers
	(transfer_id, asset_id, requester_id, from_user_id, from_location_id, to_user_id, to_location_id,
	 status, reason, notes, requested_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn(ctx).ExecContext(ctx, q,
		t.ID, t.AssetID, t.RequesterID, t.FromUserID, t.FromLocationID, t.ToUserID, t.ToLocationID,
		t.Status, t.Reason, t.Notes, t.RequestedAt, t.UpdatedAt,
	)
	return db.MapError(err, "transfer already exists", "asset does not exist")
}

func (s *SQLStore) get(ctx context.Context, q, id string) (*Transfer, error) {
	t, err := scanTransfer(s.conn(ctx).QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTransferNotFound(id)
	}
	return t, err
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Transfer, error) {
	return s.get(ctx, selectTransfer+` WHERE transfer_id = ?`, id)
}

// 呼び出し側の Tx 内でのみ意味がある
func (s *SQLStore) GetForUpdate(ctx context.Context, id string) (*Transfer, error) {
	return s.get(ctx, selectTransfer+` WHERE transfer_id = ? FOR UPDATE`, id)
}

func buildWhere(f Filter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if f.AssetID != nil {
		where += " AND asset_id = ?"
		args = append(args, *f.AssetID)
	}
	if f.RequesterID != nil {
		where += " AND requester_id = ?"
		args = append(args, *f.RequesterID)
	}
	if f.Status != nil {
		where += " AND status = ?"
		args = append(args, *f.Status)
	}
	return where, args
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Transfer, int64, error) {
	where, args := buildWhere(f)
	q := selectTransfer + where + " ORDER BY requested_at DESC, transfer_id DESC LIMIT ? OFFSET ?"
	list, err := s.query(ctx, q, append(args, f.Limit, f.Skip)...)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]Transfer, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// UpdateStatus は status を条件に含めた楽観的更新。0行なら競合に負けている
func (s *SQLStore) UpdateStatus(ctx context.Context, t *Transfer, expected Status) error {
	const q = `
	UPDATE transfers SET
		status = ?, approver_id = ?, notes = ?, rejection_reason = ?,
		approved_at = ?, completed_at = ?, cancelled_at = ?, updated_at = ?
	WHERE transfer_id = ? AND status = ?`
	res, err := s.conn(ctx).ExecContext(ctx, q,
		t.Status, t.ApproverID, t.Notes, t.RejectionReason,
		t.ApprovedAt, t.CompletedAt, t.CancelledAt, t.UpdatedAt,
		t.ID, expected,
	)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errLostRace
	}
	return nil
}

func (s *SQLStore) CountByStatus(ctx context.Context, st Status) (int64, error) {
	var n int64
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers WHERE status = ?`, st).Scan(&n)
	return n, err
}

func (s *SQLStore) HasForAsset(ctx context.Context, assetID string) (bool, error) {
	var one int
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM transfers WHERE asset_id = ? LIMIT 1`, assetID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLStore) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthCount, error) {
	const q = `
	SELECT DATE_FORMAT(requested_at, '%Y-%m') AS m, COUNT(*)
	FROM transfers
	WHERE requested_at >= ?
	GROUP BY m
	ORDER BY m`
	rows, err := s.conn(ctx).QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MonthCount{}
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Transfer, error) {
	return s.query(ctx, selectTransfer+` ORDER BY requested_at DESC, transfer_id DESC LIMIT ?`, limit)
}
