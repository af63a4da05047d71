package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/db"
)

// Store is implemented by the MySQL store and the memory store.
// Lookups of a missing asset return an apperr NOT_FOUND.
type Store interface {
	Insert(ctx context.Context, a *Asset) error
	Get(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context, f Filter) ([]Asset, int64, error)
	Update(ctx context.Context, a *Asset) error
	Delete(ctx context.Context, id string) error
	ApplyAssignment(ctx context.Context, id string, in Assignment, at time.Time) error
	SetStatus(ctx context.Context, id string, st Status, at time.Time) error
	SetLocation(ctx context.Context, id, locationID string, at time.Time) error
	SerialTaken(ctx context.Context, serial, exceptID string) (bool, error)
	TagTaken(ctx context.Context, tag, exceptID string) (bool, error)

	// analytics
	CountAssets(ctx context.Context, status *Status) (int64, error)
	GroupCounts(ctx context.Context, key GroupKey) ([]GroupCount, error)
	WarrantyExpiring(ctx context.Context, from, to time.Time) ([]Asset, error)
	RecentlyCreated(ctx context.Context, since time.Time, limit int) ([]Asset, error)
}

func errAssetNotFound(id string) error { return apperr.NotFoundf("asset %s not found", id) }

type SQLStore struct{ db *sql.DB }

func NewSQLStore(conn *sql.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) conn(ctx context.Context) db.DBTX { return db.Conn(ctx, s.db) }

const selectAsset = `
	SELECT a.asset_id, a.asset_tag, a.category, a.make, a.model, a.serial_number, a.os_version,
		a.purchase_date, a.warranty_expiry, a.notes, a.status,
		a.assigned_user_id, u.name, a.location_id, l.name, a.created_at, a.updated_at
	FROM assets a
	LEFT JOIN users u ON u.user_id = a.assigned_user_id
	LEFT JOIN locations l ON l.location_id = a.location_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(sc scanner) (*Asset, error) {
	var a Asset
	var tag, osv, notes, userName, locName sql.NullString
	var purchased, warranty sql.NullTime
	if err := sc.Scan(
		&a.ID, &tag, &a.Category, &a.Make, &a.Model, &a.SerialNumber, &osv,
		&purchased, &warranty, &notes, &a.Status,
		&a.AssignedUserID, &userName, &a.LocationID, &locName, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.AssetTag = nullToPtr(tag)
	a.OSVersion = nullToPtr(osv)
	a.Notes = nullToPtr(notes)
	a.AssignedUserName = nullToPtr(userName)
	a.LocationName = nullToPtr(locName)
	a.PurchaseDate = nullTimeToPtr(purchased)
	a.WarrantyExpiry = nullTimeToPtr(warranty)
	return &a, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func (s *SQLStore) Insert(ctx context.Context, a *Asset) error {
	const q = `
	INSERT INTO assets
		(asset_id, asset_tag, category, make, model, serial_number, os_version, purchase_date,
		 warranty_expiry, notes, status, assigned_user_id, location_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn(ctx).ExecContext(ctx, q,
		a.ID, a.AssetTag, a.Category, a.Make, a.Model, a.SerialNumber, a.OSVersion, a.PurchaseDate,
		a.WarrantyExpiry, a.Notes, a.Status, a.AssignedUserID, a.LocationID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return db.MapError(err, "serial_number or asset_tag already exists", "assigned user or location does not exist")
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Asset, error) {
	a, err := scanAsset(s.conn(ctx).QueryRowContext(ctx, selectAsset+` WHERE a.asset_id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errAssetNotFound(id)
		}
		return nil, err
	}
	return a, nil
}

// where 句は一覧と件数で共有する
func buildWhere(f Filter) (string, []any) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(" WHERE 1=1")

	if f.Status != nil {
		sb.WriteString(" AND a.status = ?")
		args = append(args, *f.Status)
	}
	if f.LocationID != nil {
		sb.WriteString(" AND a.location_id = ?")
		args = append(args, *f.LocationID)
	}
	if f.AssignedUserID != nil {
		sb.WriteString(" AND a.assigned_user_id = ?")
		args = append(args, *f.AssignedUserID)
	}
	if f.Category != nil {
		sb.WriteString(" AND a.category = ?")
		args = append(args, *f.Category)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + escapeLike(q) + "%"
		sb.WriteString(` AND (a.asset_tag LIKE ? OR a.serial_number LIKE ? OR a.make LIKE ? OR a.model LIKE ? OR u.name LIKE ?)`)
		args = append(args, like, like, like, like, like)
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Asset, int64, error) {
	where, args := buildWhere(f)

	// ORDER BY はホワイトリストからのみ組み立てる
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "a.created_at"
	}
	order := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		order = "DESC"
	}

	q := selectAsset + where + " ORDER BY " + col + " " + order + ", a.asset_id " + order + " LIMIT ? OFFSET ?"
	rows, err := s.conn(ctx).QueryContext(ctx, q, append(args, f.Limit, f.Skip)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const countBase = `
	SELECT COUNT(*) FROM assets a
	LEFT JOIN users u ON u.user_id = a.assigned_user_id`
	var total int64
	if err := s.conn(ctx).QueryRowContext(ctx, countBase+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *SQLStore) Update(ctx context.Context, a *Asset) error {
	const q = `
	UPDATE assets SET
		asset_tag = ?, category = ?, make = ?, model = ?, serial_number = ?, os_version = ?,
		purchase_date = ?, warranty_expiry = ?, notes = ?, status = ?,
		assigned_user_id = ?, location_id = ?, updated_at = ?
	WHERE asset_id = ?`
	res, err := s.conn(ctx).ExecContext(ctx, q,
		a.AssetTag, a.Category, a.Make, a.Model, a.SerialNumber, a.OSVersion,
		a.PurchaseDate, a.WarrantyExpiry, a.Notes, a.Status,
		a.AssignedUserID, a.LocationID, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return db.MapError(err, "serial_number or asset_tag already exists", "assigned user or location does not exist")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errAssetNotFound(a.ID)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM assets WHERE asset_id = ?`, id)
	if err != nil {
		return db.MapError(err, "asset is still referenced", "asset is still referenced")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errAssetNotFound(id)
	}
	return nil
}

func (s *SQLStore) ApplyAssignment(ctx context.Context, id string, in Assignment, at time.Time) error {
	// 動的アップデート（指定された参照だけ書き換える）
	sets := []string{}
	args := []any{}
	if in.User.Valid {
		sets = append(sets, "assigned_user_id = ?")
		args = append(args, in.User.ID)
	}
	if in.Location.Valid {
		sets = append(sets, "location_id = ?")
		args = append(args, in.Location.ID)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, at, id)

	q := fmt.Sprintf(`UPDATE assets SET %s WHERE asset_id = ?`, strings.Join(sets, ", "))
	res, err := s.conn(ctx).ExecContext(ctx, q, args...)
	if err != nil {
		return db.MapError(err, "assignment conflict", "assigned user or location does not exist")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errAssetNotFound(id)
	}
	return nil
}

func (s *SQLStore) SetStatus(ctx context.Context, id string, st Status, at time.Time) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE assets SET status = ?, updated_at = ? WHERE asset_id = ?`, st, at, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errAssetNotFound(id)
	}
	return nil
}

func (s *SQLStore) SetLocation(ctx context.Context, id, locationID string, at time.Time) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE assets SET location_id = ?, updated_at = ? WHERE asset_id = ?`, locationID, at, id)
	if err != nil {
		return db.MapError(err, "location conflict", "location does not exist")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errAssetNotFound(id)
	}
	return nil
}

func (s *SQLStore) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var one int
	err := s.conn(ctx).QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLStore) SerialTaken(ctx context.Context, serial, exceptID string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM assets WHERE serial_number = ? AND asset_id <> ? LIMIT 1`, serial, exceptID)
}

func (s *SQLStore) TagTaken(ctx context.Context, tag, exceptID string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM assets WHERE asset_tag = ? AND asset_id <> ? LIMIT 1`, tag, exceptID)
}

// ===== analytics =====

func (s *SQLStore) CountAssets(ctx context.Context, status *Status) (int64, error) {
	q := `SELECT COUNT(*) FROM assets`
	args := []any{}
	if status != nil {
		q += ` WHERE status = ?`
		args = append(args, *status)
	}
	var n int64
	if err := s.conn(ctx).QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var groupQueries = map[GroupKey]string{
	GroupStatus:   `SELECT a.status, '', COUNT(*) FROM assets a GROUP BY a.status`,
	GroupCategory: `SELECT a.category, '', COUNT(*) FROM assets a GROUP BY a.category`,
	GroupLocation: `
	SELECT a.location_id, COALESCE(l.name, ''), COUNT(*) FROM assets a
	LEFT JOIN locations l ON l.location_id = a.location_id
	WHERE a.location_id IS NOT NULL GROUP BY a.location_id, l.name`,
	GroupUser: `
	SELECT a.assigned_user_id, COALESCE(u.name, ''), COUNT(*) FROM assets a
	LEFT JOIN users u ON u.user_id = a.assigned_user_id
	WHERE a.assigned_user_id IS NOT NULL GROUP BY a.assigned_user_id, u.name`,
}

func (s *SQLStore) GroupCounts(ctx context.Context, key GroupKey) ([]GroupCount, error) {
	q, ok := groupQueries[key]
	if !ok {
		return nil, apperr.Invalidf("unknown group key %q", key)
	}
	rows, err := s.conn(ctx).QueryContext(ctx, q+` ORDER BY 3 DESC, 1 ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Label, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) queryAssets(ctx context.Context, q string, args ...any) ([]Asset, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *SQLStore) WarrantyExpiring(ctx context.Context, from, to time.Time) ([]Asset, error) {
	return s.queryAssets(ctx, selectAsset+`
	WHERE a.status = ? AND a.warranty_expiry IS NOT NULL AND a.warranty_expiry >= ? AND a.warranty_expiry <= ?
	ORDER BY a.warranty_expiry ASC, a.asset_id ASC`, StatusInService, from, to)
}

func (s *SQLStore) RecentlyCreated(ctx context.Context, since time.Time, limit int) ([]Asset, error) {
	return s.queryAssets(ctx, selectAsset+`
	WHERE a.created_at >= ?
	ORDER BY a.created_at DESC, a.asset_id DESC LIMIT ?`, since, limit)
}
