package locations

import (
	"context"
	"database/sql"
	"errors"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/db"
)

type Store interface {
	Insert(ctx context.Context, l *Location) error
	Get(ctx context.Context, id string) (*Location, error)
	List(ctx context.Context) ([]Location, error)
	Update(ctx context.Context, l *Location) error
	Delete(ctx context.Context, id string) error
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

func errLocationNotFound(id string) error { return apperr.NotFoundf("location %s not found", id) }

var errNameTaken = apperr.Conflict("location name already exists")

type SQLStore struct{ db *sql.DB }

func NewSQLStore(conn *sql.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) conn(ctx context.Context) db.DBTX { return db.Conn(ctx, s.db) }

const selectLocation = `SELECT location_id, name, address, description, created_at FROM locations`

func scan(sc interface{ Scan(...any) error }) (*Location, error) {
	var l Location
	var addr, desc sql.NullString
	if err := sc.Scan(&l.ID, &l.Name, &addr, &desc, &l.CreatedAt); err != nil {
		return nil, err
	}
	if addr.Valid {
		l.Address = &addr.String
	}
	if desc.Valid {
		l.Description = &desc.String
	}
	return &l, nil
}

func (s *SQLStore) Insert(ctx context.Context, l *Location) error {
	const q = `INSERT INTO locations (location_id, name, address, description, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.conn(ctx).ExecContext(ctx, q, l.ID, l.Name, l.Address, l.Description, l.CreatedAt)
	if db.IsDuplicateKey(err) {
		return errNameTaken
	}
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Location, error) {
	l, err := scan(s.conn(ctx).QueryRowContext(ctx, selectLocation+` WHERE location_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errLocationNotFound(id)
	}
	return l, err
}

func (s *SQLStore) List(ctx context.Context) ([]Location, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, selectLocation+` ORDER BY name ASC, location_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Location{}
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *l)
	}
	return list, rows.Err()
}

func (s *SQLStore) Update(ctx context.Context, l *Location) error {
	const q = `UPDATE locations SET name = ?, address = ?, description = ? WHERE location_id = ?`
	res, err := s.conn(ctx).ExecContext(ctx, q, l.Name, l.Address, l.Description, l.ID)
	if db.IsDuplicateKey(err) {
		return errNameTaken
	}
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errLocationNotFound(l.ID)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM locations WHERE location_id = ?`, id)
	if err != nil {
		// 1451: users.location_id などから参照されている
		return db.MapError(err, "location is still referenced", "location is still referenced")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errLocationNotFound(id)
	}
	return nil
}

func (s *SQLStore) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var one int
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM locations WHERE name = ? AND location_id <> ? LIMIT 1`, name, exceptID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
