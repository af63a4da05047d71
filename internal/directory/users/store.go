package users

import (
	"context"
	"database/sql"
	"errors"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/db"
)

// Store lookups of a missing user return NOT_FOUND, except GetByEmail which
// returns (nil, nil) so login can answer with a generic failure.
type Store interface {
	Insert(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f Filter) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

func errUserNotFound(id string) error { return apperr.NotFoundf("user %s not found", id) }

var errEmailTaken = apperr.Conflict("email already registered")

type SQLStore struct{ db *sql.DB }

func NewSQLStore(conn *sql.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) conn(ctx context.Context) db.DBTX { return db.Conn(ctx, s.db) }

const selectUser = `
	SELECT user_id, email, name, role, location_id, is_active, password_hash, created_at
	FROM users`

func scan(sc interface{ Scan(...any) error }) (*User, error) {
	var u User
	if err := sc.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.LocationID, &u.IsActive, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) Insert(ctx context.Context, u *User) error {
	const q = `
	INSERT INTO users (user_id, email, name, role, location_id, is_active, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn(ctx).ExecContext(ctx, q,
		u.ID, u.Email, u.Name, u.Role, u.LocationID, u.IsActive, u.PasswordHash, u.CreatedAt)
	return db.MapError(err, errEmailTaken.Message, "location does not exist")
}

func (s *SQLStore) Get(ctx context.Context, id string) (*User, error) {
	u, err := scan(s.conn(ctx).QueryRowContext(ctx, selectUser+` WHERE user_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound(id)
	}
	return u, err
}

func (s *SQLStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scan(s.conn(ctx).QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]User, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.IsActive != nil {
		where += " AND is_active = ?"
		args = append(args, *f.IsActive)
	}

	rows, err := s.conn(ctx).QueryContext(ctx,
		selectUser+where+" ORDER BY created_at ASC, user_id ASC LIMIT ? OFFSET ?", append(args, f.Limit, f.Skip)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []User{}
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *SQLStore) Update(ctx context.Context, u *User) error {
	const q = `
	UPDATE users SET email = ?, name = ?, role = ?, location_id = ?, is_active = ?, password_hash = ?
	WHERE user_id = ?`
	res, err := s.conn(ctx).ExecContext(ctx, q,
		u.Email, u.Name, u.Role, u.LocationID, u.IsActive, u.PasswordHash, u.ID)
	if err != nil {
		return db.MapError(err, errEmailTaken.Message, "location does not exist")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errUserNotFound(u.ID)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		return db.MapError(err, "user is still referenced", "user is still referenced")
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return errUserNotFound(id)
	}
	return nil
}

func (s *SQLStore) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var one int
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ? AND user_id <> ? LIMIT 1`, email, exceptID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
