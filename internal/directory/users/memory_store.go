package users

import (
	"context"
	"sort"
	"strings"

	"ITAM-backend/internal/platform/memdb"
)

type MemoryStore struct {
	mem  *memdb.DB
	rows map[string]User
}

func NewMemoryStore(mem *memdb.DB) *MemoryStore {
	return &MemoryStore{mem: mem, rows: map[string]User{}}
}

func (s *MemoryStore) emailTakenLocked(email, exceptID string) bool {
	for id, u := range s.rows {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Insert(ctx context.Context, u *User) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		if s.emailTakenLocked(u.Email, u.ID) {
			return errEmailTaken
		}
		s.rows[u.ID] = *u
		tx.OnRollback(func() { delete(s.rows, u.ID) })
		return nil
	})
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*User, error) {
	var out *User
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		u, ok := s.rows[id]
		if !ok {
			return errUserNotFound(id)
		}
		out = &u
		return nil
	})
	return out, err
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var out *User
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		for _, u := range s.rows {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]User, int64, error) {
	var out []User
	var total int64
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		matched := []User{}
		for _, u := range s.rows {
			if f.IsActive != nil && u.IsActive != *f.IsActive {
				continue
			}
			matched = append(matched, u)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.Before(matched[j].CreatedAt)
			}
			return matched[i].ID < matched[j].ID
		})
		total = int64(len(matched))
		out = []User{}
		if f.Skip < len(matched) {
			end := len(matched)
			if f.Limit > 0 && f.Skip+f.Limit < end {
				end = f.Skip + f.Limit
			}
			out = matched[f.Skip:end]
		}
		return nil
	})
	return out, total, err
}

func (s *MemoryStore) Update(ctx context.Context, u *User) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		prev, ok := s.rows[u.ID]
		if !ok {
			return errUserNotFound(u.ID)
		}
		if s.emailTakenLocked(u.Email, u.ID) {
			return errEmailTaken
		}
		s.rows[u.ID] = *u
		tx.OnRollback(func() { s.rows[u.ID] = prev })
		return nil
	})
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		prev, ok := s.rows[id]
		if !ok {
			return errUserNotFound(id)
		}
		delete(s.rows, id)
		tx.OnRollback(func() { s.rows[id] = prev })
		return nil
	})
}

func (s *MemoryStore) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var taken bool
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		taken = s.emailTakenLocked(email, exceptID)
		return nil
	})
	return taken, err
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		n = int64(len(s.rows))
		return nil
	})
	return n, err
}
