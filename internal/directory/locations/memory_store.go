package locations

import (
	"context"
	"sort"
	"strings"

	"ITAM-backend/internal/platform/memdb"
)

type MemoryStore struct {
	mem  *memdb.DB
	rows map[string]Location
}

func NewMemoryStore(mem *memdb.DB) *MemoryStore {
	return &MemoryStore{mem: mem, rows: map[string]Location{}}
}

func (s *MemoryStore) takenLocked(name, exceptID string) bool {
	for id, l := range s.rows {
		// MySQL の general_ci 照合と合わせて大文字小文字を区別しない
		if id != exceptID && strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Insert(ctx context.Context, l *Location) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		if s.takenLocked(l.Name, l.ID) {
			return errNameTaken
		}
		s.rows[l.ID] = *l
		tx.OnRollback(func() { delete(s.rows, l.ID) })
		return nil
	})
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Location, error) {
	var out *Location
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		l, ok := s.rows[id]
		if !ok {
			return errLocationNotFound(id)
		}
		out = &l
		return nil
	})
	return out, err
}

func (s *MemoryStore) List(ctx context.Context) ([]Location, error) {
	var out []Location
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		out = make([]Location, 0, len(s.rows))
		for _, l := range s.rows {
			out = append(out, l)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Name != out[j].Name {
				return out[i].Name < out[j].Name
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (s *MemoryStore) Update(ctx context.Context, l *Location) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		prev, ok := s.rows[l.ID]
		if !ok {
			return errLocationNotFound(l.ID)
		}
		if s.takenLocked(l.Name, l.ID) {
			return errNameTaken
		}
		s.rows[l.ID] = *l
		tx.OnRollback(func() { s.rows[l.ID] = prev })
		return nil
	})
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		prev, ok := s.rows[id]
		if !ok {
			return errLocationNotFound(id)
		}
		delete(s.rows, id)
		tx.OnRollback(func() { s.rows[id] = prev })
		return nil
	})
}

func (s *MemoryStore) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var taken bool
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		taken = s.takenLocked(name, exceptID)
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
