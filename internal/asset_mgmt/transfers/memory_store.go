package transfers

import (
	"context"
	"sort"
	"time"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/memdb"
)

type MemoryStore struct {
	mem  *memdb.DB
	rows map[string]Transfer
}

func NewMemoryStore(mem *memdb.DB) *MemoryStore {
	return &MemoryStore{mem: mem, rows: map[string]Transfer{}}
}

func (s *MemoryStore) put(tx *memdb.Tx, t Transfer) {
	prev, had := s.rows[t.ID]
	s.rows[t.ID] = t
	tx.OnRollback(func() {
		if had {
			s.rows[t.ID] = prev
		} else {
			delete(s.rows, t.ID)
		}
	})
}

func (s *MemoryStore) Insert(ctx context.Context, t *Transfer) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		if _, ok := s.rows[t.ID]; ok {
			return apperr.Conflict("transfer already exists")
		}
		s.put(tx, *t)
		return nil
	})
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Transfer, error) {
	var out *Transfer
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		t, ok := s.rows[id]
		if !ok {
			return errTransferNotFound(id)
		}
		out = &t
		return nil
	})
	return out, err
}

// メモリ実装では Tx が DB 全体のロックを保持しているので Get と同じ
func (s *MemoryStore) GetForUpdate(ctx context.Context, id string) (*Transfer, error) {
	return s.Get(ctx, id)
}

func matches(t Transfer, f Filter) bool {
	if f.AssetID != nil && t.AssetID != *f.AssetID {
		return false
	}
	if f.RequesterID != nil && t.RequesterID != *f.RequesterID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

// 新しい依頼が先頭
func newestFirst(list []Transfer) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].RequestedAt.Equal(list[j].RequestedAt) {
			return list[i].RequestedAt.After(list[j].RequestedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Transfer, int64, error) {
	var out []Transfer
	var total int64
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		matched := []Transfer{}
		for _, t := range s.rows {
			if matches(t, f) {
				matched = append(matched, t)
			}
		}
		newestFirst(matched)
		total = int64(len(matched))

		out = []Transfer{}
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

func (s *MemoryStore) UpdateStatus(ctx context.Context, t *Transfer, expected Status) error {
	return s.mem.Do(ctx, func(_ context.Context, tx *memdb.Tx) error {
		cur, ok := s.rows[t.ID]
		if !ok {
			return errTransferNotFound(t.ID)
		}
		if cur.Status != expected {
			return errLostRace
		}
		s.put(tx, *t)
		return nil
	})
}

func (s *MemoryStore) CountByStatus(ctx context.Context, st Status) (int64, error) {
	var n int64
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		for _, t := range s.rows {
			if t.Status == st {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *MemoryStore) HasForAsset(ctx context.Context, assetID string) (bool, error) {
	var has bool
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		for _, t := range s.rows {
			if t.AssetID == assetID {
				has = true
				break
			}
		}
		return nil
	})
	return has, err
}

func (s *MemoryStore) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthCount, error) {
	var out []MonthCount
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		counts := map[string]int64{}
		for _, t := range s.rows {
			if t.RequestedAt.Before(since) {
				continue
			}
			counts[t.RequestedAt.UTC().Format("2006-01")]++
		}
		out = make([]MonthCount, 0, len(counts))
		for m, n := range counts {
			out = append(out, MonthCount{Month: m, Count: n})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
		return nil
	})
	return out, err
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Transfer, error) {
	var out []Transfer
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		out = make([]Transfer, 0, len(s.rows))
		for _, t := range s.rows {
			out = append(out, t)
		}
		newestFirst(out)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}
