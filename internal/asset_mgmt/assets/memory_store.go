package assets

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/memdb"
)

// Names resolves display names for the memory backend; the SQL store joins instead.
type Names interface {
	UserName(ctx context.Context, id string) (string, bool)
	LocationName(ctx context.Context, id string) (string, bool)
}

type MemoryStore struct {
	mem   *memdb.DB
	names Names
	rows  map[string]Asset
}

func NewMemoryStore(mem *memdb.DB, names Names) *MemoryStore {
	return &MemoryStore{mem: mem, names: names, rows: map[string]Asset{}}
}

func (s *MemoryStore) resolve(ctx context.Context, a Asset) Asset {
	a.AssignedUserName, a.LocationName = nil, nil
	if s.names == nil {
		return a
	}
	if a.AssignedUserID.Valid {
		if n, ok := s.names.UserName(ctx, a.AssignedUserID.ID); ok {
			a.AssignedUserName = &n
		}
	}
	if a.LocationID.Valid {
		if n, ok := s.names.LocationName(ctx, a.LocationID.ID); ok {
			a.LocationName = &n
		}
	}
	return a
}

// put はロールバック用に直前の状態を記録してから書き込む
func (s *MemoryStore) put(tx *memdb.Tx, a Asset) {
	prev, had := s.rows[a.ID]
	s.rows[a.ID] = a
	tx.OnRollback(func() {
		if had {
			s.rows[a.ID] = prev
		} else {
			delete(s.rows, a.ID)
		}
	})
}

func (s *MemoryStore) Insert(ctx context.Context, a *Asset) error {
	return s.mem.Do(ctx, func(ctx context.Context, tx *memdb.Tx) error {
		if _, ok := s.rows[a.ID]; ok {
			return apperr.Conflict("asset id already exists")
		}
		if s.takenLocked(a.SerialNumber, a.AssetTag, a.ID) {
			return apperr.Conflict("serial_number or asset_tag already exists")
		}
		row := *a
		row.AssignedUserName, row.LocationName = nil, nil
		s.put(tx, row)
		return nil
	})
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Asset, error) {
	var out *Asset
	err := s.mem.Do(ctx, func(ctx context.Context, _ *memdb.Tx) error {
		a, ok := s.rows[id]
		if !ok {
			return errAssetNotFound(id)
		}
		r := s.resolve(ctx, a)
		out = &r
		return nil
	})
	return out, err
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Asset, int64, error) {
	var out []Asset
	var total int64
	err := s.mem.Do(ctx, func(ctx context.Context, _ *memdb.Tx) error {
		fold := cases.Fold()
		needle := fold.String(strings.TrimSpace(f.Search))

		matched := []Asset{}
		for _, row := range s.rows {
			a := s.resolve(ctx, row)
			if !matchFilter(a, f) {
				continue
			}
			if needle != "" && !matchSearch(fold, a, needle) {
				continue
			}
			matched = append(matched, a)
		}
		sortAssets(matched, f.SortBy, strings.EqualFold(f.SortOrder, "desc"))

		total = int64(len(matched))
		out = page(matched, f.Skip, f.Limit)
		return nil
	})
	return out, total, err
}

func matchFilter(a Asset, f Filter) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.LocationID != nil && !a.LocationID.Is(*f.LocationID) {
		return false
	}
	if f.AssignedUserID != nil && !a.AssignedUserID.Is(*f.AssignedUserID) {
		return false
	}
	if f.Category != nil && !strings.EqualFold(a.Category, *f.Category) {
		return false
	}
	return true
}

func matchSearch(fold cases.Caser, a Asset, needle string) bool {
	fields := []string{a.SerialNumber, a.Make, a.Model}
	if a.AssetTag != nil {
		fields = append(fields, *a.AssetTag)
	}
	if a.AssignedUserName != nil {
		fields = append(fields, *a.AssignedUserName)
	}
	for _, v := range fields {
		if strings.Contains(fold.String(v), needle) {
			return true
		}
	}
	return false
}

func sortKey(a Asset, by string) (string, bool) {
	switch by {
	case "asset_tag":
		if a.AssetTag == nil {
			return "", false
		}
		return *a.AssetTag, true
	case "category":
		return a.Category, true
	case "make":
		return a.Make, true
	case "model":
		return a.Model, true
	case "serial_number":
		return a.SerialNumber, true
	case "status":
		return string(a.Status), true
	case "updated_at":
		return a.UpdatedAt.Format(time.RFC3339Nano), true
	default:
		return a.CreatedAt.Format(time.RFC3339Nano), true
	}
}

// NULL は昇順で先頭（MySQL と同じ）
func sortAssets(list []Asset, by string, desc bool) {
	less := func(i, j int) bool {
		ki, oki := sortKey(list[i], by)
		kj, okj := sortKey(list[j], by)
		switch {
		case oki != okj:
			return !oki
		case ki != kj:
			if by == "created_at" || by == "updated_at" || by == "" {
				return timeLess(list[i], list[j], by)
			}
			return strings.ToLower(ki) < strings.ToLower(kj)
		default:
			return list[i].ID < list[j].ID
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func timeLess(a, b Asset, by string) bool {
	if by == "updated_at" {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func page[T any](list []T, skip, limit int) []T {
	if skip >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return list[skip:end]
}

func (s *MemoryStore) Update(ctx context.Context, a *Asset) error {
	return s.mem.Do(ctx, func(ctx context.Context, tx *memdb.Tx) error {
		if _, ok := s.rows[a.ID]; !ok {
			return errAssetNotFound(a.ID)
		}
		if s.takenLocked(a.SerialNumber, a.AssetTag, a.ID) {
			return apperr.Conflict("serial_number or asset_tag already exists")
		}
		row := *a
		row.AssignedUserName, row.LocationName = nil, nil
		s.put(tx, row)
		return nil
	})
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	return s.mem.Do(ctx, func(ctx context.Context, tx *memdb.Tx) error {
		prev, ok := s.rows[id]
		if !ok {
			return errAssetNotFound(id)
		}
		delete(s.rows, id)
		tx.OnRollback(func() { s.rows[id] = prev })
		return nil
	})
}

func (s *MemoryStore) mutate(ctx context.Context, id string, fn func(a *Asset)) error {
	return s.mem.Do(ctx, func(ctx context.Context, tx *memdb.Tx) error {
		a, ok := s.rows[id]
		if !ok {
			return errAssetNotFound(id)
		}
		fn(&a)
		s.put(tx, a)
		return nil
	})
}

func (s *MemoryStore) ApplyAssignment(ctx context.Context, id string, in Assignment, at time.Time) error {
	return s.mutate(ctx, id, func(a *Asset) {
		if in.User.Valid {
			a.AssignedUserID = in.User
		}
		if in.Location.Valid {
			a.LocationID = in.Location
		}
		a.UpdatedAt = at
	})
}

func (s *MemoryStore) SetStatus(ctx context.Context, id string, st Status, at time.Time) error {
	return s.mutate(ctx, id, func(a *Asset) {
		a.Status = st
		a.UpdatedAt = at
	})
}

func (s *MemoryStore) SetLocation(ctx context.Context, id, locationID string, at time.Time) error {
	return s.mutate(ctx, id, func(a *Asset) {
		a.LocationID.ID, a.LocationID.Valid = locationID, true
		a.UpdatedAt = at
	})
}

func (s *MemoryStore) takenLocked(serial string, tag *string, exceptID string) bool {
	for id, a := range s.rows {
		if id == exceptID {
			continue
		}
		if a.SerialNumber == serial {
			return true
		}
		if tag != nil && a.AssetTag != nil && *a.AssetTag == *tag {
			return true
		}
	}
	return false
}

func (s *MemoryStore) SerialTaken(ctx context.Context, serial, exceptID string) (bool, error) {
	var taken bool
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		taken = s.takenLocked(serial, nil, exceptID)
		return nil
	})
	return taken, err
}

func (s *MemoryStore) TagTaken(ctx context.Context, tag, exceptID string) (bool, error) {
	var taken bool
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		for id, a := range s.rows {
			if id != exceptID && a.AssetTag != nil && *a.AssetTag == tag {
				taken = true
				break
			}
		}
		return nil
	})
	return taken, err
}

// ===== analytics =====

func (s *MemoryStore) CountAssets(ctx context.Context, status *Status) (int64, error) {
	var n int64
	err := s.mem.Do(ctx, func(context.Context, *memdb.Tx) error {
		for _, a := range s.rows {
			if status == nil || a.Status == *status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *MemoryStore) GroupCounts(ctx context.Context, key GroupKey) ([]GroupCount, error) {
	var out []GroupCount
	err := s.mem.Do(ctx, func(ctx context.Context, _ *memdb.Tx) error {
		counts := map[string]int64{}
		for _, a := range s.rows {
			var k string
			switch key {
			case GroupStatus:
				k = string(a.Status)
			case GroupCategory:
				k = a.Category
			case GroupLocation:
				if !a.LocationID.Valid {
					continue
				}
				k = a.LocationID.ID
			case GroupUser:
				if !a.AssignedUserID.Valid {
					continue
				}
				k = a.AssignedUserID.ID
			default:
				return apperr.Invalidf("unknown group key %q", key)
			}
			counts[k]++
		}

		out = make([]GroupCount, 0, len(counts))
		for k, n := range counts {
			g := GroupCount{Key: k, Count: n}
			if s.names != nil {
				switch key {
				case GroupLocation:
					g.Label, _ = s.names.LocationName(ctx, k)
				case GroupUser:
					g.Label, _ = s.names.UserName(ctx, k)
				}
			}
			out = append(out, g)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
			return out[i].Key < out[j].Key
		})
		return nil
	})
	return out, err
}

func (s *MemoryStore) collect(ctx context.Context, keep func(Asset) bool, less func(a, b Asset) bool, limit int) ([]Asset, error) {
	var out []Asset
	err := s.mem.Do(ctx, func(ctx context.Context, _ *memdb.Tx) error {
		out = []Asset{}
		for _, a := range s.rows {
			if keep(a) {
				out = append(out, s.resolve(ctx, a))
			}
		}
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (s *MemoryStore) WarrantyExpiring(ctx context.Context, from, to time.Time) ([]Asset, error) {
	return s.collect(ctx, func(a Asset) bool {
		return a.Status == StatusInService && a.WarrantyExpiry != nil &&
			!a.WarrantyExpiry.Before(from) && !a.WarrantyExpiry.After(to)
	}, func(a, b Asset) bool {
		if !a.WarrantyExpiry.Equal(*b.WarrantyExpiry) {
			return a.WarrantyExpiry.Before(*b.WarrantyExpiry)
		}
		return a.ID < b.ID
	}, 0)
}

func (s *MemoryStore) RecentlyCreated(ctx context.Context, since time.Time, limit int) ([]Asset, error) {
	return s.collect(ctx, func(a Asset) bool {
		return !a.CreatedAt.Before(since)
	}, func(a, b Asset) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}, limit)
}
