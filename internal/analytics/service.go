// Package analytics aggregates the registry and the transfer log into
// dashboard figures and admin reports.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/asset_mgmt/transfers"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/ids"
)

// AssetSource is satisfied by assets.Store.
type AssetSource interface {
	Get(ctx context.Context, id string) (*assets.Asset, error)
	CountAssets(ctx context.Context, status *assets.Status) (int64, error)
	GroupCounts(ctx context.Context, key assets.GroupKey) ([]assets.GroupCount, error)
	WarrantyExpiring(ctx context.Context, from, to time.Time) ([]assets.Asset, error)
	RecentlyCreated(ctx context.Context, since time.Time, limit int) ([]assets.Asset, error)
}

// TransferSource is satisfied by transfers.Store.
type TransferSource interface {
	CountByStatus(ctx context.Context, st transfers.Status) (int64, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]transfers.MonthCount, error)
	Recent(ctx context.Context, limit int) ([]transfers.Transfer, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type UserNames interface {
	UserName(ctx context.Context, id string) (string, bool)
}

const (
	recentPerKind = 5
	recentWindow  = 30 * 24 * time.Hour
	months        = 12
	unknown       = "Unknown"
)

type Service struct {
	assets    AssetSource
	transfers TransferSource
	users     Counter
	locations Counter
	names     UserNames
	clock     ids.Clock
}

type Option func(*Service)

func WithClock(c ids.Clock) Option { return func(s *Service) { s.clock = c } }

func NewService(a AssetSource, t TransferSource, users, locations Counter, names UserNames, opts ...Option) *Service {
	s := &Service{assets: a, transfers: t, users: users, locations: locations, names: names, clock: ids.RealClock{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	var err error
	active := assets.StatusInService

	if st.TotalAssets, err = s.assets.CountAssets(ctx, nil); err != nil {
		return nil, err
	}
	if st.ActiveAssets, err = s.assets.CountAssets(ctx, &active); err != nil {
		return nil, err
	}
	st.InactiveAssets = st.TotalAssets - st.ActiveAssets
	if st.PendingTransfers, err = s.transfers.CountByStatus(ctx, transfers.StatusPending); err != nil {
		return nil, err
	}
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalLocations, err = s.locations.Count(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) ByStatus(ctx context.Context) ([]StatusCount, error) {
	groups, err := s.assets.GroupCounts(ctx, assets.GroupStatus)
	if err != nil {
		return nil, err
	}
	out := make([]StatusCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, StatusCount{Status: g.Key, Count: g.Count})
	}
	return out, nil
}

func (s *Service) ByCategory(ctx context.Context) ([]CategoryCount, error) {
	groups, err := s.assets.GroupCounts(ctx, assets.GroupCategory)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, CategoryCount{Category: g.Key, Count: g.Count})
	}
	return out, nil
}

// 個別に出す種別。それ以外は Other にまとめる
var mainTypes = []string{"Desktop", "Headset", "Laptop"}

const otherType = "Other"

// ByType buckets categories into the main hardware types plus Other.
func (s *Service) ByType(ctx context.Context) ([]TypeCount, error) {
	groups, err := s.assets.GroupCounts(ctx, assets.GroupCategory)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(mainTypes)+1)
	for _, g := range groups {
		bucket := otherType
		for _, t := range mainTypes {
			if strings.EqualFold(strings.TrimSpace(g.Key), t) {
				bucket = t
				break
			}
		}
		counts[bucket] += g.Count
	}

	out := []TypeCount{}
	for _, t := range mainTypes {
		if n := counts[t]; n > 0 {
			out = append(out, TypeCount{AssetType: t, Count: n})
		}
	}
	if n := counts[otherType]; n > 0 {
		out = append(out, TypeCount{AssetType: otherType, Count: n})
	}
	return out, nil
}

func labelOr(l string) string {
	if l == "" {
		return unknown
	}
	return l
}

func (s *Service) ByLocation(ctx context.Context) ([]LocationCount, error) {
	groups, err := s.assets.GroupCounts(ctx, assets.GroupLocation)
	if err != nil {
		return nil, err
	}
	out := make([]LocationCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, LocationCount{LocationID: g.Key, LocationName: labelOr(g.Label), AssetCount: g.Count})
	}
	return out, nil
}

func (s *Service) UserAllocation(ctx context.Context) ([]UserAllocation, error) {
	groups, err := s.assets.GroupCounts(ctx, assets.GroupUser)
	if err != nil {
		return nil, err
	}
	out := make([]UserAllocation, 0, len(groups))
	for _, g := range groups {
		out = append(out, UserAllocation{UserID: g.Key, Name: labelOr(g.Label), AssetCount: g.Count})
	}
	return out, nil
}

// MonthlyTransfers covers the current month and the eleven before it.
// Months without transfers are reported with a zero count.
func (s *Service) MonthlyTransfers(ctx context.Context) ([]MonthlyTransfers, error) {
	now := s.clock.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	counts, err := s.transfers.MonthlyCounts(ctx, start)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]int64, len(counts))
	for _, c := range counts {
		byMonth[c.Month] = c.Count
	}

	out := make([]MonthlyTransfers, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		out = append(out, MonthlyTransfers{
			Year:          m.Year(),
			Month:         int(m.Month()),
			TransferCount: byMonth[m.Format("2006-01")],
		})
	}
	return out, nil
}

func (s *Service) WarrantyExpiring(ctx context.Context, days int) (*WarrantyReport, error) {
	if days < 1 {
		return nil, apperr.Invalid("days must be >= 1")
	}
	now := s.clock.Now()
	list, err := s.assets.WarrantyExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return &WarrantyReport{Assets: list, Count: len(list), DaysThreshold: days}, nil
}

// RecentActivities merges the latest transfers with assets added in the
// last 30 days, newest first.
func (s *Service) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit < 1 {
		return nil, apperr.Invalid("limit must be >= 1")
	}
	now := s.clock.Now()

	recent, err := s.transfers.Recent(ctx, recentPerKind)
	if err != nil {
		return nil, err
	}
	added, err := s.assets.RecentlyCreated(ctx, now.Add(-recentWindow), recentPerKind)
	if err != nil {
		return nil, err
	}

	out := make([]Activity, 0, len(recent)+len(added))
	for _, t := range recent {
		tag := unknown
		if a, err := s.assets.Get(ctx, t.AssetID); err == nil {
			tag = assetLabel(a)
		}
		user, ok := s.names.UserName(ctx, t.RequesterID)
		if !ok {
			user = unknown
		}
		out = append(out, Activity{
			ID:          t.ID,
			Type:        ActivityTransferred,
			Description: fmt.Sprintf("Asset %s transferred", tag),
			Timestamp:   t.RequestedAt,
			User:        user,
		})
	}
	for _, a := range added {
		out = append(out, Activity{
			ID:          a.ID,
			Type:        ActivityAdded,
			Description: fmt.Sprintf("New %s added to inventory", a.Category),
			Timestamp:   a.CreatedAt,
			User:        "Admin",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Ago = ago(now.Sub(out[i].Timestamp))
	}
	return out, nil
}

func assetLabel(a *assets.Asset) string {
	if a.AssetTag != nil && *a.AssetTag != "" {
		return *a.AssetTag
	}
	return a.SerialNumber
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// ago は経過時間を "3 days ago" 形式にする
func ago(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/time.Minute), "minute")
	}
}
