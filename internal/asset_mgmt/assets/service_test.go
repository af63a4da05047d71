package assets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/ids"
	"ITAM-backend/internal/platform/memdb"
	"ITAM-backend/internal/platform/ref"
)

type fakeDirectory struct {
	users     map[string]string
	locations map[string]string
}

func (d *fakeDirectory) UserExists(_ context.Context, id string) (bool, error) {
	_, ok := d.users[id]
	return ok, nil
}

func (d *fakeDirectory) LocationExists(_ context.Context, id string) (bool, error) {
	_, ok := d.locations[id]
	return ok, nil
}

func (d *fakeDirectory) UserName(_ context.Context, id string) (string, bool) {
	n, ok := d.users[id]
	return n, ok
}

func (d *fakeDirectory) LocationName(_ context.Context, id string) (string, bool) {
	n, ok := d.locations[id]
	return n, ok
}

type fakeHistory map[string]bool

func (h fakeHistory) HasForAsset(_ context.Context, id string) (bool, error) { return h[id], nil }

type fixture struct {
	svc     *Service
	dir     *fakeDirectory
	clock   *ids.FixedClock
	history fakeHistory
	alice   string
	bob     string
	hq      string
	lab     string
}

var admin = auth.Actor{UserID: "ADMIN", Role: auth.RoleAdmin}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		alice:   ulid.Make().String(),
		bob:     ulid.Make().String(),
		hq:      ulid.Make().String(),
		lab:     ulid.Make().String(),
		clock:   &ids.FixedClock{T: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		history: fakeHistory{},
	}
	f.dir = &fakeDirectory{
		users:     map[string]string{f.alice: "Alice", f.bob: "Bob"},
		locations: map[string]string{f.hq: "HQ", f.lab: "Lab"},
	}
	mem := memdb.New()
	f.svc = NewService(NewMemoryStore(mem, f.dir), f.dir, mem, WithClock(f.clock), WithHistory(f.history))
	return f
}

func (f *fixture) create(t *testing.T, serial string, user, loc ref.Ref) *Asset {
	t.Helper()
	a, err := f.svc.Create(context.Background(), CreateAssetRequest{
		Category: "laptop", Make: "Dell", Model: "Latitude 5440", SerialNumber: serial,
		AssignedUserID: user, LocationID: loc,
	})
	require.NoError(t, err)
	return a
}

func TestCreateDerivesStatus(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		user ref.Ref
		loc  ref.Ref
		want Status
	}{
		{"user and location", ref.To(f.alice), ref.To(f.hq), StatusInService},
		{"user only", ref.To(f.alice), ref.Null, StatusRetired},
		{"location only", ref.Null, ref.To(f.hq), StatusRetired},
		{"neither", ref.Null, ref.Null, StatusRetired},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := f.create(t, fmt.Sprintf("SN-%d", i), tt.user, tt.loc)
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	tag := " IT-0001 "
	purchased := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	created, err := f.svc.Create(context.Background(), CreateAssetRequest{
		AssetTag: &tag, Category: "laptop", Make: "Lenovo", Model: "X1 Carbon", SerialNumber: "PF-1",
		PurchaseDate: &purchased, AssignedUserID: ref.To(f.alice), LocationID: ref.To(f.hq),
	})
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "IT-0001", *got.AssetTag)
	assert.Equal(t, "Alice", *got.AssignedUserName)
	assert.Equal(t, "HQ", *got.LocationName)
	assert.Equal(t, f.clock.T, got.CreatedAt)
	assert.True(t, got.PurchaseDate.Equal(purchased))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateAssetRequest{Category: "laptop", Make: " ", Model: "m", SerialNumber: "s"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.svc.Create(ctx, CreateAssetRequest{
		Category: "laptop", Make: "Dell", Model: "m", SerialNumber: "s", LocationID: ref.To(ulid.Make().String()),
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	f.create(t, "DUP", ref.Null, ref.Null)
	_, err = f.svc.Create(ctx, CreateAssetRequest{Category: "laptop", Make: "Dell", Model: "m", SerialNumber: "DUP"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestUpdateDoesNotDeriveStatus(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "SN-1", ref.To(f.alice), ref.To(f.hq))
	require.Equal(t, StatusInService, a.Status)

	f.clock.Advance(time.Minute)
	notes := "screen replaced"
	got, err := f.svc.Update(context.Background(), a.ID, UpdateAssetRequest{
		Notes:          &notes,
		AssignedUserID: ref.Patch{Set: true, Ref: ref.Null},
	})
	require.NoError(t, err)
	assert.False(t, got.AssignedUserID.Valid)
	assert.Nil(t, got.AssignedUserName)
	assert.Equal(t, f.hq, got.LocationID.ID, "absent field is left alone")
	assert.Equal(t, StatusInService, got.Status)
	assert.Equal(t, "screen replaced", *got.Notes)
	assert.Equal(t, f.clock.T, got.UpdatedAt)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
}

func TestUpdateChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "SN-1", ref.Null, ref.Null)
	f.create(t, "SN-2", ref.Null, ref.Null)

	taken := "SN-2"
	_, err := f.svc.Update(ctx, a.ID, UpdateAssetRequest{SerialNumber: &taken})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	_, err = f.svc.Update(ctx, a.ID, UpdateAssetRequest{LocationID: ref.Patch{Set: true, Ref: ref.To(ulid.Make().String())}})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.svc.Update(ctx, ulid.Make().String(), UpdateAssetRequest{})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	got, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-1", got.SerialNumber, "failed update leaves the asset unchanged")
	assert.False(t, got.LocationID.Valid)
}

func TestApplyAssignmentLeavesUnsetFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "SN-1", ref.To(f.alice), ref.To(f.hq))

	require.NoError(t, f.svc.ApplyAssignment(ctx, a.ID, Assignment{Location: ref.To(f.lab)}))
	got, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice, got.AssignedUserID.ID)
	assert.Equal(t, f.lab, got.LocationID.ID)
	assert.Equal(t, StatusInService, got.Status)

	err = f.svc.ApplyAssignment(ctx, a.ID, Assignment{User: ref.To(ulid.Make().String())})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestBulkIndependence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "SN-1", ref.Null, ref.Null)
	b := f.create(t, "SN-2", ref.Null, ref.Null)
	missing := ulid.Make().String()

	res, err := f.svc.BulkUpdateStatus(ctx, []string{a.ID, missing, "N/A", b.ID}, StatusRepair)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.OKCount)
	assert.Equal(t, 2, res.NGCount)
	assert.True(t, res.Results[0].OK)
	assert.False(t, res.Results[1].OK)
	assert.Contains(t, res.Results[1].Error, "not found")
	assert.False(t, res.Results[2].OK)
	assert.True(t, res.Results[3].OK)

	for _, id := range []string{a.ID, b.ID} {
		got, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, StatusRepair, got.Status)
	}

	res, err = f.svc.BulkUpdateLocation(ctx, []string{a.ID, missing}, ref.To(f.lab))
	require.NoError(t, err)
	assert.Equal(t, 1, res.OKCount)
	got, _ := f.svc.Get(ctx, a.ID)
	assert.Equal(t, f.lab, got.LocationID.ID)

	_, err = f.svc.BulkUpdateLocation(ctx, []string{a.ID}, ref.To(ulid.Make().String()))
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.svc.BulkUpdateStatus(ctx, []string{a.ID}, Status("lost"))
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestListFiltersAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "AAA-1", ref.To(f.alice), ref.To(f.hq))
	f.clock.Advance(time.Second)
	f.create(t, "BBB-2", ref.To(f.bob), ref.To(f.hq))
	f.clock.Advance(time.Second)
	f.create(t, "CCC-3", ref.Null, ref.To(f.lab))

	items, total, err := f.svc.List(ctx, admin, Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "AAA-1", items[0].SerialNumber, "default order is created_at asc")

	hq := f.hq
	_, total, err = f.svc.List(ctx, admin, Filter{LocationID: &hq})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	items, _, err = f.svc.List(ctx, admin, Filter{Search: "bob"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "BBB-2", items[0].SerialNumber)

	items, total, err = f.svc.List(ctx, admin, Filter{SortBy: "serial_number", SortOrder: "desc", Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "BBB-2", items[0].SerialNumber)

	retired := StatusRetired
	_, total, err = f.svc.List(ctx, admin, Filter{Status: &retired})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	items, total, err = f.svc.List(ctx, auth.Actor{UserID: f.alice, Role: auth.RoleUser}, Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "AAA-1", items[0].SerialNumber)

	_, _, err = f.svc.List(ctx, admin, Filter{SortBy: "password"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	bad := "none"
	_, _, err = f.svc.List(ctx, admin, Filter{LocationID: &bad})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestGetForActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "SN-1", ref.To(f.alice), ref.To(f.hq))

	_, err := f.svc.GetForActor(ctx, auth.Actor{UserID: f.alice, Role: auth.RoleUser}, a.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetForActor(ctx, auth.Actor{UserID: f.bob, Role: auth.RoleUser}, a.ID)
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))
}

func TestDeleteRefusedWithHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "SN-1", ref.Null, ref.Null)
	b := f.create(t, "SN-2", ref.Null, ref.Null)
	f.history[a.ID] = true

	err := f.svc.Delete(ctx, a.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	require.NoError(t, f.svc.Delete(ctx, b.ID))
	_, err = f.svc.Get(ctx, b.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestGroupCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := f.svc.store
	f.create(t, "SN-1", ref.To(f.alice), ref.To(f.hq))
	f.create(t, "SN-2", ref.To(f.alice), ref.To(f.hq))
	f.create(t, "SN-3", ref.Null, ref.To(f.lab))

	byLoc, err := store.GroupCounts(ctx, GroupLocation)
	require.NoError(t, err)
	require.Len(t, byLoc, 2)
	assert.Equal(t, GroupCount{Key: f.hq, Label: "HQ", Count: 2}, byLoc[0])

	byUser, err := store.GroupCounts(ctx, GroupUser)
	require.NoError(t, err)
	assert.Equal(t, []GroupCount{{Key: f.alice, Label: "Alice", Count: 2}}, byUser)

	n, err := store.CountAssets(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
