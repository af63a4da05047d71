package transfers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/ids"
	"ITAM-backend/internal/platform/memdb"
	"ITAM-backend/internal/platform/ref"
)

type fakeDirectory struct {
	mu        sync.Mutex
	users     map[string]string
	locations map[string]string
}

func (d *fakeDirectory) UserExists(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.users[id]
	return ok, nil
}

func (d *fakeDirectory) LocationExists(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.locations[id]
	return ok, nil
}

func (d *fakeDirectory) UserName(_ context.Context, id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.users[id]
	return n, ok
}

func (d *fakeDirectory) LocationName(_ context.Context, id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.locations[id]
	return n, ok
}

func (d *fakeDirectory) dropLocation(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.locations, id)
}

type fixture struct {
	svc    *Service
	assets *assets.Service
	store  *MemoryStore
	dir    *fakeDirectory
	clock  *ids.FixedClock

	alice, bob, admin string
	hq, branch        string
	asset             *assets.Asset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		alice:  ulid.Make().String(),
		bob:    ulid.Make().String(),
		admin:  ulid.Make().String(),
		hq:     ulid.Make().String(),
		branch: ulid.Make().String(),
		clock:  &ids.FixedClock{T: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)},
	}
	f.dir = &fakeDirectory{
		users:     map[string]string{f.alice: "Alice", f.bob: "Bob", f.admin: "Admin"},
		locations: map[string]string{f.hq: "HQ", f.branch: "Branch"},
	}
	mem := memdb.New()
	f.store = NewMemoryStore(mem)
	f.assets = assets.NewService(assets.NewMemoryStore(mem, f.dir), f.dir, mem,
		assets.WithClock(f.clock), assets.WithHistory(f.store))
	f.svc = NewService(f.store, f.assets, f.dir, mem, WithClock(f.clock))

	a, err := f.assets.Create(context.Background(), assets.CreateAssetRequest{
		Category: "laptop", Make: "Dell", Model: "Latitude", SerialNumber: "A123",
		AssignedUserID: ref.To(f.alice), LocationID: ref.To(f.hq),
	})
	require.NoError(t, err)
	f.asset = a
	return f
}

func (f *fixture) adminActor() auth.Actor {
	return auth.Actor{UserID: f.admin, Role: auth.RoleAdmin}
}

func (f *fixture) user(id string) auth.Actor {
	return auth.Actor{UserID: id, Role: auth.RoleUser}
}

func (f *fixture) request(t *testing.T) *Transfer {
	t.Helper()
	tr, err := f.svc.Request(context.Background(), f.user(f.alice), CreateTransferRequest{
		AssetID: f.asset.ID, Reason: "role change",
		ToUserID: ref.To(f.bob), ToLocationID: ref.To(f.branch),
	})
	require.NoError(t, err)
	return tr
}

func TestRequestApproveScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr := f.request(t)
	assert.Equal(t, StatusPending, tr.Status)
	assert.Equal(t, f.alice, tr.RequesterID)
	assert.True(t, tr.FromUserID.Is(f.alice))
	assert.True(t, tr.FromLocationID.Is(f.hq))
	assert.Nil(t, tr.ApprovedAt)

	f.clock.Advance(time.Hour)
	approved, err := f.svc.Approve(ctx, f.adminActor(), tr.ID, Decision{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, f.clock.T, *approved.ApprovedAt)
	assert.True(t, approved.ApproverID.Is(f.admin))
	assert.Nil(t, approved.RejectionReason)

	a, err := f.assets.Get(ctx, f.asset.ID)
	require.NoError(t, err)
	assert.True(t, a.AssignedUserID.Is(f.bob))
	assert.True(t, a.LocationID.Is(f.branch))

	_, err = f.svc.Approve(ctx, f.adminActor(), tr.ID, Decision{})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))

	f.clock.Advance(time.Hour)
	done, err := f.svc.Complete(ctx, f.adminActor(), tr.ID, Decision{})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, f.clock.T, *done.CompletedAt)
	assert.Equal(t, *approved.ApprovedAt, *done.ApprovedAt, "approved_at is set once")
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(f.alice)

	tests := []struct {
		name string
		in   CreateTransferRequest
		code apperr.Code
	}{
		{"blank reason", CreateTransferRequest{AssetID: f.asset.ID, Reason: "  ", ToUserID: ref.To(f.bob)}, apperr.CodeInvalidArgument},
		{"no destination", CreateTransferRequest{AssetID: f.asset.ID, Reason: "r"}, apperr.CodeInvalidArgument},
		{"sentinel asset", CreateTransferRequest{AssetID: "N/A", Reason: "r", ToUserID: ref.To(f.bob)}, apperr.CodeInvalidArgument},
		{"unknown asset", CreateTransferRequest{AssetID: ulid.Make().String(), Reason: "r", ToUserID: ref.To(f.bob)}, apperr.CodeNotFound},
		{"unknown user", CreateTransferRequest{AssetID: f.asset.ID, Reason: "r", ToUserID: ref.To(ulid.Make().String())}, apperr.CodeNotFound},
		{"unknown location", CreateTransferRequest{AssetID: f.asset.ID, Reason: "r", ToLocationID: ref.To(ulid.Make().String())}, apperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Request(ctx, alice, tt.in)
			assert.True(t, apperr.Is(err, tt.code), "got %v", err)
		})
	}

	_, total, err := f.svc.List(ctx, f.adminActor(), Filter{})
	require.NoError(t, err)
	assert.Zero(t, total, "failed requests leave no rows")
}

// 承認時に資産更新が失敗したら、移動依頼も資産もそのまま
func TestApproveIsAtomicWithAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.request(t)
	before, err := f.assets.Get(ctx, f.asset.ID)
	require.NoError(t, err)

	f.dir.dropLocation(f.branch)
	f.clock.Advance(time.Minute)

	_, err = f.svc.Approve(ctx, f.adminActor(), tr.ID, Decision{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeDependency))

	got, err := f.svc.Get(ctx, f.adminActor(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	after, err := f.assets.Get(ctx, f.asset.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApproveUserOnlyKeepsLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.Request(ctx, f.user(f.alice), CreateTransferRequest{
		AssetID: f.asset.ID, Reason: "handover", ToUserID: ref.To(f.bob),
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.adminActor(), tr.ID, Decision{})
	require.NoError(t, err)
	a, err := f.assets.Get(ctx, f.asset.ID)
	require.NoError(t, err)
	assert.True(t, a.AssignedUserID.Is(f.bob))
	assert.True(t, a.LocationID.Is(f.hq))
}

func TestSingleTerminalTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminActor()

	rejected := f.request(t)
	_, err := f.svc.Reject(ctx, admin, rejected.ID, Decision{RejectionReason: "no budget"})
	require.NoError(t, err)

	approved := f.request(t)
	_, err = f.svc.Approve(ctx, admin, approved.ID, Decision{})
	require.NoError(t, err)

	for _, id := range []string{rejected.ID, approved.ID} {
		before, err := f.svc.Get(ctx, admin, id)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, admin, id, Decision{})
		assert.True(t, apperr.Is(err, apperr.CodeInvalidState))
		_, err = f.svc.Reject(ctx, admin, id, Decision{RejectionReason: "again"})
		assert.True(t, apperr.Is(err, apperr.CodeInvalidState))
		_, err = f.svc.Cancel(ctx, admin, id, Decision{})
		assert.True(t, apperr.Is(err, apperr.CodeInvalidState))

		after, err := f.svc.Get(ctx, admin, id)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}

	_, err = f.svc.Complete(ctx, admin, rejected.ID, Decision{})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidState))
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.request(t)

	_, err := f.svc.Reject(ctx, f.adminActor(), tr.ID, Decision{RejectionReason: " "})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
	got, _ := f.svc.Get(ctx, f.adminActor(), tr.ID)
	assert.Equal(t, StatusPending, got.Status)
	assert.Nil(t, got.RejectionReason)

	res, err := f.svc.Reject(ctx, f.adminActor(), tr.ID, Decision{RejectionReason: "not eligible"})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, res.Status)
	assert.Equal(t, "not eligible", *res.RejectionReason)
	assert.True(t, res.ApproverID.Is(f.admin))
	assert.Nil(t, res.ApprovedAt)

	a, _ := f.assets.Get(ctx, f.asset.ID)
	assert.True(t, a.AssignedUserID.Is(f.alice), "reject never touches the asset")
}

func TestConcurrentApproveOneWins(t *testing.T) {
	f := newFixture(t)
	tr := f.request(t)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = f.svc.Approve(context.Background(), f.adminActor(), tr.ID, Decision{})
			} else {
				_, errs[i] = f.svc.Reject(context.Background(), f.adminActor(), tr.ID, Decision{RejectionReason: "race"})
			}
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.CodeInvalidState) || apperr.Is(err, apperr.CodeConflict), "got %v", err)
	}
	assert.Equal(t, 1, wins)
}

func TestCancelPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.request(t)

	_, err := f.svc.Cancel(ctx, f.user(f.bob), tr.ID, Decision{})
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))

	res, err := f.svc.Cancel(ctx, f.user(f.alice), tr.ID, Decision{})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.NotNil(t, res.CancelledAt)
	assert.False(t, res.ApproverID.Valid)

	_, err = f.svc.Approve(ctx, f.user(f.alice), f.request(t).ID, Decision{})
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))
}

func TestUpdateDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.request(t)

	_, err := f.svc.Update(ctx, f.adminActor(), tr.ID, UpdateTransferRequest{Status: StatusPending})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.svc.Update(ctx, f.adminActor(), tr.ID, UpdateTransferRequest{Status: StatusRejected})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	notes := "desk 4F"
	res, err := f.svc.Update(ctx, f.adminActor(), tr.ID, UpdateTransferRequest{Status: StatusApproved, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, "desk 4F", *res.Notes)
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.request(t)
	f.clock.Advance(time.Second)
	other, err := f.svc.Request(ctx, f.user(f.bob), CreateTransferRequest{
		AssetID: f.asset.ID, Reason: "swap", ToLocationID: ref.To(f.branch),
	})
	require.NoError(t, err)

	list, total, err := f.svc.List(ctx, f.user(f.alice), Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, mine.ID, list[0].ID)

	list, total, err = f.svc.List(ctx, f.adminActor(), Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, other.ID, list[0].ID, "newest first")

	pending := StatusPending
	_, total, err = f.svc.List(ctx, f.adminActor(), Filter{Status: &pending, AssetID: &f.asset.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = f.svc.Get(ctx, f.user(f.alice), other.ID)
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))
	_, err = f.svc.Get(ctx, f.adminActor(), ulid.Make().String())
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	n, err := f.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestAssetWithHistoryCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	f.request(t)
	err := f.assets.Delete(context.Background(), f.asset.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}
