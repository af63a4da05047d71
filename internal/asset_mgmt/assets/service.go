package assets

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/db"
	"ITAM-backend/internal/platform/ids"
	"ITAM-backend/internal/platform/logger"
	"ITAM-backend/internal/platform/ref"
)

// Directory answers whether referenced users and locations exist.
type Directory interface {
	UserExists(ctx context.Context, id string) (bool, error)
	LocationExists(ctx context.Context, id string) (bool, error)
}

// HistoryChecker reports whether an asset appears in any transfer.
type HistoryChecker interface {
	HasForAsset(ctx context.Context, assetID string) (bool, error)
}

type Service struct {
	store   Store
	dir     Directory
	tx      db.TxRunner
	history HistoryChecker
	clock   ids.Clock
	id      ids.IDGen
}

type Option func(*Service)

func WithHistory(h HistoryChecker) Option { return func(s *Service) { s.history = h } }
func WithClock(c ids.Clock) Option        { return func(s *Service) { s.clock = c } }
func WithIDGen(g ids.IDGen) Option        { return func(s *Service) { s.id = g } }

func NewService(store Store, dir Directory, tx db.TxRunner, opts ...Option) *Service {
	s := &Service{
		store: store,
		dir:   dir,
		tx:    tx,
		clock: ids.RealClock{},
		id:    ids.ULIDGen{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ===== queries =====

func normalizeFilter(f Filter) (Filter, error) {
	if f.SortBy != "" {
		if _, ok := sortColumns[f.SortBy]; !ok {
			return f, apperr.Invalidf("sort_by %q is not supported", f.SortBy)
		}
	}
	switch strings.ToLower(f.SortOrder) {
	case "", "asc":
		f.SortOrder = "asc"
	case "desc":
		f.SortOrder = "desc"
	default:
		return f, apperr.Invalid("sort_order must be asc or desc")
	}
	if f.Status != nil && !f.Status.Valid() {
		return f, apperr.Invalidf("unknown status %q", *f.Status)
	}
	for _, p := range []**string{&f.LocationID, &f.AssignedUserID} {
		if *p == nil {
			continue
		}
		r, err := ref.Parse(**p)
		if err != nil {
			return f, apperr.Invalid(err.Error())
		}
		*p = &r.ID
	}
	if f.Skip < 0 {
		return f, apperr.Invalid("skip must be >= 0")
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return f, apperr.Invalidf("limit must be between 1 and %d", MaxLimit)
	}
	return f, nil
}

// List returns a page of assets. Non-admin callers only see their own.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]Asset, int64, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.AssignedUserID = &uid
	}
	return s.store.List(ctx, f)
}

// ListByUser and ListByLocation back the /users/{id}/assets and /locations/{id}/assets views.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Asset, int64, error) {
	return s.store.List(ctx, Filter{AssignedUserID: &userID, SortOrder: "asc", Limit: MaxLimit})
}

func (s *Service) ListByLocation(ctx context.Context, locationID string) ([]Asset, int64, error) {
	return s.store.List(ctx, Filter{LocationID: &locationID, SortOrder: "asc", Limit: MaxLimit})
}

func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetForActor(ctx context.Context, actor auth.Actor, id string) (*Asset, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !a.AssignedUserID.Is(actor.UserID) {
		return nil, apperr.Forbidden("asset is not assigned to you")
	}
	return a, nil
}

// ===== commands =====

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) checkRefs(ctx context.Context, user, location ref.Ref) error {
	if user.Valid {
		ok, err := s.dir.UserExists(ctx, user.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFoundf("user %s not found", user.ID)
		}
	}
	if location.Valid {
		ok, err := s.dir.LocationExists(ctx, location.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFoundf("location %s not found", location.ID)
		}
	}
	return nil
}

func (s *Service) checkUnique(ctx context.Context, serial string, tag *string, exceptID string) error {
	taken, err := s.store.SerialTaken(ctx, serial, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("serial_number already exists")
	}
	if tag != nil {
		taken, err := s.store.TagTaken(ctx, *tag, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("asset_tag already exists")
		}
	}
	return nil
}

// Create registers a new asset. Status is derived from the initial assignment.
func (s *Service) Create(ctx context.Context, in CreateAssetRequest) (*Asset, error) {
	a := &Asset{
		AssetTag:       trimPtr(in.AssetTag),
		Category:       strings.TrimSpace(in.Category),
		Make:           strings.TrimSpace(in.Make),
		Model:          strings.TrimSpace(in.Model),
		SerialNumber:   strings.TrimSpace(in.SerialNumber),
		OSVersion:      trimPtr(in.OSVersion),
		PurchaseDate:   in.PurchaseDate,
		WarrantyExpiry: in.WarrantyExpiry,
		Notes:          trimPtr(in.Notes),
		AssignedUserID: in.AssignedUserID,
		LocationID:     in.LocationID,
	}
	if a.Category == "" || a.Make == "" || a.Model == "" || a.SerialNumber == "" {
		return nil, apperr.Invalid("category, make, model, serial_number are required")
	}
	a.Status = DeriveStatus(a.AssignedUserID, a.LocationID)

	id, err := s.id.New()
	if err != nil {
		return nil, apperr.Internal("id generation failed", err)
	}
	a.ID = id
	now := s.clock.Now()
	a.CreatedAt, a.UpdatedAt = now, now

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, a.AssignedUserID, a.LocationID); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, a.SerialNumber, a.AssetTag, a.ID); err != nil {
			return err
		}
		return s.store.Insert(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{"asset_id": a.ID, "status": a.Status}).Info("asset created")
	return s.store.Get(ctx, a.ID)
}

// Update applies a partial patch. Status is never re-derived here.
func (s *Service) Update(ctx context.Context, id string, in UpdateAssetRequest) (*Asset, error) {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}

		if in.AssetTag != nil {
			a.AssetTag = trimPtr(in.AssetTag)
		}
		for _, f := range []struct {
			in  *string
			dst *string
			key string
		}{
			{in.Category, &a.Category, "category"},
			{in.Make, &a.Make, "make"},
			{in.Model, &a.Model, "model"},
			{in.SerialNumber, &a.SerialNumber, "serial_number"},
		} {
			if f.in == nil {
				continue
			}
			v := strings.TrimSpace(*f.in)
			if v == "" {
				return apperr.Invalidf("%s must not be blank", f.key)
			}
			*f.dst = v
		}
		if in.OSVersion != nil {
			a.OSVersion = trimPtr(in.OSVersion)
		}
		if in.PurchaseDate != nil {
			a.PurchaseDate = in.PurchaseDate
		}
		if in.WarrantyExpiry != nil {
			a.WarrantyExpiry = in.WarrantyExpiry
		}
		if in.Notes != nil {
			a.Notes = trimPtr(in.Notes)
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return apperr.Invalidf("unknown status %q", *in.Status)
			}
			a.Status = *in.Status
		}

		// 参照の存在確認は今回指定されたものだけ
		var newUser, newLoc ref.Ref
		if in.AssignedUserID.Set {
			a.AssignedUserID = in.AssignedUserID.Ref
			newUser = in.AssignedUserID.Ref
		}
		if in.LocationID.Set {
			a.LocationID = in.LocationID.Ref
			newLoc = in.LocationID.Ref
		}
		if err := s.checkRefs(ctx, newUser, newLoc); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, a.SerialNumber, a.AssetTag, a.ID); err != nil {
			return err
		}

		a.UpdatedAt = s.clock.Now()
		return s.store.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Get(ctx, id); err != nil {
			return err
		}
		if s.history != nil {
			has, err := s.history.HasForAsset(ctx, id)
			if err != nil {
				return err
			}
			if has {
				return apperr.Conflict("asset has transfer history and cannot be deleted")
			}
		}
		return s.store.Delete(ctx, id)
	})
}

// ApplyAssignment is the only path the transfer workflow uses to move an asset.
// It joins the caller's transaction when ctx carries one.
func (s *Service) ApplyAssignment(ctx context.Context, id string, in Assignment) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, in.User, in.Location); err != nil {
			return err
		}
		return s.store.ApplyAssignment(ctx, id, in, s.clock.Now())
	})
}

// ===== bulk =====

// 各IDは独立に処理し、失敗しても他のIDは続行する
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status Status) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, apperr.Invalid("asset_ids must not be empty")
	}
	if !status.Valid() {
		return BulkResult{}, apperr.Invalidf("unknown status %q", status)
	}
	res := BulkResult{Results: []BulkOutcome{}}
	for _, raw := range ids {
		r, err := ref.Parse(raw)
		if err != nil {
			res.add(raw, apperr.Invalid(err.Error()))
			continue
		}
		res.add(r.ID, s.store.SetStatus(ctx, r.ID, status, s.clock.Now()))
	}
	s.logBulk("status", res)
	return res, nil
}

func (s *Service) BulkUpdateLocation(ctx context.Context, ids []string, location ref.Ref) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, apperr.Invalid("asset_ids must not be empty")
	}
	if !location.Valid {
		return BulkResult{}, apperr.Invalid("location_id is required")
	}
	if err := s.checkRefs(ctx, ref.Null, location); err != nil {
		return BulkResult{}, err
	}
	res := BulkResult{Results: []BulkOutcome{}}
	for _, raw := range ids {
		r, err := ref.Parse(raw)
		if err != nil {
			res.add(raw, apperr.Invalid(err.Error()))
			continue
		}
		res.add(r.ID, s.store.SetLocation(ctx, r.ID, location.ID, s.clock.Now()))
	}
	s.logBulk("location", res)
	return res, nil
}

func (s *Service) logBulk(kind string, res BulkResult) {
	logger.Log.WithFields(logrus.Fields{
		"kind":     kind,
		"total":    res.Total,
		"ok_count": res.OKCount,
		"ng_count": res.NGCount,
	}).Info("bulk asset update")
}
