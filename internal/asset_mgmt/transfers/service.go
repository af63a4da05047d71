package transfers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/db"
	"ITAM-backend/internal/platform/ids"
	"ITAM-backend/internal/platform/logger"
	"ITAM-backend/internal/platform/ref"
)

// Registry is the part of the asset registry the workflow depends on.
// ApplyAssignment is the only way a transfer changes an asset.
type Registry interface {
	Get(ctx context.Context, id string) (*assets.Asset, error)
	ApplyAssignment(ctx context.Context, id string, in assets.Assignment) error
}

type Service struct {
	store    Store
	registry Registry
	dir      assets.Directory
	tx       db.TxRunner
	clock    ids.Clock
	id       ids.IDGen
}

type Option func(*Service)

func WithClock(c ids.Clock) Option { return func(s *Service) { s.clock = c } }
func WithIDGen(g ids.IDGen) Option { return func(s *Service) { s.id = g } }

func NewService(store Store, registry Registry, dir assets.Directory, tx db.TxRunner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: registry,
		dir:      dir,
		tx:       tx,
		clock:    ids.RealClock{},
		id:       ids.ULIDGen{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

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

func (s *Service) checkDestination(ctx context.Context, user, location ref.Ref) error {
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

// Request files a PENDING transfer on behalf of actor and snapshots the
// asset's current assignment into from_user_id / from_location_id.
func (s *Service) Request(ctx context.Context, actor auth.Actor, in CreateTransferRequest) (*Transfer, error) {
	if actor.UserID == "" {
		return nil, apperr.Unauthenticated("acting user is required")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, apperr.Invalid("reason is required")
	}
	assetRef, err := ref.Parse(in.AssetID)
	if err != nil {
		return nil, apperr.Invalid("asset_id: " + err.Error())
	}
	if !in.ToUserID.Valid && !in.ToLocationID.Valid {
		return nil, apperr.Invalid("either to_user_id or to_location_id is required")
	}

	id, err := s.id.New()
	if err != nil {
		return nil, apperr.Internal("id generation failed", err)
	}
	now := s.clock.Now()
	t := &Transfer{
		ID:           id,
		AssetID:      assetRef.ID,
		RequesterID:  actor.UserID,
		ToUserID:     in.ToUserID,
		ToLocationID: in.ToLocationID,
		Status:       StatusPending,
		Reason:       reason,
		Notes:        trimPtr(in.Notes),
		RequestedAt:  now,
		UpdatedAt:    now,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.registry.Get(ctx, t.AssetID)
		if err != nil {
			return err
		}
		if err := s.checkDestination(ctx, t.ToUserID, t.ToLocationID); err != nil {
			return err
		}
		t.FromUserID, t.FromLocationID = a.AssignedUserID, a.LocationID
		return s.store.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"transfer_id":  t.ID,
		"asset_id":     t.AssetID,
		"requester_id": t.RequesterID,
	}).Info("transfer requested")
	return t, nil
}

// transition locks the transfer, checks the source state and writes the
// result guarded by the status it read. mutate runs inside the same
// transaction; an error from it rolls everything back.
func (s *Service) transition(ctx context.Context, actor auth.Actor, id string, action Action, mutate func(ctx context.Context, t *Transfer) error) (*Transfer, error) {
	var out *Transfer
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.store.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !(action == ActionCancel && cur.RequesterID == actor.UserID) {
			return apperr.Forbidden("not allowed to " + string(action) + " this transfer")
		}
		if !ValidTransition(action, cur.Status) {
			return apperr.InvalidState(fmt.Sprintf("cannot %s a transfer in status %s", action, cur.Status))
		}

		next := *cur
		next.Status = targetStatus[action]
		next.UpdatedAt = s.clock.Now()
		if mutate != nil {
			if err := mutate(ctx, &next); err != nil {
				return err
			}
		}
		if err := s.store.UpdateStatus(ctx, &next, cur.Status); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"transfer_id": id,
			"action":      action,
			"actor":       actor.UserID,
		}).WithError(err).Warn("transfer transition refused")
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"transfer_id": out.ID,
		"asset_id":    out.AssetID,
		"action":      action,
		"status":      out.Status,
		"actor":       actor.UserID,
	}).Info("transfer transition")
	return out, nil
}

func requireAdmin(actor auth.Actor, action Action) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can " + string(action) + " transfers")
	}
	return nil
}

func applyNotes(t *Transfer, notes *string) {
	if notes != nil {
		t.Notes = trimPtr(notes)
	}
}

// Approve moves a PENDING transfer to APPROVED and applies the destination to
// the asset in the same transaction. If the asset cannot be updated nothing
// is persisted and a DEPENDENCY_FAILED error is returned.
func (s *Service) Approve(ctx context.Context, actor auth.Actor, id string, d Decision) (*Transfer, error) {
	if err := requireAdmin(actor, ActionApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, ActionApprove, func(ctx context.Context, t *Transfer) error {
		err := s.registry.ApplyAssignment(ctx, t.AssetID, assets.Assignment{User: t.ToUserID, Location: t.ToLocationID})
		if err != nil {
			return apperr.Dependency("asset assignment failed: "+apperr.BodyFrom(err).Error.Message, err)
		}
		now := t.UpdatedAt
		t.ApproverID = ref.To(actor.UserID)
		t.ApprovedAt = &now
		applyNotes(t, d.Notes)
		return nil
	})
}

// Reject requires a non-empty rejection reason and never touches the asset.
func (s *Service) Reject(ctx context.Context, actor auth.Actor, id string, d Decision) (*Transfer, error) {
	if err := requireAdmin(actor, ActionReject); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(d.RejectionReason)
	if reason == "" {
		return nil, apperr.Invalid("rejection_reason is required")
	}
	return s.transition(ctx, actor, id, ActionReject, func(_ context.Context, t *Transfer) error {
		t.ApproverID = ref.To(actor.UserID)
		t.RejectionReason = &reason
		applyNotes(t, d.Notes)
		return nil
	})
}

// Complete confirms the physical handover of an APPROVED transfer.
func (s *Service) Complete(ctx context.Context, actor auth.Actor, id string, d Decision) (*Transfer, error) {
	if err := requireAdmin(actor, ActionComplete); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, ActionComplete, func(_ context.Context, t *Transfer) error {
		now := t.UpdatedAt
		t.CompletedAt = &now
		applyNotes(t, d.Notes)
		return nil
	})
}

// Cancel withdraws a PENDING transfer. Allowed for the requester and admins.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id string, d Decision) (*Transfer, error) {
	return s.transition(ctx, actor, id, ActionCancel, func(_ context.Context, t *Transfer) error {
		now := t.UpdatedAt
		t.CancelledAt = &now
		applyNotes(t, d.Notes)
		return nil
	})
}

// Update dispatches PUT /transfers/{id} to the matching transition.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in UpdateTransferRequest) (*Transfer, error) {
	action, ok := actionFor(in.Status)
	if !ok {
		return nil, apperr.Invalidf("status %q is not a valid target", in.Status)
	}
	d := Decision{Notes: in.Notes}
	if in.RejectionReason != nil {
		d.RejectionReason = *in.RejectionReason
	}
	switch action {
	case ActionApprove:
		return s.Approve(ctx, actor, id, d)
	case ActionReject:
		return s.Reject(ctx, actor, id, d)
	case ActionComplete:
		return s.Complete(ctx, actor, id, d)
	default:
		return s.Cancel(ctx, actor, id, d)
	}
}

// ===== queries =====

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (*Transfer, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && t.RequesterID != actor.UserID {
		return nil, apperr.Forbidden("not authorized to view this transfer")
	}
	return t, nil
}

// List returns transfers newest first. Non-admin callers only see their own requests.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]Transfer, int64, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, apperr.Invalidf("unknown status %q", *f.Status)
	}
	for _, p := range []**string{&f.AssetID, &f.RequesterID} {
		if *p == nil {
			continue
		}
		r, err := ref.Parse(**p)
		if err != nil {
			return nil, 0, apperr.Invalid(err.Error())
		}
		*p = &r.ID
	}
	if f.Skip < 0 {
		return nil, 0, apperr.Invalid("skip must be >= 0")
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return nil, 0, apperr.Invalidf("limit must be between 1 and %d", MaxLimit)
	}
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.RequesterID = &uid
	}
	return s.store.List(ctx, f)
}

func (s *Service) PendingCount(ctx context.Context) (int64, error) {
	return s.store.CountByStatus(ctx, StatusPending)
}
