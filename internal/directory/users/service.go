package users

import (
	"context"
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

// AssetLister is satisfied by *assets.Service.
type AssetLister interface {
	ListByUser(ctx context.Context, userID string) ([]assets.Asset, int64, error)
}

// LocationChecker is satisfied by the directory.
type LocationChecker interface {
	LocationExists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	store     Store
	assets    AssetLister
	locations LocationChecker
	tx        db.TxRunner
	clock     ids.Clock
	id        ids.IDGen
}

type Option func(*Service)

func WithClock(c ids.Clock) Option { return func(s *Service) { s.clock = c } }

func NewService(store Store, assets AssetLister, locations LocationChecker, tx db.TxRunner, opts ...Option) *Service {
	s := &Service{
		store:     store,
		assets:    assets,
		locations: locations,
		tx:        tx,
		clock:     ids.RealClock{},
		id:        ids.ULIDGen{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *Service) checkLocation(ctx context.Context, loc ref.Ref) error {
	if !loc.Valid {
		return nil
	}
	ok, err := s.locations.LocationExists(ctx, loc.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("location %s not found", loc.ID)
	}
	return nil
}

func selfOrAdmin(actor auth.Actor, id string) error {
	if !actor.IsAdmin() && actor.UserID != id {
		return apperr.Forbidden("not authorized to access this user")
	}
	return nil
}

// ===== queries =====

func (s *Service) List(ctx context.Context, f Filter) ([]User, int64, error) {
	if f.Skip < 0 {
		return nil, 0, apperr.Invalid("skip must be >= 0")
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return nil, 0, apperr.Invalidf("limit must be between 1 and %d", MaxLimit)
	}
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (*User, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Assets lists the assets currently assigned to the user.
func (s *Service) Assets(ctx context.Context, actor auth.Actor, id string) ([]assets.Asset, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	list, _, err := s.assets.ListByUser(ctx, id)
	return list, err
}

func (s *Service) Count(ctx context.Context) (int64, error) { return s.store.Count(ctx) }

// ===== commands =====

func (s *Service) Create(ctx context.Context, in CreateUserRequest) (*User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, apperr.Invalid("email and name are required")
	}
	role := in.Role
	if role == "" {
		role = auth.RoleUser
	}
	if !auth.ValidRole(role) {
		return nil, apperr.Invalidf("unknown role %q", role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.id.New()
	if err != nil {
		return nil, apperr.Internal("id generation failed", err)
	}

	u := &User{
		ID:           id,
		Email:        email,
		Name:         name,
		Role:         role,
		LocationID:   in.LocationID,
		IsActive:     in.IsActive == nil || *in.IsActive,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkLocation(ctx, u.LocationID); err != nil {
			return err
		}
		taken, err := s.store.EmailTaken(ctx, u.Email, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken
		}
		return s.store.Insert(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateUserRequest) (*User, error) {
	var out *User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Email != nil {
			if u.Email = normalizeEmail(*in.Email); u.Email == "" {
				return apperr.Invalid("email must not be blank")
			}
			taken, err := s.store.EmailTaken(ctx, u.Email, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return errEmailTaken
			}
		}
		if in.Name != nil {
			if u.Name = strings.TrimSpace(*in.Name); u.Name == "" {
				return apperr.Invalid("name must not be blank")
			}
		}
		if in.Role != nil {
			if !auth.ValidRole(*in.Role) {
				return apperr.Invalidf("unknown role %q", *in.Role)
			}
			u.Role = *in.Role
		}
		if in.Password != nil {
			if u.PasswordHash, err = auth.HashPassword(*in.Password); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		if in.LocationID.Set {
			if err := s.checkLocation(ctx, in.LocationID.Ref); err != nil {
				return err
			}
			u.LocationID = in.LocationID.Ref
		}
		if err := s.store.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// Delete is refused while assets are still assigned to the user.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Get(ctx, id); err != nil {
			return err
		}
		_, n, err := s.assets.ListByUser(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("user still has assigned assets")
		}
		return s.store.Delete(ctx, id)
	})
}

// EnsureBootstrapAdmin creates the first admin when the user table is empty.
// It reports whether a user was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	u, err := s.Create(ctx, CreateUserRequest{Email: email, Name: name, Password: password, Role: auth.RoleAdmin})
	if err != nil {
		return false, err
	}
	logger.Log.WithField("email", u.Email).Warn("bootstrap admin created")
	return true, nil
}

// ===== auth.AccountStore =====

func toAccount(u *User) *auth.Account {
	return &auth.Account{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}
}

func (s *Service) AccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, err
	}
	return toAccount(u), nil
}

func (s *Service) AccountByID(ctx context.Context, id string) (*auth.Account, error) {
	u, err := s.store.Get(ctx, id)
	if apperr.Is(err, apperr.CodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toAccount(u), nil
}
