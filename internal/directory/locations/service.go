package locations

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/db"
	"ITAM-backend/internal/platform/ids"
	"ITAM-backend/internal/platform/logger"
)

// AssetLister is satisfied by *assets.Service.
type AssetLister interface {
	ListByLocation(ctx context.Context, locationID string) ([]assets.Asset, int64, error)
}

type Service struct {
	store  Store
	assets AssetLister
	tx     db.TxRunner
	clock  ids.Clock
	id     ids.IDGen
}

type Option func(*Service)

func WithClock(c ids.Clock) Option { return func(s *Service) { s.clock = c } }

func NewService(store Store, assets AssetLister, tx db.TxRunner, opts ...Option) *Service {
	s := &Service{store: store, assets: assets, tx: tx, clock: ids.RealClock{}, id: ids.ULIDGen{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Invalid("name is required")
	}
	return name, nil
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

func (s *Service) List(ctx context.Context) ([]Location, error) { return s.store.List(ctx) }

func (s *Service) Get(ctx context.Context, id string) (*Location, error) { return s.store.Get(ctx, id) }

func (s *Service) Create(ctx context.Context, in CreateLocationRequest) (*Location, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	id, err := s.id.New()
	if err != nil {
		return nil, apperr.Internal("id generation failed", err)
	}
	l := &Location{
		ID:          id,
		Name:        name,
		Address:     trimPtr(in.Address),
		Description: trimPtr(in.Description),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.Insert(ctx, l); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{"location_id": l.ID, "name": l.Name}).Info("location created")
	return l, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateLocationRequest) (*Location, error) {
	var out *Location
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		l, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if l.Name, err = normalizeName(*in.Name); err != nil {
				return err
			}
		}
		if in.Address != nil {
			l.Address = trimPtr(in.Address)
		}
		if in.Description != nil {
			l.Description = trimPtr(in.Description)
		}
		if err := s.store.Update(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// Delete is refused while any asset is still located there.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Get(ctx, id); err != nil {
			return err
		}
		_, n, err := s.assets.ListByLocation(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("location still has assets")
		}
		return s.store.Delete(ctx, id)
	})
}

func (s *Service) Assets(ctx context.Context, id string) ([]assets.Asset, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	list, _, err := s.assets.ListByLocation(ctx, id)
	return list, err
}

func (s *Service) Count(ctx context.Context) (int64, error) { return s.store.Count(ctx) }
