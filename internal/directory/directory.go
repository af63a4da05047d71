// Package directory resolves user and location references for the asset
// registry and the transfer workflow.
package directory

import (
	"context"

	"ITAM-backend/internal/directory/locations"
	"ITAM-backend/internal/directory/users"
	"ITAM-backend/internal/platform/apperr"
)

type Directory struct {
	users     users.Store
	locations locations.Store
}

func New(u users.Store, l locations.Store) *Directory {
	return &Directory{users: u, locations: l}
}

// exists は NOT_FOUND を false に変換する
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case apperr.Is(err, apperr.CodeNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (d *Directory) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := d.users.Get(ctx, id)
	return exists(err)
}

func (d *Directory) LocationExists(ctx context.Context, id string) (bool, error) {
	_, err := d.locations.Get(ctx, id)
	return exists(err)
}

func (d *Directory) UserName(ctx context.Context, id string) (string, bool) {
	u, err := d.users.Get(ctx, id)
	if err != nil {
		return "", false
	}
	return u.Name, true
}

func (d *Directory) LocationName(ctx context.Context, id string) (string, bool) {
	l, err := d.locations.Get(ctx, id)
	if err != nil {
		return "", false
	}
	return l.Name, true
}
