package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// Profiles serves the public researcher directory. It never touches the
// auth core: the listing is the portal's unauthenticated read path.
type Profiles struct {
	store  model.ProfileStore
	logger *logger.Logger
}

// NewProfiles creates a new Profiles service.
func NewProfiles(store model.ProfileStore, logger *logger.Logger) *Profiles {
	return &Profiles{store: store, logger: logger}
}

// List returns published profiles sorted by display name.
func (p *Profiles) List(ctx context.Context) ([]model.Profile, error) {
	all, err := p.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	published := make([]model.Profile, 0, len(all))
	for _, profile := range all {
		if profile.Published() {
			published = append(published, profile)
		}
	}

	sort.Slice(published, func(i, j int) bool {
		return published[i].DisplayName() < published[j].DisplayName()
	})
	return published, nil
}
