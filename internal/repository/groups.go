package repository

import (
	"context"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/api"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/cache"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

type Groups struct {
	api   *api.Client
	cache *cache.Table[models.Group]
}

func NewGroups(client *api.Client, table *cache.Table[models.Group]) *Groups {
	return &Groups{api: client, cache: table}
}

// Refresh pulls the student's own group. The backend exposes only
// "my group" to students, so this upserts rather than replacing the
// table: other cached groups stay as they were last seen.
func (r *Groups) Refresh(ctx context.Context) (*models.Group, error) {
	group, err := r.api.MyGroup(ctx)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	if err := r.cache.UpsertMany([]models.Group{*group}); err != nil {
		return nil, err
	}
	return group, nil
}

func (r *Groups) Get(id string) (*models.Group, error) {
	return r.cache.GetByID(id)
}

func (r *Groups) All() ([]models.Group, error) {
	return r.cache.All()
}

func (r *Groups) WatchAll() (<-chan []models.Group, func()) {
	return r.cache.WatchAll()
}
