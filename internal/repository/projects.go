// Package repository pairs each remote collection with its local
// mirror: refresh pulls from the backend and resyncs the cache, reads
// and live queries are served from the cache only.
package repository

import (
	"context"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/api"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/cache"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

type Projects struct {
	api   *api.Client
	cache *cache.Table[models.Project]
}

func NewProjects(client *api.Client, table *cache.Table[models.Project]) *Projects {
	return &Projects{api: client, cache: table}
}

// Refresh pulls the student's projects and resyncs the cache
// wholesale. The remote list is authoritative: rows absent from it are
// dropped.
func (r *Projects) Refresh(ctx context.Context, ownerEmail string) ([]models.Project, error) {
	list, err := r.api.MyProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].OwnerEmail == "" {
			list[i].OwnerEmail = ownerEmail
		}
	}
	if err := r.cache.ReplaceAll(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Projects) ByOwner(email string) ([]models.Project, error) {
	return r.cache.By(cache.ColOwnerEmail, email)
}

func (r *Projects) ByGroup(groupID string) ([]models.Project, error) {
	return r.cache.By(cache.ColGroupID, groupID)
}

func (r *Projects) Get(id string) (*models.Project, error) {
	return r.cache.GetByID(id)
}

// WatchByOwner is the live query screens subscribe to.
func (r *Projects) WatchByOwner(email string) (<-chan []models.Project, func()) {
	return r.cache.Watch(cache.ColOwnerEmail, email)
}
