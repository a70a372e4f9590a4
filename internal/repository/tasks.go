package repository

import (
	"context"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/api"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/cache"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

type Tasks struct {
	api   *api.Client
	cache *cache.Table[models.Task]
}

func NewTasks(client *api.Client, table *cache.Table[models.Task]) *Tasks {
	return &Tasks{api: client, cache: table}
}

// Refresh pulls the student's tasks and resyncs the cache wholesale.
func (r *Tasks) Refresh(ctx context.Context, ownerEmail string) ([]models.Task, error) {
	list, err := r.api.MyTasks(ctx)
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

// UpdateStatus pushes a status change remotely, then mirrors the
// returned record locally. The local row is only touched after the
// backend accepted the change.
func (r *Tasks) UpdateStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	updated, err := r.api.UpdateTaskStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}
	if prior, gerr := r.cache.GetByID(taskID); gerr == nil && prior != nil && updated.OwnerEmail == "" {
		updated.OwnerEmail = prior.OwnerEmail
	}
	if err := r.cache.UpsertMany([]models.Task{*updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Tasks) ByOwner(email string) ([]models.Task, error) {
	return r.cache.By(cache.ColOwnerEmail, email)
}

func (r *Tasks) ByProject(projectID string) ([]models.Task, error) {
	return r.cache.By(cache.ColProjectID, projectID)
}

func (r *Tasks) Get(id string) (*models.Task, error) {
	return r.cache.GetByID(id)
}

func (r *Tasks) WatchByOwner(email string) (<-chan []models.Task, func()) {
	return r.cache.Watch(cache.ColOwnerEmail, email)
}

func (r *Tasks) WatchByProject(projectID string) (<-chan []models.Task, func()) {
	return r.cache.Watch(cache.ColProjectID, projectID)
}
