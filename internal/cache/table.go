// Package cache is the local mirror of server-side collections:
// upsert-on-conflict tables queryable by foreign key, with live query
// support. Each table is independently consistent with its own last
// sync; nothing here coordinates across tables.
package cache

import (
	"errors"
	"fmt"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/stream"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table mirrors one remote collection. T must be a gorm model with a
// string primary key named ID.
type Table[T any] struct {
	db       *gorm.DB
	notifier *stream.Notifier
}

func NewTable[T any](db *gorm.DB) *Table[T] {
	return &Table[T]{db: db, notifier: stream.NewNotifier()}
}

// UpsertMany inserts each entity, replacing the full record when its
// id already exists (last write wins, no field merge). The batch is
// applied in one transaction.
func (t *Table[T]) UpsertMany(items []T) error {
	if len(items) == 0 {
		return nil
	}
	err := t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&items).Error
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	t.notifier.Notify()
	return nil
}

// GetByID returns the entity with the given id, or nil when not cached.
func (t *Table[T]) GetByID(id string) (*T, error) {
	var out T
	err := t.db.First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &out, nil
}

// By returns all entities whose column equals value.
func (t *Table[T]) By(column string, value any) ([]T, error) {
	var out []T
	if err := t.db.Where(column+" = ?", value).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query by %s: %w", column, err)
	}
	return out, nil
}

// All returns every cached entity.
func (t *Table[T]) All() ([]T, error) {
	var out []T
	if err := t.db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	return out, nil
}

// ReplaceAll drops every cached row and inserts the given ones, in a
// single transaction. Used on full resync.
func (t *Table[T]) ReplaceAll(items []T) error {
	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(new(T)).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	t.notifier.Notify()
	return nil
}

// Delete removes one entity by primary key.
func (t *Table[T]) Delete(item T) error {
	if err := t.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	t.notifier.Notify()
	return nil
}

// Watch is the live version of By: it emits the filtered rows now and
// again after every mutation of the table. Query errors emit an empty
// slice; the watch stays alive.
func (t *Table[T]) Watch(column string, value any) (<-chan []T, func()) {
	return stream.Watch(t.notifier, func() []T {
		out, err := t.By(column, value)
		if err != nil {
			return nil
		}
		return out
	})
}

// WatchAll is the live version of All.
func (t *Table[T]) WatchAll() (<-chan []T, func()) {
	return stream.Watch(t.notifier, func() []T {
		out, err := t.All()
		if err != nil {
			return nil
		}
		return out
	})
}
