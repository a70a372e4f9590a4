package cache

import (
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"

	"gorm.io/gorm"
)

// Owner/parent column names used for filtered queries.
const (
	ColOwnerEmail = "owner_email"
	ColProjectID  = "project_id"
	ColGroupID    = "group_id"
)

func NewProjects(db *gorm.DB) *Table[models.Project] {
	return NewTable[models.Project](db)
}

func NewTasks(db *gorm.DB) *Table[models.Task] {
	return NewTable[models.Task](db)
}

func NewGroups(db *gorm.DB) *Table[models.Group] {
	return NewTable[models.Group](db)
}
