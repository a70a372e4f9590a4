package models

// Task status values as served by the backend. The column itself is
// free-form: unknown values are cached as-is.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Task is a locally cached task belonging to a project.
type Task struct {
	ID          string `json:"id" gorm:"primaryKey;size:64"`
	Title       string `json:"titre" gorm:"size:128;not null"`
	Description string `json:"description" gorm:"type:text"`
	DueDate     string `json:"dateEcheance" gorm:"size:32"`
	Status      string `json:"statut" gorm:"size:32;index"`
	OwnerEmail  string `json:"etudiantEmail" gorm:"index;size:128"`
	ProjectID   string `json:"projetId" gorm:"index;size:64"`
}
