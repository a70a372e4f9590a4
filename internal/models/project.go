package models

// Project is a locally cached project, scoped to the student that
// fetched it. OwnerEmail is the filter key for per-student queries.
type Project struct {
	ID          string `json:"id" gorm:"primaryKey;size:64"`
	Title       string `json:"titre" gorm:"size:128;not null"`
	Description string `json:"description" gorm:"type:text"`
	StartDate   string `json:"dateDebut" gorm:"size:32"`
	EndDate     string `json:"dateFin" gorm:"size:32"`
	Status      string `json:"statut" gorm:"size:32;index"`
	OwnerEmail  string `json:"etudiantEmail" gorm:"index;size:128"`
	GroupID     string `json:"groupeId" gorm:"index;size:64"`
}
