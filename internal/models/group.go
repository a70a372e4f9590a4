package models

// Group is a locally cached student group.
type Group struct {
	ID          string `json:"id" gorm:"primaryKey;size:64"`
	Name        string `json:"nom" gorm:"size:128;not null"`
	Description string `json:"description" gorm:"type:text"`
	Level       string `json:"niveau" gorm:"size:32"`
	Track       string `json:"filiere" gorm:"size:64"`
}
