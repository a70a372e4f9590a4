package models

// Student is the locally cached profile of a student account.
// Rows mirror the backend verbatim; IsCurrent is the only client-owned
// column and marks the single active local session.
type Student struct {
	ID            string     `json:"id" gorm:"primaryKey;size:64"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:128;not null"`
	LastName      string     `json:"nom" gorm:"size:64"`
	FirstName     string     `json:"prenom" gorm:"size:64"`
	Phone         string     `json:"numTel" gorm:"size:32"`
	AvatarURL     string     `json:"urlPhotoProfil" gorm:"size:255"`
	Institution   string     `json:"nomFac" gorm:"size:128"`
	Departments   StringList `json:"nomDep" gorm:"type:text"`
	Level         string     `json:"niveau" gorm:"size:32"`
	Track         string     `json:"filiere" gorm:"size:64"`
	GroupID       string     `json:"groupeId" gorm:"index;size:64"`
	Active        bool       `json:"estActif"`
	EmailVerified bool       `json:"emailVerifie"`
	IsCurrent     bool       `json:"-" gorm:"index;not null;default:false"`
}
