package models

import "time"

// Subscription registers an endpoint with the push relay. Broadcasts
// addressed to StudentEmail are forwarded to Endpoint.
type Subscription struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	StudentEmail string    `json:"etudiantEmail" gorm:"index;size:128;not null"`
	Endpoint     string    `json:"endpoint" gorm:"size:512;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
