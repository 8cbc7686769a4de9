package models

import "gorm.io/gorm"

// User is an API account, distinct from Member: members are portfolio
// staffing records, users authenticate against the API.
type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
