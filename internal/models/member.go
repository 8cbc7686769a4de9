package models

import (
	"github.com/portfolio-dev/portfolio/internal/types"
	"gorm.io/gorm"
)

type Member struct {
	gorm.Model

	Name string     `gorm:"not null"`
	Role types.Role `gorm:"not null"`

	// Relationships
	Projects []Project `gorm:"many2many:project_members;"`
}
