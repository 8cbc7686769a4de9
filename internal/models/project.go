package models

import (
	"time"

	"github.com/portfolio-dev/portfolio/internal/types"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Name         string     `gorm:"not null"`
	StartDate    time.Time  `gorm:"not null;type:date"`
	ProjectedEnd time.Time  `gorm:"not null;type:date"`
	EndDate      *time.Time `gorm:"type:date"`
	Budget       float64    `gorm:"not null"`
	Description  string
	Status       types.Status `gorm:"not null"`
	ManagerID    uint         `gorm:"not null;index"`

	// Derived on every read and write, never stored.
	RiskTier types.RiskTier `gorm:"-"`

	// Relationships
	Manager Member   `gorm:"foreignKey:ManagerID"`
	Members []Member `gorm:"many2many:project_members;"`
}

// HasMember reports whether the member is already staffed on the project.
func (p *Project) HasMember(memberID uint) bool {
	for _, m := range p.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}
