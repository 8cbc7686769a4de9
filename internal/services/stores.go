package services

import "github.com/portfolio-dev/portfolio/internal/models"

// ProjectStore is the persistence collaborator consumed by ProjectService.
// Lookups return (nil, nil) on a missing id; the services own the
// not-found errors. Implementations must eagerly load the member and
// manager associations on every read.
type ProjectStore interface {
	FindAll() ([]models.Project, error)
	FindPage(page, size int) ([]models.Project, int64, error)
	FindByID(id uint) (*models.Project, error)
	Save(project *models.Project) error
	Delete(project *models.Project) error
}

// MemberStore is the persistence collaborator consumed by MemberService.
// FindByID must load the member's project associations.
type MemberStore interface {
	FindAll() ([]models.Member, error)
	FindByID(id uint) (*models.Member, error)
	Save(member *models.Member) error
	Delete(member *models.Member) error
}
