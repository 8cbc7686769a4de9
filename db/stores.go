package db

import (
	"errors"

	"github.com/portfolio-dev/portfolio/internal/models"
	"gorm.io/gorm"
)

// ProjectStore is the GORM-backed persistence collaborator for projects.
// Reads eagerly load the manager and the member association so callers
// never depend on deferred fetching.
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(gdb *gorm.DB) *ProjectStore {
	return &ProjectStore{db: gdb}
}

func (s *ProjectStore) FindAll() ([]models.Project, error) {
	var projects []models.Project

	if err := s.db.Preload("Members").Preload("Manager").Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (s *ProjectStore) FindPage(page, size int) ([]models.Project, int64, error) {
	var total int64

	if err := s.db.Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project

	err := s.db.Preload("Members").Preload("Manager").
		Order("id").Offset(page * size).Limit(size).
		Find(&projects).Error

	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// FindByID returns (nil, nil) when the id is absent; the service layer owns
// the not-found error.
func (s *ProjectStore) FindByID(id uint) (*models.Project, error) {
	var project models.Project

	err := s.db.Preload("Members").Preload("Manager").First(&project, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Save writes the project row and replaces its member association in one
// transaction. Associated members are referenced, never modified.
func (s *ProjectStore) Save(project *models.Project) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Manager").Save(project).Error; err != nil {
			return err
		}

		return tx.Model(project).Association("Members").Replace(project.Members)
	})
}

func (s *ProjectStore) Delete(project *models.Project) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Association("Members").Clear(); err != nil {
			return err
		}

		return tx.Delete(project).Error
	})
}

// MemberStore is the GORM-backed persistence collaborator for members.
type MemberStore struct {
	db *gorm.DB
}

func NewMemberStore(gdb *gorm.DB) *MemberStore {
	return &MemberStore{db: gdb}
}

func (s *MemberStore) FindAll() ([]models.Member, error) {
	var members []models.Member

	if err := s.db.Order("id").Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

// FindByID eagerly loads the member's project associations; the allocation
// cap is computed over them.
func (s *MemberStore) FindByID(id uint) (*models.Member, error) {
	var member models.Member

	err := s.db.Preload("Projects").First(&member, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (s *MemberStore) Save(member *models.Member) error {
	return s.db.Omit("Projects").Save(member).Error
}

// Delete removes the member and its join-table rows. Projects that
// referenced the member are not revalidated; the minimum-member rule is
// enforced only on project mutations.
func (s *MemberStore) Delete(member *models.Member) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(member).Association("Projects").Clear(); err != nil {
			return err
		}

		return tx.Delete(member).Error
	})
}
