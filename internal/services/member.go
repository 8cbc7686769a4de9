package services

import (
	"github.com/portfolio-dev/portfolio/internal/apperrors"
	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/types"
)

// maxActiveAllocations caps how many non-terminal projects a member may be
// staffed on at once.
const maxActiveAllocations = 3

type MemberService struct {
	store    MemberStore
	external *ExternalMemberClient
}

func NewMemberService(store MemberStore, external *ExternalMemberClient) *MemberService {
	return &MemberService{store: store, external: external}
}

func (s *MemberService) FindAll() ([]models.Member, error) {
	return s.store.FindAll()
}

func (s *MemberService) FindByID(id uint) (*models.Member, error) {
	member, err := s.store.FindByID(id)

	if err != nil {
		return nil, err
	}

	if member == nil {
		return nil, apperrors.NotFoundf("member %d was not found", id)
	}

	return member, nil
}

func (s *MemberService) Create(member *models.Member) error {
	if err := validateMember(member); err != nil {
		return err
	}

	return s.store.Save(member)
}

// Update replaces name and role only; project associations are managed
// through the project endpoints.
func (s *MemberService) Update(id uint, name string, role types.Role) (*models.Member, error) {
	member, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	member.Name = name
	member.Role = role

	if err := validateMember(member); err != nil {
		return nil, err
	}

	if err := s.store.Save(member); err != nil {
		return nil, err
	}

	return member, nil
}

// Delete is unconditional: projects still referencing the member are not
// revalidated here.
func (s *MemberService) Delete(id uint) error {
	member, err := s.FindByID(id)

	if err != nil {
		return err
	}

	return s.store.Delete(member)
}

// CanAllocateToNewProject reports whether the member is staffed on fewer
// than three projects that are still in flight. Completed and cancelled
// projects do not count.
func (s *MemberService) CanAllocateToNewProject(member *models.Member) bool {
	active := 0

	for _, p := range member.Projects {
		if !p.Status.IsTerminal() {
			active++
		}
	}

	return active < maxActiveAllocations
}

// FetchExternalMembers proxies the external member source.
func (s *MemberService) FetchExternalMembers() ([]ExternalMember, error) {
	return s.external.Fetch()
}

func validateMember(member *models.Member) error {
	if member.Name == "" {
		return apperrors.Validationf("member name is required")
	}

	if !member.Role.Valid() {
		return apperrors.Validationf("invalid member role: %s", member.Role)
	}

	return nil
}
