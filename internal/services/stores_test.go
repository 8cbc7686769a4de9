package services_test

import (
	"sort"
	"time"

	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/services"
	"github.com/portfolio-dev/portfolio/internal/types"
	"gorm.io/gorm"
)

// In-memory stands-ins for the GORM stores. Lookups hand out copies the way
// a real store materializes fresh rows.

type fakeMemberStore struct {
	members map[uint]models.Member
	nextID  uint
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[uint]models.Member)}
}

func (s *fakeMemberStore) FindAll() ([]models.Member, error) {
	out := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMemberStore) FindByID(id uint) (*models.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, nil
	}
	found := m
	return &found, nil
}

func (s *fakeMemberStore) Save(m *models.Member) error {
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	s.members[m.ID] = *m
	return nil
}

func (s *fakeMemberStore) Delete(m *models.Member) error {
	delete(s.members, m.ID)
	return nil
}

type fakeProjectStore struct {
	projects map[uint]models.Project
	nextID   uint
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[uint]models.Project)}
}

func (s *fakeProjectStore) FindAll() ([]models.Project, error) {
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeProjectStore) FindPage(page, size int) ([]models.Project, int64, error) {
	all, _ := s.FindAll()
	total := int64(len(all))

	start := page * size
	if start >= len(all) {
		return nil, total, nil
	}

	end := start + size
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], total, nil
}

func (s *fakeProjectStore) FindByID(id uint) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	found := p
	found.Members = append([]models.Member(nil), p.Members...)
	return &found, nil
}

func (s *fakeProjectStore) Save(p *models.Project) error {
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	stored := *p
	stored.Members = append([]models.Member(nil), p.Members...)
	s.projects[p.ID] = stored
	return nil
}

func (s *fakeProjectStore) Delete(p *models.Project) error {
	delete(s.projects, p.ID)
	return nil
}

func newTestServices() (*services.ProjectService, *services.MemberService, *fakeProjectStore, *fakeMemberStore) {
	memberStore := newFakeMemberStore()
	memberService := services.NewMemberService(memberStore, nil)
	projectStore := newFakeProjectStore()
	projectService := services.NewProjectService(projectStore, memberService)
	return projectService, memberService, projectStore, memberStore
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func member(id uint, name string, role types.Role) models.Member {
	return models.Member{Model: gorm.Model{ID: id}, Name: name, Role: role}
}

func employee(id uint, name string) models.Member {
	return member(id, name, types.RoleEmployee)
}
