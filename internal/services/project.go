package services

import (
	"math"
	"time"

	"github.com/portfolio-dev/portfolio/internal/apperrors"
	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/types"
)

const (
	minProjectMembers = 1
	maxProjectMembers = 10
)

// ProjectService drives the project lifecycle: validation, risk
// classification, status transitions and membership rules all run here
// before anything is persisted.
type ProjectService struct {
	projects ProjectStore
	members  *MemberService
}

func NewProjectService(projects ProjectStore, members *MemberService) *ProjectService {
	return &ProjectService{projects: projects, members: members}
}

func (s *ProjectService) FindAll() ([]models.Project, error) {
	projects, err := s.projects.FindAll()

	if err != nil {
		return nil, err
	}

	for i := range projects {
		attachRiskTier(&projects[i])
	}

	return projects, nil
}

func (s *ProjectService) FindPage(page, size int) ([]models.Project, int64, error) {
	projects, total, err := s.projects.FindPage(page, size)

	if err != nil {
		return nil, 0, err
	}

	for i := range projects {
		attachRiskTier(&projects[i])
	}

	return projects, total, nil
}

func (s *ProjectService) FindByID(id uint) (*models.Project, error) {
	project, err := s.projects.FindByID(id)

	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, apperrors.NotFoundf("project %d was not found", id)
	}

	attachRiskTier(project)

	return project, nil
}

// Create validates the whole project before anything is persisted and
// attaches the derived risk tier.
func (s *ProjectService) Create(project *models.Project) error {
	if err := s.validateProject(project); err != nil {
		return err
	}

	attachRiskTier(project)

	return s.projects.Save(project)
}

// Update is a wholesale replacement of the mutable fields, re-running every
// create-time validation against the incoming data. Status is not touched
// here; it only moves through ChangeStatus.
func (s *ProjectService) Update(id uint, incoming *models.Project) (*models.Project, error) {
	existing, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	incoming.Status = existing.Status

	if err := s.validateProject(incoming); err != nil {
		return nil, err
	}

	existing.Name = incoming.Name
	existing.StartDate = incoming.StartDate
	existing.ProjectedEnd = incoming.ProjectedEnd
	existing.EndDate = incoming.EndDate
	existing.Budget = incoming.Budget
	existing.Description = incoming.Description
	existing.ManagerID = incoming.ManagerID
	existing.Manager = incoming.Manager
	existing.Members = incoming.Members

	attachRiskTier(existing)

	if err := s.projects.Save(existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete refuses projects that have already started, are in progress or
// were completed.
func (s *ProjectService) Delete(id uint) error {
	project, err := s.FindByID(id)

	if err != nil {
		return err
	}

	switch project.Status {
	case types.StatusStarted, types.StatusInProgress, types.StatusCompleted:
		return apperrors.StateTransitionf("cannot delete project with status %s", project.Status)
	}

	return s.projects.Delete(project)
}

// ChangeStatus moves the project to newStatus. Cancellation is allowed from
// any state and bypasses the sequence check; every other transition must be
// exactly one step forward. Completing a project stamps its end date.
func (s *ProjectService) ChangeStatus(id uint, newStatus types.Status) (*models.Project, error) {
	project, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	if newStatus == types.StatusCancelled {
		project.Status = newStatus

		if err := s.projects.Save(project); err != nil {
			return nil, err
		}

		return project, nil
	}

	if !project.Status.CanAdvanceTo(newStatus) {
		return nil, apperrors.StateTransitionf(
			"invalid transition from %s to %s: statuses must advance in sequence",
			project.Status, newStatus)
	}

	project.Status = newStatus

	if newStatus == types.StatusCompleted {
		now := time.Now()
		project.EndDate = &now
	}

	if err := s.projects.Save(project); err != nil {
		return nil, err
	}

	return project, nil
}

// AdvanceStatus moves the project one step forward in the sequence.
func (s *ProjectService) AdvanceStatus(id uint) (*models.Project, error) {
	project, err := s.FindByID(id)

	if err != nil {
		return nil, err
	}

	next, err := project.Status.Next()

	if err != nil {
		return nil, err
	}

	return s.ChangeStatus(id, next)
}

// AddMember associates a member with the project after the membership
// rules pass: no duplicates, at most ten members, employees only, and no
// member on more than three active projects.
func (s *ProjectService) AddMember(projectID, memberID uint) (*models.Project, error) {
	project, err := s.FindByID(projectID)

	if err != nil {
		return nil, err
	}

	member, err := s.members.FindByID(memberID)

	if err != nil {
		return nil, err
	}

	if project.HasMember(member.ID) {
		return nil, apperrors.MembershipRulef("member is already allocated to this project")
	}

	if len(project.Members) >= maxProjectMembers {
		return nil, apperrors.MembershipRulef("project already has the maximum of %d members", maxProjectMembers)
	}

	if member.Role != types.RoleEmployee {
		return nil, apperrors.MembershipRulef("only members with role %s can be allocated to projects", types.RoleEmployee)
	}

	if !s.members.CanAllocateToNewProject(member) {
		return nil, apperrors.MembershipRulef("member is already allocated to %d active projects", maxActiveAllocations)
	}

	project.Members = append(project.Members, *member)

	if err := s.projects.Save(project); err != nil {
		return nil, err
	}

	return project, nil
}

// RemoveMember drops the member from the project. Removing a member that is
// not on the project is a no-op; removing the last member is refused.
func (s *ProjectService) RemoveMember(projectID, memberID uint) (*models.Project, error) {
	project, err := s.FindByID(projectID)

	if err != nil {
		return nil, err
	}

	member, err := s.members.FindByID(memberID)

	if err != nil {
		return nil, err
	}

	if len(project.Members) <= minProjectMembers {
		return nil, apperrors.MembershipRulef("project must keep at least %d member", minProjectMembers)
	}

	kept := project.Members[:0]

	for _, m := range project.Members {
		if m.ID != member.ID {
			kept = append(kept, m)
		}
	}

	project.Members = kept

	if err := s.projects.Save(project); err != nil {
		return nil, err
	}

	return project, nil
}

// PortfolioReport summarizes the whole project set. AverageCompletedDays is
// nil when no project has completed with an end date on record.
type PortfolioReport struct {
	ProjectsByStatus     map[string]int64   `json:"projects_by_status"`
	TotalBudgetByStatus  map[string]float64 `json:"total_budget_by_status"`
	AverageCompletedDays *int64             `json:"average_completed_duration_days"`
	UniqueMembers        int                `json:"unique_members"`
}

// Report aggregates project counts and budgets per status, the average
// duration of completed projects in days, and the distinct member count.
func (s *ProjectService) Report() (*PortfolioReport, error) {
	projects, err := s.projects.FindAll()

	if err != nil {
		return nil, err
	}

	report := &PortfolioReport{
		ProjectsByStatus:    make(map[string]int64),
		TotalBudgetByStatus: make(map[string]float64),
	}

	uniqueMembers := make(map[uint]struct{})

	var completedDays int64
	var completedCount int64

	for _, p := range projects {
		name := p.Status.String()
		report.ProjectsByStatus[name]++
		report.TotalBudgetByStatus[name] += p.Budget

		if p.Status == types.StatusCompleted && p.EndDate != nil {
			completedDays += int64(p.EndDate.Sub(p.StartDate).Hours() / 24)
			completedCount++
		}

		for _, m := range p.Members {
			uniqueMembers[m.ID] = struct{}{}
		}
	}

	if completedCount > 0 {
		average := int64(math.Round(float64(completedDays) / float64(completedCount)))
		report.AverageCompletedDays = &average
	}

	report.UniqueMembers = len(uniqueMembers)

	return report, nil
}

func (s *ProjectService) validateProject(project *models.Project) error {
	if err := validateRequiredFields(project); err != nil {
		return err
	}

	if err := validateDates(project); err != nil {
		return err
	}

	if project.ManagerID == 0 {
		return apperrors.Validationf("project manager is required")
	}

	return s.validateMembers(project)
}

func validateRequiredFields(project *models.Project) error {
	if project.Name == "" {
		return apperrors.Validationf("project name is required")
	}

	if project.StartDate.IsZero() {
		return apperrors.Validationf("start date is required")
	}

	if project.ProjectedEnd.IsZero() {
		return apperrors.Validationf("projected end date is required")
	}

	if project.Budget <= 0 {
		return apperrors.Validationf("total budget must be greater than zero")
	}

	if !project.Status.Valid() {
		return apperrors.Validationf("invalid status: %d", int(project.Status))
	}

	return nil
}

func validateDates(project *models.Project) error {
	if project.ProjectedEnd.Before(project.StartDate) {
		return apperrors.Validationf("projected end date cannot be before the start date")
	}

	if project.EndDate != nil && project.EndDate.Before(project.StartDate) {
		return apperrors.Validationf("end date cannot be before the start date")
	}

	return nil
}

// validateMembers re-fetches every member by id instead of trusting the
// caller-supplied copies; stored roles decide eligibility.
func (s *ProjectService) validateMembers(project *models.Project) error {
	if len(project.Members) == 0 {
		return apperrors.MembershipRulef("project must have at least %d member", minProjectMembers)
	}

	if len(project.Members) > maxProjectMembers {
		return apperrors.MembershipRulef("project can have at most %d members", maxProjectMembers)
	}

	for _, m := range project.Members {
		stored, err := s.members.FindByID(m.ID)

		if err != nil {
			return err
		}

		if stored.Role != types.RoleEmployee {
			return apperrors.MembershipRulef("only members with role %s can be allocated to projects", types.RoleEmployee)
		}
	}

	return nil
}

func attachRiskTier(project *models.Project) {
	project.RiskTier = types.ClassifyRisk(project.Budget, project.StartDate, project.ProjectedEnd)
}
