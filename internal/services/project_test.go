package services_test

import (
	"testing"
	"time"

	"github.com/portfolio-dev/portfolio/internal/apperrors"
	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEmployees(store *fakeMemberStore, ids ...uint) {
	for _, id := range ids {
		m := employee(id, "Employee")
		store.Save(&m)
	}
}

func validProject(memberIDs ...uint) *models.Project {
	members := make([]models.Member, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, models.Member{Model: gorm.Model{ID: id}})
	}

	return &models.Project{
		Name:         "Apollo",
		StartDate:    date(2024, time.January, 10),
		ProjectedEnd: date(2024, time.March, 10),
		Budget:       80000,
		Status:       types.StatusUnderReview,
		ManagerID:    1,
		Members:      members,
	}
}

func Test_Create_ComputesRiskAndPersists(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1, 2)

	project := validProject(1, 2)

	require.NoError(t, projectService.Create(project))
	require.Equal(t, types.RiskLow, project.RiskTier)
	require.NotZero(t, project.ID)

	stored, err := projectService.FindByID(project.ID)
	require.NoError(t, err)
	require.Len(t, stored.Members, 2)
	require.Len(t, projectStore.projects, 1)
}

func Test_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Project)
		kind   apperrors.Kind
	}{
		{"blank name", func(p *models.Project) { p.Name = "" }, apperrors.KindValidation},
		{"missing start date", func(p *models.Project) { p.StartDate = time.Time{} }, apperrors.KindValidation},
		{"missing projected end", func(p *models.Project) { p.ProjectedEnd = time.Time{} }, apperrors.KindValidation},
		{"zero budget", func(p *models.Project) { p.Budget = 0 }, apperrors.KindValidation},
		{"negative budget", func(p *models.Project) { p.Budget = -100 }, apperrors.KindValidation},
		{"projected end before start", func(p *models.Project) {
			p.ProjectedEnd = p.StartDate.AddDate(0, 0, -1)
		}, apperrors.KindValidation},
		{"end date before start", func(p *models.Project) {
			end := p.StartDate.AddDate(0, 0, -5)
			p.EndDate = &end
		}, apperrors.KindValidation},
		{"missing manager", func(p *models.Project) { p.ManagerID = 0 }, apperrors.KindValidation},
		{"no members", func(p *models.Project) { p.Members = nil }, apperrors.KindMembershipRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectService, _, projectStore, memberStore := newTestServices()
			seedEmployees(memberStore, 1, 2)

			project := validProject(1, 2)
			tt.mutate(project)

			err := projectService.Create(project)

			require.Error(t, err)
			require.Equal(t, tt.kind, apperrors.KindOf(err))
			require.Empty(t, projectStore.projects, "nothing may be persisted on a failed create")
		})
	}
}

func Test_Create_MemberRoleCheckedAgainstStore(t *testing.T) {
	projectService, _, _, memberStore := newTestServices()
	seedEmployees(memberStore, 1)

	contractor := member(2, "Outsider", types.RoleContractor)
	memberStore.Save(&contractor)

	// The caller claims member 2 is an employee; the stored role decides.
	project := validProject(1)
	project.Members = append(project.Members, employee(2, "Outsider"))

	err := projectService.Create(project)

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
}

func Test_Create_TooManyMembers(t *testing.T) {
	projectService, _, _, memberStore := newTestServices()

	ids := make([]uint, 11)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	seedEmployees(memberStore, ids...)

	err := projectService.Create(validProject(ids...))

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
}

func Test_Update_ReplacesAllFieldsButStatus(t *testing.T) {
	projectService, _, _, memberStore := newTestServices()
	seedEmployees(memberStore, 1, 2, 3)

	project := validProject(1, 2)
	require.NoError(t, projectService.Create(project))

	_, err := projectService.ChangeStatus(project.ID, types.StatusReviewDone)
	require.NoError(t, err)

	incoming := validProject(3)
	incoming.Name = "Artemis"
	incoming.Budget = 600000
	incoming.Status = types.StatusUnderReview // ignored: status only moves via ChangeStatus
	incoming.ManagerID = 2

	updated, err := projectService.Update(project.ID, incoming)

	require.NoError(t, err)
	require.Equal(t, "Artemis", updated.Name)
	require.Equal(t, float64(600000), updated.Budget)
	require.Equal(t, types.StatusReviewDone, updated.Status)
	require.Equal(t, uint(2), updated.ManagerID)
	require.Len(t, updated.Members, 1)
	require.Equal(t, uint(3), updated.Members[0].ID)
	require.Equal(t, types.RiskHigh, updated.RiskTier)
}

func Test_Update_NotFound(t *testing.T) {
	projectService, _, _, memberStore := newTestServices()
	seedEmployees(memberStore, 1)

	_, err := projectService.Update(99, validProject(1))

	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func Test_Delete_BlockedByActiveStatus(t *testing.T) {
	blocked := []types.Status{types.StatusStarted, types.StatusInProgress, types.StatusCompleted}
	allowed := []types.Status{
		types.StatusUnderReview, types.StatusReviewDone,
		types.StatusReviewApproved, types.StatusPlanned, types.StatusCancelled,
	}

	for _, status := range blocked {
		t.Run(status.String(), func(t *testing.T) {
			projectService, _, projectStore, _ := newTestServices()
			projectStore.Save(&models.Project{Name: "Apollo", Status: status})

			err := projectService.Delete(1)

			require.Error(t, err)
			require.Equal(t, apperrors.KindStateTransition, apperrors.KindOf(err))
		})
	}

	for _, status := range allowed {
		t.Run(status.String(), func(t *testing.T) {
			projectService, _, projectStore, _ := newTestServices()
			projectStore.Save(&models.Project{Name: "Apollo", Status: status})

			require.NoError(t, projectService.Delete(1))
			require.Empty(t, projectStore.projects)
		})
	}
}

func Test_ChangeStatus_CancelBypassesSequence(t *testing.T) {
	nonTerminal := []types.Status{
		types.StatusUnderReview, types.StatusReviewDone, types.StatusReviewApproved,
		types.StatusStarted, types.StatusPlanned, types.StatusInProgress,
	}

	for _, status := range nonTerminal {
		t.Run(status.String(), func(t *testing.T) {
			projectService, _, projectStore, _ := newTestServices()
			projectStore.Save(&models.Project{Name: "Apollo", Status: status})

			updated, err := projectService.ChangeStatus(1, types.StatusCancelled)

			require.NoError(t, err)
			require.Equal(t, types.StatusCancelled, updated.Status)
		})
	}
}

func Test_ChangeStatus_RejectsSkips(t *testing.T) {
	projectService, _, projectStore, _ := newTestServices()
	projectStore.Save(&models.Project{Name: "Apollo", Status: types.StatusUnderReview})

	_, err := projectService.ChangeStatus(1, types.StatusStarted)

	require.Error(t, err)
	require.Equal(t, apperrors.KindStateTransition, apperrors.KindOf(err))

	_, err = projectService.ChangeStatus(1, types.StatusUnderReview)
	require.Error(t, err)
}

func Test_ChangeStatus_CompletedStampsEndDate(t *testing.T) {
	projectService, _, projectStore, _ := newTestServices()
	projectStore.Save(&models.Project{Name: "Apollo", Status: types.StatusInProgress})

	updated, err := projectService.ChangeStatus(1, types.StatusCompleted)

	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, updated.Status)
	require.NotNil(t, updated.EndDate)
	require.WithinDuration(t, time.Now(), *updated.EndDate, time.Minute)
}

func Test_AdvanceStatus(t *testing.T) {
	projectService, _, projectStore, _ := newTestServices()
	projectStore.Save(&models.Project{Name: "Apollo", Status: types.StatusUnderReview})

	updated, err := projectService.AdvanceStatus(1)

	require.NoError(t, err)
	require.Equal(t, types.StatusReviewDone, updated.Status)
}

func Test_AdvanceStatus_TerminalFails(t *testing.T) {
	for _, status := range []types.Status{types.StatusCompleted, types.StatusCancelled} {
		t.Run(status.String(), func(t *testing.T) {
			projectService, _, projectStore, _ := newTestServices()
			projectStore.Save(&models.Project{Name: "Apollo", Status: status})

			_, err := projectService.AdvanceStatus(1)

			require.Error(t, err)
			require.Equal(t, apperrors.KindStateTransition, apperrors.KindOf(err))
		})
	}
}

func Test_AddMember(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1, 2)
	projectStore.Save(&models.Project{Name: "Apollo", Status: types.StatusStarted, Members: []models.Member{employee(1, "Employee")}})

	updated, err := projectService.AddMember(1, 2)

	require.NoError(t, err)
	require.Len(t, updated.Members, 2)
}

func Test_AddMember_Duplicate(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1)
	projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "Employee")}})

	_, err := projectService.AddMember(1, 1)

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
}

func Test_AddMember_CapacityExceeded(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()

	staff := make([]models.Member, 10)
	for i := range staff {
		staff[i] = employee(uint(i+1), "Employee")
	}
	seedEmployees(memberStore, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	projectStore.Save(&models.Project{Name: "Apollo", Members: staff})

	_, err := projectService.AddMember(1, 11)

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
}

func Test_AddMember_RoleNotEligible(t *testing.T) {
	for _, role := range []types.Role{types.RoleContractor, types.RoleShareholder} {
		t.Run(string(role), func(t *testing.T) {
			projectService, _, projectStore, memberStore := newTestServices()
			seedEmployees(memberStore, 1)

			outsider := member(2, "Outsider", role)
			memberStore.Save(&outsider)

			projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "Employee")}})

			_, err := projectService.AddMember(1, 2)

			require.Error(t, err)
			require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
		})
	}
}

func Test_AddMember_AllocationLimit(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1)

	busy := employee(2, "Busy")
	busy.Projects = []models.Project{
		{Model: gorm.Model{ID: 10}, Status: types.StatusStarted},
		{Model: gorm.Model{ID: 11}, Status: types.StatusInProgress},
		{Model: gorm.Model{ID: 12}, Status: types.StatusPlanned},
	}
	memberStore.Save(&busy)

	projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "Employee")}})

	_, err := projectService.AddMember(1, 2)

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))

	// One of the three finishing frees the member up again.
	busy.Projects[2].Status = types.StatusCancelled
	memberStore.Save(&busy)

	updated, err := projectService.AddMember(1, 2)

	require.NoError(t, err)
	require.Len(t, updated.Members, 2)
}

func Test_RemoveMember(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1, 2)
	projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "A"), employee(2, "B")}})

	updated, err := projectService.RemoveMember(1, 2)

	require.NoError(t, err)
	require.Len(t, updated.Members, 1)
	require.Equal(t, uint(1), updated.Members[0].ID)
}

func Test_RemoveMember_KeepsMinimum(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1)
	projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "A")}})

	_, err := projectService.RemoveMember(1, 1)

	require.Error(t, err)
	require.Equal(t, apperrors.KindMembershipRule, apperrors.KindOf(err))
}

func Test_RemoveMember_AbsentMemberIsNoOp(t *testing.T) {
	projectService, _, projectStore, memberStore := newTestServices()
	seedEmployees(memberStore, 1, 2, 3)
	projectStore.Save(&models.Project{Name: "Apollo", Members: []models.Member{employee(1, "A"), employee(2, "B")}})

	updated, err := projectService.RemoveMember(1, 3)

	require.NoError(t, err)
	require.Len(t, updated.Members, 2)
}

func Test_Report_Empty(t *testing.T) {
	projectService, _, _, _ := newTestServices()

	report, err := projectService.Report()

	require.NoError(t, err)
	require.Empty(t, report.ProjectsByStatus)
	require.Empty(t, report.TotalBudgetByStatus)
	require.Nil(t, report.AverageCompletedDays)
	require.Zero(t, report.UniqueMembers)
}

func Test_Report_Aggregates(t *testing.T) {
	projectService, _, projectStore, _ := newTestServices()

	endA := date(2024, time.January, 31)
	endB := date(2024, time.April, 11)

	projectStore.Save(&models.Project{
		Name: "A", Status: types.StatusCompleted, Budget: 100000,
		StartDate: date(2024, time.January, 1), EndDate: &endA,
		Members: []models.Member{employee(1, "A"), employee(2, "B")},
	})
	projectStore.Save(&models.Project{
		Name: "B", Status: types.StatusCompleted, Budget: 50000,
		StartDate: date(2024, time.April, 1), EndDate: &endB,
		Members: []models.Member{employee(2, "B")},
	})
	projectStore.Save(&models.Project{
		Name: "C", Status: types.StatusInProgress, Budget: 75000,
		StartDate: date(2024, time.May, 1),
		Members:   []models.Member{employee(3, "C")},
	})
	// Completed but without an end date on record: excluded from the average.
	projectStore.Save(&models.Project{
		Name: "D", Status: types.StatusCompleted, Budget: 25000,
		StartDate: date(2024, time.June, 1),
		Members:   []models.Member{employee(1, "A")},
	})

	report, err := projectService.Report()

	require.NoError(t, err)
	require.Equal(t, int64(3), report.ProjectsByStatus["COMPLETED"])
	require.Equal(t, int64(1), report.ProjectsByStatus["IN_PROGRESS"])
	require.Equal(t, float64(175000), report.TotalBudgetByStatus["COMPLETED"])
	require.Equal(t, float64(75000), report.TotalBudgetByStatus["IN_PROGRESS"])

	// (30 + 10) / 2 days.
	require.NotNil(t, report.AverageCompletedDays)
	require.Equal(t, int64(20), *report.AverageCompletedDays)

	require.Equal(t, 3, report.UniqueMembers)
}

func Test_FindPage(t *testing.T) {
	projectService, _, projectStore, _ := newTestServices()

	for i := 0; i < 12; i++ {
		projectStore.Save(&models.Project{Name: "P", Status: types.StatusUnderReview, Budget: 1000,
			StartDate: date(2024, time.January, 1), ProjectedEnd: date(2024, time.February, 1)})
	}

	page, total, err := projectService.FindPage(0, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	require.Equal(t, int64(12), total)

	page, _, err = projectService.FindPage(1, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, types.RiskLow, page[0].RiskTier)
}
