package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/internal/apperrors"
	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/services"
	"github.com/portfolio-dev/portfolio/internal/types"
)

const dateLayout = "2006-01-02"

type ProjectRequest struct {
	Name             string  `json:"name" binding:"required"`
	StartDate        string  `json:"start_date" binding:"required"`
	ProjectedEndDate string  `json:"projected_end_date" binding:"required"`
	EndDate          *string `json:"end_date"`
	Budget           float64 `json:"budget" binding:"required,gt=0"`
	Description      string  `json:"description"`
	Status           string  `json:"status" binding:"required"`
	ManagerID        uint    `json:"manager_id" binding:"required"`
	MemberIDs        []uint  `json:"member_ids" binding:"required"`
}

type ProjectResponse struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	StartDate        string           `json:"start_date"`
	ProjectedEndDate string           `json:"projected_end_date"`
	EndDate          *string          `json:"end_date"`
	Budget           float64          `json:"budget"`
	Description      string           `json:"description"`
	Status           string           `json:"status"`
	RiskTier         types.RiskTier   `json:"risk_tier"`
	Manager          MemberResponse   `json:"manager"`
	Members          []MemberResponse `json:"members"`
}

type ProjectPageResponse struct {
	Content       []ProjectResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
}

func toProjectResponse(project *models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:               project.ID,
		Name:             project.Name,
		StartDate:        project.StartDate.Format(dateLayout),
		ProjectedEndDate: project.ProjectedEnd.Format(dateLayout),
		Budget:           project.Budget,
		Description:      project.Description,
		Status:           project.Status.String(),
		RiskTier:         project.RiskTier,
		Manager:          toMemberResponse(&project.Manager),
		Members:          make([]MemberResponse, 0, len(project.Members)),
	}

	if project.EndDate != nil {
		endDate := project.EndDate.Format(dateLayout)
		response.EndDate = &endDate
	}

	for i := range project.Members {
		response.Members = append(response.Members, toMemberResponse(&project.Members[i]))
	}

	return response
}

type ProjectHandler struct {
	projects *services.ProjectService
	members  *services.MemberService
}

func NewProjectHandler(projects *services.ProjectService, members *services.MemberService) *ProjectHandler {
	return &ProjectHandler{projects: projects, members: members}
}

// List returns one page of projects; page is zero-based and defaults to
// 0/10.
func (h *ProjectHandler) List(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "0"))

	if err != nil || page < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	size, err := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	if err != nil || size <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size"})
		return
	}

	projects, total, err := h.projects.FindPage(page, size)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := ProjectPageResponse{
		Content:       make([]ProjectResponse, 0, len(projects)),
		Page:          page,
		Size:          size,
		TotalElements: total,
	}

	for i := range projects {
		response.Content = append(response.Content, toProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) ListAll(ctx *gin.Context) {
	projects, err := h.projects.FindAll()

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	project, err := h.projects.FindByID(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.buildProject(&body)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.projects.Create(project); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	incoming, err := h.buildProject(&body)

	if err != nil {
		respondError(ctx, err)
		return
	}

	project, err := h.projects.Update(id, incoming)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	if err := h.projects.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.Status(http.StatusNoContent)
}

// ChangeStatus moves the project to the status named in the query
// parameter.
func (h *ProjectHandler) ChangeStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	status, err := types.ParseStatus(ctx.Query("status"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	project, err := h.projects.ChangeStatus(id, status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) AdvanceStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	project, err := h.projects.AdvanceStatus(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) AddMember(ctx *gin.Context) {
	projectID, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	memberID, ok := parseID(ctx, "member_id")

	if !ok {
		return
	}

	project, err := h.projects.AddMember(projectID, memberID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) RemoveMember(ctx *gin.Context) {
	projectID, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	memberID, ok := parseID(ctx, "member_id")

	if !ok {
		return
	}

	project, err := h.projects.RemoveMember(projectID, memberID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh()

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Report(ctx *gin.Context) {
	report, err := h.projects.Report()

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := gin.H{
		"projects_by_status":     report.ProjectsByStatus,
		"total_budget_by_status": report.TotalBudgetByStatus,
		"unique_members":         report.UniqueMembers,
	}

	if report.AverageCompletedDays != nil {
		response["average_completed_duration_days"] = *report.AverageCompletedDays
	} else {
		response["average_completed_duration_days"] = "no completed projects"
	}

	ctx.JSON(http.StatusOK, response)
}

// buildProject resolves the request's manager and member ids to full
// records, so the lifecycle service works on already loaded values.
func (h *ProjectHandler) buildProject(body *ProjectRequest) (*models.Project, error) {
	startDate, err := time.Parse(dateLayout, body.StartDate)

	if err != nil {
		return nil, apperrors.Validationf("invalid start date: %s", body.StartDate)
	}

	projectedEnd, err := time.Parse(dateLayout, body.ProjectedEndDate)

	if err != nil {
		return nil, apperrors.Validationf("invalid projected end date: %s", body.ProjectedEndDate)
	}

	var endDate *time.Time

	if body.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *body.EndDate)

		if err != nil {
			return nil, apperrors.Validationf("invalid end date: %s", *body.EndDate)
		}

		endDate = &parsed
	}

	status, err := types.ParseStatus(body.Status)

	if err != nil {
		return nil, err
	}

	manager, err := h.members.FindByID(body.ManagerID)

	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(body.MemberIDs))

	for _, memberID := range body.MemberIDs {
		member, err := h.members.FindByID(memberID)

		if err != nil {
			return nil, err
		}

		members = append(members, *member)
	}

	return &models.Project{
		Name:         body.Name,
		StartDate:    startDate,
		ProjectedEnd: projectedEnd,
		EndDate:      endDate,
		Budget:       body.Budget,
		Description:  body.Description,
		Status:       status,
		ManagerID:    manager.ID,
		Manager:      *manager,
		Members:      members,
	}, nil
}
