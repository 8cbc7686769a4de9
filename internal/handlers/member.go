package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/models"
	"github.com/portfolio-dev/portfolio/internal/services"
	"github.com/portfolio-dev/portfolio/internal/types"
)

type MemberRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	ID   uint       `json:"id"`
	Name string     `json:"name"`
	Role types.Role `json:"role"`
}

func toMemberResponse(member *models.Member) MemberResponse {
	return MemberResponse{
		ID:   member.ID,
		Name: member.Name,
		Role: member.Role,
	}
}

type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

func (h *MemberHandler) List(ctx *gin.Context) {
	members, err := h.members.FindAll()

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MemberResponse, 0, len(members))

	for i := range members {
		response = append(response, toMemberResponse(&members[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	member, err := h.members.FindByID(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Create(ctx *gin.Context) {
	var body MemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	member := models.Member{
		Name: body.Name,
		Role: types.Role(body.Role),
	}

	if err := h.members.Create(&member); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toMemberResponse(&member))
}

func (h *MemberHandler) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	var body MemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	member, err := h.members.Update(id, body.Name, types.Role(body.Role))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")

	if !ok {
		return
	}

	if err := h.members.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// External proxies the external member source.
func (h *MemberHandler) External(ctx *gin.Context) {
	members, err := h.members.FetchExternalMembers()

	if err != nil {
		logging.Logger.Errorf("External member source unavailable: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "External member source unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}

	return uint(id), true
}
