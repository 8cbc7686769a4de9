package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/internal/services"
	"github.com/portfolio-dev/portfolio/internal/types"
)

// MockMembers simulates the external member source with a fixed list.
func MockMembers(ctx *gin.Context) {
	members := []services.ExternalMember{
		{ID: 1, Name: "Josevan Oliveira", Role: types.RoleEmployee},
		{ID: 2, Name: "Branca Oliveira", Role: types.RoleEmployee},
		{ID: 3, Name: "Bruno Felipe", Role: types.RoleContractor},
		{ID: 4, Name: "Rebeca Loren", Role: types.RoleShareholder},
	}

	ctx.JSON(http.StatusOK, members)
}
