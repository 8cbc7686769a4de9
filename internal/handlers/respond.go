package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/internal/apperrors"
	"github.com/portfolio-dev/portfolio/internal/logging"
)

// respondError maps domain error kinds to HTTP statuses: missing ids are
// 404, every rule or validation failure is 400, anything else is a 500
// that never leaks internals to the client.
func respondError(ctx *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.KindValidation, apperrors.KindStateTransition, apperrors.KindMembershipRule:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Logger.Errorf("Unhandled error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
