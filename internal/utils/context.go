package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (types.UserResponse, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return types.UserResponse{}, fmt.Errorf("user not authenticated")
	}

	currentUser, ok := user.(types.UserResponse)

	if !ok {
		return types.UserResponse{}, fmt.Errorf("invalid user type in context")
	}

	return currentUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
