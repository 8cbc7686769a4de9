package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/portfolio-dev/portfolio/db"
	"github.com/portfolio-dev/portfolio/internal/handlers"
	"github.com/portfolio-dev/portfolio/internal/middleware"
	"github.com/portfolio-dev/portfolio/internal/services"
	"github.com/portfolio-dev/portfolio/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	mockURL := os.Getenv("MOCK_MEMBERS_URL")
	if mockURL == "" {
		mockURL = types.DefaultMockMembersURL
	}

	memberService := services.NewMemberService(
		db.NewMemberStore(db.DB),
		services.NewExternalMemberClient(mockURL),
	)
	projectService := services.NewProjectService(db.NewProjectStore(db.DB), memberService)

	memberHandler := handlers.NewMemberHandler(memberService)
	projectHandler := handlers.NewProjectHandler(projectService, memberService)

	// Simulated external member source, outside the API group on purpose.
	r.GET("/mock/members", handlers.MockMembers)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/portfolio", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		members := api.Group("/members", middleware.AuthMiddleware())
		{
			members.GET("", memberHandler.List)
			members.GET("/external", memberHandler.External)
			members.GET("/:id", memberHandler.Get)
			members.POST("", memberHandler.Create)
			members.PUT("/:id", memberHandler.Update)
			members.DELETE("/:id", memberHandler.Delete)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("", projectHandler.List)
			projects.GET("/all", projectHandler.ListAll)
			projects.GET("/report", projectHandler.Report)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", projectHandler.Create)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.PATCH("/:id/status", projectHandler.ChangeStatus)
			projects.PATCH("/:id/advance-status", projectHandler.AdvanceStatus)
			projects.POST("/:id/members/:member_id", projectHandler.AddMember)
			projects.DELETE("/:id/members/:member_id", projectHandler.RemoveMember)
		}
	}

	return r
}
