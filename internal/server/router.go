package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/handlers"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowOrigins   []string
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Student        *handlers.StudentHandler
	Assignment     *handlers.AssignmentHandler
	LMS            *handlers.LMSHandler
	Milestone      *handlers.MilestoneHandler
	Career         *handlers.CareerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Students
	protected.POST("/students", cfg.Student.Create)
	protected.GET("/students", cfg.Student.List)
	protected.GET("/students/:id", cfg.Student.Get)
	protected.PATCH("/students/:id", cfg.Student.Update)
	protected.DELETE("/students/:id", cfg.Student.Delete)

	// LMS
	protected.POST("/students/:id/lms", cfg.LMS.Connect)
	protected.POST("/students/:id/lms/sync", cfg.LMS.Sync)
	protected.GET("/students/:id/assignments", cfg.Assignment.List)

	// Study plans
	protected.POST("/students/:id/assignments/:assignmentID/plan", cfg.Milestone.GeneratePlan)
	protected.GET("/students/:id/assignments/:assignmentID/plan", cfg.Milestone.ListPlan)
	protected.DELETE("/students/:id/assignments/:assignmentID/plan", cfg.Milestone.ClearPlan)
	protected.GET("/students/:id/assignments/:assignmentID/plan/progress", cfg.Milestone.Progress)
	protected.POST("/students/:id/assignments/:assignmentID/plan/milestones", cfg.Milestone.AppendMilestone)
	protected.POST("/students/:id/milestones/:milestoneID/complete", cfg.Milestone.MarkComplete)
	protected.GET("/students/:id/milestones/upcoming", cfg.Milestone.ListUpcoming)

	// Career guidance
	protected.POST("/students/:id/career/chat", cfg.Career.Send)
	protected.GET("/students/:id/career/chat", cfg.Career.History)
	protected.GET("/career/fields", cfg.Career.ListFields)
	protected.GET("/career/fields/:slug", cfg.Career.GetField)

	return router
}
