package router

import (
	"behaviorOpt/internal/middleware"
	"behaviorOpt/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	authGroup := api.Group("/auth")

	authGroup.POST("/signup", handler.Signup)
	authGroup.POST("/login", handler.Login)
	authGroup.POST("/refresh", handler.Refresh)
	authGroup.POST("/logout", handler.Logout, authRequired)
	authGroup.GET("/me", handler.Me, authRequired)
}

func SetupTrackingRoutes(api *echo.Group, handler *rest.TrackingHandler, rateLimit echo.MiddlewareFunc) {
	trackingGroup := api.Group("/tracking/:trackingId", rateLimit)

	trackingGroup.POST("/track", handler.Track)
	trackingGroup.POST("/batch", handler.Batch)
	trackingGroup.POST("/assignments", handler.Assignments)
}

func SetupProjectRoutes(api *echo.Group, handler *rest.ProjectHandler, authRequired echo.MiddlewareFunc) {
	projects := api.Group("/projects", authRequired)

	projects.GET("", handler.GetAllProjects)
	projects.GET("/:id", handler.GetProjectByID)
	projects.POST("", handler.CreateProject, middleware.AdminOnly())
}

func SetupExperimentRoutes(api *echo.Group, handler *rest.ExperimentHandler, authRequired echo.MiddlewareFunc) {
	experiments := api.Group("/experiments", authRequired)
	adminOnly := middleware.AdminOnly()

	experiments.GET("", handler.ListExperiments)
	experiments.GET("/sample-size", handler.SampleSize)
	experiments.GET("/:id", handler.GetExperiment)
	experiments.GET("/:id/results", handler.GetResults)

	experiments.POST("", handler.CreateExperiment, adminOnly)
	experiments.PUT("/:id", handler.UpdateExperiment, adminOnly)
	experiments.POST("/:id/start", handler.StartExperiment, adminOnly)
	experiments.POST("/:id/pause", handler.PauseExperiment, adminOnly)
	experiments.POST("/:id/complete", handler.CompleteExperiment, adminOnly)
}
