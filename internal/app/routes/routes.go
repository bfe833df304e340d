// Package routes wires controllers onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/controllers"
	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/middleware"
)

// Controllers groups every HTTP handler set
type Controllers struct {
	Site        *controllers.SiteController
	Course      *controllers.CourseController
	Material    *controllers.MaterialController
	Opportunity *controllers.OpportunityController
	Timetable   *controllers.TimetableController
	Auth        *controllers.AuthController
	Profile     *controllers.ProfileController
	Comment     *controllers.CommentController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/", ctrl.Site.GetSite)

	v1 := router.Group("/api/v1")
	v1.GET("/site", ctrl.Site.GetSite)
	v1.GET("/health", ctrl.Site.Health)

	// --- Public catalogue routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", ctrl.Course.GetCourses)
		courses.GET("/:slug", authMiddleware.OptionalAuth(), ctrl.Course.GetCourse)
	}

	v1.GET("/materials", ctrl.Material.GetMaterials)
	v1.GET("/opportunities", ctrl.Opportunity.List(models.KindOpportunities))
	v1.GET("/jobs", ctrl.Opportunity.List(models.KindJobs))
	v1.GET("/events", ctrl.Opportunity.List(models.KindEvents))
	v1.GET("/timetable", ctrl.Timetable.GetTimetable)

	profiles := v1.Group("/profiles")
	{
		profiles.GET("", ctrl.Profile.GetProfiles)
		profiles.GET("/:email", authMiddleware.OptionalAuth(), ctrl.Profile.GetProfile)
	}
	v1.GET("/comments", ctrl.Comment.GetComments)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/account", ctrl.Profile.GetAccount)
		authenticated.POST("/materials/rate", ctrl.Material.RateMaterial)
		authenticated.POST("/materials/verify", ctrl.Material.VerifyMaterial)
		authenticated.POST("/comments", ctrl.Comment.AddComment)
	}
}
