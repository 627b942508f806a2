package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

type HandlerManager struct {
	testHandler    *TestHandler
	attemptHandler *AttemptHandler
	contentHandler *ContentHandler
	authenticator  *Authenticator
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authenticator *Authenticator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		testHandler: NewTestHandler(serviceManager.Test(), logger),
		attemptHandler: NewAttemptHandler(
			serviceManager.Attempt(),
			serviceManager.Leaderboard(),
			serviceManager.Export(),
			logger,
		),
		contentHandler: NewContentHandler(
			serviceManager.Job(),
			serviceManager.Blog(),
			serviceManager.Material(),
			serviceManager.Video(),
			logger,
		),
		authenticator: authenticator,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "placement-portal",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(hm.authenticator.Middleware())
	{
		tests := v1.Group("/tests")
		{
			tests.GET("", hm.testHandler.ListTests)
			tests.GET("/:id", hm.testHandler.GetTest)

			// Attempt lifecycle
			tests.POST("/:id/begin", hm.attemptHandler.BeginAttempt)
			tests.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)
			tests.GET("/:id/leaderboard", hm.attemptHandler.TestLeaderboard)

			// Officer-only management
			officer := tests.Group("", RequireOfficer())
			{
				officer.POST("", hm.testHandler.CreateTest)
				officer.POST("/:id/publish", hm.testHandler.PublishTest)
				officer.POST("/:id/unpublish", hm.testHandler.UnpublishTest)
				officer.DELETE("/:id", hm.testHandler.DeleteTest)
				officer.GET("/:id/stats", hm.testHandler.GetTestStats)
			}
		}

		results := v1.Group("/results")
		{
			results.GET("/mine", hm.attemptHandler.MyResults)
			results.GET("/leaderboard", hm.attemptHandler.Leaderboard)
			results.GET("/leaderboard/export", RequireOfficer(), hm.attemptHandler.ExportLeaderboard)
			results.GET("/tests/:id/export", RequireOfficer(), hm.attemptHandler.ExportTestResults)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("", hm.contentHandler.ListJobs)
			jobs.GET("/:id", hm.contentHandler.GetJob)
			jobs.POST("/:id/apply", hm.contentHandler.ApplyToJob)

			officer := jobs.Group("", RequireOfficer())
			{
				officer.POST("", hm.contentHandler.CreateJob)
				officer.PUT("/:id", hm.contentHandler.UpdateJob)
				officer.DELETE("/:id", hm.contentHandler.DeleteJob)
				officer.GET("/:id/applications", hm.contentHandler.ListJobApplications)
			}
		}

		blogs := v1.Group("/blogs")
		{
			blogs.POST("", hm.contentHandler.CreateBlog)
			blogs.GET("", hm.contentHandler.ListBlogs)
			blogs.GET("/:id", hm.contentHandler.GetBlog)
			blogs.DELETE("/:id", hm.contentHandler.DeleteBlog)
			blogs.POST("/:id/approve", RequireOfficer(), hm.contentHandler.ApproveBlog)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", hm.contentHandler.ListMaterials)
			materials.POST("", RequireOfficer(), hm.contentHandler.CreateMaterial)
			materials.DELETE("/:id", RequireOfficer(), hm.contentHandler.DeleteMaterial)
		}

		videos := v1.Group("/videos")
		{
			videos.GET("", hm.contentHandler.ListVideos)
			videos.POST("", RequireOfficer(), hm.contentHandler.CreateVideo)
			videos.DELETE("/:id", RequireOfficer(), hm.contentHandler.DeleteVideo)
		}
	}
}
