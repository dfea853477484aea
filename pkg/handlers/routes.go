package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Routes installs the full route table. Shared by cmd/server and the
// serverless entrypoint so both surfaces stay identical.
func Routes(r *gin.Engine, h *Handler) {
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Static admin landing page from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Relief Coordination API",
			"version": "1.0.0",
		})
	})

	// Public submissions
	r.POST("/requests", h.SubmitHelpRequest)
	r.POST("/volunteers", h.SubmitVolunteer)

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin surface, gated on session + admin membership
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("/requests", h.ListHelpRequests)
		admin.GET("/requests/:id", h.GetRequestDetail)
		admin.GET("/volunteers", h.ListVolunteers)
		admin.GET("/volunteers/:id", h.GetVolunteerDetail)

		admin.POST("/requests/:id/assign", h.AssignVolunteer)
		admin.POST("/requests/:id/unassign", h.UnassignVolunteer)
		admin.PUT("/requests/:id/status", h.UpdateStatus)
		admin.PUT("/requests/:id/notes", h.UpdateNotes)
	}
}
