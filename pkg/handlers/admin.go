package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieflink/relief-api-go/pkg/models"
	"github.com/relieflink/relief-api-go/pkg/store"
)

// ListHelpRequests returns the filtered help-request listing
func (h *Handler) ListHelpRequests(c *gin.Context) {
	var filter models.RequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := filter.Validate(); err != nil {
		if !validationError(c, err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	requests, err := h.Admin.ListHelpRequests(filter)
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// ListVolunteers returns every volunteer record
func (h *Handler) ListVolunteers(c *gin.Context) {
	volunteers, err := h.Admin.ListVolunteers()
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"volunteers": volunteers, "count": len(volunteers)})
}

// GetRequestDetail returns one request, its freshly computed volunteer
// matches, and the assigned volunteer's record when one is set
func (h *Handler) GetRequestDetail(c *gin.Context) {
	req, err := h.Admin.GetHelpRequest(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	matches, err := h.Admin.MatchVolunteers(req)
	if err != nil {
		storeError(c, err)
		return
	}

	var assigned *models.Volunteer
	if req.AssignedVolunteerID != nil {
		assigned, err = h.Admin.GetVolunteer(*req.AssignedVolunteerID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			storeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"request":             req,
		"matching_volunteers": matches,
		"assigned_volunteer":  assigned,
	})
}

// GetVolunteerDetail returns one volunteer record
func (h *Handler) GetVolunteerDetail(c *gin.Context) {
	vol, err := h.Admin.GetVolunteer(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"volunteer": vol})
}
