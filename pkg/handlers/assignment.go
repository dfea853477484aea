package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieflink/relief-api-go/pkg/models"
)

// AssignVolunteer links an available volunteer to a request
func (h *Handler) AssignVolunteer(c *gin.Context) {
	var req struct {
		VolunteerID string `json:"volunteer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.VolunteerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volunteer_id is required"})
		return
	}

	updated, err := h.Admin.AssignVolunteer(c.Param("id"), req.VolunteerID)
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": updated})
}

// UnassignVolunteer clears a request's assignment and releases the volunteer
func (h *Handler) UnassignVolunteer(c *gin.Context) {
	updated, err := h.Admin.UnassignVolunteer(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": updated})
}

// UpdateStatus is the direct lifecycle override for manual corrections
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRequestStatus(models.RequestStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}

	updated, err := h.Admin.UpdateStatus(c.Param("id"), models.RequestStatus(req.Status))
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": updated})
}

// UpdateNotes replaces the admin notes on a request
func (h *Handler) UpdateNotes(c *gin.Context) {
	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Admin.UpdateNotes(c.Param("id"), h.clean(req.AdminNotes))
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": updated})
}
