package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieflink/relief-api-go/pkg/models"
)

// SubmitHelpRequest accepts a public help-request submission
func (h *Handler) SubmitHelpRequest(c *gin.Context) {
	var in struct {
		Name        string `json:"name"`
		ContactInfo string `json:"contact_info"`
		Location    string `json:"location"`
		TypeOfNeed  string `json:"type_of_need"`
		Description string `json:"description"`
		Urgency     string `json:"urgency"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := models.HelpRequest{
		Name:        h.clean(in.Name),
		ContactInfo: in.ContactInfo,
		Location:    in.Location,
		TypeOfNeed:  models.NeedType(in.TypeOfNeed),
		Description: h.clean(in.Description),
		Urgency:     models.Urgency(in.Urgency),
	}

	if err := req.Validate(); err != nil {
		if !validationError(c, err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if err := h.Public.CreateHelpRequest(&req); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// SubmitVolunteer accepts a public volunteer-offer submission
func (h *Handler) SubmitVolunteer(c *gin.Context) {
	var in struct {
		Name         string   `json:"name"`
		ContactInfo  string   `json:"contact_info"`
		Location     string   `json:"location"`
		TypeOfHelp   []string `json:"type_of_help"`
		Availability string   `json:"availability"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	types := make(models.HelpTypeList, 0, len(in.TypeOfHelp))
	for _, t := range in.TypeOfHelp {
		types = append(types, models.HelpType(t))
	}

	vol := models.Volunteer{
		Name:         h.clean(in.Name),
		ContactInfo:  in.ContactInfo,
		Location:     in.Location,
		TypeOfHelp:   types,
		Availability: h.clean(in.Availability),
	}

	if err := vol.Validate(); err != nil {
		if !validationError(c, err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if err := h.Public.CreateVolunteer(&vol); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vol)
}
