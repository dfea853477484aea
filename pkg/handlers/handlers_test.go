package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/relieflink/relief-api-go/pkg/auth"
	"github.com/relieflink/relief-api-go/pkg/database"
	"github.com/relieflink/relief-api-go/pkg/models"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	r := gin.New()
	Routes(r, New(db))
	return r, db
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AdminUser{Username: "coordinator", PasswordHash: hash}).Error)

	token, err := auth.CreateToken("coordinator")
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitHelpRequest_MissingRequiredField(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"name":         "Kamala",
		"contact_info": "",
		"location":     "Colombo",
		"type_of_need": "food",
		"urgency":      "high",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "contact_info")

	var count int64
	db.Model(&models.HelpRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitHelpRequest_Created(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-5551234",
		"location":     "Colombo",
		"type_of_need": "medical",
		"urgency":      "high",
		"description":  "insulin needed",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusOpen, created.Status)
	assert.Nil(t, created.AssignedVolunteerID)
}

func TestSubmitHelpRequest_UnknownEnum(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-5551234",
		"location":     "Colombo",
		"type_of_need": "rescue",
		"urgency":      "high",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.HelpRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitVolunteer(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/volunteers", "", gin.H{
		"name":         "Nimal",
		"contact_info": "077-5550000",
		"location":     "Galle",
		"type_of_help": []string{"driver", "food_delivery"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Volunteer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.VolunteerAvailable, created.Status)

	// empty capability set is rejected
	w = doJSON(r, http.MethodPost, "/volunteers", "", gin.H{
		"name":         "Saman",
		"contact_info": "077-5550001",
		"location":     "Galle",
		"type_of_help": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Volunteer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAdminSurface_RequiresAuth(t *testing.T) {
	r, db := setupRouter(t)

	req := models.HelpRequest{
		ContactInfo: "071-1", Location: "Colombo",
		TypeOfNeed: models.NeedFood, Urgency: models.UrgencyHigh,
		Status: models.StatusOpen,
	}
	require.NoError(t, db.Create(&req).Error)

	calls := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/admin/requests", nil},
		{http.MethodGet, "/admin/volunteers", nil},
		{http.MethodGet, "/admin/requests/" + req.ID, nil},
		{http.MethodPost, "/admin/requests/" + req.ID + "/assign", gin.H{"volunteer_id": "x"}},
		{http.MethodPost, "/admin/requests/" + req.ID + "/unassign", nil},
		{http.MethodPut, "/admin/requests/" + req.ID + "/status", gin.H{"status": "completed"}},
		{http.MethodPut, "/admin/requests/" + req.ID + "/notes", gin.H{"admin_notes": "x"}},
	}

	for _, call := range calls {
		w := doJSON(r, call.method, call.path, "", call.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", call.method, call.path)

		w = doJSON(r, call.method, call.path, "not-a-token", call.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", call.method, call.path)
	}

	// nothing was mutated
	var got models.HelpRequest
	require.NoError(t, db.Where("id = ?", req.ID).First(&got).Error)
	assert.Equal(t, models.StatusOpen, got.Status)
	assert.Empty(t, got.AdminNotes)
}

func TestAdminSurface_RevokedAdminForbidden(t *testing.T) {
	r, _ := setupRouter(t)

	// valid token for a user who is no longer in the admin set
	token, err := auth.CreateToken("ghost")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/admin/requests", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginAndListFilters(t *testing.T) {
	r, db := setupRouter(t)
	_ = adminToken(t, db)

	w := doJSON(r, http.MethodPost, "/admin/login", "", gin.H{
		"username": "coordinator", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/login", "", gin.H{
		"username": "coordinator", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-1", "location": "Colombo",
		"type_of_need": "food", "urgency": "high",
	})
	doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-2", "location": "Kandy",
		"type_of_need": "shelter", "urgency": "low",
	})

	w = doJSON(r, http.MethodGet, "/admin/requests?urgency=high", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Count    int                  `json:"count"`
		Requests []models.HelpRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "Colombo", listing.Requests[0].Location)

	// a typo'd filter value fails loudly instead of matching nothing
	w = doJSON(r, http.MethodGet, "/admin/requests?status=opeen", login.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentWorkflowOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	token := adminToken(t, db)

	w := doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-5551234", "location": "Colombo",
		"type_of_need": "medical", "urgency": "high",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var req models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &req))

	w = doJSON(r, http.MethodPost, "/volunteers", "", gin.H{
		"name": "Nimal", "contact_info": "077-1", "location": "colombo",
		"type_of_help": []string{"medical_skills", "driver"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var vol models.Volunteer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vol))

	// the detail view suggests the matching volunteer
	w = doJSON(r, http.MethodGet, "/admin/requests/"+req.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Request            models.HelpRequest `json:"request"`
		MatchingVolunteers []models.Volunteer `json:"matching_volunteers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.MatchingVolunteers, 1)
	assert.Equal(t, vol.ID, detail.MatchingVolunteers[0].ID)

	// assign
	w = doJSON(r, http.MethodPost, "/admin/requests/"+req.ID+"/assign", token, gin.H{
		"volunteer_id": vol.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Request models.HelpRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusInProgress, updated.Request.Status)
	require.NotNil(t, updated.Request.AssignedVolunteerID)
	assert.Equal(t, vol.ID, *updated.Request.AssignedVolunteerID)

	// assigning a busy volunteer elsewhere conflicts
	w = doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-9", "location": "Colombo",
		"type_of_need": "medical", "urgency": "medium",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var other models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))

	w = doJSON(r, http.MethodPost, "/admin/requests/"+other.ID+"/assign", token, gin.H{
		"volunteer_id": vol.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// notes round-trip
	w = doJSON(r, http.MethodPut, "/admin/requests/"+req.ID+"/notes", token, gin.H{
		"admin_notes": "spoke with requester, ETA 1h",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/requests/"+req.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "spoke with requester, ETA 1h", detail.Request.AdminNotes)

	// unassign releases the volunteer
	w = doJSON(r, http.MethodPost, "/admin/requests/"+req.ID+"/unassign", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusOpen, updated.Request.Status)
	assert.Nil(t, updated.Request.AssignedVolunteerID)

	var gotVol models.Volunteer
	require.NoError(t, db.Where("id = ?", vol.ID).First(&gotVol).Error)
	assert.Equal(t, models.VolunteerAvailable, gotVol.Status)

	// direct status override leaves the linkage alone
	w = doJSON(r, http.MethodPost, "/admin/requests/"+req.ID+"/assign", token, gin.H{
		"volunteer_id": vol.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPut, "/admin/requests/"+req.ID+"/status", token, gin.H{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusCompleted, updated.Request.Status)
	require.NotNil(t, updated.Request.AssignedVolunteerID)

	w = doJSON(r, http.MethodPut, "/admin/requests/"+req.ID+"/status", token, gin.H{
		"status": "done",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestDetail_NotFound(t *testing.T) {
	r, db := setupRouter(t)
	token := adminToken(t, db)

	w := doJSON(r, http.MethodGet, "/admin/requests/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/requests/no-such-id/assign", token, gin.H{
		"volunteer_id": "also-missing",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteSanitization(t *testing.T) {
	r, db := setupRouter(t)
	token := adminToken(t, db)

	w := doJSON(r, http.MethodPost, "/requests", "", gin.H{
		"contact_info": "071-1", "location": "Colombo",
		"type_of_need": "food", "urgency": "low",
		"description":  "<script>alert(1)</script>need rice",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var req models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &req))
	assert.NotContains(t, req.Description, "<script>")
	assert.Contains(t, req.Description, "need rice")

	w = doJSON(r, http.MethodPut,
		fmt.Sprintf("/admin/requests/%s/notes", req.ID), token,
		gin.H{"admin_notes": "<img src=x onerror=alert(1)>checked"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Request models.HelpRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.NotContains(t, updated.Request.AdminNotes, "<img")
	assert.Contains(t, updated.Request.AdminNotes, "checked")
}
