package handlers

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/relieflink/relief-api-go/pkg/auth"
	"github.com/relieflink/relief-api-go/pkg/models"
	"github.com/relieflink/relief-api-go/pkg/store"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Public store.PublicStore
	Admin  store.AdminStore

	// strict policy: free-text fields are plain text, any markup is stripped
	sanitizer *bluemonday.Policy
}

// New wires a Handler with both store credentials
func New(db *gorm.DB) *Handler {
	return &Handler{
		DB:        db,
		Public:    store.NewPublicStore(db),
		Admin:     store.NewAdminStore(db),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h *Handler) clean(s string) string {
	return h.sanitizer.Sanitize(s)
}

// AuthMiddleware is the admin gate: a valid session token AND current
// membership in the admin set. Failures are reported explicitly, never
// swallowed.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if !auth.IsAdmin(h.DB, claims.Username) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not an administrator"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.AdminUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// storeError maps store failures onto HTTP responses. Backend errors are
// already logged at the store layer; callers get a generic failure.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, store.ErrVolunteerUnavailable),
		errors.Is(err, store.ErrAlreadyAssigned),
		errors.Is(err, store.ErrNotAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure, please retry"})
	}
}

// validationError reports a rejected submission field inline
func validationError(c *gin.Context, err error) bool {
	if ve, ok := models.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason, "field": ve.Field})
		return true
	}
	return false
}

// AdminInterface serves the admin landing page from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	_ = auth.EnsureAdminExists(h.DB)

	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
