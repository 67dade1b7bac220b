package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nazcraft_server/internal/account"
	"nazcraft_server/internal/ai"
	"nazcraft_server/internal/catalog"
	"nazcraft_server/internal/logger"
	"nazcraft_server/internal/types"
	"nazcraft_server/internal/utils"
)

// SiteGenerator is the part of *ai.Generator the handlers need.
type SiteGenerator interface {
	GenerateSite(ctx context.Context, req ai.SiteRequest) (string, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator  SiteGenerator
	session    *account.Session
	log        logger.Logger
	generating atomic.Bool // set while a generation is in flight
	now        func() time.Time
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(gen SiteGenerator, session *account.Session, log logger.Logger) *APIHandler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &APIHandler{
		generator: gen,
		session:   session,
		log:       log.With(map[string]interface{}{"component": "api"}),
		now:       time.Now,
	}
}

// --- Request / Response payloads ---

type GenerateRequest struct {
	Template string `json:"template" binding:"required"`
	Prompt   string `json:"prompt"` // blank prompts are refused by the generator, not here
}

type GenerateResponse struct {
	ID       string `json:"id"`
	Template string `json:"template"`
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SignupResponse struct {
	RegistrationID string `json:"registrationId"`
}

type VerifyRequest struct {
	RegistrationID string `json:"registrationId" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UsersResponse struct {
	Users []account.User `json:"users"`
}

// --- Site generation ---

// ListTemplates returns the template picker entries.
func (h *APIHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Entries())
}

// GenerateSite runs one generation for the signed-in user and keeps the
// result for preview and download. Only one generation runs at a time.
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if !h.generating.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "A generation is already in progress"})
		return
	}
	defer h.generating.Store(false)

	tmpl, err := catalog.Parse(req.Template)
	if err != nil {
		// Let the generator report it so the credential check still comes first.
		tmpl = catalog.Template(req.Template)
	}

	h.log.Info("received generation request", map[string]interface{}{"template": req.Template})

	html, err := h.generator.GenerateSite(c.Request.Context(), ai.SiteRequest{Template: tmpl, Prompt: req.Prompt})
	if err != nil {
		h.writeGenerationError(c, tmpl, err)
		return
	}

	site := types.GeneratedSite{
		ID:          uuid.New().String(),
		Template:    tmpl.String(),
		Prompt:      req.Prompt,
		HTML:        html,
		GeneratedAt: h.now(),
	}
	if err := h.session.SetLastSite(site); err != nil {
		// Signed out while the request was running.
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("site generation successful", map[string]interface{}{"siteId": site.ID, "template": site.Template})
	c.JSON(http.StatusCreated, GenerateResponse{
		ID:       site.ID,
		Template: site.Template,
		HTML:     site.HTML,
		Filename: utils.DownloadFilename(site.Template, site.GeneratedAt),
	})
}

func (h *APIHandler) writeGenerationError(c *gin.Context, tmpl catalog.Template, err error) {
	switch {
	case errors.Is(err, ai.ErrUnknownTemplate), errors.Is(err, ai.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := ai.KindOf(err)
	h.log.WithError(err).Warn("site generation failed", map[string]interface{}{
		"template": tmpl.String(),
		"kind":     string(kind),
	})
	c.JSON(statusForKind(kind), gin.H{"error": err.Error(), "kind": kind})
}

func statusForKind(k ai.Kind) int {
	switch k {
	case ai.KindMissingCredential:
		return http.StatusFailedDependency
	case ai.KindInvalidCredential:
		return http.StatusUnauthorized
	case ai.KindResourceNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// PreviewSite serves the last generated page for an isolated iframe.
func (h *APIHandler) PreviewSite(c *gin.Context) {
	site, err := h.session.LastSite()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Security-Policy", "sandbox allow-scripts")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(site.HTML))
}

// DownloadSite serves the last generated page as a file attachment.
func (h *APIHandler) DownloadSite(c *gin.Context) {
	site, err := h.session.LastSite()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", utils.ContentDisposition(utils.DownloadFilename(site.Template, site.GeneratedAt)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(site.HTML))
}

// --- Mock auth ---

func (h *APIHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	id, err := h.session.Signup(account.SignupForm(req))
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, SignupResponse{RegistrationID: id})
}

// Verify completes the mock OTP step. Any code is accepted.
func (h *APIHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	u, err := h.session.Verify(req.RegistrationID)
	switch {
	case errors.Is(err, account.ErrUnknownRegistration):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, account.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.WithError(err).Error("failed to persist verification", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *APIHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	u, err := h.session.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.WithError(err).Error("failed to persist login", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isAdmin": u.Role == account.RoleAdmin})
}

func (h *APIHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(); err != nil {
		h.log.WithError(err).Error("failed to persist logout", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

func (h *APIHandler) SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// ListUsers is the admin dashboard's user table.
func (h *APIHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, UsersResponse{Users: h.session.Users()})
}

// --- Middleware ---

func (h *APIHandler) requireSignedIn(c *gin.Context) {
	if !h.session.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue"})
		return
	}
	c.Next()
}

func (h *APIHandler) requireAdmin(c *gin.Context) {
	if !h.session.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	c.Next()
}
