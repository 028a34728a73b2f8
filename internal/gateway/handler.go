package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/auth"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/export"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/selection"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/session"
)

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	catalog    *catalog.Catalog
	store      *session.Store
	runner     session.Runner
	jwtManager *auth.JWTManager
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewHandler creates a new gateway handler
func NewHandler(cat *catalog.Catalog, store *session.Store, runner session.Runner, jwtManager *auth.JWTManager, tokenTTL time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:    cat,
		store:      store,
		runner:     runner,
		jwtManager: jwtManager,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// RegisterRoutes mounts the catalog and session routes on api. Session
// routes require a token issued for the session in the path.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, events *EventStream) {
	api.GET("/catalog/domains", h.ListDomains)
	api.GET("/catalog/domains/:id/services", h.ListServices)
	api.GET("/catalog/stacks", h.ListStacks)
	api.POST("/sessions", h.CreateSession)

	protected := api.Group("")
	protected.Use(auth.RequireSession(h.jwtManager, h.logger))

	protected.GET("/sessions/:id", h.GetSession)
	protected.PUT("/sessions/:id/domain", h.SelectDomain)
	protected.PUT("/sessions/:id/service", h.SelectService)
	protected.PUT("/sessions/:id/stack", h.SelectStack)
	protected.PUT("/sessions/:id/core-language", h.SelectCoreLanguage)
	protected.PUT("/sessions/:id/component", h.SelectComponent)
	protected.PUT("/sessions/:id/version", h.SelectVersion)
	protected.PUT("/sessions/:id/prompt", h.SetPrompt)
	protected.POST("/sessions/:id/generate", h.Generate)
	protected.PUT("/sessions/:id/files/active", h.SetActiveFile)
	protected.GET("/sessions/:id/files/active/raw", h.ActiveFileRaw)
	protected.GET("/sessions/:id/archive", h.Archive)

	if events != nil {
		protected.GET("/ws/sessions/:id", events.StreamSession)
	}
}

// DomainsResponse lists the catalog domains
type DomainsResponse struct {
	Domains []catalog.Domain `json:"domains"`
}

// ServicesResponse lists the services of one domain
type ServicesResponse struct {
	Domain   string            `json:"domain"`
	Services []catalog.Service `json:"services"`
}

// StacksResponse lists the catalog stacks
type StacksResponse struct {
	Stacks []catalog.Stack `json:"stacks"`
}

// CreateSessionRequest represents a session creation request
type CreateSessionRequest struct {
	Domain string `json:"domain" binding:"required"`
}

// CreateSessionResponse carries the new session and its bearer token
type CreateSessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	State     session.State `json:"state"`
}

// SelectRequest sets one step of the selection
type SelectRequest struct {
	Value string `json:"value" binding:"required"`
}

// PromptRequest replaces the free-text constraints
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// ActiveFileRequest selects the previewed file
type ActiveFileRequest struct {
	Index *int `json:"index" binding:"required"`
}

// ListDomains godoc
// @Summary List domains
// @Description List the top-level domains of the service catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} DomainsResponse
// @Router /catalog/domains [get]
func (h *Handler) ListDomains(c *gin.Context) {
	c.JSON(http.StatusOK, DomainsResponse{Domains: h.catalog.Domains()})
}

// ListServices godoc
// @Summary List services
// @Description List the services of a domain, optionally filtered by a case-insensitive name query
// @Tags catalog
// @Produce json
// @Param id path string true "Domain ID"
// @Param q query string false "Name filter"
// @Success 200 {object} ServicesResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /catalog/domains/{id}/services [get]
func (h *Handler) ListServices(c *gin.Context) {
	domainID := c.Param("id")
	if _, ok := h.catalog.Domain(domainID); !ok {
		respondError(c, http.StatusNotFound, "Domain not found", models.ErrCodeNotFound)
		return
	}
	c.JSON(http.StatusOK, ServicesResponse{
		Domain:   domainID,
		Services: h.catalog.Search(domainID, c.Query("q")),
	})
}

// ListStacks godoc
// @Summary List stacks
// @Description List every technology stack with its core languages, components and versions
// @Tags catalog
// @Produce json
// @Success 200 {object} StacksResponse
// @Router /catalog/stacks [get]
func (h *Handler) ListStacks(c *gin.Context) {
	c.JSON(http.StatusOK, StacksResponse{Stacks: h.catalog.Stacks()})
}

// CreateSession godoc
// @Summary Create session
// @Description Open a configurator session on a domain and return its bearer token
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Starting domain"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", models.ErrCodeInvalidRequest)
		return
	}
	if _, ok := h.catalog.Domain(req.Domain); !ok {
		respondError(c, http.StatusNotFound, "Domain not found", models.ErrCodeNotFound)
		return
	}

	s := h.store.Create(req.Domain)
	token, err := h.jwtManager.GenerateToken(c.Request.Context(), s.ID(), h.tokenTTL)
	if err != nil {
		h.store.Delete(s.ID())
		h.logger.Error("Failed to issue session token", zap.String("session_id", s.ID()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to generate token", models.ErrCodeInternalError)
		return
	}

	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: s.ID(),
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenTTL).UTC(),
		State:     s.Snapshot(),
	})
}

// GetSession godoc
// @Summary Get session
// @Description Get the full state of a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.State
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SelectDomain godoc
// @Summary Select domain
// @Description Switch the session to another domain. Resets the selection and the generated files.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Domain ID"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/domain [put]
func (h *Handler) SelectDomain(c *gin.Context) {
	h.applySelection(c, func(s *session.Session, value string) error {
		if _, ok := h.catalog.Domain(value); !ok {
			return fmt.Errorf("%w: domain %q", selection.ErrInvalidOption, value)
		}
		s.SelectDomain(value)
		return nil
	})
}

// SelectService godoc
// @Summary Select service
// @Description Select a service of the current domain by ID or name. Applies the suggested stack when the catalog knows it.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Service ID or name"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/service [put]
func (h *Handler) SelectService(c *gin.Context) {
	h.applySelection(c, (*session.Session).SelectService)
}

// SelectStack godoc
// @Summary Select stack
// @Description Select the technology stack by ID
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Stack ID"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/stack [put]
func (h *Handler) SelectStack(c *gin.Context) {
	h.applySelection(c, (*session.Session).SelectStack)
}

// SelectCoreLanguage godoc
// @Summary Select core language
// @Description Select one of the current stack's core languages. Clears the component.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Core language"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/core-language [put]
func (h *Handler) SelectCoreLanguage(c *gin.Context) {
	h.applySelection(c, (*session.Session).SelectCoreLanguage)
}

// SelectComponent godoc
// @Summary Select component
// @Description Select one of the current stack's components
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Component"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/component [put]
func (h *Handler) SelectComponent(c *gin.Context) {
	h.applySelection(c, (*session.Session).SelectComponent)
}

// SelectVersion godoc
// @Summary Select version
// @Description Select one of the current stack's version labels
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Version label"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/version [put]
func (h *Handler) SelectVersion(c *gin.Context) {
	h.applySelection(c, (*session.Session).SelectVersion)
}

// SetPrompt godoc
// @Summary Set prompt
// @Description Replace the free-text constraints sent with the generation request
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PromptRequest true "Prompt"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/prompt [put]
func (h *Handler) SetPrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", models.ErrCodeInvalidRequest)
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.SetPrompt(req.Prompt)
	c.JSON(http.StatusOK, s.Snapshot())
}

// Generate godoc
// @Summary Generate files
// @Description Send the current selection to the code generator and replace the session's files with the result.
// @Description Generator failures are reported as a single error.log file, not as an HTTP error.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.State
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Generate(c.Request.Context(), h.runner); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SetActiveFile godoc
// @Summary Set active file
// @Description Select the file shown in the preview
// @Tags files
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ActiveFileRequest true "File index"
// @Success 200 {object} session.State
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/files/active [put]
func (h *Handler) SetActiveFile(c *gin.Context) {
	var req ActiveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", models.ErrCodeInvalidRequest)
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.SetActiveFile(*req.Index); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ActiveFileRaw godoc
// @Summary Get active file content
// @Description Return the raw content of the active file, for copying to the clipboard
// @Tags files
// @Produce plain
// @Param id path string true "Session ID"
// @Success 200 {string} string
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/files/active/raw [get]
func (h *Handler) ActiveFileRaw(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	file, err := s.ActiveFile()
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.Header("X-File-Name", file.Name)
	c.String(http.StatusOK, "%s", file.Content)
}

// Archive godoc
// @Summary Download archive
// @Description Download every generated file as a zip archive named after the service
// @Tags files
// @Produce application/zip
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/archive [get]
func (h *Handler) Archive(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	name, data, err := s.Archive(c.Request.Context())
	if errors.Is(err, export.ErrNoFiles) {
		h.respondSessionError(c, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to build archive", models.ErrCodeArchiveFailed)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/zip", data)
}

func (h *Handler) applySelection(c *gin.Context, fn func(s *session.Session, value string) error) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", models.ErrCodeInvalidRequest)
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := fn(s, req.Value); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(c, http.StatusNotFound, "Session not found", models.ErrCodeNotFound)
	case errors.Is(err, selection.ErrStepLocked):
		respondError(c, http.StatusConflict, err.Error(), models.ErrCodeStepLocked)
	case errors.Is(err, selection.ErrInvalidOption):
		respondError(c, http.StatusBadRequest, err.Error(), models.ErrCodeInvalidOption)
	case errors.Is(err, selection.ErrNotReady):
		respondError(c, http.StatusUnprocessableEntity, "Service and stack must be selected", models.ErrCodeNotReady)
	case errors.Is(err, session.ErrGenerationInFlight):
		respondError(c, http.StatusConflict, "Generation already in progress", models.ErrCodeGenerationInFlight)
	case errors.Is(err, session.ErrFileIndex):
		respondError(c, http.StatusBadRequest, err.Error(), models.ErrCodeValidationFailed)
	case errors.Is(err, session.ErrNoActiveFile), errors.Is(err, export.ErrNoFiles):
		respondError(c, http.StatusNotFound, "No generated files", models.ErrCodeNoFiles)
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error", models.ErrCodeInternalError)
	}
}

func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, models.ErrorResponse{Error: message, Code: code})
}
