package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"complaint-service/category"
	"complaint-service/database"
	"complaint-service/models"
	"complaint-service/service"

	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	lifecycle *service.ComplaintLifecycle
	profiles  *database.ProfileService
}

// NewHandlers creates a new handlers instance
func NewHandlers(lifecycle *service.ComplaintLifecycle, profiles *database.ProfileService) *Handlers {
	return &Handlers{
		lifecycle: lifecycle,
		profiles:  profiles,
	}
}

// CreateComplaint handles complaint intake
func (h *Handlers) CreateComplaint(c *gin.Context) {
	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.lifecycle.FileComplaint(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateStatus handles a status transition on a complaint
func (h *Handlers) UpdateStatus(c *gin.Context) {
	seq, ok := parseSeq(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.lifecycle.UpdateStatus(c.Request.Context(), seq, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SetFeedback handles citizen feedback on a complaint
func (h *Handlers) SetFeedback(c *gin.Context) {
	seq, ok := parseSeq(c)
	if !ok {
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.lifecycle.SetFeedback(c.Request.Context(), seq, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetComplaint returns one complaint with its history
func (h *Handlers) GetComplaint(c *gin.Context) {
	seq, ok := parseSeq(c)
	if !ok {
		return
	}

	complaint, err := h.lifecycle.GetComplaint(c.Request.Context(), seq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// ListComplaints lists complaints, optionally filtered by filer or resolver
func (h *Handlers) ListComplaints(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		complaints []models.Complaint
		err        error
	)
	switch {
	case c.Query("filer_id") != "":
		complaints, err = h.lifecycle.ListByFiler(ctx, c.Query("filer_id"))
	case c.Query("resolver") != "":
		complaints, err = h.lifecycle.ListByResolver(ctx, c.Query("resolver"))
	default:
		complaints, err = h.lifecycle.ListAll(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if complaints == nil {
		complaints = []models.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

// ListNearby lists complaints around the given coordinates
func (h *Handlers) ListNearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "lat and lng query parameters are required"})
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "coordinates out of range"})
		return
	}

	complaints, err := h.lifecycle.ListNearby(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}

	if complaints == nil {
		complaints = []models.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

// SuggestCategory maps a free-text label to a grievance category. Purely
// advisory: clients apply the suggestion before filing.
func (h *Handlers) SuggestCategory(c *gin.Context) {
	label := c.Query("label")
	if label == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "label query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label":    label,
		"category": category.MapLabel(label),
	})
}

// ListCategories returns the closed set of grievance categories
func (h *Handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": category.All})
}

// UpdatePushToken registers a device push token for a profile
func (h *Handlers) UpdatePushToken(c *gin.Context) {
	var req models.UpdatePushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if req.ProfileID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing required field: profile_id"})
		return
	}

	if err := h.profiles.UpdatePushToken(c.Request.Context(), req.ProfileID, req.PushToken); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update push token"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "push token updated"})
}

// HealthCheck returns the service health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Service:   "complaint-service",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func parseSeq(c *gin.Context) (int64, bool) {
	seq, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid complaint id"})
		return 0, false
	}
	return seq, true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	var ite *models.InvalidTransitionError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: ve.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "complaint not found"})
	case errors.As(err, &ite):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: ite.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
