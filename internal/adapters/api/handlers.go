package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/observability"
	"go.uber.org/zap"
)

// Handler serves the training exercise endpoints
type Handler struct {
	tracker *core.ProgressTracker
	events  *core.EventLogger
	scoring *core.ScoringService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(
	tracker *core.ProgressTracker,
	events *core.EventLogger,
	scoring *core.ScoringService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		tracker: tracker,
		events:  events,
		scoring: scoring,
		metrics: metrics,
		logger:  logger,
	}
}

// EmailResponse is the client view of a scenario email
type EmailResponse struct {
	ID         string   `json:"id"`
	Theme      string   `json:"theme"`
	Sender     string   `json:"sender"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Cues       []string `json:"cues"`
	Difficulty string   `json:"difficulty"`
	IsPhishing bool     `json:"is_phishing"`
}

// EventRequest is the body of POST /api/event.
// Score is a pointer so that an explicit 0 passes the required check.
type EventRequest struct {
	UserID           string   `json:"user_id" binding:"required"`
	Action           string   `json:"action" binding:"required"`
	Score            *float64 `json:"score" binding:"required"`
	MessageHash      string   `json:"message_hash" binding:"required"`
	SelectedElements []string `json:"selected_elements"`
}

// ScoreRequest is the body of POST /api/score_text
type ScoreRequest struct {
	Text string `json:"text" binding:"required"`
}

// ScoreResponse is the result of POST /api/score_text
type ScoreResponse struct {
	Score     float64         `json:"score"`
	TopTokens []string        `json:"top_tokens"`
	Cues      map[string]bool `json:"cues"`
	Threshold float64         `json:"threshold"`
}

// ProgressResponse is the result of GET /api/progress/:user_id
type ProgressResponse struct {
	UserID    string `json:"user_id"`
	Served    int    `json:"served"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
}

// Ping is the liveness probe
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "pong"})
}

// NextEmail serves the next scenario email for a user and advances their cursor
func (h *Handler) NextEmail(c *gin.Context) {
	userID := c.Param("user_id")

	record, err := h.tracker.NextFor(c.Request.Context(), userID)
	if errors.Is(err, core.ErrNoMoreEmails) {
		h.metrics.RecordFetch(observability.OutcomeExhausted)
		c.JSON(http.StatusNotFound, gin.H{"msg": "No more emails"})
		return
	}
	if err != nil {
		h.metrics.RecordFetch(observability.OutcomeError)
		h.logger.Error("Failed to fetch next email", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	h.metrics.RecordFetch(observability.OutcomeServed)

	cues := record.Cues
	if cues == nil {
		cues = []string{}
	}

	c.JSON(http.StatusOK, EmailResponse{
		ID:         record.ID,
		Theme:      record.Theme,
		Sender:     record.Sender,
		Subject:    record.Subject,
		Body:       record.Body,
		Cues:       cues,
		Difficulty: record.Difficulty,
		IsPhishing: record.IsPhishing,
	})
}

// LogEvent appends one interaction event to the event log
func (h *Handler) LogEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordEvent(observability.OutcomeInvalid, 0)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	start := time.Now()
	eventID, err := h.events.Log(c.Request.Context(), core.EventSubmission{
		UserID:           req.UserID,
		Action:           req.Action,
		Score:            *req.Score,
		MessageHash:      req.MessageHash,
		SelectedElements: req.SelectedElements,
	})
	if err != nil {
		h.metrics.RecordEvent(observability.OutcomeError, time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to write CSV: " + err.Error()})
		return
	}

	h.metrics.RecordEvent(observability.OutcomeRecorded, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"ok": true, "event_id": eventID})
}

// ScoreText scores free text for phishing likelihood
func (h *Handler) ScoreText(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.scoring.Score(c.Request.Context(), req.Text)
	if err != nil {
		h.metrics.RecordScore("unknown", observability.OutcomeError)
		h.logger.Error("Failed to score text", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	h.metrics.RecordScore(result.ModelUsed, observability.OutcomeOK)
	c.JSON(http.StatusOK, ScoreResponse{
		Score:     result.Score,
		TopTokens: result.TopTokens,
		Cues:      result.Cues,
		Threshold: result.Threshold,
	})
}

// Progress reports how far a user is through the dataset
func (h *Handler) Progress(c *gin.Context) {
	userID := c.Param("user_id")

	served, total, err := h.tracker.Position(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to read progress", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ProgressResponse{
		UserID:    userID,
		Served:    served,
		Total:     total,
		Remaining: total - served,
	})
}
