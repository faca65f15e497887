package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hypewatch/internal/services/feedback"
	"hypewatch/internal/services/prediction"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// API holds the handlers for the analysis endpoints
type API struct {
	predictions *prediction.Service
	feedback    *feedback.Service
	log         *logger.Logger
}

// NewAPI creates the analysis API handlers
func NewAPI(predictions *prediction.Service, fb *feedback.Service) *API {
	return &API{
		predictions: predictions,
		feedback:    fb,
		log:         logger.Get().With("component", "api"),
	}
}

type feedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	Rating         string `json:"rating"`
	Notes          string `json:"notes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandlePredict runs the analysis pipeline for one ticker
func (a *API) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	result, err := a.predictions.Analyze(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			a.writeError(w, http.StatusBadRequest, "ticker is required")
			return
		}
		a.log.Errorf("predict failed for %s: %v", ticker, err)
		a.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	a.writeJSON(w, http.StatusOK, result)
}

// HandleFeedback records one feedback note
func (a *API) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fb, err := a.feedback.Record(r.Context(), req.ConversationID, req.Rating, req.Notes)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			a.writeError(w, http.StatusBadRequest, "rating is required")
			return
		}
		a.log.Errorf("feedback record failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	a.writeJSON(w, http.StatusCreated, fb)
}

// HandleListFeedback returns recent feedback, newest first
func (a *API) HandleListFeedback(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			a.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	items, err := a.feedback.Recent(r.Context(), limit)
	if err != nil {
		a.log.Errorf("feedback list failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (a *API) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, code int, message string) {
	a.writeJSON(w, code, errorResponse{Error: message})
}
