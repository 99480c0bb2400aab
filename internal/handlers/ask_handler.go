package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/services/answer"
	"github.com/ternarybob/askdocs/internal/services/retrieval"
)

const (
	msgQueryRequired = "Query is required."
	msgInvalidBody   = "Invalid request body."
	msgNoCorpus      = "No documents are indexed yet. Please try again later."
	msgAskFailed     = "Failed to get answer from AI. Please check server logs."
)

// AskRequest is the body of POST /ask
type AskRequest struct {
	Query string `json:"query" validate:"required"`
}

// AskHandler serves the question answering endpoint
type AskHandler struct {
	answerer Answerer
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(answerer Answerer, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		answerer: answerer,
		validate: validator.New(),
		logger:   logger,
	}
}

// AskHandler handles POST /ask
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AskRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("Rejected malformed ask request")
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	result, err := h.answerer.Answer(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, answer.ErrEmptyQuery):
			WriteError(w, http.StatusBadRequest, msgQueryRequired)
		case errors.Is(err, retrieval.ErrNoCorpus):
			h.logger.Warn().Msg("Question received before any documents were indexed")
			WriteError(w, http.StatusServiceUnavailable, msgNoCorpus)
		default:
			h.logger.Error().Err(err).Msg("Error during AI processing")
			WriteErrorDetails(w, http.StatusInternalServerError, msgAskFailed, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
