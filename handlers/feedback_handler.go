package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/internal/feedback"
	"studyCheckAPI/services"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	homeworkID, err := uuid.Parse(mux.Vars(r)["homeworkID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid homework id")
		return
	}

	var req feedback.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fb, err := h.feedbackService.Create(ctx, homeworkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, errvalues.ErrEmptyFeedback), errors.Is(err, errvalues.ErrInvalidReaction):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, errvalues.ErrHomeworkNotFound):
			respondWithError(w, http.StatusNotFound, "Homework not found")
		default:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	homeworkID, err := uuid.Parse(mux.Vars(r)["homeworkID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid homework id")
		return
	}

	items, err := h.feedbackService.List(ctx, homeworkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}
