package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"studyCheckAPI/middleware"
	"studyCheckAPI/services"
)

type StudyHandler struct {
	studyService *services.StudyService
}

func NewStudyHandler(studyService *services.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

type checkInRequest struct {
	PhotoURL *string `json:"photo_url"`
}

func (h *StudyHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	var req checkInRequest
	if r.Body != nil {
		// Body is optional; a bare POST checks in without a photo.
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.studyService.CheckIn(ctx, familyCode, req.PhotoURL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save today's check-in, please try again")
		return
	}

	if result.AlreadyDone {
		middleware.RecordCheckin("repeat")
		respondWithJSON(w, http.StatusOK, result)
		return
	}

	middleware.RecordCheckin("new")
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *StudyHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	keys, err := h.studyService.DayKeys(ctx, familyCode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]string{"study_dates": keys})
}

func (h *StudyHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	result, err := h.studyService.Streak(ctx, familyCode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *StudyHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'year' is required")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'month' must be 1-12")
		return
	}

	cal, err := h.studyService.Calendar(ctx, familyCode, year, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func (h *StudyHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	weeks := 16
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 53 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'weeks' must be 1-53")
			return
		}
		weeks = parsed
	}

	hm, err := h.studyService.Heatmap(ctx, familyCode, weeks)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, hm)
}

func (h *StudyHandler) DeleteToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	familyCode, ok := middleware.GetFamilyCode(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Family code missing")
		return
	}

	if err := h.studyService.DeleteToday(ctx, familyCode); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Today's check-in removed"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
