package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/services"
)

// maxSubmitBody bounds one multipart submission; ten compressed photos fit
// comfortably.
const maxSubmitBody = 32 << 20

type HomeworkHandler struct {
	homeworkService *services.HomeworkService
}

func NewHomeworkHandler(homeworkService *services.HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{
		homeworkService: homeworkService,
	}
}

// Submit accepts the day's homework as multipart form data: student_name and
// description fields plus any number of "photos" files.
func (h *HomeworkHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)
	if err := r.ParseMultipartForm(maxSubmitBody); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	studentName := strings.TrimSpace(r.FormValue("student_name"))
	description := strings.TrimSpace(r.FormValue("description"))
	if studentName == "" || description == "" {
		respondWithError(w, http.StatusBadRequest, "student_name and description are required")
		return
	}

	photos := make([]services.PhotoUpload, 0)
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["photos"] {
			f, err := fh.Open()
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Unable to read uploaded photo")
				return
			}
			defer f.Close()
			photos = append(photos, services.PhotoUpload{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        f,
			})
		}
	}

	progress := func(pct int) {
		log.Printf("Homework upload [%s/%s]: %d%%", groupID, studentName, pct)
	}

	resp, err := h.homeworkService.Submit(ctx, groupID, studentName, description, photos, progress)
	if err != nil {
		if errors.Is(err, errvalues.ErrStorageDisabled) {
			respondWithError(w, http.StatusServiceUnavailable, "Photo storage is not configured")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to save homework, please try again")
		return
	}

	if resp.Updated {
		respondWithJSON(w, http.StatusOK, resp)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *HomeworkHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	resp, err := h.homeworkService.TodayForGroup(ctx, groupID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *HomeworkHandler) GetTodayForStudent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	groupID, err := uuid.Parse(vars["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	hw, err := h.homeworkService.TodayForStudent(ctx, groupID, vars["student"])
	if err != nil {
		if errors.Is(err, errvalues.ErrHomeworkNotFound) {
			respondWithError(w, http.StatusNotFound, "No homework for today")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, hw)
}

type deleteHomeworkRequest struct {
	StudentName string `json:"student_name"`
}

func (h *HomeworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	homeworkID, err := uuid.Parse(mux.Vars(r)["homeworkID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid homework id")
		return
	}

	var req deleteHomeworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.StudentName) == "" {
		respondWithError(w, http.StatusBadRequest, "student_name is required")
		return
	}

	if err := h.homeworkService.DeleteToday(ctx, homeworkID, strings.TrimSpace(req.StudentName)); err != nil {
		if errors.Is(err, errvalues.ErrNotToday) {
			respondWithError(w, http.StatusForbidden, "Only today's homework can be deleted")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Homework deleted"})
}

func (h *HomeworkHandler) GetStudentStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	groupID, err := uuid.Parse(vars["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	result, err := h.homeworkService.StudentStreak(ctx, groupID, vars["student"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
