package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/internal/group"
	"studyCheckAPI/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req group.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.groupService.CreateGroup(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, errvalues.ErrOrderNotFound), errors.Is(err, errvalues.ErrOrderNotPaid):
			respondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			respondWithError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	log.Printf("CreateGroup Handler: group %s created for order %s", g.ID, req.OrderID)
	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req group.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.groupService.Join(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, errvalues.ErrGroupNotFound), errors.Is(err, errvalues.ErrWrongPassword):
			// Same answer for both, so the entry form can't be used to probe
			// which room names exist.
			respondWithError(w, http.StatusForbidden, "Wrong room name or password")
		case errors.Is(err, errvalues.ErrGroupFull):
			respondWithError(w, http.StatusForbidden, "This room is full")
		default:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) InviteQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	resp, err := h.groupService.InviteQR(ctx, groupID)
	if err != nil {
		if errors.Is(err, errvalues.ErrGroupNotFound) {
			respondWithError(w, http.StatusNotFound, "Group not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
