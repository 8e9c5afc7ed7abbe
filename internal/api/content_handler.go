package api

import (
	"context"
	"net/http"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logging"
	"github.com/gorilla/mux"
)

type AccessGate interface {
	Unlocked(ctx context.Context, userID string) (bool, error)
}

// ContentHandler answers the "is this module unlocked" question for the
// content-serving frontend. Lesson data itself lives elsewhere; only the
// paywall decision is made here.
type ContentHandler struct {
	gate AccessGate
}

func NewContentHandler(gate AccessGate) *ContentHandler {
	return &ContentHandler{gate: gate}
}

type ModuleAccessResponse struct {
	ModuleID string `json:"module_id"`
	Unlocked bool   `json:"unlocked"`
}

func (h *ContentHandler) ModuleAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logging.EnrichUser(r.Context(), user.ID)

	unlocked, err := h.gate.Unlocked(r.Context(), user.ID)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Failed to check access")
		return
	}

	writeJSON(w, ModuleAccessResponse{
		ModuleID: mux.Vars(r)["moduleID"],
		Unlocked: unlocked,
	})
}
