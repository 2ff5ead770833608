package api

import (
	"context"
	"net/http"

	"github.com/okian/cohort/internal/domain/model"
)

// PeopleDependencies defines the interface for listing the panel.
type PeopleDependencies interface {
	People(ctx context.Context) ([]model.Person, error)
}

type peopleResponse struct {
	Total  int            `json:"total"`
	People []model.Person `json:"people"`
}

// PeopleHandler handles panel listing requests.
type PeopleHandler struct {
	deps PeopleDependencies
}

// NewPeopleHandler creates a new people handler.
func NewPeopleHandler(deps PeopleDependencies) *PeopleHandler {
	return &PeopleHandler{deps: deps}
}

// HandleGetPeople handles GET /people requests.
func (h *PeopleHandler) HandleGetPeople(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_people"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	people, err := h.deps.People(r.Context())
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, peopleResponse{Total: len(people), People: people})
}
