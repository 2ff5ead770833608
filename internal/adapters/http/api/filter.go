package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/types"
)

// FilterDependencies defines the interface for applying a prepared spec.
type FilterDependencies interface {
	Apply(ctx context.Context, spec model.FilterSpec) ([]model.Person, error)
}

// FilterHandler handles filter requests.
type FilterHandler struct {
	deps FilterDependencies
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(deps FilterDependencies) *FilterHandler {
	return &FilterHandler{deps: deps}
}

// HandleFilter handles POST /filter requests carrying a FilterSpec.
func (h *FilterHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.filter"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var spec model.FilterSpec
	if err := decodeBody(w, r, &spec, true); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if err := validateSpec(spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", WrapKind(op, ErrBadRequest, err))
		return
	}

	people, err := h.deps.Apply(r.Context(), spec)
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SearchResult{
		SpecView: types.NewSpecView("", spec),
		Total:    len(people),
		Returned: len(people),
		People:   people,
	})
}

func validateSpec(spec model.FilterSpec) error {
	switch {
	case (spec.AgeMin == nil) != (spec.AgeMax == nil):
		return errors.New("age_min and age_max must be set together")
	case spec.HasAgeRange() && *spec.AgeMin > *spec.AgeMax:
		return errors.New("age_min must not exceed age_max")
	}
	return nil
}
