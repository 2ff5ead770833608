package api

import (
	"context"
	"net/http"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/types"
)

// SearchDependencies defines the interface for query-driven operations.
type SearchDependencies interface {
	Interpret(ctx context.Context, text string) model.FilterSpec
	Search(ctx context.Context, text string) (types.SearchResult, error)
}

// queryRequest mirrors the OpenAPI schema for POST /search and /interpret.
type queryRequest struct {
	Query string `json:"query"`
}

// SearchHandler handles search and interpret requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles GET /search?q=... and POST /search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"

	var text string
	switch r.Method {
	case http.MethodGet:
		text = r.URL.Query().Get("q")
	case http.MethodPost:
		var req queryRequest
		if err := decodeBody(w, r, &req, false); err != nil {
			writeDecodeError(w, op, err)
			return
		}
		text = req.Query
	default:
		http.NotFound(w, r)
		return
	}

	res, err := h.deps.Search(r.Context(), text)
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleInterpret handles POST /interpret requests.
func (h *SearchHandler) HandleInterpret(w http.ResponseWriter, r *http.Request) {
	const op = "api.interpret"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req queryRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	spec := h.deps.Interpret(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, types.NewSpecView(req.Query, spec))
}
