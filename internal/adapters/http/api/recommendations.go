package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

// RecommendationDependencies defines the interface for reading the current
// recommendation list.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, limit int) ([]model.Recommendation, error)
}

// RecommendationsHandler handles recommendation list requests.
type RecommendationsHandler struct {
	deps     RecommendationDependencies
	maxLimit int
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies, maxLimit int) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRecommendations handles GET /recommendations?limit=N requests.
// limit is optional; absent means the service default.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(r.URL.Query().Get("limit"), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidLimit, err))
		return
	}
	recs, err := h.deps.Recommendations(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs})
}

// parseLimit returns 0 for an absent value so the service default applies.
func parseLimit(raw string, maxLimit int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit %q is not an integer", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("limit must be at least 1, got %d", n)
	}
	if maxLimit > 0 && n > maxLimit {
		return 0, fmt.Errorf("limit %d exceeds maximum %d", n, maxLimit)
	}
	return n, nil
}
