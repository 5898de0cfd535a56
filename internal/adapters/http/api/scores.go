package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/types"
)

// ScoresDependencies defines the interface for the on-demand scores view.
type ScoresDependencies interface {
	Filter(ctx context.Context, p types.FilterParams) ([]types.Entry, error)
}

// ScoresHandler handles scores view requests.
type ScoresHandler struct {
	deps     ScoresDependencies
	maxLimit int
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoresDependencies, maxLimit int) *ScoresHandler {
	return &ScoresHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetScores handles GET /scores requests.
//
// Query parameters, all optional:
//
//	threshold  minimum score kept (inclusive)
//	limit      maximum rows returned
//	decay      "true" for the configured factor, or the factor itself
//	normalize  rescale scores into [0, 1] before thresholding
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidLimit, err))
		return
	}
	params, err := parseFilter(q)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, scoring.ErrInvalidDecayFactor) {
			code = "invalid_decay_factor"
		}
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}
	params.Limit = limit

	rows, err := h.deps.Filter(r.Context(), params)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidDecayFactor) {
			writeError(w, http.StatusBadRequest, "invalid_decay_factor", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{Entries: rows})
}

func parseFilter(q url.Values) (types.FilterParams, error) {
	var p types.FilterParams

	if raw := strings.TrimSpace(q.Get("threshold")); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(t) {
			return p, fmt.Errorf("threshold %q is not a number", raw)
		}
		p.Threshold = &t
	}

	if raw := strings.TrimSpace(q.Get("decay")); raw != "" {
		if factor, err := strconv.ParseFloat(raw, 64); err == nil {
			if err := scoring.ValidateDecayFactor(factor); err != nil {
				return p, err
			}
			p.Decay, p.DecayFactor = true, factor
		} else {
			on, err := strconv.ParseBool(raw)
			if err != nil {
				return p, fmt.Errorf("decay %q is neither a factor nor a boolean", raw)
			}
			p.Decay = on
		}
	}

	if raw := strings.TrimSpace(q.Get("normalize")); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("normalize %q is not a boolean", raw)
		}
		p.Normalize = on
	}
	return p, nil
}
