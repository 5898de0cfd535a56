package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
)

const maxBodyBytes = 4 << 20

// InteractionDependencies defines the interface for interaction ingestion.
type InteractionDependencies interface {
	Ingest(ctx context.Context, events []model.InteractionEvent) (types.IngestResult, error)
}

// interactionRequest is one element of the POST /interactions body.
type interactionRequest struct {
	ID              string `json:"id" validate:"max=128"`
	ItemID          string `json:"itemID" validate:"required,max=256"`
	Timestamp       string `json:"timestamp" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	InteractionType string `json:"interactionType" validate:"required,max=64"`
}

type interactionBatch struct {
	Items []interactionRequest `validate:"min=1,max=10000,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r interactionRequest) event() (model.InteractionEvent, error) {
	kind := model.ParseKind(r.InteractionType)
	if kind == "" {
		return model.InteractionEvent{}, errors.New("interactionType is blank")
	}
	itemID := strings.TrimSpace(r.ItemID)
	if itemID == "" {
		return model.InteractionEvent{}, errors.New("itemID is blank")
	}
	ev := model.InteractionEvent{
		ID:     strings.TrimSpace(r.ID),
		ItemID: itemID,
		Kind:   kind,
	}
	if r.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return model.InteractionEvent{}, fmt.Errorf("invalid timestamp; must be RFC3339: %w", err)
		}
		ev.Timestamp = ts
	}
	return ev, nil
}

// decodeBatch accepts either a single interaction object or an array.
func decodeBatch(body []byte) (interactionBatch, error) {
	var batch interactionBatch
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return batch, errors.New("empty body")
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &batch.Items); err != nil {
			return batch, err
		}
		return batch, nil
	}
	var one interactionRequest
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return batch, err
	}
	batch.Items = []interactionRequest{one}
	return batch, nil
}

// validationMessage flattens validator errors into "field: tag" pairs.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := strings.TrimPrefix(fe.Namespace(), "interactionBatch.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", ns, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", ns, fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// InteractionsHandler handles interaction ingestion requests.
type InteractionsHandler struct {
	deps InteractionDependencies
}

// NewInteractionsHandler creates a new interactions handler.
func NewInteractionsHandler(deps InteractionDependencies) *InteractionsHandler {
	return &InteractionsHandler{deps: deps}
}

// HandlePostInteractions handles POST /interactions requests. The body is
// a single interaction or an array of them; the response carries the
// recomputed recommendations.
func (h *InteractionsHandler) HandlePostInteractions(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interactions"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", WrapKind(op, ErrBadRequest, err))
		return
	}
	batch, err := decodeBatch(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(batch); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, validationMessage(err)))
		return
	}

	events := make([]model.InteractionEvent, len(batch.Items))
	for i, item := range batch.Items {
		ev, err := item.event()
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, fmt.Errorf("[%d]: %w", i, err)))
			return
		}
		events[i] = ev
	}

	res, err := h.deps.Ingest(r.Context(), events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
