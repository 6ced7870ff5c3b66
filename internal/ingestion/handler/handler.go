package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/internal/ingestion/publisher"
	"github.com/telugupadalu/dictionary/internal/ingestion/validator"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
	"github.com/telugupadalu/dictionary/pkg/logger"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	publisher *publisher.Publisher
	logger    *slog.Logger
}

func New(pub *publisher.Publisher) *Handler {
	return &Handler{
		publisher: pub,
		logger:    slog.Default().With("component", "ingestion-handler"),
	}
}

// Register mounts the word routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/words", h.AddWord)
	mux.HandleFunc("GET /api/v1/words/{headword}", h.GetWord)
	mux.HandleFunc("POST /api/v1/words/{headword}/synonyms", h.AppendSynonyms)
	mux.HandleFunc("POST /api/v1/words/{headword}/links", h.AppendLinks)
}

func (h *Handler) AddWord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req ingestion.AddWordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validator.ValidateAddWord(&req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	resp, err := h.publisher.AddWord(ctx, &req)
	if err != nil {
		h.writeStoreError(w, r, "add word failed", err)
		return
	}
	log.Info("word added",
		"headword", resp.Headword,
		"synonyms", len(resp.Synonyms),
	)
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) AppendSynonyms(w http.ResponseWriter, r *http.Request) {
	var req ingestion.AppendRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validator.ValidateSynonyms(req.Values); err != nil {
		h.writeValidationError(w, err)
		return
	}
	entry, err := h.publisher.AppendSynonyms(r.Context(), r.PathValue("headword"), req.Values)
	if err != nil {
		h.writeStoreError(w, r, "append synonyms failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) AppendLinks(w http.ResponseWriter, r *http.Request) {
	var req ingestion.AppendRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validator.ValidateLinks(req.Values); err != nil {
		h.writeValidationError(w, err)
		return
	}
	entry, err := h.publisher.AppendLinks(r.Context(), r.PathValue("headword"), req.Values)
	if err != nil {
		h.writeStoreError(w, r, "append links failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	entry, err := h.publisher.GetWord(r.Context(), r.PathValue("headword"))
	if err != nil {
		h.writeStoreError(w, r, "get word failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := apperrors.HTTPStatusCode(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(msg, "error", err, "status_code", status)
	} else {
		log.Info(msg, "error", err, "status_code", status)
	}

	switch {
	case errors.Is(err, apperrors.ErrWordExists):
		h.writeError(w, status, "word already exists")
	case errors.Is(err, apperrors.ErrWordNotFound):
		h.writeError(w, status, "word not found")
	case status >= http.StatusInternalServerError:
		h.writeError(w, status, msg)
	default:
		h.writeError(w, status, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
