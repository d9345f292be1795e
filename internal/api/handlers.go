package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vietddude/chainlens/internal/comments"
	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/health"
	"github.com/vietddude/chainlens/internal/lookup"
)

const (
	msgInternal           = "Internal error"
	msgUnsupportedNetwork = "Unsupported network"
	maxBodyBytes          = 64 << 10
)

// Lookuper resolves a query into a lookup result.
type Lookuper interface {
	Lookup(ctx context.Context, query string, network domain.Network) (*domain.LookupResult, error)
}

// CommentService lists and posts comments.
type CommentService interface {
	List(ctx context.Context, network, address, clientIP string) (*comments.Thread, error)
	Post(ctx context.Context, network, address, clientIP, text string) (*domain.Comment, *comments.Thread, error)
	Storage() string
}

// HealthChecker reports the health of the store and upstream providers.
type HealthChecker interface {
	CheckHealth(ctx context.Context) health.Report
}

// Handler holds the HTTP handlers.
type Handler struct {
	lookup   Lookuper
	comments CommentService
	health   HealthChecker
	log      *slog.Logger
}

// NewHandler creates the API handlers.
func NewHandler(l Lookuper, c CommentService, hc HealthChecker, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{lookup: l, comments: c, health: hc, log: log}
}

type lookupRequest struct {
	Query   string `json:"query"`
	Network string `json:"network"`
}

// HandleLookup serves POST /api/lookup.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log.Warn("malformed lookup body", "error", err)
		respondJSON(w, http.StatusInternalServerError, domain.FailedLookup(unknownInput, msgInternal))
		return
	}

	network, ok := domain.ParseNetwork(req.Network)
	if !ok {
		respondJSON(w, http.StatusBadRequest, domain.FailedLookup(unknownInput, msgUnsupportedNetwork))
		return
	}

	res, err := h.lookup.Lookup(r.Context(), req.Query, network)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, res)
	case lookup.IsClientError(err):
		respondJSON(w, http.StatusBadRequest, res)
	default:
		h.log.Error("lookup failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, domain.FailedLookup(unknownInput, msgInternal))
	}
}

type threadResponse struct {
	OK       bool             `json:"ok"`
	Network  string           `json:"network"`
	Address  string           `json:"address"`
	CanPost  bool             `json:"canPost"`
	Comments []domain.Comment `json:"comments"`
	Storage  string           `json:"storage"`
}

// HandleListComments serves GET /api/comments.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	thread, err := h.comments.List(r.Context(), q.Get("network"), q.Get("address"), ClientIP(r))
	if err != nil {
		h.handleCommentError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, threadResponse{
		OK:       true,
		Network:  thread.Key.Network,
		Address:  thread.Key.Address,
		CanPost:  thread.CanPost,
		Comments: thread.Comments,
		Storage:  h.comments.Storage(),
	})
}

type postCommentRequest struct {
	Network string `json:"network"`
	Address string `json:"address"`
	Text    string `json:"text"`
}

type postCommentResponse struct {
	OK       bool             `json:"ok"`
	Comment  *domain.Comment  `json:"comment"`
	Comments []domain.Comment `json:"comments"`
	CanPost  bool             `json:"canPost"`
	Storage  string           `json:"storage"`
}

// HandlePostComment serves POST /api/comments.
func (h *Handler) HandlePostComment(w http.ResponseWriter, r *http.Request) {
	var req postCommentRequest
	// An unreadable body is treated as an empty one so the caller gets the missing-field message.
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)

	c, thread, err := h.comments.Post(r.Context(), req.Network, req.Address, ClientIP(r), req.Text)
	if err != nil {
		h.handleCommentError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, postCommentResponse{
		OK:       true,
		Comment:  c,
		Comments: thread.Comments,
		CanPost:  false,
		Storage:  h.comments.Storage(),
	})
}

// HandleHealth serves GET /health. Only an unreachable comment store fails the check.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.health.CheckHealth(r.Context())
	code := http.StatusOK
	if report.Status == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, report)
}

func (h *Handler) handleCommentError(w http.ResponseWriter, err error) {
	var verr *comments.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, domain.ErrDuplicate):
		respondError(w, http.StatusForbidden, comments.MsgDuplicate)
	default:
		h.log.Error("comment store failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
	}
}

var unknownInput = domain.Classification{Kind: domain.KindUnknown, Network: domain.NetworkUnknown}

// respondJSON writes payload with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the {ok:false, error} envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"ok": false, "error": message})
}
