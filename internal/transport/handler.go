package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200

	// maxWebhookBody bounds how much of a delivery we are willing to read.
	maxWebhookBody = 8 << 20
)

// Handler serves the REST API.
type Handler struct {
	logger   *zap.Logger
	ingestor Ingestor
	query    Query
	hub      *Hub
}

// NewHandler returns a Handler instance. hub may be nil when the websocket
// feed is disabled.
func NewHandler(ingestor Ingestor, query Query, hub *Hub, logger *zap.Logger) (*Handler, error) {
	if ingestor == nil {
		return nil, errors.New("ingestor is required")
	}
	if query == nil {
		return nil, errors.New("query is required")
	}
	return &Handler{
		logger:   logger.Named("transport"),
		ingestor: ingestor,
		query:    query,
		hub:      hub,
	}, nil
}

// Routes builds the route table. The webhook intake is guarded by the
// shared secret; everything else is public read-only.
func (h *Handler) Routes(webhookSecret string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/webhooks/chainhook", requireBearer(webhookSecret, http.HandlerFunc(h.handleWebhook)))
	mux.HandleFunc("GET /api/activities", h.handleActivities)
	mux.HandleFunc("GET /api/activities/{address}", h.handleUserActivities)
	mux.HandleFunc("GET /api/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.hub != nil {
		mux.HandleFunc("GET /ws", h.hub.handleWS)
	}
	return mux
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	summary, err := h.ingestor.ProcessPayload(r.Context(), body)
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	records := h.query.QueryRecent(limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"activities": records,
		"count":      len(records),
	})
}

func (h *Handler) handleUserActivities(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if address == "" {
		h.writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"))
	records := h.query.QueryByUser(address, limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"address":    address,
		"activities": records,
		"count":      len(records),
	})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	entries := h.query.QueryLeaderboard(limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.query.Stats())
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonnet.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response not encoded", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultQueryLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultQueryLimit
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}
