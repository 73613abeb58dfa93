package wol

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HerbHall/netpanel/internal/event"
	"github.com/HerbHall/netpanel/pkg/macaddr"
	"github.com/HerbHall/netpanel/pkg/plugin"
	"go.uber.org/zap"
)

// Waker wakes a host by MAC address.
type Waker interface {
	Wake(ctx context.Context, mac string) (string, error)
}

// Handler serves the Wake-on-LAN endpoint.
type Handler struct {
	waker  Waker
	bus    plugin.Publisher
	logger *zap.Logger
}

var _ plugin.HTTPProvider = (*Handler)(nil)

// NewHandler creates the handler. bus may be nil.
func NewHandler(waker Waker, bus plugin.Publisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{waker: waker, bus: bus, logger: logger}
}

// Routes implements plugin.HTTPProvider.
func (h *Handler) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/wol", Handler: h.handleWake},
	}
}

type wakeRequest struct {
	MAC string `json:"mac" example:"00:11:22:AA:BB:CC"`
}

type wakeResponse struct {
	OK  bool   `json:"ok" example:"true"`
	MAC string `json:"mac" example:"00:11:22:AA:BB:CC"`
}

// handleWake sends a magic packet to the given MAC address.
//
//	@Summary		Wake host
//	@Description	Accepts colon, dash or bare hex MAC addresses.
//	@Tags			wol
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wakeRequest	true	"Target MAC"
//	@Success		200		{object}	wakeResponse
//	@Failure		400		{object}	models.APIProblem
//	@Failure		502		{object}	models.APIProblem
//	@Router			/wol [post]
func (h *Handler) handleWake(w http.ResponseWriter, r *http.Request) {
	var req wakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	mac, err := h.waker.Wake(r.Context(), req.MAC)
	switch {
	case errors.Is(err, macaddr.ErrInvalidMAC):
		writeError(w, r, http.StatusBadRequest, "invalid MAC address")
		return
	case err != nil:
		writeError(w, r, http.StatusBadGateway, "wake-on-lan command failed")
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(r.Context(), plugin.Event{
			Topic:   event.TopicWakeSent,
			Source:  "wol",
			Payload: mac,
		})
	}
	writeJSON(w, http.StatusOK, wakeResponse{OK: true, MAC: mac})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an RFC 7807 problem detail response.
func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	slug := "bad-request"
	if status == http.StatusBadGateway {
		slug = "bad-gateway"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":     "https://netpanel.dev/problems/" + slug,
		"title":    http.StatusText(status),
		"status":   status,
		"detail":   detail,
		"instance": r.URL.Path,
	})
}
