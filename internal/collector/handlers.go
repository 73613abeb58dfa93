package collector

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/HerbHall/netpanel/pkg/plugin"
	"go.uber.org/zap"
)

// Handler serves host records and history series.
type Handler struct {
	agg     *Aggregator
	history *History
	logger  *zap.Logger
}

var _ plugin.HTTPProvider = (*Handler)(nil)

// NewHandler creates the collector HTTP handler.
func NewHandler(agg *Aggregator, history *History, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{agg: agg, history: history, logger: logger}
}

// Routes implements plugin.HTTPProvider.
func (h *Handler) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/hosts", Handler: h.handleListHosts},
		{Method: "GET", Path: "/hosts/{id}", Handler: h.handleGetHost},
		{Method: "GET", Path: "/history/{id}/{metric}", Handler: h.handleHistory},
	}
}

// LegacyRoutes returns the paths the bundled UI calls.
func (h *Handler) LegacyRoutes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/computers", Handler: h.handleListHosts},
		{Method: "GET", Path: "/host/{id}", Handler: h.handleGetHost},
		{Method: "GET", Path: "/history/{id}/{metric}", Handler: h.handleHistory},
	}
}

// handleListHosts returns a record for every monitored host.
//
//	@Summary		List hosts
//	@Description	Returns normalized metrics for every Zabbix host. The list is empty when Zabbix is unavailable.
//	@Tags			hosts
//	@Produce		json
//	@Success		200	{array}	models.MetricRecord
//	@Router			/hosts [get]
func (h *Handler) handleListHosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.agg.Snapshot(r.Context()))
}

// handleGetHost returns the record of one host.
//
//	@Summary		Get host
//	@Tags			hosts
//	@Produce		json
//	@Param			id	path		int	true	"Zabbix host id"
//	@Success		200	{object}	models.MetricRecord
//	@Failure		400	{object}	models.APIProblem
//	@Failure		404	{object}	models.APIProblem
//	@Router			/hosts/{id} [get]
func (h *Handler) handleGetHost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validHostID(id) {
		writeError(w, r, http.StatusBadRequest, "host id must be numeric")
		return
	}

	rec, err := h.agg.Host(r.Context(), id)
	switch {
	case errors.Is(err, ErrHostNotFound):
		writeError(w, r, http.StatusNotFound, "host "+id+" not found")
		return
	case err != nil:
		// Upstream unavailable reads the same as an unknown host.
		h.logger.Warn("host lookup failed", zap.String("host_id", id), zap.Error(err))
		writeError(w, r, http.StatusNotFound, "host "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleHistory returns a 24h history series of one metric.
//
//	@Summary		Get metric history
//	@Description	Metrics: ram, cpu, disk, firewall-sessions, storage-used, poe-power, ports-up.
//	@Tags			history
//	@Produce		json
//	@Param			id		path	int		true	"Zabbix host id"
//	@Param			metric	path	string	true	"Metric name"
//	@Success		200		{array}		models.HistoryPoint
//	@Failure		404		{object}	models.APIProblem
//	@Router			/history/{id}/{metric} [get]
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validHostID(id) {
		writeError(w, r, http.StatusBadRequest, "host id must be numeric")
		return
	}

	points, err := h.history.Metric(r.Context(), id, r.PathValue("metric"))
	if errors.Is(err, ErrUnknownMetric) {
		writeError(w, r, http.StatusNotFound, "unknown metric "+strconv.Quote(r.PathValue("metric")))
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func validHostID(id string) bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an RFC 7807 problem detail response.
func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":     "https://netpanel.dev/problems/" + problemSlug(status),
		"title":    http.StatusText(status),
		"status":   status,
		"detail":   detail,
		"instance": r.URL.Path,
	})
}

func problemSlug(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad-request"
	case http.StatusNotFound:
		return "not-found"
	case http.StatusBadGateway:
		return "bad-gateway"
	default:
		return "internal-error"
	}
}
