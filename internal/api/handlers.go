package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/version"
)

type handlers struct {
	eph   *almanac.Ephemeris
	cache *ephem.Cache
	now   func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string             `json:"status"`
	Version  string             `json:"version"`
	Datasets []ephem.CacheEntry `json:"datasets"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(ctx).Error("encoding response", "status", status, "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}

// fail maps engine errors to HTTP statuses.
func fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, almanac.ErrInvalidDate),
		errors.Is(err, ephem.ErrInvalidBody),
		errors.Is(err, astro.ErrInvalidObserver),
		errors.Is(err, ephem.ErrOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, ephem.ErrDatasetUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("query failed", "error", err)
	}
	writeError(ctx, w, status, err.Error())
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(r.Context(), w, http.StatusNotFound, "not found: "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeError(r.Context(), w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
}

// date reads ?date=YYYY-MM-DD, defaulting to today in the observer's zone.
func (h *handlers) date(r *http.Request) (almanac.Date, error) {
	if s := r.URL.Query().Get("date"); s != "" {
		return almanac.ParseDate(s)
	}
	return almanac.DateOf(h.now(), h.eph.Location()), nil
}

// instant reads ?time=RFC3339, defaulting to now.
func (h *handlers) instant(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("time")
	if s == "" {
		return h.now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q is not RFC 3339", almanac.ErrInvalidDate, s)
	}
	return t, nil
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: version.Version, Datasets: []ephem.CacheEntry{}}
	if h.cache != nil {
		resp.Datasets = h.cache.Entries()
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *handlers) observer(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, report.ExportObserver(h.eph.Observer(), h.eph.Location()))
}

func (h *handlers) sun(w http.ResponseWriter, r *http.Request) {
	h.riseSet(w, r, ephem.Sun)
}

func (h *handlers) planet(w http.ResponseWriter, r *http.Request) {
	b, err := ephem.ParseBody(mux.Vars(r)["body"])
	if err == nil && !b.IsPlanet() {
		err = fmt.Errorf("%w: %v is not a planet", ephem.ErrInvalidBody, b)
	}
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	h.riseSet(w, r, b)
}

func (h *handlers) riseSet(w http.ResponseWriter, r *http.Request, b ephem.Body) {
	d, err := h.date(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	rs, err := report.RiseSet(r.Context(), h.eph, b, d)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, rs)
}

func (h *handlers) planets(w http.ResponseWriter, r *http.Request) {
	d, err := h.date(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	out := make([]report.RiseSetExport, 0, len(ephem.Planets()))
	for _, b := range ephem.Planets() {
		rs, err := report.RiseSet(r.Context(), h.eph, b, d)
		if err != nil {
			fail(r.Context(), w, err)
			return
		}
		out = append(out, rs)
	}
	writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *handlers) moon(w http.ResponseWriter, r *http.Request) {
	d, err := h.date(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	rs, err := report.RiseSet(r.Context(), h.eph, ephem.Moon, d)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	deg, err := h.eph.GetMoonPhase(r.Context(), d)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.MoonExport{RiseSetExport: rs, Phase: report.ExportPhase(d, deg)})
}

func (h *handlers) phase(w http.ResponseWriter, r *http.Request) {
	d, err := h.date(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	deg, err := h.eph.GetMoonPhase(r.Context(), d)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.ExportPhase(d, deg))
}

func (h *handlers) twilight(w http.ResponseWriter, r *http.Request) {
	d, err := h.date(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	events, err := h.eph.GetTwilightTimesEvents(r.Context(), d)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.ExportTwilight(d, events))
}

func (h *handlers) seasons(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "year must be an integer")
		return
	}
	seasons, err := h.eph.GetSeasons(r.Context(), year)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.ExportSeasons(year, seasons))
}

func (h *handlers) position(w http.ResponseWriter, r *http.Request) {
	b, t, ok := h.bodyAndTime(w, r)
	if !ok {
		return
	}
	pos, err := h.eph.ComputePosition(r.Context(), t, b)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.ExportPosition(pos))
}

func (h *handlers) path(w http.ResponseWriter, r *http.Request) {
	b, t, ok := h.bodyAndTime(w, r)
	if !ok {
		return
	}
	p, err := h.eph.ComputeDailyPath(r.Context(), t, b)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report.ExportPath(p))
}

func (h *handlers) bodyAndTime(w http.ResponseWriter, r *http.Request) (ephem.Body, time.Time, bool) {
	b, err := ephem.ParseBody(mux.Vars(r)["body"])
	if err != nil {
		fail(r.Context(), w, err)
		return 0, time.Time{}, false
	}
	t, err := h.instant(r)
	if err != nil {
		fail(r.Context(), w, err)
		return 0, time.Time{}, false
	}
	return b, t, true
}

func (h *handlers) sky(w http.ResponseWriter, r *http.Request) {
	t, err := h.instant(r)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	s, err := report.Sky(r.Context(), h.eph, t)
	if err != nil {
		fail(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s)
}
