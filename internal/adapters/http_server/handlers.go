package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"landlord_rep/internal/adapters/badge"
	"landlord_rep/internal/app"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/reputation"
)

const (
	defaultReviewLimit = 50
	maxReviewLimit     = 200
	maxBodyBytes       = 1 << 20
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/search", h.search)
	s.mux.Get("/v1/map", h.mapPins)
	s.mux.Route("/v1/landlords", func(r chi.Router) {
		r.Get("/", h.listLandlords)
		r.Post("/", h.createLandlord)
		r.Get("/{id}", h.getLandlord)
		r.Get("/{id}/reviews", h.listReviews)
		r.Post("/{id}/reviews", h.createReview)
		r.Get("/{id}/badge.svg", h.badgeSVG)
		r.Get("/{id}/badge.png", h.badgePNG)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	return weakETag(body), body
}

func weakETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// writeCached writes body with an ETag, answering 304 when the client
// already holds this version.
func writeCached(w http.ResponseWriter, r *http.Request, contentType, etag string, body []byte) {
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "application/json", etag, body)
}

func writeCreated(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write created body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

func profilePath(id string) string { return "/v1/landlords/" + id }

func isTruthy(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Q.Search(r.Context(), q.Get("q"), q.Get("region"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if res.Mode == reputation.ModeSingle && isTruthy(q.Get("redirect")) {
		http.Redirect(w, r, profilePath(res.Results[0].Landlord.ID), http.StatusSeeOther)
		return
	}
	writeJSON(w, r, res)
}

func (h *Handlers) listLandlords(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListLandlords(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

type landlordRequest struct {
	Name     string         `json:"name"`
	Entity   *string        `json:"entity"`
	Address  domain.Address `json:"address"`
	Region   *string        `json:"region"`
	Coords   *domain.Coords `json:"coords"`
	Verified bool           `json:"verified"`
	Top      bool           `json:"top"`
}

func (h *Handlers) createLandlord(w http.ResponseWriter, r *http.Request) {
	var req landlordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l, err := h.C.AddLandlord(r.Context(), app.NewLandlord{
		Name:     req.Name,
		Entity:   req.Entity,
		Address:  req.Address,
		Region:   req.Region,
		Coords:   req.Coords,
		Verified: req.Verified,
		Top:      req.Top,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, profilePath(l.ID), l)
}

func (h *Handlers) getLandlord(w http.ResponseWriter, r *http.Request) {
	p, err := h.Q.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit := defaultReviewLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxReviewLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Q.ListReviews(r.Context(), chi.URLParam(r, "id"), domain.PageQuery{Limit: limit})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

type reviewRequest struct {
	Stars int    `json:"stars"`
	Body  string `json:"body"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	rv, err := h.C.SubmitReview(r.Context(), id, app.NewReview{Stars: req.Stars, Body: req.Body})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, profilePath(id)+"/reviews", rv)
}

func (h *Handlers) badgeSVG(w http.ResponseWriter, r *http.Request) {
	h.badge(w, r, "image/svg+xml", badge.RenderSVG)
}

func (h *Handlers) badgePNG(w http.ResponseWriter, r *http.Request) {
	h.badge(w, r, "image/png", badge.RenderPNG)
}

func (h *Handlers) badge(w http.ResponseWriter, r *http.Request, contentType string, render func(io.Writer, badge.Input) error) {
	p, err := h.Q.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, badge.Input{Name: p.Landlord.Name, Reputation: p.Reputation}); err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeCached(w, r, contentType, weakETag(buf.Bytes()), buf.Bytes())
}

func (h *Handlers) mapPins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var vals [4]float64
	for i, name := range [4]string{"lat_min", "lat_max", "lon_min", "lon_max"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid viewport", name+" must be a number")
			return
		}
		vals[i] = v
	}
	vp := app.Viewport{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}
	if vp.LatMin > vp.LatMax || vp.LatMin < -90 || vp.LatMax > 90 || vp.LonMin < -180 || vp.LonMax > 180 {
		writeProblem(w, http.StatusBadRequest, "Invalid viewport", "lat in [-90,90], lon in [-180,180], lat_min <= lat_max")
		return
	}
	pins, err := h.Q.MapPins(r.Context(), vp)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, pins)
}
