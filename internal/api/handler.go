package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sharc-gateway/internal/activity"
	"sharc-gateway/internal/calendar"
	"sharc-gateway/internal/logger"
	"sharc-gateway/internal/models"
	"sharc-gateway/internal/utils"
)

// RSVPSubmitter proxies RSVP mutations to the backend.
type RSVPSubmitter interface {
	SubmitRSVP(ctx context.Context, token string, eventID int64, rsvpType string) error
}

// ClubLister returns the club directory.
type ClubLister interface {
	FetchClubs(ctx context.Context, token string) ([]models.Club, error)
}

type Handler struct {
	Calendar *calendar.Service
	Backend  RSVPSubmitter
	Clubs    ClubLister
	Activity activity.Publisher
	Logger   *logger.Logger
	Timezone *time.Location
}

func NewHandler(cal *calendar.Service, backend RSVPSubmitter, clubs ClubLister, publisher activity.Publisher, log *logger.Logger, tz *time.Location) *Handler {
	if tz == nil {
		tz = time.Local
	}
	return &Handler{
		Calendar: cal,
		Backend:  backend,
		Clubs:    clubs,
		Activity: publisher,
		Logger:   log,
		Timezone: tz,
	}
}

// dayPayload is the wire shape of one day bucket. Bound callbacks do not
// serialize; the ids the client needs to invoke them are in the events.
type dayPayload struct {
	Date   string         `json:"date"`
	Events []models.Event `json:"events"`
}

// GetCalendar serves GET /api/v1/calendar?start=2006-01-02&days=7&search=&filter=&tz=
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc := h.Timezone
	if tz := q.Get("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid timezone", err.Error()))
			return
		}
		loc = parsed
	}

	var start time.Time
	if s := q.Get("start"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid start date", err.Error()))
			return
		}
		start = parsed
	}

	days := 0
	if d := q.Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 || parsed > 31 {
			writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid days", "days must be an integer between 1 and 31"))
			return
		}
		days = parsed
	}

	view, err := h.Calendar.BuildView(r.Context(), calendar.ViewRequest{
		Token:    bearerToken(r),
		Start:    start,
		Days:     days,
		Search:   q.Get("search"),
		Filter:   q.Get("filter"),
		Location: loc,
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, utils.ErrorResponse("Failed to build calendar view", err.Error()))
		return
	}

	payload := struct {
		Start         string       `json:"start"`
		Days          int          `json:"days"`
		Filter        string       `json:"filter,omitempty"`
		Authenticated bool         `json:"authenticated"`
		Buckets       []dayPayload `json:"buckets"`
	}{
		Start:         view.Start.Format("2006-01-02"),
		Days:          view.Days,
		Filter:        view.Filter,
		Authenticated: view.Authenticated,
		Buckets:       make([]dayPayload, 0, len(view.Buckets)),
	}
	for _, bucket := range view.Buckets {
		day := dayPayload{
			Date:   bucket.Date.Format("2006-01-02"),
			Events: make([]models.Event, 0, len(bucket.Events)),
		}
		for _, ev := range bucket.Events {
			day.Events = append(day.Events, ev.Event)
		}
		payload.Buckets = append(payload.Buckets, day)
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Calendar view built", payload))
}

// SubmitRSVP serves POST /api/v1/events/{eventID}/rsvp with body {"type": "rsvp"}.
func (h *Handler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authorization required", "missing bearer token"))
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid event id", err.Error()))
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if !models.ValidRSVPType(body.Type) {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid RSVP type", fmt.Sprintf("unknown type %q", body.Type)))
		return
	}

	if err := h.Backend.SubmitRSVP(r.Context(), token, eventID, body.Type); err != nil {
		writeJSON(w, http.StatusBadGateway, utils.ErrorResponse("Failed to submit RSVP", err.Error()))
		return
	}

	// Activity publishing is best effort; the RSVP already succeeded.
	if err := h.Activity.PublishRSVP(activity.RSVPActivity{
		EventID:    eventID,
		Type:       body.Type,
		OccurredAt: time.Now(),
	}); err != nil {
		h.Logger.Error("ACTIVITY", fmt.Sprintf("Kafka publish error (rsvp): %v", err))
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("RSVP recorded", nil))
}

// GetClubs serves GET /api/v1/clubs.
func (h *Handler) GetClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.Clubs.FetchClubs(r.Context(), bearerToken(r))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, utils.ErrorResponse("Failed to fetch clubs", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("Clubs fetched", clubs))
}

// Health serves GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	// Set by RequestLogger before the handler runs; empty outside the middleware.
	body.RequestID = w.Header().Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
