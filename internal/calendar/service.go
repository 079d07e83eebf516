package calendar

import (
	"context"
	"fmt"
	"time"

	"sharc-gateway/internal/events"
	"sharc-gateway/internal/logger"
	"sharc-gateway/internal/models"
	"sharc-gateway/internal/utils"
)

const DefaultDays = 7

// EventSource supplies raw events for a date range.
type EventSource interface {
	FetchEvents(ctx context.Context, token string, from, to time.Time) ([]models.Event, error)
}

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Session, error)
}

// Service composes the full pipeline: resolve session, fetch, filter,
// group by day, sort. It is stateless; every BuildView call works on a
// fresh snapshot of backend data.
type Service struct {
	Backend  EventSource
	Sessions SessionResolver
	Logger   *logger.Logger

	// DefaultDays is the day count used when a request leaves Days unset.
	DefaultDays int

	// Now supplies the current time for defaulting the view start.
	// Overridable so tests stay deterministic.
	Now func() time.Time
}

func NewService(backend EventSource, sessions SessionResolver, log *logger.Logger) *Service {
	return &Service{
		Backend:     backend,
		Sessions:    sessions,
		Logger:      log,
		DefaultDays: DefaultDays,
		Now:         time.Now,
	}
}

// ViewRequest describes one calendar view to build.
type ViewRequest struct {
	Token    string
	Start    time.Time // zero means "today"
	Days     int       // <= 0 means DefaultDays
	Search   string
	Filter   string
	Location *time.Location // nil means time.Local

	// OnDetails and OnRSVP are bound into every bucketed event.
	OnDetails events.DetailsFunc
	OnRSVP    events.RSVPFunc
}

// View is a display-ready calendar: buckets sorted ascending by date,
// events within each bucket sorted ascending by start time.
type View struct {
	Start         time.Time
	Days          int
	Filter        string
	Authenticated bool
	Buckets       []events.DayBucket
}

// BuildView runs the pipeline for one request. Personalized filters are
// dropped for anonymous sessions, matching the app's behavior of sending
// signed-out users to the all-events view.
func (s *Service) BuildView(ctx context.Context, req ViewRequest) (*View, error) {
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}

	start := req.Start
	if start.IsZero() {
		start = s.now()
	}
	start = utils.StartOfDay(start, loc)

	days := req.Days
	if days <= 0 {
		days = s.DefaultDays
	}
	if days <= 0 {
		days = DefaultDays
	}
	end := utils.SubtractDays(start, -days)

	sess, err := s.Sessions.Resolve(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	filter := req.Filter
	if events.Personalized(filter) && !sess.Authenticated() {
		s.Logger.Debug("CALENDAR", fmt.Sprintf("Dropping filter %q for anonymous session", filter))
		filter = ""
	}

	raw, err := s.Backend.FetchEvents(ctx, req.Token, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	filtered, err := events.FilterEvents(ctx, raw, sess.User, req.Search, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter events: %w", err)
	}

	buckets, skipped := events.GroupByDay(filtered, req.OnDetails, req.OnRSVP, loc)
	if len(skipped) > 0 {
		s.Logger.Warn("CALENDAR", fmt.Sprintf("Excluded %d events without a usable start time", len(skipped)))
	}
	events.SortBuckets(buckets)

	return &View{
		Start:         start,
		Days:          days,
		Filter:        filter,
		Authenticated: sess.Authenticated(),
		Buckets:       buckets,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// VisibleDays maps a container width in pixels to the number of day
// columns the calendar shows. Breakpoints follow the web layout.
func VisibleDays(widthPx int) int {
	switch {
	case widthPx < 640:
		return 1
	case widthPx < 900:
		return 3
	case widthPx < 1280:
		return 5
	default:
		return 7
	}
}
