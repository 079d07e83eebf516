package events

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"sharc-gateway/internal/models"
)

// Named filters offered by the calendar view. Any other value (including
// the "All Events" default) applies no filtering.
const (
	FilterSuggested  = "Suggested"
	FilterAttending  = "Attending"
	FilterSubscribed = "Hosted by Subscribed Clubs"
)

// Personalized reports whether the named filter needs an authenticated
// user to be meaningful.
func Personalized(filterName string) bool {
	switch filterName {
	case FilterSuggested, FilterAttending, FilterSubscribed:
		return true
	}
	return false
}

// PassesSearch reports whether the event matches a free-text search. An
// empty search matches everything. Otherwise the event matches when the
// lowered title contains the lowered search string, or when any
// whitespace-delimited token of the search contains one of the event's
// tags as a substring.
//
// The tag match runs token-contains-tag, not tag-contains-token: searching
// "html" matches a tag "ml", but searching "ml" does not match a tag
// "html". Existing clients depend on this direction.
func PassesSearch(event models.Event, search string) bool {
	if search == "" {
		return true
	}
	lowered := strings.ToLower(search)
	if strings.Contains(strings.ToLower(event.Title), lowered) {
		return true
	}
	for _, token := range strings.Fields(lowered) {
		for _, tag := range event.Tags {
			if strings.Contains(token, strings.ToLower(tag)) {
				return true
			}
		}
	}
	return false
}

// PassesFilter reports whether the event survives the named filter for the
// given user. A nil user never matches the personalized filters.
func PassesFilter(event models.Event, user *models.User, filterName string) bool {
	switch filterName {
	case FilterSuggested:
		if event.RSVP == models.RSVPBlocked {
			return false
		}
		if user == nil {
			return false
		}
		for _, tag := range event.Tags {
			for _, interest := range user.Tags {
				if tag == interest {
					return true
				}
			}
		}
		return false
	case FilterAttending:
		return event.RSVP == models.RSVPGoing
	case FilterSubscribed:
		return event.Subscribed
	default:
		return true
	}
}

// Predicate decides whether a single event belongs in a filtered view.
// Predicates may block; a future predicate could need a backend round-trip
// per event, which is why filtering goes through FilterConcurrent rather
// than a plain loop.
type Predicate func(ctx context.Context, event models.Event) (bool, error)

// FilterConcurrent starts the predicate for every event without sequential
// blocking and waits for all evaluations to settle before producing the
// result. Input order is preserved. A single failed evaluation fails the
// whole batch; no partial result is returned.
func FilterConcurrent(ctx context.Context, evs []models.Event, pred Predicate) ([]models.Event, error) {
	keep := make([]bool, len(evs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range evs {
		i, ev := i, ev
		g.Go(func() error {
			ok, err := pred(gctx, ev)
			if err != nil {
				return err
			}
			keep[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	filtered := make([]models.Event, 0, len(evs))
	for i, ev := range evs {
		if keep[i] {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// FilterEvents applies the search and named-filter predicates together: an
// event is included exactly when it passes both.
func FilterEvents(ctx context.Context, evs []models.Event, user *models.User, search, filterName string) ([]models.Event, error) {
	return FilterConcurrent(ctx, evs, func(_ context.Context, ev models.Event) (bool, error) {
		return PassesSearch(ev, search) && PassesFilter(ev, user, filterName), nil
	})
}
