package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharc-gateway/internal/events"
	"sharc-gateway/internal/models"
)

func TestPassesSearch_EmptySearchMatchesEverything(t *testing.T) {
	event := models.Event{Title: "Robotics Kickoff", Tags: []string{"robotics"}}
	assert.True(t, events.PassesSearch(event, ""))
	assert.True(t, events.PassesSearch(models.Event{}, ""))
}

func TestPassesSearch_TitleSubstring(t *testing.T) {
	event := models.Event{Title: "Intro to Jazz Ensemble"}

	assert.True(t, events.PassesSearch(event, "jazz"))
	assert.True(t, events.PassesSearch(event, "JAZZ ENSEMBLE"))
	assert.True(t, events.PassesSearch(event, "intro to jazz"))
	assert.False(t, events.PassesSearch(event, "choir"))
}

func TestPassesSearch_TagTokenDirection(t *testing.T) {
	// The search token must contain the tag, not the reverse.
	mlEvent := models.Event{Title: "Study Group", Tags: []string{"ml"}}
	assert.True(t, events.PassesSearch(mlEvent, "html"))

	htmlEvent := models.Event{Title: "Study Group", Tags: []string{"html"}}
	assert.False(t, events.PassesSearch(htmlEvent, "ml"))

	aiEvent := models.Event{Title: "Study Group", Tags: []string{"ai"}}
	assert.False(t, events.PassesSearch(aiEvent, "artificial"))
}

func TestPassesSearch_MultipleTokens(t *testing.T) {
	event := models.Event{Title: "Open Mic", Tags: []string{"music"}}

	// Any single token containing the tag is enough.
	assert.True(t, events.PassesSearch(event, "campus musical night"))
	assert.False(t, events.PassesSearch(event, "campus art night"))
}

func TestPassesSearch_NoTags(t *testing.T) {
	event := models.Event{Title: "Untagged"}
	assert.False(t, events.PassesSearch(event, "anything"))
}

func TestPassesFilter_Suggested(t *testing.T) {
	user := &models.User{Tags: []string{"music", "art"}}
	event := models.Event{Tags: []string{"music"}, RSVP: models.RSVPNone}

	assert.True(t, events.PassesFilter(event, user, events.FilterSuggested))

	blocked := event
	blocked.RSVP = models.RSVPBlocked
	assert.False(t, events.PassesFilter(blocked, user, events.FilterSuggested))

	noOverlap := models.Event{Tags: []string{"chess"}}
	assert.False(t, events.PassesFilter(noOverlap, user, events.FilterSuggested))

	assert.False(t, events.PassesFilter(event, nil, events.FilterSuggested))
}

func TestPassesFilter_Attending(t *testing.T) {
	user := &models.User{}

	going := models.Event{RSVP: models.RSVPGoing}
	assert.True(t, events.PassesFilter(going, user, events.FilterAttending))

	cancelled := models.Event{RSVP: models.RSVPCancelled}
	assert.False(t, events.PassesFilter(cancelled, user, events.FilterAttending))

	none := models.Event{RSVP: models.RSVPNone}
	assert.False(t, events.PassesFilter(none, user, events.FilterAttending))
}

func TestPassesFilter_Subscribed(t *testing.T) {
	assert.True(t, events.PassesFilter(models.Event{Subscribed: true}, nil, events.FilterSubscribed))
	assert.False(t, events.PassesFilter(models.Event{}, nil, events.FilterSubscribed))
}

func TestPassesFilter_UnknownFilterMatchesAll(t *testing.T) {
	event := models.Event{RSVP: models.RSVPBlocked}
	assert.True(t, events.PassesFilter(event, nil, "All Events"))
	assert.True(t, events.PassesFilter(event, nil, ""))
}

func TestPersonalized(t *testing.T) {
	assert.True(t, events.Personalized(events.FilterSuggested))
	assert.True(t, events.Personalized(events.FilterAttending))
	assert.True(t, events.Personalized(events.FilterSubscribed))
	assert.False(t, events.Personalized(""))
	assert.False(t, events.Personalized("All Events"))
}

func TestFilterEvents_CombinesSearchAndFilter(t *testing.T) {
	user := &models.User{Tags: []string{"music"}}
	evs := []models.Event{
		{ID: 1, Title: "Jazz Night", Tags: []string{"music"}, RSVP: models.RSVPNone},
		{ID: 2, Title: "Jazz Workshop", Tags: []string{"chess"}, RSVP: models.RSVPNone},
		{ID: 3, Title: "Chess Meetup", Tags: []string{"music"}, RSVP: models.RSVPNone},
	}

	filtered, err := events.FilterEvents(context.Background(), evs, user, "jazz", events.FilterSuggested)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)
}

func TestFilterEvents_EmptyInput(t *testing.T) {
	filtered, err := events.FilterEvents(context.Background(), nil, nil, "", "")
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterConcurrent_PreservesOrder(t *testing.T) {
	evs := []models.Event{{ID: 5}, {ID: 1}, {ID: 9}, {ID: 3}}

	filtered, err := events.FilterConcurrent(context.Background(), evs, func(_ context.Context, ev models.Event) (bool, error) {
		return ev.ID != 9, nil
	})
	require.NoError(t, err)
	require.Len(t, filtered, 3)
	assert.Equal(t, int64(5), filtered[0].ID)
	assert.Equal(t, int64(1), filtered[1].ID)
	assert.Equal(t, int64(3), filtered[2].ID)
}

func TestFilterConcurrent_SingleFailureFailsBatch(t *testing.T) {
	evs := []models.Event{{ID: 1}, {ID: 2}, {ID: 3}}
	boom := errors.New("predicate exploded")

	filtered, err := events.FilterConcurrent(context.Background(), evs, func(_ context.Context, ev models.Event) (bool, error) {
		if ev.ID == 2 {
			return false, boom
		}
		return true, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, filtered)
}
