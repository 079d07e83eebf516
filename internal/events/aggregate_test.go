package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharc-gateway/internal/events"
	"sharc-gateway/internal/models"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestGroupByDay_DistinctLocalDays(t *testing.T) {
	loc := mustLocation(t, "America/New_York")

	// Two hours apart, but on different local calendar days.
	late := models.Event{ID: 1, StartTime: time.Date(2024, 3, 1, 23, 0, 0, 0, loc)}
	early := models.Event{ID: 2, StartTime: time.Date(2024, 3, 2, 1, 0, 0, 0, loc)}

	buckets, skipped := events.GroupByDay([]models.Event{late, early}, nil, nil, loc)
	require.Empty(t, skipped)
	require.Len(t, buckets, 2)
}

func TestGroupByDay_BucketsByLocalDayNotUTC(t *testing.T) {
	loc := mustLocation(t, "America/New_York")

	// 2024-03-02T03:00Z is still the evening of March 1st in New York.
	ev := models.Event{ID: 1, StartTime: time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)}

	buckets, _ := events.GroupByDay([]models.Event{ev}, nil, nil, loc)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), buckets[0].Date)
}

func TestGroupByDay_MidnightSpannerBucketsByStart(t *testing.T) {
	loc := time.UTC
	ev := models.Event{
		ID:        1,
		StartTime: time.Date(2024, 3, 1, 22, 0, 0, 0, loc),
		EndTime:   time.Date(2024, 3, 2, 2, 0, 0, 0, loc),
	}

	buckets, _ := events.GroupByDay([]models.Event{ev}, nil, nil, loc)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), buckets[0].Date)
}

func TestGroupByDay_WithinBucketOrdering(t *testing.T) {
	loc := time.UTC
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	evs := []models.Event{
		{ID: 1, StartTime: day.Add(10 * time.Hour)},
		{ID: 2, StartTime: day.Add(9 * time.Hour)},
	}

	buckets, _ := events.GroupByDay(evs, nil, nil, loc)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Events, 2)
	assert.Equal(t, int64(2), buckets[0].Events[0].ID)
	assert.Equal(t, int64(1), buckets[0].Events[1].ID)
}

func TestGroupByDay_TiesBreakByID(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, loc)
	evs := []models.Event{
		{ID: 7, StartTime: start},
		{ID: 3, StartTime: start},
		{ID: 5, StartTime: start},
	}

	buckets, _ := events.GroupByDay(evs, nil, nil, loc)
	require.Len(t, buckets, 1)
	got := make([]int64, 0, 3)
	for _, ev := range buckets[0].Events {
		got = append(got, ev.ID)
	}
	assert.Equal(t, []int64{3, 5, 7}, got)
}

func TestGroupByDay_EmptyInput(t *testing.T) {
	buckets, skipped := events.GroupByDay(nil, nil, nil, time.UTC)
	assert.Empty(t, buckets)
	assert.Empty(t, skipped)
}

func TestGroupByDay_SkipsZeroStartTimes(t *testing.T) {
	loc := time.UTC
	evs := []models.Event{
		{ID: 1, StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, loc)},
		{ID: 2}, // no start time
	}

	buckets, skipped := events.GroupByDay(evs, nil, nil, loc)
	require.Len(t, buckets, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(2), skipped[0].ID)
}

func TestGroupByDay_BindsCallbacksPerEvent(t *testing.T) {
	loc := time.UTC
	evs := []models.Event{
		{ID: 1, StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, loc)},
		{ID: 2, StartTime: time.Date(2024, 3, 1, 10, 0, 0, 0, loc)},
	}

	var detailIDs []int64
	var rsvpID int64
	var rsvpType string

	buckets, _ := events.GroupByDay(evs,
		func(eventID int64) { detailIDs = append(detailIDs, eventID) },
		func(eventID int64, t string) { rsvpID, rsvpType = eventID, t },
		loc)

	require.Len(t, buckets, 1)
	for _, ev := range buckets[0].Events {
		ev.Details()
	}
	assert.Equal(t, []int64{1, 2}, detailIDs)

	buckets[0].Events[1].RSVP(models.RSVPGoing)
	assert.Equal(t, int64(2), rsvpID)
	assert.Equal(t, models.RSVPGoing, rsvpType)
}

func TestGroupByDay_NilCallbacksLeaveNilHandlers(t *testing.T) {
	loc := time.UTC
	evs := []models.Event{{ID: 1, StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, loc)}}

	buckets, _ := events.GroupByDay(evs, nil, nil, loc)
	require.Len(t, buckets, 1)
	assert.Nil(t, buckets[0].Events[0].Details)
	assert.Nil(t, buckets[0].Events[0].RSVP)
}

func TestSortBuckets(t *testing.T) {
	loc := time.UTC
	buckets := []events.DayBucket{
		{Date: time.Date(2024, 3, 3, 0, 0, 0, 0, loc)},
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, loc)},
	}

	events.SortBuckets(buckets)

	assert.Equal(t, 1, buckets[0].Date.Day())
	assert.Equal(t, 2, buckets[1].Date.Day())
	assert.Equal(t, 3, buckets[2].Date.Day())
}
