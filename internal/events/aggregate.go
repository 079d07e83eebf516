package events

import (
	"sort"
	"time"

	"sharc-gateway/internal/models"
	"sharc-gateway/internal/utils"
)

// DayBucket holds the events sharing one local calendar day. Date is
// midnight of that day in the bucketing location.
type DayBucket struct {
	Date   time.Time
	Events []BoundEvent
}

// BoundEvent pairs an event with callbacks already bound to its id, so the
// presentation layer can invoke them without threading ids around.
type BoundEvent struct {
	models.Event

	// Details opens the event's detail view. RSVP submits the given RSVP
	// type for this event. Either may be nil when the caller passed no
	// handler to GroupByDay.
	Details func()
	RSVP    func(rsvpType string)
}

type DetailsFunc func(eventID int64)

type RSVPFunc func(eventID int64, rsvpType string)

// GroupByDay distributes events into per-calendar-day buckets. The bucket
// key is the event's start time in loc truncated to its calendar day, so
// an event spanning midnight lands in its start day only. A nil loc falls
// back to time.Local.
//
// Events within a bucket are sorted ascending by start time, ties broken
// by ascending id. Bucket order itself is unspecified; callers sort with
// SortBuckets before display.
//
// Events with a zero start time cannot be bucketed and are returned in
// skipped instead of aborting the whole grouping.
func GroupByDay(evs []models.Event, onDetails DetailsFunc, onRSVP RSVPFunc, loc *time.Location) (buckets []DayBucket, skipped []models.Event) {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[string]int)
	for _, ev := range evs {
		if ev.StartTime.IsZero() {
			skipped = append(skipped, ev)
			continue
		}
		key := utils.DayKey(ev.StartTime, loc)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DayBucket{Date: utils.StartOfDay(ev.StartTime, loc)})
		}
		buckets[i].Events = append(buckets[i].Events, bind(ev, onDetails, onRSVP))
	}
	for i := range buckets {
		sortBucket(buckets[i].Events)
	}
	return buckets, skipped
}

func bind(ev models.Event, onDetails DetailsFunc, onRSVP RSVPFunc) BoundEvent {
	bound := BoundEvent{Event: ev}
	id := ev.ID
	if onDetails != nil {
		bound.Details = func() { onDetails(id) }
	}
	if onRSVP != nil {
		bound.RSVP = func(rsvpType string) { onRSVP(id, rsvpType) }
	}
	return bound
}

func sortBucket(evs []BoundEvent) {
	sort.Slice(evs, func(i, j int) bool {
		if !evs[i].StartTime.Equal(evs[j].StartTime) {
			return evs[i].StartTime.Before(evs[j].StartTime)
		}
		return evs[i].ID < evs[j].ID
	})
}

// SortBuckets orders buckets ascending by date, in place.
func SortBuckets(buckets []DayBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})
}
