package calendar

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrSuperseded is returned when a newer Refresh started while an older
// one was still in flight. The older result must not be applied.
var ErrSuperseded = errors.New("calendar: view superseded by a newer request")

// Sequence is a monotonically increasing generation counter. It replaces
// the reactive framework's automatic effect cleanup with an explicit
// last-request-wins guard.
type Sequence struct {
	n uint64
}

// Next claims a new generation.
func (s *Sequence) Next() uint64 {
	return atomic.AddUint64(&s.n, 1)
}

// Superseded reports whether a newer generation has been claimed since gen.
func (s *Sequence) Superseded(gen uint64) bool {
	return atomic.LoadUint64(&s.n) != gen
}

// Viewer is the stateful surface backing a single client's calendar view.
// Refresh calls may overlap (a resize racing a date change); only the
// latest one is allowed to deliver its result.
type Viewer struct {
	svc *Service
	seq Sequence
}

func NewViewer(svc *Service) *Viewer {
	return &Viewer{svc: svc}
}

// Refresh rebuilds the view. If another Refresh started after this one,
// the stale result is discarded and ErrSuperseded returned instead.
func (v *Viewer) Refresh(ctx context.Context, req ViewRequest) (*View, error) {
	gen := v.seq.Next()

	view, err := v.svc.BuildView(ctx, req)
	if err != nil {
		return nil, err
	}
	if v.seq.Superseded(gen) {
		return nil, ErrSuperseded
	}
	return view, nil
}
