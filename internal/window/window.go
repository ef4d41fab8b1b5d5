// Package window keeps time-bounded series of samples for live charts.
//
// A Buffer holds points newest-last and drops points older than its
// retention every time a point is inserted. The buffer also carries a
// dirty flag: Insert sets it, and the code that redraws from the buffer
// clears it with MarkClean once it has consumed the new data.
//
// Buffers are not safe for concurrent use.
package window

import (
	"time"

	"golang.org/x/exp/constraints"
)

// Number is the set of value types a Buffer can chart.
type Number interface {
	constraints.Integer | constraints.Float
}

// Point is a single timestamped value.
type Point[V Number] struct {
	Time  time.Time
	Value V
}

// Buffer is a rolling window of points bounded by a fixed retention.
type Buffer[V Number] struct {
	points    []Point[V] // oldest first
	retention time.Duration
	dirty     bool
}

// New returns an empty buffer that retains points for at most retention,
// measured from the most recently inserted point.
func New[V Number](retention time.Duration) *Buffer[V] {
	return &Buffer[V]{
		retention: retention,
		dirty:     true,
	}
}

// Insert records a point as the newest element and evicts every point
// that has fallen out of the retention window. Age is measured against
// t, not against the newest timestamp in the buffer, so an out-of-order
// insert never evicts points newer than itself.
func (b *Buffer[V]) Insert(t time.Time, v V) {
	b.points = append(b.points, Point[V]{Time: t, Value: v})
	b.points = evict(b.points, t, b.retention)
	b.dirty = true
}

// evict drops points from the head of an oldest-first slice while their
// age relative to ref exceeds retention. It stops at the first point
// inside the window.
func evict[V Number](points []Point[V], ref time.Time, retention time.Duration) []Point[V] {
	n := 0
	for n < len(points) && ref.Sub(points[n].Time) > retention {
		n++
	}
	if n == 0 {
		return points
	}

	// Zero the dropped prefix so the backing array does not pin it
	clear(points[:n])

	return points[n:]
}

// Retention returns the fixed retention window.
func (b *Buffer[V]) Retention() time.Duration {
	return b.retention
}

func (b *Buffer[V]) Len() int {
	return len(b.points)
}

func (b *Buffer[V]) IsEmpty() bool {
	return len(b.points) == 0
}

// Ascending returns a copy of the points ordered oldest to newest.
func (b *Buffer[V]) Ascending() []Point[V] {
	out := make([]Point[V], len(b.points))
	copy(out, b.points)

	return out
}

// Descending returns a copy of the points ordered newest to oldest.
func (b *Buffer[V]) Descending() []Point[V] {
	out := make([]Point[V], len(b.points))
	for i, p := range b.points {
		out[len(b.points)-1-i] = p
	}

	return out
}

// Values returns the point values ordered oldest to newest.
func (b *Buffer[V]) Values() []V {
	out := make([]V, len(b.points))
	for i, p := range b.points {
		out[i] = p.Value
	}

	return out
}

// Oldest returns the first retained point in arrival order.
func (b *Buffer[V]) Oldest() (Point[V], bool) {
	if len(b.points) == 0 {
		return Point[V]{}, false
	}

	return b.points[0], true
}

// Newest returns the most recently inserted point. After an out-of-order
// insert this is not the point with the latest timestamp; use Bounds for
// the time span.
func (b *Buffer[V]) Newest() (Point[V], bool) {
	if len(b.points) == 0 {
		return Point[V]{}, false
	}

	return b.points[len(b.points)-1], true
}

// Bounds returns the earliest and latest retained timestamps, for use as
// the chart's time axis.
func (b *Buffer[V]) Bounds() (from, to time.Time, ok bool) {
	return Span(b.points)
}

// Range returns the smallest and largest retained values.
func (b *Buffer[V]) Range() (lo, hi V, ok bool) {
	return Extent(b.points)
}

// Span returns the earliest and latest timestamps of points, in any order.
func Span[V Number](points []Point[V]) (from, to time.Time, ok bool) {
	if len(points) == 0 {
		return from, to, false
	}

	from, to = points[0].Time, points[0].Time
	for _, p := range points[1:] {
		if p.Time.Before(from) {
			from = p.Time
		}
		if p.Time.After(to) {
			to = p.Time
		}
	}

	return from, to, true
}

// Extent returns the smallest and largest values of points.
func Extent[V Number](points []Point[V]) (lo, hi V, ok bool) {
	if len(points) == 0 {
		return lo, hi, false
	}

	lo, hi = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}

	return lo, hi, true
}

// Dirty reports whether the buffer changed since the last MarkClean.
func (b *Buffer[V]) Dirty() bool {
	return b.dirty
}

// MarkClean acknowledges that the current contents have been drawn.
func (b *Buffer[V]) MarkClean() {
	b.dirty = false
}
