package solver

// InsertionIterator lazily enumerates every candidate route obtained by
// splicing a pickup and its paired delivery into an existing route, with
// the pickup strictly before the delivery and both at or after
// startIndex. The iterator is finite and non-restartable; the input
// route is never mutated and every candidate is a fresh slice.
//
// Depth bounds the number of gaps considered per leg as a quality/speed
// tradeoff: a positive depth limits the pickup to the first depth gaps
// after startIndex and, for each pickup position, the delivery to the
// first depth gaps after it. Zero means unbounded. Every candidate is
// feasible with respect to precedence regardless of depth.
type InsertionIterator struct {
	route    []int
	pickup   int
	delivery int
	start    int
	depth    int

	p int // next pickup gap
	d int // next delivery gap for the current pickup gap
}

// Insertions returns an iterator over the candidate routes for inserting
// the pickup/delivery pair into route. Route holds stop indices without
// depot sentinels; startIndex protects the committed prefix.
func Insertions(route []int, pickup, delivery, startIndex, depth int) *InsertionIterator {
	if startIndex < 0 {
		startIndex = 0
	}
	it := &InsertionIterator{
		route:    route,
		pickup:   pickup,
		delivery: delivery,
		start:    startIndex,
		depth:    depth,
		p:        startIndex,
	}
	it.d = it.p
	return it
}

// Next returns the next candidate route, or false when the sequence is
// exhausted.
func (it *InsertionIterator) Next() ([]int, bool) {
	n := len(it.route)
	for it.p <= n {
		if it.depth > 0 && it.p >= it.start+it.depth {
			break
		}
		if it.d <= n && (it.depth == 0 || it.d < it.p+it.depth) {
			cand := splice2(it.route, it.p, it.pickup, it.d, it.delivery)
			it.d++
			return cand, true
		}
		it.p++
		it.d = it.p
	}
	return nil, false
}

// splice2 builds a copy of route with pickup inserted at gap p and
// delivery inserted directly after position d of the original route,
// so the pickup always precedes the delivery.
func splice2(route []int, p, pickup, d, delivery int) []int {
	out := make([]int, 0, len(route)+2)
	out = append(out, route[:p]...)
	out = append(out, pickup)
	out = append(out, route[p:d]...)
	out = append(out, delivery)
	out = append(out, route[d:]...)
	return out
}

// SingleInsertions enumerates the candidate routes for inserting one
// standalone stop (a delivery whose pickup already happened) at or after
// startIndex. Depth has the same meaning as for Insertions.
type SingleInsertions struct {
	route []int
	stop  int
	start int
	depth int
	p     int
}

// SingleStop returns an iterator over single-stop insertions.
func SingleStop(route []int, stop, startIndex, depth int) *SingleInsertions {
	if startIndex < 0 {
		startIndex = 0
	}
	return &SingleInsertions{route: route, stop: stop, start: startIndex, depth: depth, p: startIndex}
}

// Next returns the next candidate route, or false when exhausted.
func (it *SingleInsertions) Next() ([]int, bool) {
	if it.p > len(it.route) {
		return nil, false
	}
	if it.depth > 0 && it.p >= it.start+it.depth {
		return nil, false
	}
	out := make([]int, 0, len(it.route)+1)
	out = append(out, it.route[:it.p]...)
	out = append(out, it.stop)
	out = append(out, it.route[it.p:]...)
	it.p++
	return out, true
}
