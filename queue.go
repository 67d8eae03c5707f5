package pool

import "sort"

// requestQueue implements spec section 4.1: aging requests kept sorted by
// ascending deadline (ties broken by enqueue order), ageless requests kept
// strictly FIFO.
type requestQueue[T any] struct {
	aging   []*request[T]
	ageless []*request[T]
}

func (q *requestQueue[T]) len() int { return len(q.aging) + len(q.ageless) }

// pushAging inserts req keeping q.aging sorted by non-decreasing deadline
// (spec invariant 7). sort.Search locates the first element whose
// deadline is strictly after req's, so req lands after every existing
// request with an equal-or-earlier deadline, preserving enqueue order
// among ties.
func (q *requestQueue[T]) pushAging(req *request[T]) {
	i := sort.Search(len(q.aging), func(i int) bool {
		return q.aging[i].deadline.After(req.deadline)
	})
	q.aging = append(q.aging, nil)
	copy(q.aging[i+1:], q.aging[i:])
	q.aging[i] = req
}

func (q *requestQueue[T]) pushAgeless(req *request[T]) {
	q.ageless = append(q.ageless, req)
}

func (q *requestQueue[T]) peekAgingHead() *request[T] {
	if len(q.aging) == 0 {
		return nil
	}
	return q.aging[0]
}

func (q *requestQueue[T]) popAgingHead() *request[T] {
	if len(q.aging) == 0 {
		return nil
	}
	r := q.aging[0]
	q.aging = q.aging[1:]
	return r
}

func (q *requestQueue[T]) popAgelessHead() *request[T] {
	if len(q.ageless) == 0 {
		return nil
	}
	r := q.ageless[0]
	q.ageless = q.ageless[1:]
	return r
}

// remove excises req from whichever sequence currently holds it, used when
// a caller's context is cancelled before the request was served. Returns
// false if req was already removed (served or timed out) concurrently.
func (q *requestQueue[T]) remove(req *request[T]) bool {
	for i, r := range q.aging {
		if r == req {
			q.aging = append(q.aging[:i], q.aging[i+1:]...)
			return true
		}
	}
	for i, r := range q.ageless {
		if r == req {
			q.ageless = append(q.ageless[:i], q.ageless[i+1:]...)
			return true
		}
	}
	return false
}

// takeAll empties both sequences and returns every pending request, aging
// first then ageless, for the drain controller to cancel (spec section
// 4.6).
func (q *requestQueue[T]) takeAll() []*request[T] {
	all := make([]*request[T], 0, q.len())
	all = append(all, q.aging...)
	all = append(all, q.ageless...)
	q.aging = nil
	q.ageless = nil
	return all
}
