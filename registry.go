package pool

// registry is the resource bookkeeping described in spec section 4.2: the
// source of truth for population accounting and for locating a resource
// by its caller-visible value.
//
// free is served oldest-release-first: popFreeHead takes the head,
// pushFree appends to the tail (spec section 3, "free_resources").
// lent has no serve order of its own; it is only ever searched.
type registry[T any] struct {
	free            []*resourceRecord[T]
	lent            []*resourceRecord[T]
	creatingCount   int
	destroyingCount int
}

func (reg *registry[T]) total() int {
	return len(reg.free) + len(reg.lent) + reg.creatingCount + reg.destroyingCount
}

func (reg *registry[T]) pushFree(r *resourceRecord[T]) {
	reg.free = append(reg.free, r)
}

func (reg *registry[T]) popFreeHead() *resourceRecord[T] {
	if len(reg.free) == 0 {
		return nil
	}
	r := reg.free[0]
	reg.free = reg.free[1:]
	return r
}

func (reg *registry[T]) removeFreeAt(idx int) *resourceRecord[T] {
	r := reg.free[idx]
	reg.free = append(reg.free[:idx], reg.free[idx+1:]...)
	return r
}

func (reg *registry[T]) addLent(r *resourceRecord[T]) {
	reg.lent = append(reg.lent, r)
}

func (reg *registry[T]) removeLentAt(idx int) *resourceRecord[T] {
	r := reg.lent[idx]
	reg.lent = append(reg.lent[:idx], reg.lent[idx+1:]...)
	return r
}

// findLent and findFree search newest-insertion-first so that, if the
// caller's compare function reports duplicate matches, the most recently
// acquired/stored one wins (spec section 4.2, "Lookup by value").
func (reg *registry[T]) findLent(value T, compare func(a, b T) bool) (int, *resourceRecord[T]) {
	return findNewestFirst(reg.lent, value, compare)
}

func (reg *registry[T]) findFree(value T, compare func(a, b T) bool) (int, *resourceRecord[T]) {
	return findNewestFirst(reg.free, value, compare)
}

func findNewestFirst[T any](list []*resourceRecord[T], value T, compare func(a, b T) bool) (int, *resourceRecord[T]) {
	for i := len(list) - 1; i >= 0; i-- {
		if compare(list[i].value, value) {
			return i, list[i]
		}
	}
	return -1, nil
}
