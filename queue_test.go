package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestQueuePushAgingOrdersByDeadline(t *testing.T) {
	base := time.Now()
	var q requestQueue[int]

	r1 := newRequest[int](base, base.Add(3*time.Second), "")
	r2 := newRequest[int](base, base.Add(1*time.Second), "")
	r3 := newRequest[int](base, base.Add(2*time.Second), "")

	q.pushAging(r1)
	q.pushAging(r2)
	q.pushAging(r3)

	require.Equal(t, r2, q.peekAgingHead())
	require.Equal(t, r2, q.popAgingHead())
	require.Equal(t, r3, q.popAgingHead())
	require.Equal(t, r1, q.popAgingHead())
	require.Nil(t, q.popAgingHead())
}

func TestRequestQueuePushAgingPreservesEnqueueOrderOnTies(t *testing.T) {
	base := time.Now()
	deadline := base.Add(time.Second)
	var q requestQueue[int]

	r1 := newRequest[int](base, deadline, "")
	r2 := newRequest[int](base, deadline, "")

	q.pushAging(r1)
	q.pushAging(r2)

	require.Equal(t, r1, q.popAgingHead())
	require.Equal(t, r2, q.popAgingHead())
}

func TestRequestQueueAgelessIsFIFO(t *testing.T) {
	base := time.Now()
	var q requestQueue[int]

	r1 := newRequest[int](base, time.Time{}, "")
	r2 := newRequest[int](base, time.Time{}, "")

	q.pushAgeless(r1)
	q.pushAgeless(r2)

	require.Equal(t, r1, q.popAgelessHead())
	require.Equal(t, r2, q.popAgelessHead())
	require.Nil(t, q.popAgelessHead())
}

func TestRequestQueueRemove(t *testing.T) {
	base := time.Now()
	var q requestQueue[int]

	aging := newRequest[int](base, base.Add(time.Second), "")
	ageless := newRequest[int](base, time.Time{}, "")
	q.pushAging(aging)
	q.pushAgeless(ageless)

	require.True(t, q.remove(aging))
	require.False(t, q.remove(aging))
	require.Equal(t, 1, q.len())

	require.True(t, q.remove(ageless))
	require.Equal(t, 0, q.len())
}

func TestRequestQueueTakeAll(t *testing.T) {
	base := time.Now()
	var q requestQueue[int]

	q.pushAging(newRequest[int](base, base.Add(time.Second), ""))
	q.pushAgeless(newRequest[int](base, time.Time{}, ""))

	all := q.takeAll()
	require.Len(t, all, 2)
	require.Equal(t, 0, q.len())
}
