package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func until(ms int) WaitPolicy {
	return WaitPolicy{Kind: WaitUntil, Deadline: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func TestWaitPolicyMerge(t *testing.T) {
	wait := WaitPolicy{Kind: Wait}
	poll := WaitPolicy{Kind: Poll}

	tests := []struct {
		name string
		a, b WaitPolicy
		want WaitPolicy
	}{
		{"wait wait", wait, wait, wait},
		{"wait until", wait, until(5), until(5)},
		{"until wait", until(5), wait, until(5)},
		{"poll wins over until", until(5), poll, poll},
		{"poll wins over wait", wait, poll, poll},
		{"earlier deadline", until(10), until(3), until(3)},
		{"earlier deadline reversed", until(3), until(10), until(3)},
		{"poll poll", poll, poll, poll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Merge(tt.b))
		})
	}
}

func TestLoopStateMergeRender(t *testing.T) {
	assert.False(t, WaitIdle.Merge(WaitIdle).Render)
	assert.True(t, WaitIdle.Merge(WaitRender).Render)
	assert.Equal(t, PollRender, PollIdle.Merge(WaitRender))
	assert.Equal(t, WaitIdle, MergeAll())
}

func randomLoopState(r *rand.Rand) LoopState {
	var p WaitPolicy
	switch r.Intn(3) {
	case 0:
		p = WaitPolicy{Kind: Wait}
	case 1:
		p = until(r.Intn(20))
	case 2:
		p = WaitPolicy{Kind: Poll}
	}
	return LoopState{Wait: p, Render: r.Intn(2) == 0}
}

// Folding contributions in any order or grouping gives the same result.
func TestLoopStateMergeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a, b, c := randomLoopState(r), randomLoopState(r), randomLoopState(r)
		assert.Equal(t, a.Merge(b), b.Merge(a), "commutative: %v %v", a, b)
		assert.Equal(t, a.Merge(b).Merge(c), a.Merge(b.Merge(c)), "associative: %v %v %v", a, b, c)
		assert.Equal(t, a, a.Merge(WaitIdle).Merge(a), "idempotent with identity: %v", a)
	}

	for i := 0; i < 100; i++ {
		xs := make([]LoopState, 1+r.Intn(8))
		for j := range xs {
			xs[j] = randomLoopState(r)
		}
		want := MergeAll(xs...)
		shuffled := append([]LoopState(nil), xs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, MergeAll(shuffled...))

		// split at a random point and merge the halves
		k := r.Intn(len(xs) + 1)
		assert.Equal(t, want, MergeAll(xs[:k]...).Merge(MergeAll(xs[k:]...)))
	}
}

func TestWaitPolicyTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, until(5).Timeout(t0))
	assert.LessOrEqual(t, until(5).Timeout(t0.Add(time.Second)), time.Duration(0))
}

func TestWaitFor(t *testing.T) {
	ls := WaitFor(time.Second, true)
	assert.Equal(t, WaitUntil, ls.Wait.Kind)
	assert.True(t, ls.Render)
	assert.WithinDuration(t, time.Now().Add(time.Second), ls.Wait.Deadline, 100*time.Millisecond)
}

func TestWaitPolicyMergeTieIsCanonical(t *testing.T) {
	now := time.Now()
	a := WaitPolicy{Kind: WaitUntil, Deadline: now}
	b := WaitPolicy{Kind: WaitUntil, Deadline: now.Round(0).In(time.FixedZone("UTC+1", 3600))}

	ab, ba := a.Merge(b), b.Merge(a)
	assert.True(t, ab == ba, "%v != %v", ab, ba)
	assert.True(t, ab.Deadline.Equal(now))
}
