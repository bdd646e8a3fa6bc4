package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func mockAfterFunc(t *testing.T) *[]*fakeTimer {
	var timers []*fakeTimer
	orig := afterFunc
	afterFunc = func(_ time.Duration, f func()) timer {
		ft := &fakeTimer{fire: f}
		timers = append(timers, ft)
		return ft
	}
	t.Cleanup(func() { afterFunc = orig })
	return &timers
}

func TestNotifier_Push(t *testing.T) {
	mockAfterFunc(t)
	n := New(0)
	assert.Equal(t, DefaultTTL, n.ttl)

	first := n.Success("Student added successfully")
	second := n.Warning("Invalid input")
	third := n.Error("Failed to delete score")
	assert.NotEqual(t, first, second)

	active := n.Active()
	require.Len(t, active, 3)
	assert.Equal(t, []Severity{SeveritySuccess, SeverityWarning, SeverityError},
		[]Severity{active[0].Severity, active[1].Severity, active[2].Severity})
	assert.Equal(t, third, active[2].ID)
	assert.Equal(t, "Invalid input", active[1].Message)
}

func TestNotifier_AutoDismiss(t *testing.T) {
	timers := mockAfterFunc(t)
	n := New(time.Second)

	n.Success("one")
	id := n.Success("two")
	require.Len(t, *timers, 2)

	(*timers)[0].fire()
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)
}

func TestNotifier_Dismiss(t *testing.T) {
	timers := mockAfterFunc(t)
	n := New(time.Second)

	id := n.Error("boom")
	assert.True(t, n.Dismiss(id))
	assert.True(t, (*timers)[0].stopped, "pending auto-dismiss must be cancelled")
	assert.Empty(t, n.Active())

	assert.False(t, n.Dismiss(id))
	assert.False(t, n.Dismiss("unknown"))

	// a late timer fire is harmless
	(*timers)[0].fire()
	assert.Empty(t, n.Active())
}

func TestNotifier_Clear(t *testing.T) {
	timers := mockAfterFunc(t)
	n := New(time.Second)
	n.Success("a")
	n.Warning("b")

	n.Clear()
	assert.Empty(t, n.Active())
	for _, ft := range *timers {
		assert.True(t, ft.stopped)
	}
}

func TestNotifier_RealTimer(t *testing.T) {
	n := New(20 * time.Millisecond)
	n.Success("short lived")
	require.Len(t, n.Active(), 1)
	assert.Eventually(t, func() bool { return len(n.Active()) == 0 }, time.Second, 5*time.Millisecond)
}
