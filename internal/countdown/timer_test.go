package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // fixed reference instant for frame tests
var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		want    string
	}{
		{300, "05:00"},
		{65, "01:05"},
		{5, "00:05"},
		{0, "00:00"},
		{59, "00:59"},
		{6000, "100:00"},
		{-1, "-00:01"},
		{-75, "-01:15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.seconds), "Format(%d)", tt.seconds)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	st := New(0).State()
	assert.Equal(t, State{Remaining: DefaultSeconds, Initial: DefaultSeconds}, st)

	st = New(90).State()
	assert.Equal(t, 90, st.Remaining)
	assert.Equal(t, 90, st.Initial)
}

func TestFrame_TicksOnlyAfterFullSecond(t *testing.T) {
	t.Parallel()

	tm := New(10)
	gen, ok := tm.Start()
	require.True(t, ok)

	// First frame only records the reference timestamp.
	st, ticked, live := tm.Frame(gen, epoch)
	assert.False(t, ticked)
	assert.True(t, live)
	assert.Equal(t, 10, st.Remaining)

	// Exactly one second is not enough: elapsed must exceed it.
	_, ticked, _ = tm.Frame(gen, epoch.Add(time.Second))
	assert.False(t, ticked)

	st, ticked, live = tm.Frame(gen, epoch.Add(time.Second+time.Millisecond))
	assert.True(t, ticked)
	assert.True(t, live)
	assert.Equal(t, 9, st.Remaining)

	// The window restarts from the tick.
	_, ticked, _ = tm.Frame(gen, epoch.Add(1500*time.Millisecond))
	assert.False(t, ticked)
}

func TestStartThenPause_LeavesRemainingUnchanged(t *testing.T) {
	t.Parallel()

	tm := New(300)
	gen, _ := tm.Start()
	tm.Frame(gen, epoch)
	require.True(t, tm.Stop())

	st, ticked, live := tm.Frame(gen, epoch.Add(5*time.Second))
	assert.False(t, ticked)
	assert.False(t, live)
	assert.Equal(t, 300, st.Remaining)
	assert.False(t, st.Running)
}

func TestStart_Idempotent(t *testing.T) {
	t.Parallel()

	tm := New(30)
	gen, ok := tm.Start()
	require.True(t, ok)
	again, ok := tm.Start()
	assert.False(t, ok)
	assert.Equal(t, gen, again)
	assert.False(t, New(30).Stop())
}

func TestStop_ClearsReferenceTimestamp(t *testing.T) {
	t.Parallel()

	tm := New(30)
	gen, _ := tm.Start()
	tm.Frame(gen, epoch)
	tm.Stop()

	// Resuming long after the pause must not fire immediately.
	gen, _ = tm.Start()
	_, ticked, _ := tm.Frame(gen, epoch.Add(time.Hour))
	assert.False(t, ticked)
	st, ticked, _ := tm.Frame(gen, epoch.Add(time.Hour+1100*time.Millisecond))
	assert.True(t, ticked)
	assert.Equal(t, 29, st.Remaining)
}

func TestOvertimeLatch(t *testing.T) {
	t.Parallel()

	tm := New(1)
	gen, _ := tm.Start()
	now := epoch
	tm.Frame(gen, now)
	for i := 0; i < 2; i++ {
		now = now.Add(1100 * time.Millisecond)
		tm.Frame(gen, now)
	}
	st := tm.State()
	require.Equal(t, -1, st.Remaining)
	require.True(t, st.Negative)

	// Forcing a nonnegative value back never clears the latch.
	tm.SetRemaining(42)
	st = tm.State()
	assert.Equal(t, 42, st.Remaining)
	assert.True(t, st.Negative)

	tm.Reset()
	assert.False(t, tm.State().Negative)
}

func TestReset_RestoresInitial(t *testing.T) {
	t.Parallel()

	tm := New(5)
	gen, _ := tm.Start()
	tm.Frame(gen, epoch)
	tm.Frame(gen, epoch.Add(2*time.Second))
	tm.SetRemaining(-3)

	tm.Reset()
	assert.Equal(t, State{Remaining: 5, Initial: 5}, tm.State())

	// A frame from before the reset is stale.
	_, _, live := tm.Frame(gen, epoch.Add(10*time.Second))
	assert.False(t, live)
}

func TestSetInitial_OnlyWhilePaused(t *testing.T) {
	t.Parallel()

	tm := New(300)
	tm.Start()
	require.ErrorIs(t, tm.SetInitial(60), ErrRunning)
	assert.Equal(t, 300, tm.State().Initial)

	tm.Stop()
	require.NoError(t, tm.SetInitial(60))
	assert.Equal(t, State{Remaining: 60, Initial: 60}, tm.State())
}

func TestSetTarget(t *testing.T) {
	t.Parallel()

	tm := New(300)
	require.NoError(t, tm.SetTarget(epoch.Add(90*time.Second+300*time.Millisecond), epoch))
	st := tm.State()
	assert.Equal(t, 91, st.Remaining)
	assert.Equal(t, 91, st.Initial)
	assert.False(t, tm.Target().IsZero())

	tm.Start()
	require.ErrorIs(t, tm.SetTarget(epoch.Add(time.Hour), epoch), ErrRunning)
}

func TestSetTarget_InvalidYieldsInertZero(t *testing.T) {
	t.Parallel()

	tm := New(300)
	require.NoError(t, tm.SetTarget(time.Time{}, epoch))
	assert.Equal(t, State{}, tm.State())
	assert.True(t, tm.Target().IsZero())

	require.NoError(t, tm.SetTarget(epoch.Add(-time.Minute), epoch))
	assert.Equal(t, 0, tm.State().Remaining)
}

func TestFrame_TargetHaltsAtZero(t *testing.T) {
	t.Parallel()

	tm := New(300)
	require.NoError(t, tm.SetTarget(epoch.Add(2*time.Second), epoch))
	gen, _ := tm.Start()
	tm.Frame(gen, epoch)

	st, ticked, live := tm.Frame(gen, epoch.Add(1100*time.Millisecond))
	assert.True(t, ticked)
	assert.True(t, live)
	assert.Equal(t, 1, st.Remaining)

	st, ticked, live = tm.Frame(gen, epoch.Add(2200*time.Millisecond))
	assert.True(t, ticked)
	assert.False(t, live)
	assert.Equal(t, 0, st.Remaining)
	assert.False(t, st.Running)
	assert.False(t, st.Negative)
}

func TestUntilTarget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, UntilTarget(time.Time{}, epoch))
	assert.Equal(t, 0, UntilTarget(epoch, epoch))
	assert.Equal(t, 0, UntilTarget(epoch.Add(-time.Second), epoch))
	assert.Equal(t, 1, UntilTarget(epoch.Add(time.Millisecond), epoch))
	assert.Equal(t, 60, UntilTarget(epoch.Add(time.Minute), epoch))
}
