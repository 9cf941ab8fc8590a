package narrative

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/brie-blaster/internal/eventloop"
)

// withTypewriter runs fn in a synctest bubble with a typewriter on a running loop.
func withTypewriter(t *testing.T, fn func(t *testing.T, w *Typewriter, do func(func()))) {
	t.Helper()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		loop := eventloop.New(0)
		exited := make(chan struct{})

		go func() {
			defer close(exited)

			_ = loop.Run(ctx)
		}()

		do := func(task func()) {
			require.NoError(t, loop.Do(ctx, task))
		}

		w := NewTypewriter(loop.Post)
		fn(t, w, do)

		do(w.Cancel)
		cancel()
		<-exited
	})
}

// sleep advances virtual time and waits for the loop to go idle.
func sleep(d time.Duration) {
	time.Sleep(d)
	synctest.Wait()
}

// twoLines is a short script used by most tests.
func twoLines(mode Mode) Script {
	return Script{
		Lines: []Line{
			{Text: "ab", Hold: time.Second},
			{Text: "c", Hold: time.Second},
		},
		Pace: 50 * time.Millisecond,
		Mode: mode,
	}
}

// TestTypewriter_Replace types, holds and replaces lines.
func TestTypewriter_Replace(t *testing.T) {
	t.Parallel()

	withTypewriter(t, func(t *testing.T, w *Typewriter, do func(func())) {
		var frames []Frame

		do(func() {
			w.Play(twoLines(Replace), func(f Frame) { frames = append(frames, f) })
		})

		sleep(75 * time.Millisecond)
		do(func() {
			require.Equal(t, Frame{Lines: nil, Current: "a"}, w.Frame())
		})

		sleep(1100 * time.Millisecond)
		do(func() {
			require.Equal(t, []string{"ab"}, w.Frame().Lines)
			require.True(t, w.Active())
		})

		sleep(2 * time.Second)
		do(func() {
			require.Equal(t, []Frame{
				{Current: "a"},
				{Current: "ab"},
				{Lines: []string{"ab"}},
				{Lines: []string{"ab"}, Current: "c"},
				{Lines: []string{"c"}, Done: true},
			}, frames)
			require.False(t, w.Active())
		})
	})
}

// TestTypewriter_Accumulate keeps every committed line.
func TestTypewriter_Accumulate(t *testing.T) {
	t.Parallel()

	withTypewriter(t, func(t *testing.T, w *Typewriter, do func(func())) {
		var last Frame

		do(func() {
			w.Play(twoLines(Accumulate), func(f Frame) { last = f })
		})

		sleep(5 * time.Second)
		do(func() {
			require.Equal(t, Frame{Lines: []string{"ab", "c"}, Done: true}, last)
		})
	})
}

// TestTypewriter_TypesRunes reveals multi-byte characters whole.
func TestTypewriter_TypesRunes(t *testing.T) {
	t.Parallel()

	withTypewriter(t, func(t *testing.T, w *Typewriter, do func(func())) {
		var current []string

		do(func() {
			w.Play(Script{Lines: []Line{{Text: "Kä"}}}, func(f Frame) {
				current = append(current, f.Current)
			})
		})

		sleep(time.Second)
		do(func() {
			require.Equal(t, []string{"K", "Kä", ""}, current)
		})
	})
}

// TestTypewriter_CancelSilences stops frames after teardown.
func TestTypewriter_CancelSilences(t *testing.T) {
	t.Parallel()

	withTypewriter(t, func(t *testing.T, w *Typewriter, do func(func())) {
		var count int

		do(func() {
			w.Play(SystemDestroyed(), func(Frame) { count++ })
		})

		sleep(125 * time.Millisecond)
		do(func() {
			require.Equal(t, 2, count)
			w.Cancel()
			w.Cancel()
		})

		sleep(time.Minute)
		do(func() {
			require.Equal(t, 2, count)
			require.False(t, w.Active())
		})
	})
}

// TestTypewriter_ReplayRestarts drops the running script on Play.
func TestTypewriter_ReplayRestarts(t *testing.T) {
	t.Parallel()

	withTypewriter(t, func(t *testing.T, w *Typewriter, do func(func())) {
		var last Frame

		record := func(f Frame) { last = f }

		do(func() { w.Play(SystemDestroyed(), record) })
		sleep(125 * time.Millisecond)

		do(func() { w.Play(twoLines(Accumulate), record) })
		sleep(time.Minute)

		do(func() {
			require.Equal(t, Frame{Lines: []string{"ab", "c"}, Done: true}, last)
		})
	})
}

// TestBuiltInScripts pins the failure screen texts and pacing.
func TestBuiltInScripts(t *testing.T) {
	t.Parallel()

	system := SystemDestroyed()
	require.Equal(t, Replace, system.Mode)
	require.Len(t, system.Lines, 5)
	require.Equal(t, "ERROR 527 - CONNECTION LOST", system.Lines[4].Text)

	holds := make([]time.Duration, 0, len(system.Lines))
	for _, line := range system.Lines {
		holds = append(holds, line.Hold)
	}

	require.Equal(t, []time.Duration{
		5 * time.Second, 3 * time.Second, 6 * time.Second, 4 * time.Second, 10 * time.Second,
	}, holds)

	earth := EarthDestroyed()
	require.Equal(t, Accumulate, earth.Mode)
	require.Len(t, earth.Lines, 3)
	require.Equal(t, "Ihr habt das Spiel verloren.", earth.Lines[2].Text)

	for _, line := range earth.Lines {
		require.Equal(t, 500*time.Millisecond, line.Hold)
	}
}
