package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

// change is one observed screen switch.
type change struct {
	from, to Screen
}

// newObserved returns a router and the slice its observer appends to.
func newObserved() (*Router, *[]change) {
	var (
		r       = New()
		changes []change
	)

	r.Subscribe(func(from, to Screen) {
		changes = append(changes, change{from: from, to: to})
	})

	return r, &changes
}

// TestRouter_UnknownPathsLeadToAntenna covers the fallback route.
func TestRouter_UnknownPathsLeadToAntenna(t *testing.T) {
	t.Parallel()

	r := New()
	require.Equal(t, ScreenAntenna, r.Current())

	for _, path := range []string{"", "/", "/admin", "panel", "/panel/"} {
		require.Equal(t, ScreenAntenna, r.Resolve(path), path)
		require.False(t, Known(path), path)
	}
}

// TestRouter_LoginGate keeps the control screens behind the login.
func TestRouter_LoginGate(t *testing.T) {
	t.Parallel()

	r, changes := newObserved()

	require.Equal(t, ScreenLogin, r.Navigate("/panel"))
	require.Equal(t, ScreenLogin, r.Navigate("/warn"))
	require.Len(t, *changes, 1)

	r.Authenticate()
	require.True(t, r.Authenticated())
	require.Equal(t, ScreenWarn, r.Navigate("/warn"))
	require.Equal(t, ScreenPanel, r.Navigate("/panel"))

	require.Equal(t, []change{
		{from: ScreenAntenna, to: ScreenLogin},
		{from: ScreenLogin, to: ScreenWarn},
		{from: ScreenWarn, to: ScreenPanel},
	}, *changes)
}

// TestRouter_RequestNavigation maps outcomes to screens.
func TestRouter_RequestNavigation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		nav  panel.Navigation
		want Screen
	}{
		{nav: panel.NavigateSettled, want: ScreenPanel},
		{nav: panel.NavigateOverheat, want: ScreenSystemDestroyed},
		{nav: panel.NavigateTargetStruck, want: ScreenEarthDestroyed},
	}

	for _, tt := range tests {
		t.Run(string(tt.nav), func(t *testing.T) {
			t.Parallel()

			r := New()
			r.Authenticate()
			r.Navigate(string(ScreenPanel))

			require.NoError(t, r.RequestNavigation(tt.nav))
			require.Equal(t, tt.want, r.Current())
		})
	}
}

// TestRouter_SettledStaysOnPanel does not notify when the screen is unchanged.
func TestRouter_SettledStaysOnPanel(t *testing.T) {
	t.Parallel()

	r, changes := newObserved()
	r.Authenticate()
	r.Navigate(string(ScreenPanel))

	require.NoError(t, r.RequestNavigation(panel.NavigateSettled))
	require.Len(t, *changes, 1)
}

// TestRouter_UnknownNavigation rejects unmapped requests.
func TestRouter_UnknownNavigation(t *testing.T) {
	t.Parallel()

	r := New()

	err := r.RequestNavigation("cheese-melted")
	require.ErrorIs(t, err, ErrUnknownNavigation)
	require.Equal(t, ScreenAntenna, r.Current())
}
