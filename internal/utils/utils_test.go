package utils

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 7*time.Second, "3m7s"},
		{2*time.Hour + 5*time.Minute + 9*time.Second, "2h5m"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatDuration(c.d))
	}
}

func TestSetupSignalHandling(t *testing.T) {
	t.Run("signal cancels and runs hook", func(t *testing.T) {
		called := make(chan struct{})
		ctx, stop := SetupSignalHandling(context.Background(), func() { close(called) })
		defer stop()

		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

		select {
		case <-called:
		case <-time.After(5 * time.Second):
			t.Fatal("shutdown hook not called")
		}
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("stop without signal", func(t *testing.T) {
		ctx, stop := SetupSignalHandling(context.Background(), func() { t.Error("hook must not run") })
		stop()
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
