package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bootbot/irc"
)

func Test_Throttle_Drains_FIFO(t *testing.T) {
	req := require.New(t)
	throttle := NewThrottle(1000, 1000, slog.Default())

	for i := 0; i < 5; i++ {
		throttle.Send("#general", fmt.Sprintf("line %d", i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := 0; i < 5; i++ {
		out, err := throttle.Next(ctx)
		req.NoError(err)
		req.Equal("#general", out.Target)
		req.Equal(fmt.Sprintf("line %d", i), out.Text)
	}
	req.Zero(throttle.Len())
}

func Test_Throttle_Respects_Refill_Rate(t *testing.T) {
	req := require.New(t)
	// 20 lines/s, burst of 1: tokens arrive every 50ms.
	throttle := NewThrottle(20, 1, slog.Default())

	for i := 0; i < 4; i++ {
		throttle.Send("#x", "spam")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	for i := 0; i < 4; i++ {
		_, err := throttle.Next(ctx)
		req.NoError(err)
	}
	// The first line is free (burst), the other three pay the refill rate.
	req.GreaterOrEqual(time.Since(start), 140*time.Millisecond)
}

func Test_Throttle_Next_Honors_Cancellation(t *testing.T) {
	req := require.New(t)
	throttle := NewThrottle(1, 1, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := throttle.Next(ctx)
	req.ErrorIs(err, context.Canceled)
}

func Test_Throttle_Splits_Long_Text_Into_Lines(t *testing.T) {
	req := require.New(t)
	throttle := NewThrottle(1000, 1000, slog.Default())

	throttle.Send("#general", strings.TrimSpace(strings.Repeat("word ", 300)))
	req.Greater(throttle.Len(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for throttle.Len() > 0 {
		out, err := throttle.Next(ctx)
		req.NoError(err)
		req.LessOrEqual(len(irc.Encode(irc.Privmsg(out.Target, out.Text))), irc.MaxLineLen)
	}
}

func Test_Throttle_Strips_Embedded_Carriage_Returns(t *testing.T) {
	req := require.New(t)
	throttle := NewThrottle(1000, 1000, slog.Default())

	// A fetched page title with a raw CR must not splice a second command
	// into the same wire line: each fragment becomes its own queued entry.
	throttle.Send("#general", "cool page\rJOIN #evil")
	req.Equal(2, throttle.Len())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	first, err := throttle.Next(ctx)
	req.NoError(err)
	req.Equal("cool page", first.Text)
	second, err := throttle.Next(ctx)
	req.NoError(err)
	req.Equal("JOIN #evil", second.Text)
	req.NotContains(first.Text, "\r")
	req.NotContains(second.Text, "\r")

	throttle.Send("#general", "one\r\ntwo\rthree")
	req.Equal(3, throttle.Len())
}

func Test_Throttle_Drops_Blank_Lines(t *testing.T) {
	req := require.New(t)
	throttle := NewThrottle(1, 1, slog.Default())
	throttle.Send("#general", "  \n ")
	req.Zero(throttle.Len())
}
