package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"bootbot/domain"
	"bootbot/irc"
)

// Throttle paces outbound chat lines with a token bucket so the bot never
// exceeds the server's accepted message rate, however many handlers finish
// at once. Send never blocks and never drops; the queue is bounded only by
// memory and drained strictly FIFO by a single writer.
type Throttle struct {
	mu      sync.Mutex
	queue   []domain.Outbound
	notify  chan struct{}
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewThrottle allows bursts of up to capacity lines, refilled at refill
// lines per second.
func NewThrottle(refill float64, capacity int, log *slog.Logger) *Throttle {
	return &Throttle{
		notify:  make(chan struct{}, 1),
		limiter: rate.NewLimiter(rate.Limit(refill), capacity),
		log:     log,
	}
}

// Send enqueues text for target, split into protocol-sized lines so that
// every queue entry costs exactly one token. CR and LF both terminate a
// protocol line, so neither may survive inside one: page titles and other
// external text would otherwise smuggle extra commands onto the wire.
// Implements contract.Sender.
func (t *Throttle) Send(target, text string) {
	var outs []domain.Outbound
	for _, line := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	}) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, m := range irc.SplitPrivmsg(target, line) {
			outs = append(outs, domain.Outbound{Target: target, Text: m.Trailing})
		}
	}
	if len(outs) == 0 {
		return
	}

	t.mu.Lock()
	t.queue = append(t.queue, outs...)
	t.mu.Unlock()

	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// Next blocks until a line and a token are both available, then pops the
// oldest line. It is safe for exactly one consumer; the connection writer
// is that consumer.
func (t *Throttle) Next(ctx context.Context) (domain.Outbound, error) {
	for {
		t.mu.Lock()
		empty := len(t.queue) == 0
		t.mu.Unlock()

		if empty {
			select {
			case <-ctx.Done():
				return domain.Outbound{}, ctx.Err()
			case <-t.notify:
				continue
			}
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return domain.Outbound{}, err
		}

		t.mu.Lock()
		out := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()
		return out, nil
	}
}

// Len reports the queued backlog, for stats and tests.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}
