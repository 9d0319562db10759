package workers

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bootbot/contract"
	"bootbot/domain"
	"bootbot/irc"
	"bootbot/observability"
	"bootbot/runtime"
)

var _ contract.Worker = (*ConnWorker)(nil)

// DialFunc opens the transport. Swapped for an in-process pipe in tests.
type DialFunc func(ctx context.Context) (net.Conn, error)

// ConnWorker owns the server connection: it registers, joins, answers
// keepalives, feeds decoded lines to the router in arrival order, and
// drains the throttle onto the wire. On any transport error it rebuilds
// the session after an exponential backoff; durable state is untouched.
type ConnWorker struct {
	log      *slog.Logger
	dial     DialFunc
	router   *runtime.Router
	throttle *runtime.Throttle
	stats    *observability.StatsManager

	nick     string
	realname string
	channels []string

	backoffBase time.Duration
	backoffCap  time.Duration
	joinTimeout time.Duration

	state atomic.Int32
}

type ConnConfig struct {
	Addr        string
	UseTLS      bool
	Nick        string
	Realname    string
	Channels    []string
	DialTimeout time.Duration
	BackoffBase time.Duration
	BackoffCap  time.Duration
	JoinTimeout time.Duration
}

func NewConnWorker(
	log *slog.Logger,
	cfg ConnConfig,
	router *runtime.Router,
	throttle *runtime.Throttle,
	stats *observability.StatsManager,
) *ConnWorker {
	w := &ConnWorker{
		log:         log,
		router:      router,
		throttle:    throttle,
		stats:       stats,
		nick:        cfg.Nick,
		realname:    cfg.Realname,
		channels:    cfg.Channels,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		joinTimeout: cfg.JoinTimeout,
	}
	w.dial = func(ctx context.Context) (net.Conn, error) {
		dialer := net.Dialer{Timeout: cfg.DialTimeout}
		if cfg.UseTLS {
			tlsDialer := tls.Dialer{NetDialer: &dialer}
			return tlsDialer.DialContext(ctx, "tcp", cfg.Addr)
		}
		return dialer.DialContext(ctx, "tcp", cfg.Addr)
	}
	return w
}

// WithDialer replaces the transport factory, for tests.
func (w *ConnWorker) WithDialer(dial DialFunc) *ConnWorker {
	w.dial = dial
	return w
}

func (w *ConnWorker) State() domain.ConnState {
	return domain.ConnState(w.state.Load())
}

func (w *ConnWorker) setState(s domain.ConnState) {
	w.state.Store(int32(s))
	w.log.Debug("Connection state", "state", s.String())
}

// Run drives the reconnect loop until the context is canceled. The backoff
// doubles up to a cap with jitter and resets once a session reaches Joined.
func (w *ConnWorker) Run(ctx context.Context) error {
	backoff := w.backoffBase
	for {
		if ctx.Err() != nil {
			w.setState(domain.ShuttingDown)
			return ctx.Err()
		}

		w.setState(domain.Connecting)
		conn, err := w.dial(ctx)
		if err != nil {
			w.setState(domain.Disconnected)
			w.log.Warn("Dial failed", "error", err)
			if !sleepCtx(ctx, withJitter(backoff)) {
				w.setState(domain.ShuttingDown)
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, w.backoffCap)
			continue
		}

		joined := w.session(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			w.setState(domain.ShuttingDown)
			return ctx.Err()
		}

		w.setState(domain.Disconnected)
		w.stats.IncrReconnects()
		if joined {
			backoff = w.backoffBase
		} else {
			backoff = nextBackoff(backoff, w.backoffCap)
		}
		if !sleepCtx(ctx, withJitter(backoff)) {
			w.setState(domain.ShuttingDown)
			return ctx.Err()
		}
	}
}

// session runs one connection lifetime: registration, join replay, read
// loop and throttle drain. It reports whether the session got past
// registration, which resets the backoff.
func (w *ConnWorker) session(ctx context.Context, conn net.Conn) bool {
	wire := &connWriter{conn: conn}
	sess := domain.Session{Nick: w.nick, Channels: w.channels}
	w.router.SetNick(sess.Nick)

	w.setState(domain.Authenticating)
	if err := wire.write(irc.Nick(sess.Nick)); err != nil {
		w.log.Warn("Registration write failed", "error", err)
		return false
	}
	if err := wire.write(irc.User(sess.Nick, w.realname)); err != nil {
		w.log.Warn("Registration write failed", "error", err)
		return false
	}

	// Writer side: one consumer draining the throttle for this session.
	writerCtx, cancelWriter := context.WithCancel(ctx)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w.drainThrottle(writerCtx, wire)
	}()
	defer func() {
		cancelWriter()
		<-writerDone
	}()

	joined := false
	registered := false

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return registered || joined
		}
		w.stats.IncrLinesIn()

		m, err := irc.Decode(scanner.Text())
		if err != nil {
			// Malformed input from the server is dropped, never fatal.
			w.log.Debug("Dropping undecodable line", "error", err)
			continue
		}

		switch m.Command {
		case "PING":
			// Protocol-critical: answered on the spot, bypassing the throttle.
			// Servers send the token either as trailing or as a bare param.
			token := m.Trailing
			if token == "" && len(m.Params) > 0 {
				token = m.Params[0]
			}
			if err := wire.write(irc.Pong(token)); err != nil {
				w.log.Warn("Pong write failed", "error", err)
				return registered || joined
			}
		case "433":
			if !joined {
				// Deterministic fallback on nick collision, retried in place.
				sess.Nick += "_"
				w.router.SetNick(sess.Nick)
				w.log.Info(fmt.Sprintf("Nick collision, retrying as %s", sess.Nick))
				if err := wire.write(irc.Nick(sess.Nick)); err != nil {
					return registered || joined
				}
			}
		case "001":
			registered = true
			for _, channel := range sess.Channels {
				if err := wire.write(irc.Join(channel)); err != nil {
					return registered || joined
				}
			}
			// Optimistic: a server that never confirms the join must not
			// stall the session forever.
			joinDeadline := time.AfterFunc(w.joinTimeout, func() {
				if w.State() == domain.Authenticating {
					w.setState(domain.Joined)
				}
			})
			defer joinDeadline.Stop()
		case "JOIN":
			if strings.EqualFold(m.Prefix.Nick, sess.Nick) && !joined {
				joined = true
				w.setState(domain.Joined)
			}
		case "ERROR":
			w.log.Warn("Server closed the session", "reason", m.Trailing)
			return registered || joined
		default:
			w.router.Route(ctx, m)
		}
	}
	if err := scanner.Err(); err != nil {
		w.log.Warn("Read loop ended", "error", err)
	}
	return registered || joined
}

func (w *ConnWorker) drainThrottle(ctx context.Context, wire *connWriter) {
	for {
		out, err := w.throttle.Next(ctx)
		if err != nil {
			return
		}
		if err := wire.write(irc.Privmsg(out.Target, out.Text)); err != nil {
			w.log.Warn("Outbound write failed", "error", err)
			return
		}
		w.stats.IncrLinesOut()
	}
}

// connWriter serializes writes between the read loop (PONG, registration)
// and the throttle drain goroutine.
type connWriter struct {
	mu   sync.Mutex
	conn net.Conn
}

func (c *connWriter) write(m irc.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.conn.Write([]byte(irc.Encode(m)))
	return err
}

func nextBackoff(current, ceiling time.Duration) time.Duration {
	next := current * 2
	if next > ceiling {
		return ceiling
	}
	return next
}

// withJitter spreads reconnects of multiple bots restarting together.
func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}

// sleepCtx waits d unless the context ends first; reports whether the wait
// completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
