// Package runtime wires protocol messages to feature handlers: routing,
// outbound pacing and link scanning. It orchestrates without containing
// provider or storage logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"bootbot/contract"
	"bootbot/domain"
	"bootbot/irc"
	"bootbot/observability"
)

const snippetMaxLen = 200

// Router consumes decoded protocol messages in arrival order. Seen updates
// and due-notification delivery happen inline (steps that must never be
// reordered relative to arrival); matched handlers and title fetches run on
// their own goroutines and only their output is ordered, per handler.
type Router struct {
	log            *slog.Logger
	ownNick        string
	seen           contract.ISeenRepository
	notifications  contract.INotificationRepository
	handlers       []contract.Handler
	sender         contract.Sender
	links          *LinkFinder
	titles         contract.Provider
	stats          *observability.StatsManager
	deliveryCap    int
	handlerTimeout time.Duration
	now            contract.Clock

	wg sync.WaitGroup
}

func NewRouter(
	log *slog.Logger,
	ownNick string,
	seen contract.ISeenRepository,
	notifications contract.INotificationRepository,
	sender contract.Sender,
	links *LinkFinder,
	titles contract.Provider,
	stats *observability.StatsManager,
	deliveryCap int,
	handlerTimeout time.Duration,
) *Router {
	return &Router{
		log:            log,
		ownNick:        ownNick,
		seen:           seen,
		notifications:  notifications,
		sender:         sender,
		links:          links,
		titles:         titles,
		stats:          stats,
		deliveryCap:    deliveryCap,
		handlerTimeout: handlerTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Register appends handlers; on ambiguous trigger matches the first
// registered one wins.
func (r *Router) Register(handlers ...contract.Handler) {
	r.handlers = append(r.handlers, handlers...)
}

// SetNick updates the nick the bot currently answers to, e.g. after a
// collision fallback. Called from the connection read loop, never
// concurrently with Route.
func (r *Router) SetNick(nick string) {
	r.ownNick = nick
}

// WithClock overrides the time source, for tests.
func (r *Router) WithClock(clock contract.Clock) *Router {
	r.now = clock
	return r
}

// Route processes one decoded message. Called from the read loop, one
// message at a time.
func (r *Router) Route(ctx context.Context, m irc.Message) {
	switch m.Command {
	case "PRIVMSG":
		r.privmsg(ctx, m)
	case "KICK":
		r.kick(m)
	}
}

func (r *Router) privmsg(ctx context.Context, m irc.Message) {
	speaker := m.Prefix.Nick
	if speaker == "" || strings.EqualFold(speaker, r.ownNick) {
		return
	}
	target := m.ResponseTarget(r.ownNick)
	text := m.Trailing

	channel := ""
	if m.IsChannel() {
		channel = m.Params[0]
	}
	r.recordSeen(speaker, "saying: "+text, channel)
	r.deliverDue(speaker, target)

	if m.IsChannel() && r.links != nil {
		for _, link := range r.links.Find(text) {
			r.spawnTitleFetch(ctx, target, link)
		}
	}

	req, ok := r.matchTrigger(speaker, target, text)
	if !ok {
		return
	}
	for _, h := range r.handlers {
		if !h.Matches(req.Command) {
			continue
		}
		r.spawnHandler(ctx, h, req)
		return
	}
}

// kick records activity for the kicked user so "seen" answers reflect it.
func (r *Router) kick(m irc.Message) {
	if len(m.Params) < 2 {
		return
	}
	channel, kicked := m.Params[0], m.Params[1]
	r.recordSeen(kicked, "being kicked from "+channel, channel)
}

func (r *Router) recordSeen(nick, snippet, channel string) {
	if len(snippet) > snippetMaxLen {
		cut := snippetMaxLen
		// Back off to the nearest rune boundary so the stored snippet
		// stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	rec := domain.SeenRecord{Nick: nick, Snippet: snippet, Channel: channel, At: r.now()}
	if err := r.seen.Record(domain.NewIdentity(nick), rec); err != nil {
		// Store trouble is not fatal; the next line from this nick retries.
		r.log.Warn("Seen update failed", "nick", nick, "error", err)
	}
}

func (r *Router) deliverDue(speaker, target string) {
	due, err := r.notifications.DrainDue(domain.NewIdentity(speaker), r.deliveryCap)
	if err != nil {
		r.log.Warn("Notification drain failed", "nick", speaker, "error", err)
		return
	}
	for _, n := range due {
		r.sender.Send(target, fmt.Sprintf("%s, message from %s: %s", speaker, n.Via, n.Body))
		r.stats.IncrDelivered()
	}
}

// matchTrigger recognizes the addressed form "<botnick>[:|,] <command> [args...]".
func (r *Router) matchTrigger(speaker, target, text string) (domain.Request, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return domain.Request{}, false
	}
	if !strings.HasPrefix(strings.ToLower(fields[0]), strings.ToLower(r.ownNick)) {
		return domain.Request{}, false
	}
	req := domain.Request{Nick: speaker, Target: target}
	if len(fields) > 1 {
		req.Command = strings.ToLower(fields[1])
		req.Args = fields[2:]
	}
	return req, true
}

func (r *Router) spawnHandler(ctx context.Context, h contract.Handler, req domain.Request) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Handler panicked", "command", req.Command, "panic", rec)
				r.stats.IncrHandlerErrors()
			}
		}()

		handlerCtx, cancel := context.WithTimeout(ctx, r.handlerTimeout)
		defer cancel()

		out, err := h.Handle(handlerCtx, req)
		if err != nil {
			// One visible error line, no retry.
			r.log.Warn("Handler failed", "command", req.Command, "error", err)
			r.stats.IncrHandlerErrors()
			r.sender.Send(req.Target, fmt.Sprintf("%s is unavailable right now", req.Command))
			return
		}
		if out != "" {
			r.sender.Send(req.Target, out)
		}
	}()
}

// spawnTitleFetch resolves one pasted URL to its page title. Failures are
// silent: a dead link should not produce chatter.
func (r *Router) spawnTitleFetch(ctx context.Context, target, link string) {
	if r.titles == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, r.handlerTimeout)
		defer cancel()

		title, err := r.titles.Fetch(fetchCtx, link)
		if err != nil || title == "" {
			r.log.Debug("Title fetch failed", "url", link, "error", err)
			return
		}
		r.sender.Send(target, "↪ "+title)
	}()
}

// Shutdown waits for in-flight handlers up to grace, then abandons them.
func (r *Router) Shutdown(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		r.log.Warn("Abandoning in-flight handlers after grace period")
	}
}
