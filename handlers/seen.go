// Package handlers implements the bot's feature commands behind the
// contract.Handler capability. Each handler answers one trigger word and
// produces a single reply line; provider-backed handlers stay thin
// adapters over contract.Provider.
package handlers

import (
	"context"
	"fmt"
	"time"

	"bootbot/contract"
	"bootbot/domain"
)

type SeenHandler struct {
	seen contract.ISeenRepository
	now  contract.Clock
}

func NewSeenHandler(seen contract.ISeenRepository) SeenHandler {
	return SeenHandler{seen: seen, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source, for tests.
func (h SeenHandler) WithClock(clock contract.Clock) SeenHandler {
	h.now = clock
	return h
}

func (h SeenHandler) Matches(command string) bool {
	return command == "seen"
}

func (h SeenHandler) Handle(_ context.Context, req domain.Request) (string, error) {
	if len(req.Args) == 0 {
		return "Hint: seen <nick>", nil
	}
	nick := req.Args[0]

	rec, found, err := h.seen.Get(domain.NewIdentity(nick))
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("%s has not previously been seen", nick), nil
	}
	return fmt.Sprintf("%s was last seen %s %s",
		rec.Nick, humanizePast(h.now().Sub(rec.At)), rec.Snippet), nil
}
