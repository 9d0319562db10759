package handlers

import (
	"context"
	"strings"

	"bootbot/contract"
	"bootbot/domain"
	"bootbot/errors"
)

// ProviderHandler adapts an external data provider (weather, price) to a
// trigger word. The provider call inherits the router's bounded timeout;
// a provider failure surfaces as one error line, never a retry.
type ProviderHandler struct {
	command  string
	hint     string
	provider contract.Provider
}

func NewProviderHandler(command, hint string, provider contract.Provider) ProviderHandler {
	return ProviderHandler{command: command, hint: hint, provider: provider}
}

func (h ProviderHandler) Matches(command string) bool {
	return command == h.command
}

func (h ProviderHandler) Handle(ctx context.Context, req domain.Request) (string, error) {
	if len(req.Args) == 0 {
		return h.hint, nil
	}
	query := strings.Join(req.Args, " ")
	out, err := h.provider.Fetch(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.ErrProviderTimeout
		}
		return "", err
	}
	return out, nil
}
