package handlers

import (
	"context"

	"bootbot/domain"
)

// StaticHandler answers a trigger with a fixed line. Covers "help" and
// "repo".
type StaticHandler struct {
	command string
	reply   string
}

func NewStaticHandler(command, reply string) StaticHandler {
	return StaticHandler{command: command, reply: reply}
}

func (h StaticHandler) Matches(command string) bool {
	return command == h.command
}

func (h StaticHandler) Handle(_ context.Context, _ domain.Request) (string, error) {
	return h.reply, nil
}

const HelpText = "Commands: repo | seen <nick> | tell <nick> <message> | weather <location> | price <coin> | uptime"
