package handlers

import (
	"context"
	"fmt"
	"strings"

	"bootbot/contract"
	"bootbot/domain"
)

type TellHandler struct {
	notifications contract.INotificationRepository
}

func NewTellHandler(notifications contract.INotificationRepository) TellHandler {
	return TellHandler{notifications: notifications}
}

func (h TellHandler) Matches(command string) bool {
	return command == "tell"
}

// Handle queues a memo for delivery the next time the recipient speaks.
func (h TellHandler) Handle(_ context.Context, req domain.Request) (string, error) {
	if len(req.Args) < 2 {
		return "Hint: tell <nick> <message>", nil
	}
	recipient := req.Args[0]
	body := strings.Join(req.Args[1:], " ")

	if err := h.notifications.Enqueue(domain.NewNotification(recipient, req.Nick, body)); err != nil {
		return "", err
	}
	return fmt.Sprintf("ok, I'll tell %s that", recipient), nil
}
