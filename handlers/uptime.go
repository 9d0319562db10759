package handlers

import (
	"context"

	"bootbot/domain"
	"bootbot/observability"
)

type UptimeHandler struct {
	stats *observability.StatsManager
}

func NewUptimeHandler(stats *observability.StatsManager) UptimeHandler {
	return UptimeHandler{stats: stats}
}

func (h UptimeHandler) Matches(command string) bool {
	return command == "uptime"
}

func (h UptimeHandler) Handle(_ context.Context, _ domain.Request) (string, error) {
	return h.stats.Summary(), nil
}
