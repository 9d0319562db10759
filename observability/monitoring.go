// Package observability aggregates runtime counters and process metrics.
// It carries no business logic; everything here feeds logs and the uptime
// command.
package observability

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// StatsManager collects counters from the connection and the router.
// All mutation is atomic; readers get a point-in-time snapshot.
type StatsManager struct {
	log       *slog.Logger
	startedAt time.Time

	LinesIn       atomic.Uint64
	LinesOut      atomic.Uint64
	Reconnects    atomic.Uint64
	HandlerErrors atomic.Uint64
	Delivered     atomic.Uint64
}

func NewStatsManager(log *slog.Logger) *StatsManager {
	return &StatsManager{log: log, startedAt: time.Now().UTC()}
}

func (s *StatsManager) IncrLinesIn()       { s.LinesIn.Add(1) }
func (s *StatsManager) IncrLinesOut()      { s.LinesOut.Add(1) }
func (s *StatsManager) IncrReconnects()    { s.Reconnects.Add(1) }
func (s *StatsManager) IncrHandlerErrors() { s.HandlerErrors.Add(1) }
func (s *StatsManager) IncrDelivered()     { s.Delivered.Add(1) }

func (s *StatsManager) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// Summary formats a one-line status for chat: uptime, traffic and memory.
// Process memory comes from gopsutil; the Go heap from runtime.MemStats.
func (s *StatsManager) Summary() string {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	rss := "n/a"
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			rss = fmt.Sprintf("%dMB", mem.RSS>>20)
		}
	}

	return fmt.Sprintf("up %s | in %d out %d | delivered %d | handler errors %d | rss %s heap %dMB",
		s.Uptime().Round(time.Second),
		s.LinesIn.Load(), s.LinesOut.Load(),
		s.Delivered.Load(), s.HandlerErrors.Load(),
		rss, memStats.Alloc>>20)
}

// Snapshot exposes the counters for the periodic debug log.
func (s *StatsManager) Snapshot() map[string]any {
	return map[string]any{
		"uptime":         s.Uptime().Round(time.Second).String(),
		"lines_in":       s.LinesIn.Load(),
		"lines_out":      s.LinesOut.Load(),
		"reconnects":     s.Reconnects.Load(),
		"handler_errors": s.HandlerErrors.Load(),
		"delivered":      s.Delivered.Load(),
	}
}
