package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ConnectionCounter reports the number of live connections.
type ConnectionCounter interface {
	Connections() int
}

type HeartbeatWorker struct {
	log         *slog.Logger
	metrics     *observability.Metrics
	connections ConnectionCounter
	interval    time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, metrics *observability.Metrics, connections ConnectionCounter, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, metrics: metrics, connections: connections, interval: interval}
}

// Run publishes process health (RAM, CPU) and live connections on every tick.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Beat(p)
		}
	}
}

func (w *HeartbeatWorker) Beat(p *process.Process) {
	rss, cpu, err := getSelfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "err", err)
		return
	}
	connections := w.connections.Connections()
	w.metrics.ProcessRSS.Set(float64(rss))
	w.metrics.ProcessCPU.Set(cpu)
	w.metrics.ConnectionsActive.Set(float64(connections))
	w.log.Debug("Heartbeat", "rss", rss, "cpu", cpu, "connections", connections)
}

// getSelfStats retrieves technical metrics (Memory and CPU) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
