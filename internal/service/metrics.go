package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// PlayersCollector exposes the current roster size as the roster_players gauge.
func (s *PlayerService) PlayersCollector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "roster_players",
		Help: "Number of players currently in the roster.",
	}, func() float64 {
		n, err := s.store.Count(context.Background())
		if err != nil {
			slog.Error("Failed to count players for metrics", "error", err)
			return 0
		}
		return float64(n)
	})
}
