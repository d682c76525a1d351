// Command uniloginspect drives a Logger with synthetic producers and a
// draining consumer, and exposes the ring's live occupancy as Prometheus
// gauges. It exists to make the ring's behavior observable end to end, the
// same role the shmem transport's cmd/debug-capacity tool plays for that
// package's ring, and the interrupt_example.c / test_threadsafe.c programs
// play for the original C library.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dasisdormax/unilog"
)

func main() {
	var (
		capacity      = flag.Uint("capacity", 65536, "ring capacity in bytes; must be a power of two")
		producers     = flag.Int("producers", 4, "number of concurrent producer goroutines")
		minLevel      = flag.String("level", "INFO", "minimum admitted level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL, NONE)")
		metricsAddr   = flag.String("metrics-addr", ":9110", "listen address for the /metrics endpoint")
		pollInterval  = flag.Duration("poll-interval", 2*time.Millisecond, "consumer poll interval when the ring reports Empty")
		runFor        = flag.Duration("duration", 10*time.Second, "how long to run before shutting down; 0 runs until interrupted")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	level, err := parseLevel(*minLevel)
	if err != nil {
		logger.Fatal("invalid level flag", zap.Error(err))
	}

	buf := make([]byte, *capacity)
	lg, err := unilog.New(buf)
	if err != nil {
		logger.Fatal("failed to construct logger", zap.Error(err))
	}
	lg.SetLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := newRingMetrics(lg)
	go serveMetrics(ctx, logger, *metricsAddr)
	go metrics.poll(ctx, *pollInterval)

	if *runFor > 0 {
		var runCancel context.CancelFunc
		ctx, runCancel = context.WithTimeout(ctx, *runFor)
		defer runCancel()
	}

	var dropped, recorded int64
	var wg sync.WaitGroup
	for i := 0; i < *producers; i++ {
		wg.Add(1)
		go runProducer(ctx, &wg, lg, i, &recorded, &dropped)
	}

	var drained int64
	consumerDone := make(chan struct{})
	go runConsumer(ctx, lg, *pollInterval, logger, &drained, consumerDone)

	wg.Wait()
	<-consumerDone

	logger.Info("uniloginspect finished",
		zap.Int64("recorded", atomic.LoadInt64(&recorded)),
		zap.Int64("dropped_full", atomic.LoadInt64(&dropped)),
		zap.Int64("drained", atomic.LoadInt64(&drained)),
	)
}

func parseLevel(name string) (unilog.Level, error) {
	switch name {
	case "TRACE":
		return unilog.TRACE, nil
	case "DEBUG":
		return unilog.DEBUG, nil
	case "INFO":
		return unilog.INFO, nil
	case "WARN":
		return unilog.WARN, nil
	case "ERROR":
		return unilog.ERROR, nil
	case "FATAL":
		return unilog.FATAL, nil
	case "NONE":
		return unilog.NONE, nil
	default:
		return 0, fmt.Errorf("unknown level %q", name)
	}
}

// start is the reference point for monotonicTimestamp.
var start = time.Now()

// monotonicTimestamp returns a coarse monotonic tick suitable for the
// header's timestamp field, in the spirit of interrupt_example.c's
// get_timestamp(): a cheap, allocation-free clock read rather than a full
// wall-clock formatting pass. The tick is milliseconds since process start.
func monotonicTimestamp() uint32 {
	return uint32(time.Since(start).Milliseconds())
}

func runProducer(ctx context.Context, wg *sync.WaitGroup, lg *unilog.Logger, id int, recorded, dropped *int64) {
	defer wg.Done()
	levels := []unilog.Level{unilog.DEBUG, unilog.INFO, unilog.WARN, unilog.ERROR}
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		level := levels[rand.Intn(len(levels))]
		err := lg.WriteFormat(level, monotonicTimestamp(), "producer %d record %d", id, seq)
		switch {
		case err == nil:
			atomic.AddInt64(recorded, 1)
		case err == unilog.ErrFull:
			atomic.AddInt64(dropped, 1)
		default:
			// ErrInvalid here would mean the formatted message exceeds
			// capacity/2, which cannot happen with this fixed message shape.
		}
		seq++
		time.Sleep(time.Millisecond)
	}
}

func runConsumer(ctx context.Context, lg *unilog.Logger, pollInterval time.Duration, logger *zap.Logger, drained *int64, done chan<- struct{}) {
	defer close(done)
	out := make([]byte, 512)
	for {
		n, level, ts, err := lg.Read(out)
		switch err {
		case nil:
			atomic.AddInt64(drained, 1)
			logger.Debug("drained record",
				zap.String("level", level.String()),
				zap.Uint32("timestamp", ts),
				zap.ByteString("payload", out[:n]),
			)
		case unilog.ErrEmpty, unilog.ErrBusy:
			select {
			case <-ctx.Done():
				// Drain whatever remains before exiting.
				for {
					n, level, ts, err := lg.Read(out)
					if err != nil {
						return
					}
					atomic.AddInt64(drained, 1)
					logger.Debug("drained record (final sweep)",
						zap.String("level", level.String()),
						zap.Uint32("timestamp", ts),
						zap.ByteString("payload", out[:n]),
					)
				}
			case <-time.After(pollInterval):
			}
		default:
			logger.Error("unexpected read error", zap.Error(err))
			return
		}
	}
}

// ringMetrics tracks a Logger's occupancy as Prometheus gauges, polled
// periodically since the ring exposes no push/subscribe mechanism.
type ringMetrics struct {
	lg        *unilog.Logger
	capacity  prometheus.Gauge
	available prometheus.Gauge
	minLevel  prometheus.Gauge
}

func newRingMetrics(lg *unilog.Logger) *ringMetrics {
	m := &ringMetrics{
		lg: lg,
		capacity: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "unilog_ring_capacity_bytes",
			Help: "Total capacity of the log record ring in bytes.",
		}),
		available: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "unilog_ring_available_bytes",
			Help: "Bytes currently occupied by undrained records.",
		}),
		minLevel: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "unilog_ring_min_level",
			Help: "Current minimum admitted level, as its ordinal value.",
		}),
	}
	m.capacity.Set(float64(lg.Capacity()))
	return m
}

func (m *ringMetrics) poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval * 10)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.available.Set(float64(m.lg.Available()))
			m.minLevel.Set(float64(m.lg.Level()))
		}
	}
}

func serveMetrics(ctx context.Context, logger *zap.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
