package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/metrics"
	"bacnet_device_sim/internal/models"
)

const (
	DefaultTimeout        = 4 * time.Second
	DefaultFailureCeiling = 5
)

// Dispatcher ships one reading at a time on a detached goroutine and stops
// for good once FailureCeiling sends in a row have failed.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	ceiling int64
	log     *logger.Logger
	now     func() time.Time

	busy     atomic.Bool
	failures atomic.Int64
}

// NewDispatcher wraps sender. Non-positive timeout or ceiling fall back to the defaults.
func NewDispatcher(sender Sender, timeout time.Duration, ceiling int, log *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ceiling <= 0 {
		ceiling = DefaultFailureCeiling
	}
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		ceiling: int64(ceiling),
		log:     log,
		now:     time.Now,
	}
}

func (d *Dispatcher) Busy() bool { return d.busy.Load() }

func (d *Dispatcher) Failures() int { return int(d.failures.Load()) }

// Suppressed has no way back: nothing resets the counter once sends have stopped.
func (d *Dispatcher) Suppressed() bool { return d.failures.Load() >= d.ceiling }

// TryDispatch builds the reading from snap right away and sends it in the
// background. It returns false when suppressed or when a send is in flight.
func (d *Dispatcher) TryDispatch(ctx context.Context, snap device.Snapshot) bool {
	if d.Suppressed() {
		metrics.IncDispatchSkipped(metrics.ResultSuppressed)
		return false
	}
	if !d.busy.CompareAndSwap(false, true) {
		metrics.IncDispatchSkipped(metrics.ResultSkipped)
		return false
	}
	reading := NewReading(snap, d.now())
	go d.send(ctx, reading)
	return true
}

func (d *Dispatcher) send(parent context.Context, r models.DeviceReading) {
	defer d.busy.Store(false)

	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, r)
	elapsed := time.Since(start)

	if err == nil {
		d.failures.Store(0)
		metrics.ObserveDispatch(metrics.ResultSuccess, elapsed)
		metrics.SetConsecutiveFailures(0)
		if d.log != nil {
			d.log.Debugw("telemetry_sent", "device_id", r.DeviceID, "elapsed", elapsed)
		}
		return
	}

	n := d.failures.Add(1)
	metrics.ObserveDispatch(metrics.ResultFailure, elapsed)
	metrics.SetConsecutiveFailures(int(n))
	if d.log == nil {
		return
	}
	d.log.Warnw("telemetry_failed", "device_id", r.DeviceID, "consecutive_failures", n, "err", err)
	if n == d.ceiling {
		d.log.Errorw("telemetry_suppressed", "device_id", r.DeviceID, "failure_ceiling", d.ceiling)
	}
}

func (d *Dispatcher) Close() error { return d.sender.Close() }
