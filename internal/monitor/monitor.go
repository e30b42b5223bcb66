package monitor

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Pinger is the store liveness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusReporter receives the result of every check.
type StatusReporter interface {
	SetStoreUp(up bool)
}

type poolStater interface {
	Stat() *pgxpool.Stat
}

// StoreMonitor periodically pings the notification store.
type StoreMonitor struct {
	store     Pinger
	reporter  StatusReporter
	interval  time.Duration
	scheduler gocron.Scheduler
}

// NewStoreMonitor creates a monitor that checks the store every interval.
func NewStoreMonitor(store Pinger, reporter StatusReporter, interval time.Duration) (*StoreMonitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &StoreMonitor{
		store:     store,
		reporter:  reporter,
		interval:  interval,
		scheduler: scheduler,
	}, nil
}

// Start schedules the check job and starts the scheduler.
func (m *StoreMonitor) Start() error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(
			func() {
				m.check()
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	m.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (m *StoreMonitor) Stop() error {
	return m.scheduler.Shutdown()
}

func (m *StoreMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	err := m.store.Ping(ctx)
	m.reporter.SetStoreUp(err == nil)
	if err != nil {
		log.Error().Err(err).Str("job", "store_ping").Msg("store is unreachable")
		return
	}

	if stater, ok := m.store.(poolStater); ok {
		stat := stater.Stat()
		log.Debug().
			Str("job", "store_ping").
			Int32("total_conns", stat.TotalConns()).
			Int32("idle_conns", stat.IdleConns()).
			Int32("acquired_conns", stat.AcquiredConns()).
			Msg("store pool stats")
	}
}
