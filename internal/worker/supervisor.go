package worker

import (
	"context"
	"time"

	"github.com/ntentasd/occupancy-api/internal/ingest"
	"github.com/rs/zerolog"
)

// Supervisor keeps the ingest consumer running, restarting it with a backoff
// after failures.
type Supervisor struct {
	consumer  *ingest.Consumer
	backoff   time.Duration
	logger    zerolog.Logger
	cancelCtx context.CancelFunc
}

// NewSupervisor creates a new background worker supervising the consumer.
func NewSupervisor(consumer *ingest.Consumer, backoff time.Duration, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		consumer: consumer,
		backoff:  backoff,
		logger:   logger,
	}
}

func (s *Supervisor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancelCtx = cancel

	go s.loop(ctx)
}

// Stop gracefully stops the background worker.
func (s *Supervisor) Stop() {
	if s.cancelCtx != nil {
		s.cancelCtx()
	}
}

func (s *Supervisor) loop(ctx context.Context) {
	s.logger.Info().Msg("started ingest supervisor")

	for {
		err := s.consumer.Run(ctx)
		if ctx.Err() != nil {
			s.logger.Info().Msg("ingest supervisor stopped")
			return
		}

		s.logger.Error().
			Err(err).
			Dur("backoff", s.backoff).
			Msg("ingest consumer exited, restarting")

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("ingest supervisor stopped")
			return
		case <-time.After(s.backoff):
		}
	}
}
