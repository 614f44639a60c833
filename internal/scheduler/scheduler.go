package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/logger"
	"go.uber.org/zap"
)

const minRunGap = 15 * time.Second

var (
	ErrHarvestAlreadyRunning = errors.New("harvest already running")
	ErrHarvestCooldown       = errors.New("harvest just completed; wait a few seconds before starting again")
)

type Runner interface {
	Run(context.Context) error
}

type Scheduler struct {
	dailyHHMM string
	runner    Runner
	log       *zap.Logger
	now       func() time.Time
	minGap    time.Duration

	mu      sync.Mutex
	running bool
	state   RunState
}

func New(dailyHHMM string, runner Runner, log *zap.Logger) *Scheduler {
	return &Scheduler{
		dailyHHMM: dailyHHMM,
		runner:    runner,
		log:       logger.OrNop(log),
		now:       time.Now,
		minGap:    minRunGap,
	}
}

type RunState struct {
	Running         bool      `json:"running"`
	CurrentSource   string    `json:"current_source"`
	StartedAt       time.Time `json:"started_at"`
	LastCompletedAt time.Time `json:"last_completed_at"`
	LastDurationMS  int64     `json:"last_duration_ms"`
	LastError       string    `json:"last_error"`
	LastSource      string    `json:"last_source"`
}

// Start runs the harvest once a day at the configured time until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := nextRun(s.now(), s.dailyHHMM); err != nil {
		return fmt.Errorf("scheduler: invalid daily time %q: %w", s.dailyHHMM, err)
	}

	go func() {
		for {
			next, _ := nextRun(s.now(), s.dailyHHMM)
			wait := next.Sub(s.now())
			if wait < 0 {
				wait = 0
			}
			s.log.Info("next harvest scheduled", zap.Time("at", next))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if err := s.run(ctx, "scheduled"); err != nil {
				s.log.Error("scheduled harvest failed", zap.Error(err))
			}
		}
	}()
	return nil
}

// RunNow runs the harvest synchronously.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.run(ctx, "manual")
}

func (s *Scheduler) run(ctx context.Context, source string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrHarvestAlreadyRunning
	}
	if !s.state.LastCompletedAt.IsZero() && s.now().Sub(s.state.LastCompletedAt) < s.minGap {
		s.mu.Unlock()
		return ErrHarvestCooldown
	}
	start := s.now()
	s.running = true
	s.state.Running = true
	s.state.CurrentSource = source
	s.state.StartedAt = start
	s.mu.Unlock()

	s.log.Info("harvest run started", zap.String("source", source))
	err := s.runner.Run(ctx)
	took := s.now().Sub(start)

	s.mu.Lock()
	s.running = false
	s.state.Running = false
	s.state.CurrentSource = ""
	s.state.LastCompletedAt = s.now()
	s.state.LastDurationMS = took.Milliseconds()
	s.state.LastSource = source
	s.state.LastError = ""
	if err != nil {
		s.state.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("harvest run finished with error",
			zap.String("source", source),
			zap.Duration("took", took.Round(time.Millisecond)),
			zap.Error(err))
		return err
	}
	s.log.Info("harvest run finished",
		zap.String("source", source),
		zap.Duration("took", took.Round(time.Millisecond)))
	return nil
}

func (s *Scheduler) Snapshot() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func nextRun(now time.Time, hhmm string) (time.Time, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return time.Time{}, errors.New("daily time must be HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return time.Time{}, errors.New("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return time.Time{}, errors.New("invalid minute")
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
