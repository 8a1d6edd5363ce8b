// Package scheduler implements the single-threaded cooperative cycle driver
// (C8, spec §4.8): each cycle refreshes user config on its own ticker, walks
// users → wallets through C7, then runs C6, then sleeps out the remainder of
// the configured period.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/reconcile"
	"github.com/xrplwallet/indexer/internal/storage"
	"github.com/xrplwallet/indexer/internal/walletpoller"
)

// Config holds the scheduler's timing parameters (spec §6).
type Config struct {
	// Period is the target wall-clock duration of one cycle.
	Period time.Duration
	// UserRefreshInterval is how often user config is reloaded from storage.
	UserRefreshInterval time.Duration
	// DefaultUsers seeds storage on first run if it holds no users yet.
	DefaultUsers []domain.UserConfig
}

// Scheduler drives wallet polling and reconciliation cycles.
type Scheduler struct {
	store      storage.Store
	poller     *walletpoller.Poller
	reconciler *reconcile.Reconciler
	logger     *zap.Logger
	cfg        Config

	users           []domain.UserConfig
	lastUserRefresh time.Time
}

// New builds a Scheduler.
func New(store storage.Store, poller *walletpoller.Poller, reconciler *reconcile.Reconciler, logger *zap.Logger, cfg Config) *Scheduler {
	return &Scheduler{
		store:      store,
		poller:     poller,
		reconciler: reconciler,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run executes cycles until ctx is canceled. It returns nil on a clean
// cancellation-triggered shutdown, or the error that aborted a cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.loadOrSeedUsers(ctx); err != nil {
		return err
	}

	for {
		cycleStart := time.Now()

		if err := s.refreshUsersIfDue(ctx, cycleStart); err != nil {
			s.logger.Error("user config refresh failed, continuing with stale set", zap.Error(err))
		}

		if err := s.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("cycle interrupted by shutdown signal")
				return nil
			}
			return err
		}

		if ctx.Err() != nil {
			return nil
		}

		elapsed := time.Since(cycleStart)
		sleep := s.cfg.Period - elapsed
		if sleep < 0 {
			sleep = 0
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(sleep):
		}
	}
}

func (s *Scheduler) loadOrSeedUsers(ctx context.Context) error {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 && len(s.cfg.DefaultUsers) > 0 {
		if err := s.store.PutUsers(ctx, s.cfg.DefaultUsers); err != nil {
			return err
		}
		users = s.cfg.DefaultUsers
	}
	s.users = users
	s.lastUserRefresh = time.Now()
	return nil
}

func (s *Scheduler) refreshUsersIfDue(ctx context.Context, now time.Time) error {
	if s.cfg.UserRefreshInterval <= 0 {
		return nil
	}
	if now.Sub(s.lastUserRefresh) < s.cfg.UserRefreshInterval {
		return nil
	}
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return err
	}
	s.users = users
	s.lastUserRefresh = now
	return nil
}

// runCycle processes every wallet of every user sequentially (spec §5: no
// intra-cycle parallelism), then runs the reconciler.
func (s *Scheduler) runCycle(ctx context.Context) error {
	for _, user := range s.users {
		for _, wallet := range user.Wallets {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if _, err := s.poller.PollWallet(ctx, user, wallet); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("poll wallet failed",
					zap.String("user_id", user.ID), zap.String("wallet", wallet), zap.Error(err))
				continue
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.reconciler.Run(ctx); err != nil {
		s.logger.Error("reconciliation pass failed", zap.Error(err))
	}

	return nil
}
