// Package jobs runs the background maintenance work: periodic retention
// cleanup of stored observations.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trackboard/internal/config"
)

// Scheduler owns the background job tickers.
type Scheduler struct {
	db     *gorm.DB
	logger *logrus.Logger
	cfg    *config.Config

	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool

	// Guards against overlapping executions of the same job.
	processingMutex sync.Mutex
	isProcessing    bool

	cleanupJob    *CleanupJob
	cleanupTicker *time.Ticker
}

func NewScheduler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		db:         db,
		logger:     logger,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		cleanupJob: NewCleanupJob(db, logger, cfg),
	}
}

// executeJobSafely runs a job unless another one is still executing.
func (s *Scheduler) executeJobSafely(jobName string, jobFunc func() error) {
	s.processingMutex.Lock()
	if s.isProcessing {
		s.logger.WithField("job", jobName).Debug("Skipping job execution, previous job still running")
		s.processingMutex.Unlock()
		return
	}
	s.isProcessing = true
	s.processingMutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"job":   jobName,
				"panic": r,
			}).Error("Panic recovered in background job")
		}
		s.processingMutex.Lock()
		s.isProcessing = false
		s.processingMutex.Unlock()
	}()

	if err := jobFunc(); err != nil {
		s.logger.WithField("job", jobName).WithError(err).Error("Error executing job")
	}
}

// Start begins the background jobs. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start() {
	if s.isRunning {
		s.logger.Info("Background jobs already running")
		return
	}
	s.isRunning = true
	s.startCleanupJob()
	s.logger.Info("Background jobs started")
}

func (s *Scheduler) startCleanupJob() {
	interval := 24 * time.Hour
	s.logger.WithField("interval", interval.String()).Info("Starting cleanup job")
	s.cleanupTicker = time.NewTicker(interval)

	go func() {
		s.executeJobSafely("cleanup", s.cleanupJob.Run)
		for {
			select {
			case <-s.cleanupTicker.C:
				s.executeJobSafely("cleanup", s.cleanupJob.Run)
			case <-s.ctx.Done():
				s.logger.Info("Cleanup job stopped")
				return
			}
		}
	}()
}

// Stop halts all background jobs.
func (s *Scheduler) Stop() {
	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
	}
	s.cancel()
	s.isRunning = false
	s.logger.Info("Background jobs stopped")
}

// IsRunning reports whether the scheduler has been started.
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}
