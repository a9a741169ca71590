package jobs

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trackboard/internal/config"
	"trackboard/internal/database"
	"trackboard/internal/observations"
)

// CleanupJob prunes observations and ingest batch records older than the
// configured retention period. Old cumulative samples stop contributing to
// the dashboard long before they expire, so dropping them only bounds
// storage growth.
type CleanupJob struct {
	db     *gorm.DB
	logger *logrus.Logger
	cfg    *config.Config
}

func NewCleanupJob(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{db: db, logger: logger, cfg: cfg}
}

// Run removes rows whose day fell out of the retention window.
func (j *CleanupJob) Run() error {
	retentionDays := j.cfg.RetentionDays
	if retentionDays <= 0 {
		j.logger.Debug("Retention disabled, skipping cleanup")
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	var staleRows int64
	if err := j.db.Model(&observations.Observation{}).
		Where("day < ?", cutoff).
		Count(&staleRows).Error; err != nil {
		return err
	}
	if staleRows == 0 {
		j.logger.Debug("No stale observations to clean up")
		return nil
	}

	err := database.PerformWrite(j.logger, j.db, func(tx *gorm.DB) error {
		if err := tx.Where("day < ?", cutoff).
			Delete(&observations.Observation{}).Error; err != nil {
			return err
		}
		return tx.Where("received_at < ?", cutoff).
			Delete(&observations.IngestBatch{}).Error
	})
	if err != nil {
		return err
	}

	j.logger.WithFields(logrus.Fields{
		"deleted":        staleRows,
		"retention_days": retentionDays,
		"cutoff":         cutoff.Format(time.DateOnly),
	}).Info("Cleaned up stale observations")
	return nil
}
