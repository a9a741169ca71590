package observations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trackboard/internal/database"
	"trackboard/internal/metrics"
	"trackboard/internal/tracks"
)

// CollectBatchInput is one ingest request: a set of raw rows plus the name
// of the source that produced them.
type CollectBatchInput struct {
	Source       string
	Observations []tracks.RawObservation
}

// CollectBatchResult reports what an ingest request did.
type CollectBatchResult struct {
	BatchID  string
	Accepted int
	Dropped  int
}

// CollectBatch persists a batch of raw observations. Rows lacking both a
// track key and a track name are dropped silently, as are rows with no
// usable date. Re-posting a (track, day) pair keeps the larger play count,
// so ingest is idempotent and mirrors the engine's same-day dedup rule.
func CollectBatch(db *gorm.DB, logger *logrus.Logger, input CollectBatchInput) (CollectBatchResult, error) {
	batchID := uuid.NewString()

	resolver := tracks.DefaultResolver{}
	rows := make([]Observation, 0, len(input.Observations))
	dropped := 0
	for _, raw := range input.Observations {
		if _, ok := resolver.Resolve(raw); !ok {
			dropped++
			continue
		}
		if raw.ObservedAt.IsZero() || raw.PlayCount < 0 {
			dropped++
			continue
		}
		rows = append(rows, fromRaw(batchID, raw))
	}

	if len(rows) == 0 {
		logger.WithFields(logrus.Fields{
			"source":  input.Source,
			"dropped": dropped,
		}).Warn("Ingest batch contained no usable rows")
		return CollectBatchResult{BatchID: batchID, Dropped: dropped}, nil
	}

	err := database.PerformWrite(logger, db, func(tx *gorm.DB) error {
		if err := tx.Create(&IngestBatch{
			ID:         batchID,
			Source:     input.Source,
			RowCount:   len(rows),
			ReceivedAt: time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("failed to record ingest batch: %w", err)
		}

		// Same-day re-posts keep the more complete sample.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "track_key"},
				{Name: "track_name"},
				{Name: "artist_name"},
				{Name: "day"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"play_count":  gorm.Expr("MAX(play_count, excluded.play_count)"),
				"observed_at": gorm.Expr("MAX(observed_at, excluded.observed_at)"),
				"batch_id":    batchID,
				"updated_at":  time.Now().UTC(),
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return CollectBatchResult{}, fmt.Errorf("failed to store observation batch: %w", err)
	}

	metrics.ObservationsIngested.Add(float64(len(rows)))
	logger.WithFields(logrus.Fields{
		"batch_id": batchID,
		"source":   input.Source,
		"accepted": len(rows),
		"dropped":  dropped,
	}).Info("Collected observation batch")

	return CollectBatchResult{BatchID: batchID, Accepted: len(rows), Dropped: dropped}, nil
}
