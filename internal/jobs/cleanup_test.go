package jobs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/internal/config"
	"trackboard/internal/jobs"
	"trackboard/internal/logger"
	"trackboard/internal/observations"
	"trackboard/internal/testsupport"
	"trackboard/internal/tracks"
)

func TestCleanupJobPrunesStaleObservations(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	stale := time.Now().UTC().AddDate(0, 0, -400)
	fresh := time.Now().UTC().AddDate(0, 0, -5)
	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source: "test",
		Observations: []tracks.RawObservation{
			testsupport.Obs("old", stale, 100),
			testsupport.Obs("new", fresh, 200),
		},
	})
	require.NoError(t, err)

	job := jobs.NewCleanupJob(db, log, &config.Config{RetentionDays: 365})
	require.NoError(t, job.Run())

	batch, err := observations.AllObservations(db)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "new", batch[0].TrackKey)
}

func TestCleanupJobDisabledRetentionKeepsEverything(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source: "test",
		Observations: []tracks.RawObservation{
			testsupport.Obs("old", time.Now().UTC().AddDate(-3, 0, 0), 100),
		},
	})
	require.NoError(t, err)

	job := jobs.NewCleanupJob(db, log, &config.Config{RetentionDays: 0})
	require.NoError(t, job.Run())

	batch, err := observations.AllObservations(db)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestSchedulerStartStop(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	s := jobs.NewScheduler(db, logger.NewNop(), &config.Config{RetentionDays: 365})
	assert.False(t, s.IsRunning())

	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
}
