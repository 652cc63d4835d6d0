// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler persists a leaderboard ranking batch every minute so
// the live leaderboard can report previous-rank deltas to polling clients.
func (s *LeaderboardService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := s.Snapshot(); err != nil {
				log.Printf("[Scheduler] Leaderboard snapshot failed: %v", err)
			}
		}),
	)
}
