package services

import (
	"database/sql"
	"log"

	"hillview-school/app/database"

	"github.com/robfig/cron/v3"
)

// StartScheduler starts the background cron jobs. Currently a nightly pass
// that re-derives every mark's percentage and band from the stored raws, so
// component max edits made during the day cannot leave stale aggregates.
func StartScheduler(db *sql.DB) {
	c := cron.New()

	_, err := c.AddFunc("15 2 * * *", func() {
		log.Println("Scheduler: starting nightly mark recompute")
		count, err := database.RecomputeAllMarks(db)
		if err != nil {
			log.Printf("Scheduler: mark recompute failed: %v", err)
			return
		}
		log.Printf("Scheduler: recomputed %d marks", count)
	})
	if err != nil {
		log.Printf("Scheduler: failed to register mark recompute job: %v", err)
		return
	}

	c.Start()
	log.Println("Scheduler started")
}
