package services

import (
	"database/sql"
	"log"
	"time"

	"school-admin/app/database"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Nightly sweep at 00:05. Re-derives installment statuses so
			// pending installments whose due date has passed flip to
			// overdue. Due dates themselves are never touched.
			if now.Hour() == 0 && now.Minute() == 5 {
				log.Println("Triggering scheduled tasks [00:05]...")

				result, err := database.RepairAllInstallments(db)
				if err != nil {
					log.Printf("Error repairing fee installments: %v", err)
					continue
				}
				log.Printf("Installment status sweep: %d updated, %d failed", result.UpdatedCount, result.FailedCount)
			}
		}
	}()
}
