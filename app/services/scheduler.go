package services

import (
	"log"
	"time"
)

// StartScheduler starts the background task scheduler
func StartScheduler(store EngineStore) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		svc := NewTrackingService(store)
		for range ticker.C {
			now := time.Now()

			// Trigger at 2:30 AM, after the payment service's day close
			if now.Hour() == 2 && now.Minute() == 30 {
				log.Println("Triggering nightly waiver recomputation [02:30]...")

				results, err := svc.RecomputeCurrentSession()
				if err != nil {
					log.Printf("Waiver recomputation failed: %v", err)
					continue
				}
				failed := 0
				for _, r := range results {
					if !r.Success {
						failed++
						log.Printf("Recompute failed for student %s: %s", r.StudentID, r.Message)
					}
				}
				log.Printf("Waiver recomputation finished: %d students processed, %d failures", len(results), failed)
			}
		}
	}()
}
