package jobs

import (
	"log"
	"time"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/services"
)

const stalePendingCutoff = 24 * time.Hour

// SweepStalePendingPayments cancels payment orders abandoned client-side.
// Without it, a dismissed checkout modal leaves a pending ledger row forever.
func SweepStalePendingPayments() {
	log.Println("Running job: SweepStalePendingPayments...")

	swept, err := services.SweepStalePendingPayments(database.DB, stalePendingCutoff)
	if err != nil {
		log.Printf("Error sweeping stale pending payments: %v", err)
		return
	}

	if swept > 0 {
		log.Printf("Cancelled %d stale pending payment(s).", swept)
	}
}
