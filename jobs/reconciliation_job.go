package jobs

import (
	"log"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/services"
)

// RunNightlyReconciliation re-checks every completed ledger row against its
// application. A clean system reports zero repairs.
func RunNightlyReconciliation() {
	log.Println("Running job: RunNightlyReconciliation...")

	report, err := services.RunReconciliation(database.DB, "cron")
	if err != nil {
		log.Printf("Error running reconciliation: %v", err)
		return
	}

	log.Printf("Reconciliation checked %d payment(s), repaired %d, found %d orphan(s).",
		report.Checked, report.Repaired, len(report.OrphanOrders))
}
