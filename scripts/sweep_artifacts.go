package main

import (
	"log"
	"time"

	"vocaresume/api/internal/config"
	"vocaresume/api/internal/services"
)

// Standalone retention sweep for synthesized audio. The API server runs the
// same sweep on a ticker; this is for cron or manual cleanup.
func main() {
	log.Println("🧹 Starting artifact sweep...")

	// Load configuration
	cfg := config.Load()

	store := services.NewArtifactStore(cfg.Speech.AudioPath, cfg.Speech.Retention)

	removed, err := store.Sweep(time.Now())
	if err != nil {
		log.Fatalf("❌ Sweep failed: %v", err)
	}

	log.Printf("✅ Sweep completed: removed %d artifacts older than %s\n", removed, cfg.Speech.Retention)
}
