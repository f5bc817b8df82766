package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocaresume/api/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo  repositories.AnalysisRepository
	pipeline      PipelineService
	artifacts     ArtifactStore
	jobQueue      chan uuid.UUID
	concurrency   int
	sweepInterval time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	pipeline PipelineService,
	artifacts ArtifactStore,
	concurrency int,
	sweepInterval time.Duration,
) Worker {
	return &worker{
		analysisRepo:  analysisRepo,
		pipeline:      pipeline,
		artifacts:     artifacts,
		jobQueue:      make(chan uuid.UUID, 100),
		concurrency:   concurrency,
		sweepInterval: sweepInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.wg.Add(1)
	go w.sweepArtifacts()

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		log.Printf("📥 Analysis %s enqueued\n", analysisID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue analysis %s\n", analysisID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("👷 Worker #%d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case analysisID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing analysis %s\n", workerID, analysisID)
			if err := w.pipeline.RunAnalysis(ctx, analysisID); err != nil {
				log.Printf("❌ Worker #%d failed analysis %s: %v\n", workerID, analysisID, err)
			} else {
				log.Printf("✅ Worker #%d completed analysis %s\n", workerID, analysisID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Println("🔄 Starting pending jobs poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.analysisRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending analyses\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}

// sweepArtifacts periodically removes synthesized audio older than the
// retention window.
func (w *worker) sweepArtifacts() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	log.Println("🧹 Starting artifact sweep")

	for {
		select {
		case <-w.stopChan:
			log.Println("🧹 Artifact sweep stopped")
			return
		case <-ticker.C:
			removed, err := w.artifacts.Sweep(time.Now())
			if err != nil {
				log.Printf("⚠️  Artifact sweep failed: %v\n", err)
				continue
			}
			if removed > 0 {
				log.Printf("🧹 Removed %d stale audio artifacts\n", removed)
			}
		}
	}
}
