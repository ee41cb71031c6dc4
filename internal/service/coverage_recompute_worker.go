package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/pkg/cache"
	"github.com/noah-isme/coverage-api/pkg/jobs"
)

const recomputeJobType = "coverage.recompute"

type coverageComputer interface {
	Compute(ctx context.Context, schoolID, absenceID string) (*dto.CoverageSummaryResponse, error)
	MarkFilled(ctx context.Context, schoolID, coverageRequestID string, summary coverage.ShiftSummary) (bool, error)
}

type absenceCoverageWriter interface {
	UpdateCoverageStatus(ctx context.Context, id, coverageStatus string) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

type recomputePayload struct {
	SchoolID  string
	AbsenceID string
}

// CoverageRecomputeWorker keeps an absence's stored coverage status and its cached summary in
// step with assignment changes. Refresh drops the cached summary immediately and queues the
// recompute; concurrent refreshes of one absence coalesce into a single job.
type CoverageRecomputeWorker struct {
	queue    jobQueue
	computer coverageComputer
	absences absenceCoverageWriter
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCoverageRecomputeWorker constructs the worker without a queue; call Attach before use.
func NewCoverageRecomputeWorker(computer coverageComputer, absences absenceCoverageWriter, cacheSvc *CacheService, metrics *MetricsService, logger *zap.Logger) *CoverageRecomputeWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverageRecomputeWorker{computer: computer, absences: absences, cache: cacheSvc, metrics: metrics, logger: logger}
}

// Attach sets the queue jobs are dispatched to.
func (w *CoverageRecomputeWorker) Attach(queue jobQueue) {
	w.queue = queue
}

// Refresh invalidates the cached summary and schedules a recompute. A failed invalidation is
// retried by the recompute job.
func (w *CoverageRecomputeWorker) Refresh(ctx context.Context, schoolID, absenceID string) {
	if err := w.cache.Invalidate(ctx, cache.SummaryKey(schoolID, absenceID)); err != nil {
		w.logger.Warn("summary cache not invalidated on refresh",
			zap.String("absence_id", absenceID),
			zap.Bool("queued_retry", w.queue != nil),
			zap.Error(err))
	}
	if w.queue == nil {
		return
	}
	queued, err := w.queue.Enqueue(jobs.Job{
		ID:      fmt.Sprintf("%s:%s", recomputeJobType, absenceID),
		Key:     absenceID,
		Type:    recomputeJobType,
		Payload: recomputePayload{SchoolID: schoolID, AbsenceID: absenceID},
	})
	if err != nil {
		w.logger.Warn("coverage recompute not queued", zap.String("absence_id", absenceID), zap.Error(err))
		w.metrics.RecordRecompute("enqueue_failed")
		return
	}
	if !queued {
		w.metrics.RecordRecompute("coalesced")
	}
}

// Handle runs one recompute job.
func (w *CoverageRecomputeWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(recomputePayload)
	if !ok {
		w.logger.Error("unexpected recompute payload", zap.String("job_id", job.ID))
		return nil
	}

	result, err := w.computer.Compute(ctx, payload.SchoolID, payload.AbsenceID)
	if err != nil {
		w.metrics.RecordRecompute("failed")
		return err
	}
	if err := w.absences.UpdateCoverageStatus(ctx, payload.AbsenceID, string(result.Coverage.Status)); err != nil {
		w.metrics.RecordRecompute("failed")
		return err
	}
	if result.CoverageRequestID != nil {
		filled, err := w.computer.MarkFilled(ctx, payload.SchoolID, *result.CoverageRequestID, result.Summary)
		if err != nil {
			w.metrics.RecordRecompute("failed")
			return err
		}
		if filled {
			w.logger.Info("coverage request filled", zap.String("coverage_request_id", *result.CoverageRequestID))
		}
	}
	if err := w.cache.Invalidate(ctx, cache.SummaryKey(payload.SchoolID, payload.AbsenceID)); err != nil {
		w.metrics.RecordRecompute("failed")
		return err
	}

	w.metrics.RecordRecompute("succeeded")
	w.logger.Debug("coverage recomputed",
		zap.String("absence_id", payload.AbsenceID),
		zap.String("status", string(result.Coverage.Status)),
		zap.Int("shifts", result.Summary.Total))
	return nil
}
