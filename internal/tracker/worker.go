package tracker

import (
	"context"
	"fmt"
	"time"

	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/events"
	"jordanella.com/cursor-tracker/internal/logging"
)

// runWorker scans until ctx is cancelled or runID stops being the active run.
// A failed pass never ends the loop; it only lengthens the next pause.
func (t *Tracker) runWorker(ctx context.Context, runID string) {
	defer t.wg.Done()

	for t.state.isCurrentRun(runID) {
		delay := t.timing.PollInterval

		if err := t.scanIteration(ctx, runID); err != nil {
			if ctx.Err() != nil {
				return
			}
			delay = t.timing.RetryDelay
			t.reporter.ReportErrorWithContext(logging.ErrorCategoryWorker, logging.ErrorSeverityMedium,
				"Worker", "scan pass failed, retrying", err, map[string]interface{}{
					"run_id":   runID,
					"retry_in": delay.String(),
				})
			t.publish(events.NewScanFailedEvent(runID, err))
		}

		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// scanIteration runs one pass: scan around the current position, follow
// the best candidate when it clears the threshold, and commit the outcome.
func (t *Tracker) scanIteration(ctx context.Context, runID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan pass panic: %v", r)
		}
	}()

	started := time.Now()
	settings := t.state.Settings()
	center := t.state.Position()

	candidates, err := t.scanner.Scan(ctx, center, settings.ScanRange, settings.ScanStep)
	if err != nil {
		return err
	}

	failed := countFailed(candidates)
	if len(candidates) > 0 && failed == len(candidates) {
		return fmt.Errorf("%w: all %d cells failed", ErrCaptureUnavailable, failed)
	}

	best, _ := Best(candidates)
	out := passOutcome{results: TopCandidates(candidates, maxStoredResults)}

	if best.Ratio > settings.MatchThreshold {
		// a stop that landed during the scan must not move the cursor
		if !t.state.isCurrentRun(runID) {
			return nil
		}
		target := cv.Point{X: best.X, Y: best.Y}
		reached, moved, moveErr := t.mover.MoveTo(target, settings.SmoothMovement)
		t.recordMove(SourceWorker, center, target, settings.SmoothMovement, moveErr)
		// the cursor has physically moved even if the run was stopped or
		// a later step failed
		if moved {
			t.state.SetPosition(reached)
			t.publish(events.NewCursorMovedEvent(SourceWorker, center.X, center.Y, reached.X, reached.Y))
		}
		if moveErr != nil {
			return moveErr
		}
		out.found = true
	}

	wasFound, applied := t.state.recordPass(runID, out)
	if !applied {
		return nil
	}

	switch {
	case out.found && !wasFound:
		t.publish(events.NewTargetFoundEvent(runID, best.X, best.Y, best.Ratio))
	case !out.found && wasFound:
		t.publish(events.NewTargetLostEvent(runID, best.Ratio))
	}

	t.recordPass(database.ScanPass{
		RunID:       runID,
		CenterX:     center.X,
		CenterY:     center.Y,
		Cells:       len(candidates),
		FailedCells: failed,
		BestX:       best.X,
		BestY:       best.Y,
		BestRatio:   best.Ratio,
		TargetFound: out.found,
		Duration:    time.Since(started),
		RecordedAt:  started,
	})
	return nil
}

func (t *Tracker) recordPass(p database.ScanPass) {
	if t.journal == nil {
		return
	}
	if err := t.journal.RecordPass(p); err != nil {
		t.logger.Warn(fmt.Sprintf("failed to journal scan pass: %v", err))
	}
}

// sleepCtx waits for d and reports false if ctx ended first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	return true
}
