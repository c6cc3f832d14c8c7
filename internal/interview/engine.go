package interview

import (
	"context"

	"go.uber.org/zap"
)

// Candidate-facing messages per decision rule.
const (
	msgLimitReached = "Thank you. Let's move to the next question."
	msgRambling     = "I see. Let me ask more specifically..."
	msgOffTrack     = "That's interesting, but let me refocus..."
	msgPoorAnswer   = "Can you elaborate on that?"
	msgStillShort   = "One more thing - can you clarify that?"
	msgTimeShort    = "We're running short on time. Let's continue..."
	msgDefault      = "Moving on..."
)

// Engine decides the next interview action for an answered question. The
// rules run in fixed priority order; the ordering is part of the contract
// and must not be changed.
type Engine struct {
	evaluator  *Evaluator
	thresholds Thresholds
	logger     *zap.Logger
}

// NewEngine creates an Engine on top of the evaluator. Zero-valued threshold
// fields are replaced by the defaults so partial configuration overrides work.
func NewEngine(evaluator *Evaluator, thresholds Thresholds, logger *zap.Logger) *Engine {
	defaults := DefaultThresholds()
	if thresholds.RamblingCoherence <= 0 {
		thresholds.RamblingCoherence = defaults.RamblingCoherence
	}
	if thresholds.OffTrackRelevance <= 0 {
		thresholds.OffTrackRelevance = defaults.OffTrackRelevance
	}
	if thresholds.FirstFollowupCompleteness <= 0 {
		thresholds.FirstFollowupCompleteness = defaults.FirstFollowupCompleteness
	}
	if thresholds.SecondFollowupCompleteness <= 0 {
		thresholds.SecondFollowupCompleteness = defaults.SecondFollowupCompleteness
	}
	if thresholds.TimePressureSeconds <= 0 {
		thresholds.TimePressureSeconds = defaults.TimePressureSeconds
	}
	if thresholds.TimePressureCompleteness <= 0 {
		thresholds.TimePressureCompleteness = defaults.TimePressureCompleteness
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		evaluator:  evaluator,
		thresholds: thresholds,
		logger:     logger,
	}
}

// Decide evaluates the answer and applies the flow rules. The error return
// covers only structurally invalid input; judge failures resolve to the
// fallback verdict and still produce a valid decision.
func (e *Engine) Decide(ctx context.Context, question, answer, roundType string, followupCount, timeRemainingSeconds int) (*Decision, error) {
	verdict, err := e.evaluator.Evaluate(ctx, question, answer, roundType, followupCount)
	if err != nil {
		return nil, err
	}

	decision := e.apply(verdict, followupCount, timeRemainingSeconds)

	e.logger.Info("flow decision",
		zap.String("round_type", roundType),
		zap.String("action", string(decision.Action)),
		zap.String("reason", decision.Reason),
		zap.Int("followup_count", decision.FollowupCount),
		zap.String("overall_quality", string(verdict.OverallQuality)),
	)

	return decision, nil
}

// apply runs the ordered rule set. First match wins.
func (e *Engine) apply(verdict *Verdict, followupCount, timeRemaining int) *Decision {
	t := e.thresholds

	// Rule 1: hard follow-up cap. A count above the cap is treated as at
	// the cap, never as an error.
	if followupCount >= MaxFollowups {
		return &Decision{
			Action:        ActionNextQuestion,
			Reason:        "followup_limit_reached",
			Message:       msgLimitReached,
			FollowupCount: followupCount,
			Verdict:       verdict,
		}
	}

	// Rule 2: rambling. Checked before off-track: incoherence is the more
	// severe failure mode.
	if verdict.IsRambling && verdict.Coherence < t.RamblingCoherence {
		return &Decision{
			Action:        ActionInterrupt,
			Reason:        "rambling",
			Message:       msgRambling,
			FollowupCount: followupCount,
			Verdict:       verdict,
		}
	}

	// Rule 3: off-track answer, redirect back to the question.
	if verdict.IsOffTrack && verdict.Relevance < t.OffTrackRelevance {
		return &Decision{
			Action:        ActionFollowup,
			Reason:        "off_track",
			Message:       msgOffTrack,
			FollowupType:  FollowupRedirect,
			FollowupCount: followupCount + 1,
			Verdict:       verdict,
		}
	}

	// Rule 4: first follow-up, only for very poor answers.
	if followupCount == 0 && verdict.Completeness < t.FirstFollowupCompleteness {
		return &Decision{
			Action:        ActionFollowup,
			Reason:        "poor_answer",
			Message:       msgPoorAnswer,
			FollowupType:  FollowupElaboration,
			FollowupCount: 1,
			Verdict:       verdict,
		}
	}

	// Rule 5: second follow-up, tighter threshold so the engine cannot
	// loop past the cap.
	if followupCount == 1 && verdict.Completeness < t.SecondFollowupCompleteness {
		return &Decision{
			Action:        ActionFollowup,
			Reason:        "still_incomplete",
			Message:       msgStillShort,
			FollowupType:  FollowupClarification,
			FollowupCount: MaxFollowups,
			Verdict:       verdict,
		}
	}

	// Rule 6: time pressure forces an advance even on a mediocre answer.
	if timeRemaining < t.TimePressureSeconds && verdict.Completeness < t.TimePressureCompleteness {
		return &Decision{
			Action:        ActionNextQuestion,
			Reason:        "time_constraint",
			Message:       msgTimeShort,
			FollowupCount: followupCount,
			Verdict:       verdict,
		}
	}

	// Default: advance with the verdict's own feedback.
	message := verdict.Feedback
	if message == "" {
		message = msgDefault
	}

	return &Decision{
		Action:        ActionNextQuestion,
		Reason:        string(verdict.OverallQuality) + "_answer",
		Message:       message,
		FollowupCount: followupCount,
		Verdict:       verdict,
	}
}
