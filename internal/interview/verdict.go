// Package interview implements the answer-evaluation and flow-control core
// of the mock-interview orchestrator. Every component is stateless: all
// per-question state is passed in by the caller and returned by value, so
// independent sessions can be evaluated concurrently without coordination.
package interview

// Quality is the judge's overall grade for an answer.
type Quality string

const (
	QualityExcellent  Quality = "excellent"
	QualityGood       Quality = "good"
	QualityFair       Quality = "fair"
	QualityPoor       Quality = "poor"
	QualityIncomplete Quality = "incomplete"
)

// FollowupType classifies the kind of follow-up question to ask.
type FollowupType string

const (
	FollowupElaboration   FollowupType = "elaboration"
	FollowupClarification FollowupType = "clarification"
	FollowupRedirect      FollowupType = "redirect"
	FollowupNone          FollowupType = "none"
)

// Action is the flow decision for one answered question.
type Action string

const (
	ActionNextQuestion Action = "next_question"
	ActionFollowup     Action = "followup"
	ActionInterrupt    Action = "interrupt"
)

// MaxFollowups is the hard cap on follow-ups per question. The evaluator,
// the engine and the tests all depend on this bound.
const MaxFollowups = 2

// Verdict is the structured multi-dimensional quality score for one answer.
// All numeric scores are clamped to [0,100]. A Verdict is immutable once
// returned by the evaluator.
type Verdict struct {
	Clarity      int `json:"clarity"`
	Completeness int `json:"completeness"`
	Relevance    int `json:"relevance"`
	Depth        int `json:"depth"`
	Coherence    int `json:"coherence"`

	OverallQuality Quality `json:"overall_quality"`

	// NeedsFollowup is advisory only. The engine re-derives the real
	// decision from the scores and the follow-up count.
	NeedsFollowup    bool         `json:"needs_followup"`
	FollowupTypeHint FollowupType `json:"followup_type"`

	IsRambling bool `json:"is_rambling"`
	IsOffTrack bool `json:"is_off_track"`

	Feedback string `json:"feedback"`
	Reason   string `json:"reason"`
}

// FallbackVerdict is substituted whenever the judge is unreachable or its
// output cannot be parsed. The engine must never fail on a malformed verdict.
func FallbackVerdict(reason string) *Verdict {
	return &Verdict{
		Clarity:          50,
		Completeness:     50,
		Relevance:        50,
		Depth:            50,
		Coherence:        50,
		OverallQuality:   QualityFair,
		NeedsFollowup:    false,
		FollowupTypeHint: FollowupNone,
		Feedback:         "Thank you for your answer.",
		Reason:           reason,
	}
}

// Decision is the output of one engine invocation.
type Decision struct {
	Action Action `json:"action"`
	// Reason is a fixed rule identifier, e.g. "followup_limit_reached"
	// or "excellent_answer".
	Reason string `json:"reason"`
	// Message is candidate-facing text.
	Message string `json:"message"`
	// FollowupType is set only when Action is ActionFollowup.
	FollowupType FollowupType `json:"followup_type,omitempty"`
	// FollowupCount is the updated count the caller must persist.
	// Never exceeds MaxFollowups.
	FollowupCount int `json:"followup_count"`
	// Verdict is carried through for auditing and reporting.
	Verdict *Verdict `json:"verdict"`
}

// InterruptCheck is the result of the mid-answer interruption monitor.
type InterruptCheck struct {
	ShouldInterrupt bool   `json:"should_interrupt"`
	Reason          string `json:"reason"`
	Message         string `json:"message"`
}

// Thresholds holds the business-rule constants driving the engine. The
// values are deliberate product choices, not derived quantities: completeness
// thresholds tighten with each follow-up round so the engine becomes harder
// to trigger again and terminates within MaxFollowups escalations.
type Thresholds struct {
	// RamblingCoherence: interrupt when the judge flags rambling and
	// coherence falls below this.
	RamblingCoherence int
	// OffTrackRelevance: redirect when the judge flags off-track and
	// relevance falls below this.
	OffTrackRelevance int
	// FirstFollowupCompleteness triggers the first follow-up.
	FirstFollowupCompleteness int
	// SecondFollowupCompleteness triggers the second follow-up.
	SecondFollowupCompleteness int
	// TimePressureSeconds and TimePressureCompleteness together force an
	// advance when the clock is nearly out.
	TimePressureSeconds      int
	TimePressureCompleteness int
}

// DefaultThresholds returns the production rule constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RamblingCoherence:          40,
		OffTrackRelevance:          30,
		FirstFollowupCompleteness:  30,
		SecondFollowupCompleteness: 25,
		TimePressureSeconds:        30,
		TimePressureCompleteness:   60,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// normalize clamps all scores and fills defaulted enum fields so a Verdict
// is always well-formed regardless of what the judge returned.
func (v *Verdict) normalize() {
	v.Clarity = clampScore(v.Clarity)
	v.Completeness = clampScore(v.Completeness)
	v.Relevance = clampScore(v.Relevance)
	v.Depth = clampScore(v.Depth)
	v.Coherence = clampScore(v.Coherence)

	switch v.OverallQuality {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityIncomplete:
	default:
		v.OverallQuality = QualityFair
	}

	switch v.FollowupTypeHint {
	case FollowupElaboration, FollowupClarification, FollowupRedirect, FollowupNone:
	default:
		v.FollowupTypeHint = FollowupNone
	}
}
