// Package session holds explicit per-interview state. The interview core
// keeps no state of its own; whoever drives it (the HTTP layer, the practice
// command) owns one of these and passes the counters in on every call.
package session

import (
	"time"

	"github.com/candidly/intervu/internal/interview"
)

// Session tracks progress through one round of one mock interview. It is not
// safe for concurrent use; each session belongs to a single caller.
type Session struct {
	Candidate interview.CandidateInfo
	RoundType string

	QuestionNumber int
	// FollowupCount is the follow-up counter for the current question.
	// Reset on every advance; the engine never pushes it past
	// interview.MaxFollowups.
	FollowupCount int

	Transcript []interview.Exchange

	deadline time.Time
}

// New starts a session for the given round with the given time budget.
func New(candidate interview.CandidateInfo, roundType string, duration time.Duration) *Session {
	return &Session{
		Candidate:      candidate,
		RoundType:      roundType,
		QuestionNumber: 1,
		deadline:       time.Now().Add(duration),
	}
}

// TimeRemaining reports the whole seconds left on the round clock, never
// negative.
func (s *Session) TimeRemaining() int {
	remaining := time.Until(s.deadline)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// Record appends an answered question to the transcript.
func (s *Session) Record(question, answer string, verdict *interview.Verdict) {
	s.Transcript = append(s.Transcript, interview.Exchange{
		Question: question,
		Answer:   answer,
		Verdict:  verdict,
	})
}

// Advance moves to the next main question and resets the follow-up counter.
func (s *Session) Advance() {
	s.QuestionNumber++
	s.FollowupCount = 0
}

// PreviousAnswers returns the answers given so far, oldest first.
func (s *Session) PreviousAnswers() []string {
	answers := make([]string, 0, len(s.Transcript))
	for _, exchange := range s.Transcript {
		answers = append(answers, exchange.Answer)
	}
	return answers
}

// Score averages the completeness-weighted verdict scores over the
// transcript, for the rule-based round analysis. Exchanges without a verdict
// are skipped; an empty transcript scores zero.
func (s *Session) Score() int {
	total, counted := 0, 0
	for _, exchange := range s.Transcript {
		v := exchange.Verdict
		if v == nil {
			continue
		}
		total += (v.Clarity + v.Completeness + v.Relevance + v.Depth + v.Coherence) / 5
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / counted
}

// Result packages the session for reporting.
func (s *Session) Result() interview.RoundResult {
	return interview.RoundResult{
		RoundType: s.RoundType,
		Score:     s.Score(),
		Exchanges: s.Transcript,
	}
}
