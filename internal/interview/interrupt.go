package interview

import "github.com/candidly/intervu/internal/utils"

// DefaultMaxAnswerWords is the word budget for a single answer before the
// monitor treats it as rambling.
const DefaultMaxAnswerWords = 500

// interruptTimeCutoffSeconds mirrors the engine's time-pressure cutoff.
const interruptTimeCutoffSeconds = 30

// ShouldInterrupt checks whether an in-progress answer should be cut off.
// It is independent of the decision engine and can run mid-answer, before
// any judge call. Time pressure is checked before length.
func ShouldInterrupt(answerSoFar string, timeRemainingSeconds, maxWordCount int) InterruptCheck {
	if maxWordCount <= 0 {
		maxWordCount = DefaultMaxAnswerWords
	}

	if timeRemainingSeconds < interruptTimeCutoffSeconds {
		return InterruptCheck{
			ShouldInterrupt: true,
			Reason:          "time_running_out",
			Message:         "I need to stop you there as we're running short on time. Let me ask the next question.",
		}
	}

	if utils.WordCount(answerSoFar) > maxWordCount {
		return InterruptCheck{
			ShouldInterrupt: true,
			Reason:          "rambling",
			Message:         "I appreciate the detail. Let me ask a more specific question...",
		}
	}

	return InterruptCheck{Reason: "none"}
}
