package interview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/candidly/intervu/internal/ai"
	"github.com/candidly/intervu/internal/utils"
	"go.uber.org/zap"
)

//go:embed evaluator_prompt.md
var evaluatorSystemPrompt string

//go:embed evaluator_input.md
var evaluatorInputTemplate string

const (
	evaluatorTemperature = 0.3
	defaultMaxLogLength  = 200
)

// ErrEmptyQuestion is returned when the caller provides no question text.
// An empty answer is not an error: the judge scores it as a very poor answer.
var ErrEmptyQuestion = errors.New("question is required")

// Evaluator scores a question/answer pair with the language-model judge.
// It is total over judge behavior: any failure to obtain or parse a verdict
// yields the deterministic fallback instead of an error.
type Evaluator struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewEvaluator creates an Evaluator backed by the provided completer.
func NewEvaluator(completer ai.Completer, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate sends the pair to the judge and returns a normalized verdict.
// roundType is only context for the judge; unknown values are fine.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer, roundType string, followupCount int) (*Verdict, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	prompt := buildEvaluatorInput(question, answer, roundType, followupCount)

	e.logger.Debug("judge evaluation request",
		zap.String("round_type", roundType),
		zap.Int("followup_count", followupCount),
		zap.Int("answer_length", utf8.RuneCountInString(answer)),
		zap.String("question_preview", utils.TruncateForLog(question, e.maxLogLen)),
	)

	raw, err := e.completer.Complete(ctx, evaluatorSystemPrompt, prompt, evaluatorTemperature)
	if err != nil {
		e.logger.Warn("judge unavailable, using fallback verdict", zap.Error(err))
		return e.finish(FallbackVerdict("evaluation error: "+err.Error()), followupCount), nil
	}

	e.logger.Debug("judge evaluation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	verdict, err := parseVerdict(raw)
	if err != nil {
		e.logger.Warn("unparseable judge verdict, using fallback", zap.Error(err))
		return e.finish(FallbackVerdict("evaluation error: "+err.Error()), followupCount), nil
	}

	return e.finish(verdict, followupCount), nil
}

// finish enforces the follow-up cap no matter what the judge returned.
func (e *Evaluator) finish(verdict *Verdict, followupCount int) *Verdict {
	if followupCount >= MaxFollowups {
		verdict.NeedsFollowup = false
		verdict.FollowupTypeHint = FollowupNone
		verdict.Reason = fmt.Sprintf("Maximum follow-ups reached (%d/%d). Moving to next question.", MaxFollowups, MaxFollowups)
	}
	return verdict
}

func buildEvaluatorInput(question, answer, roundType string, followupCount int) string {
	if strings.TrimSpace(roundType) == "" {
		roundType = "general"
	}

	prompt := strings.ReplaceAll(evaluatorInputTemplate, "{{QUESTION}}", question)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", answer)
	prompt = strings.ReplaceAll(prompt, "{{ROUND_TYPE}}", roundType)
	prompt = strings.ReplaceAll(prompt, "{{FOLLOWUP_COUNT}}", strconv.Itoa(followupCount))
	prompt = strings.ReplaceAll(prompt, "{{MAX_FOLLOWUPS}}", strconv.Itoa(MaxFollowups))
	return prompt
}
