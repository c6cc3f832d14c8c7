package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/candidly/intervu/internal/ai"
	"github.com/candidly/intervu/internal/utils"
	"go.uber.org/zap"
)

const followupTemperature = 0.7

var followupInstructions = map[FollowupType]string{
	FollowupElaboration:   "Ask them to expand on a specific point they mentioned. Go deeper into details.",
	FollowupClarification: "Ask them to explain something that was unclear or vague. Be specific about what needs clarification.",
	FollowupRedirect:      "Gently bring them back to the original topic. Reference what they said but steer toward the question.",
}

var followupFallbacks = map[FollowupType]string{
	FollowupElaboration:   "Could you tell me more about that?",
	FollowupClarification: "Could you explain that in a different way?",
	FollowupRedirect:      "Going back to my original question, what are your thoughts?",
}

// Follow-up models sometimes prepend a label despite instructions.
var followupPrefixes = []string{"follow-up:", "follow up:", "question:"}

// FollowupGenerator produces short contextual follow-up questions. Total by
// contract: any judge failure resolves to a fixed per-type fallback.
type FollowupGenerator struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewFollowupGenerator creates a FollowupGenerator.
func NewFollowupGenerator(completer ai.Completer, logger *zap.Logger, maxLogLength int) *FollowupGenerator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FollowupGenerator{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// FollowupContext carries optional extra context for the follow-up prompt.
type FollowupContext struct {
	// KeySkills are the candidate's top skills from the resume analysis.
	KeySkills []string
}

// Generate asks the model for a follow-up question of the given type.
// Unknown types default to elaboration.
func (g *FollowupGenerator) Generate(ctx context.Context, originalQuestion, candidateAnswer string, followupType FollowupType, roundType string, extra FollowupContext) (string, error) {
	if _, ok := followupInstructions[followupType]; !ok {
		followupType = FollowupElaboration
	}
	if strings.TrimSpace(roundType) == "" {
		roundType = "general"
	}

	systemPrompt := fmt.Sprintf(`You are an expert interviewer conducting a %s interview round.

Your task: generate a follow-up question based on the candidate's answer.

Follow-up type: %s
Instructions: %s

RULES:
1. Keep the question SHORT and FOCUSED (1-2 sentences max)
2. Reference something specific from their answer
3. Don't repeat the original question
4. Be conversational, not interrogative
5. Match the tone of the round type

Return ONLY the follow-up question, nothing else.`, roundType, followupType, followupInstructions[followupType])

	var contextBlock string
	if len(extra.KeySkills) > 0 {
		limit := len(extra.KeySkills)
		if limit > 3 {
			limit = 3
		}
		contextBlock = "\nCandidate's key skills: " + strings.Join(extra.KeySkills[:limit], ", ")
	}

	userPrompt := fmt.Sprintf(`Original question: %s

Candidate's answer: %s

Follow-up type needed: %s
%s
Generate a short, focused follow-up question:`, originalQuestion, candidateAnswer, followupType, contextBlock)

	raw, err := g.completer.Complete(ctx, systemPrompt, userPrompt, followupTemperature)
	if err != nil {
		g.logger.Warn("follow-up generation failed, using fallback",
			zap.String("followup_type", string(followupType)),
			zap.Error(err),
		)
		return followupFallbacks[followupType], nil
	}

	followup := cleanFollowup(raw)
	if followup == "" {
		return followupFallbacks[followupType], nil
	}

	g.logger.Debug("follow-up generated",
		zap.String("followup_type", string(followupType)),
		zap.Int("length", utf8.RuneCountInString(followup)),
		zap.String("preview", utils.TruncateForLog(followup, g.maxLogLen)),
	)

	return followup, nil
}

// cleanFollowup strips wrapping quotes and any label prefixes the model may
// have added despite instructions.
func cleanFollowup(raw string) string {
	followup := strings.TrimSpace(raw)
	followup = strings.Trim(followup, `"'`)
	followup = strings.TrimSpace(followup)

	for _, prefix := range followupPrefixes {
		if len(followup) >= len(prefix) && strings.EqualFold(followup[:len(prefix)], prefix) {
			followup = strings.TrimSpace(followup[len(prefix):])
		}
	}

	return followup
}
