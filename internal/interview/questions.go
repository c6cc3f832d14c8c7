package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/candidly/intervu/internal/ai"
	"github.com/candidly/intervu/internal/utils"
	"go.uber.org/zap"
)

// RoundScreening and friends are the canonical round type labels. Unknown
// labels fall back to the screening profile rather than failing.
const (
	RoundScreening    = "screening"
	RoundCoding       = "coding"
	RoundTechnical    = "technical"
	RoundBehavioral   = "behavioral"
	RoundSystemDesign = "system_design"
)

// RoundProfile tunes question generation for one interview round.
type RoundProfile struct {
	Label        string
	SystemPrompt string
	Temperature  float32
	// Questions is the number of main questions in the round.
	Questions int
}

var roundProfiles = map[string]RoundProfile{
	RoundScreening: {
		Label:       "HR screening",
		Temperature: 1.2,
		Questions:   10,
		SystemPrompt: `You are a friendly HR interviewer conducting the initial screening round.
Ask SIMPLE, GENERIC questions about background, motivation and resume content.
Keep questions short (1-2 sentences), conversational and easy to answer.
Do not ask sharp technical or trade-off questions; those belong to later rounds.
Build naturally on previous answers.
Return ONLY JSON: {"question": "your simple, friendly question"}`,
	},
	RoundCoding: {
		Label:       "coding",
		Temperature: 0.8,
		Questions:   3,
		SystemPrompt: `You are a technical interviewer running the coding round.
Ask focused programming questions grounded in the candidate's stated stack:
data structures, algorithms, debugging, code quality.
One question at a time, short and precise.
Return ONLY JSON: {"question": "your coding question"}`,
	},
	RoundTechnical: {
		Label:       "technical deep-dive",
		Temperature: 0.9,
		Questions:   8,
		SystemPrompt: `You are a senior engineer running the technical deep-dive round.
Ask questions that probe real understanding of the technologies and projects
on the candidate's resume: why choices were made, trade-offs, failure modes.
One question at a time, short and precise.
Return ONLY JSON: {"question": "your technical question"}`,
	},
	RoundBehavioral: {
		Label:       "behavioral",
		Temperature: 1.0,
		Questions:   8,
		SystemPrompt: `You are an experienced interviewer running the behavioral round.
Ask STAR-style questions about teamwork, conflict, ownership and delivery,
referencing the candidate's experience where possible.
One question at a time, warm and professional.
Return ONLY JSON: {"question": "your behavioral question"}`,
	},
	RoundSystemDesign: {
		Label:       "system design",
		Temperature: 0.9,
		Questions:   5,
		SystemPrompt: `You are a staff engineer running the system design round.
Ask open-ended design questions sized to the candidate's seniority, building
on their answers: requirements, data model, scaling, trade-offs.
One question at a time.
Return ONLY JSON: {"question": "your system design question"}`,
	},
}

// ProfileFor returns the generation profile for a round type, falling back
// to the screening profile for unknown labels.
func ProfileFor(roundType string) RoundProfile {
	if profile, ok := roundProfiles[strings.TrimSpace(roundType)]; ok {
		return profile
	}
	return roundProfiles[RoundScreening]
}

// CandidateInfo identifies the person being interviewed.
type CandidateInfo struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Experience string `json:"experience"`
}

// QuestionRequest describes the context for the next main question.
type QuestionRequest struct {
	RoundType      string        `json:"round_type"`
	QuestionNumber int           `json:"question_number"`
	Candidate      CandidateInfo `json:"candidate"`
	JobDescription string        `json:"job_description"`
	Skills         []string      `json:"skills"`
	Projects       []string      `json:"projects"`
	// PreviousAnswers holds recent answers so questions build on them.
	PreviousAnswers []string `json:"previous_answers"`
}

// QuestionGenerator produces the next main question of a round.
type QuestionGenerator struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewQuestionGenerator creates a QuestionGenerator.
func NewQuestionGenerator(completer ai.Completer, logger *zap.Logger, maxLogLength int) *QuestionGenerator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QuestionGenerator{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Next generates the next question. The first screening question is a
// deterministic personalized greeting and involves no model call.
func (g *QuestionGenerator) Next(ctx context.Context, req QuestionRequest) (string, error) {
	profile := ProfileFor(req.RoundType)

	if req.QuestionNumber <= 1 && profileIsScreening(req.RoundType) {
		return greeting(req.Candidate), nil
	}

	raw, err := g.completer.Complete(ctx, profile.SystemPrompt, buildQuestionInput(profile, req), profile.Temperature)
	if err != nil {
		return "", fmt.Errorf("generate %s question: %w", profile.Label, err)
	}

	question := extractQuestion(raw)
	if question == "" {
		return "", fmt.Errorf("model returned no usable %s question", profile.Label)
	}

	g.logger.Debug("question generated",
		zap.String("round_type", req.RoundType),
		zap.Int("question_number", req.QuestionNumber),
		zap.String("preview", utils.TruncateForLog(question, g.maxLogLen)),
	)

	return question, nil
}

func profileIsScreening(roundType string) bool {
	_, known := roundProfiles[strings.TrimSpace(roundType)]
	return !known || strings.TrimSpace(roundType) == RoundScreening
}

func greeting(candidate CandidateInfo) string {
	firstName := "there"
	if name := strings.TrimSpace(candidate.Name); name != "" {
		firstName = strings.Fields(name)[0]
	}

	position := strings.TrimSpace(candidate.Position)
	if position == "" {
		position = "this role"
	}

	return fmt.Sprintf("Hello %s! Thank you for joining us today for the %s interview. Could you please introduce yourself and tell me a bit about your background?", firstName, position)
}

func buildQuestionInput(profile RoundProfile, req QuestionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate question %d of %d for the %s round.\n\n", req.QuestionNumber, profile.Questions, profile.Label)

	if jd := strings.TrimSpace(req.JobDescription); jd != "" {
		fmt.Fprintf(&b, "JOB ROLE:\n%s\n\n", utils.TruncateForLog(jd, 400))
	}

	b.WriteString("CANDIDATE BACKGROUND:\n")
	fmt.Fprintf(&b, "- Position applying for: %s\n", valueOr(req.Candidate.Position, "not specified"))
	fmt.Fprintf(&b, "- Experience: %s\n", valueOr(req.Candidate.Experience, "not specified"))
	fmt.Fprintf(&b, "- Tech stack: %s\n", joinOr(req.Skills, 8, "various technologies"))
	fmt.Fprintf(&b, "- Key projects: %s\n\n", joinOr(req.Projects, 3, "their projects"))

	b.WriteString("RECENT CONVERSATION:\n")
	if len(req.PreviousAnswers) == 0 {
		b.WriteString("Just introduced themselves\n")
	} else {
		recent := req.PreviousAnswers
		if len(recent) > 2 {
			recent = recent[len(recent)-2:]
		}
		for i, answer := range recent {
			fmt.Fprintf(&b, "Previous answer %d: %s\n", i+1, utils.TruncateForLog(answer, 200))
		}
	}

	b.WriteString("\nKeep the question short and build on the conversation.\n")
	b.WriteString(`Return ONLY JSON: {"question": "..."}`)

	return b.String()
}

// extractQuestion pulls the question out of the model output, tolerating
// missing JSON wrapping.
func extractQuestion(raw string) string {
	if data, err := parseObject(raw); err == nil {
		if q := coerceString(data["question"]); q != "" {
			return q
		}
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.NewReplacer(`"`, "", "{", "", "}", "").Replace(cleaned)
	return strings.TrimSpace(cleaned)
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func joinOr(items []string, limit int, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
