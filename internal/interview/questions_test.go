package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestQuestionGeneratorScreeningGreeting(t *testing.T) {
	stub := &stubCompleter{response: `{"question": "should not be used"}`}
	generator := NewQuestionGenerator(stub, zap.NewNop(), 0)

	question, err := generator.Next(context.Background(), QuestionRequest{
		RoundType:      RoundScreening,
		QuestionNumber: 1,
		Candidate:      CandidateInfo{Name: "Ada Lovelace", Position: "Backend Engineer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(question, "Hello Ada!") {
		t.Fatalf("greeting must use the first name, got %q", question)
	}

	if !strings.Contains(question, "Backend Engineer interview") {
		t.Fatalf("greeting must mention the position, got %q", question)
	}

	if stub.calls != 0 {
		t.Fatal("the greeting must not call the model")
	}
}

func TestQuestionGeneratorGreetingDefaults(t *testing.T) {
	generator := NewQuestionGenerator(&stubCompleter{}, zap.NewNop(), 0)

	question, err := generator.Next(context.Background(), QuestionRequest{QuestionNumber: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(question, "Hello there!") || !strings.Contains(question, "this role interview") {
		t.Fatalf("unexpected default greeting: %q", question)
	}
}

func TestQuestionGeneratorUsesRoundProfile(t *testing.T) {
	stub := &stubCompleter{response: `{"question": "How would you shard the user table?"}`}
	generator := NewQuestionGenerator(stub, zap.NewNop(), 0)

	question, err := generator.Next(context.Background(), QuestionRequest{
		RoundType:      RoundSystemDesign,
		QuestionNumber: 2,
		Candidate:      CandidateInfo{Position: "Staff Engineer"},
		Skills:         []string{"Go", "Postgres"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if question != "How would you shard the user table?" {
		t.Fatalf("unexpected question: %q", question)
	}

	profile := ProfileFor(RoundSystemDesign)
	if stub.lastSystem != profile.SystemPrompt {
		t.Fatal("system prompt must come from the round profile")
	}

	if stub.lastTemp != profile.Temperature {
		t.Fatalf("unexpected temperature: %v", stub.lastTemp)
	}

	if !strings.Contains(stub.lastPrompt, "question 2 of 5") {
		t.Fatalf("prompt missing question position: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "Go, Postgres") {
		t.Fatalf("prompt missing tech stack: %s", stub.lastPrompt)
	}
}

func TestQuestionGeneratorIncludesRecentAnswers(t *testing.T) {
	stub := &stubCompleter{response: `{"question": "next"}`}
	generator := NewQuestionGenerator(stub, zap.NewNop(), 0)

	_, err := generator.Next(context.Background(), QuestionRequest{
		RoundType:       RoundTechnical,
		QuestionNumber:  4,
		PreviousAnswers: []string{"first", "second", "third"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stub.lastPrompt, "first") {
		t.Fatalf("only the two most recent answers belong in the prompt: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "second") || !strings.Contains(stub.lastPrompt, "third") {
		t.Fatalf("recent answers missing from prompt: %s", stub.lastPrompt)
	}
}

func TestQuestionGeneratorToleratesBareText(t *testing.T) {
	stub := &stubCompleter{response: "What testing strategy did you use?"}
	generator := NewQuestionGenerator(stub, zap.NewNop(), 0)

	question, err := generator.Next(context.Background(), QuestionRequest{
		RoundType:      RoundCoding,
		QuestionNumber: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if question != "What testing strategy did you use?" {
		t.Fatalf("unexpected question: %q", question)
	}
}

func TestQuestionGeneratorPropagatesModelError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("quota exceeded")}
	generator := NewQuestionGenerator(stub, zap.NewNop(), 0)

	if _, err := generator.Next(context.Background(), QuestionRequest{
		RoundType:      RoundCoding,
		QuestionNumber: 2,
	}); err == nil {
		t.Fatal("expected error from failed generation")
	}
}

func TestProfileForUnknownRound(t *testing.T) {
	profile := ProfileFor("astrology")
	if profile.Label != "HR screening" {
		t.Fatalf("unknown rounds must use the screening profile, got %q", profile.Label)
	}
}
