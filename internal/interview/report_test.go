package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func sampleRounds() []RoundResult {
	return []RoundResult{
		{RoundType: RoundScreening, Score: 80, Exchanges: []Exchange{{Question: "q1", Answer: "a1"}}},
		{RoundType: RoundTechnical, Score: 60, Exchanges: []Exchange{{Question: "q2", Answer: "a2"}}},
	}
}

func TestFinalReportParsesJudgeOutput(t *testing.T) {
	stub := &stubCompleter{response: `{
		"overall_score": 78,
		"summary": "Solid performance across both rounds.",
		"strengths": ["clear communication"],
		"weaknesses": ["shallow on internals"],
		"recommendations": ["dig deeper into runtime behavior"],
		"recommendation": "hire"
	}`}
	generator := NewReportGenerator(stub, zap.NewNop())

	report, err := generator.FinalReport(context.Background(), CandidateInfo{Name: "Ada"}, sampleRounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OverallScore != 78 || report.Recommendation != "hire" {
		t.Fatalf("unexpected report: %+v", report)
	}

	if stub.lastTemp != reportTemperature {
		t.Fatalf("unexpected temperature: %v", stub.lastTemp)
	}

	if !strings.Contains(stub.lastPrompt, `"round_type": "technical"`) {
		t.Fatalf("payload missing round data: %s", stub.lastPrompt)
	}
}

func TestFinalReportFallbackOnJudgeError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("judge down")}
	generator := NewReportGenerator(stub, zap.NewNop())

	report, err := generator.FinalReport(context.Background(), CandidateInfo{}, sampleRounds())
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}

	// Average of 80 and 60.
	if report.OverallScore != 70 {
		t.Fatalf("expected average score 70, got %d", report.OverallScore)
	}

	if report.Recommendation != "hire" {
		t.Fatalf("unexpected recommendation: %s", report.Recommendation)
	}

	if report.Summary == "" {
		t.Fatal("fallback report must carry a summary")
	}
}

func TestFinalReportFallbackOnMissingSummary(t *testing.T) {
	stub := &stubCompleter{response: `{"overall_score": 90, "recommendation": "strong_hire"}`}
	generator := NewReportGenerator(stub, zap.NewNop())

	report, err := generator.FinalReport(context.Background(), CandidateInfo{}, sampleRounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OverallScore != 70 {
		t.Fatalf("missing summary must trigger the score fallback, got %+v", report)
	}
}

func TestFinalReportNormalizesRecommendation(t *testing.T) {
	stub := &stubCompleter{response: `{
		"overall_score": 58, "summary": "Mixed results.", "recommendation": "maybe"
	}`}
	generator := NewReportGenerator(stub, zap.NewNop())

	report, err := generator.FinalReport(context.Background(), CandidateInfo{}, sampleRounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Recommendation != "lean_hire" {
		t.Fatalf("unknown recommendation must map from the score, got %s", report.Recommendation)
	}
}

func TestFinalReportRequiresRounds(t *testing.T) {
	generator := NewReportGenerator(&stubCompleter{}, zap.NewNop())

	if _, err := generator.FinalReport(context.Background(), CandidateInfo{}, nil); err == nil {
		t.Fatal("expected error for empty rounds")
	}
}

func TestAnalyzeRoundBands(t *testing.T) {
	high := AnalyzeRound(RoundCoding, 85)
	if len(high.Weaknesses) != 0 || len(high.Strengths) == 0 {
		t.Fatalf("unexpected high-score analysis: %+v", high)
	}

	mid := AnalyzeRound(RoundCoding, 65)
	if len(mid.Strengths) == 0 || len(mid.Weaknesses) == 0 {
		t.Fatalf("unexpected mid-score analysis: %+v", mid)
	}

	foundCodingTip := false
	for _, rec := range mid.Recommendations {
		if strings.Contains(rec, "data-structure") {
			foundCodingTip = true
		}
	}
	if !foundCodingTip {
		t.Fatalf("sub-70 coding round must add the coding recommendation: %+v", mid.Recommendations)
	}

	low := AnalyzeRound(RoundSystemDesign, 30)
	if len(low.Strengths) != 0 {
		t.Fatalf("low scores must not produce strengths: %+v", low)
	}

	foundDesignTip := false
	for _, rec := range low.Recommendations {
		if strings.Contains(rec, "system design patterns") {
			foundDesignTip = true
		}
	}
	if !foundDesignTip {
		t.Fatalf("sub-70 design round must add the design recommendation: %+v", low.Recommendations)
	}
}

func TestRecommendationForScore(t *testing.T) {
	cases := map[int]string{90: "strong_hire", 85: "strong_hire", 70: "hire", 55: "lean_hire", 54: "no_hire"}
	for score, want := range cases {
		if got := recommendationForScore(score); got != want {
			t.Fatalf("score %d: got %s, want %s", score, got, want)
		}
	}
}
