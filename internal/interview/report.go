package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/candidly/intervu/internal/ai"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const reportTemperature = 0.4

// RoundResult summarizes one completed round for reporting.
type RoundResult struct {
	RoundType string     `json:"round_type"`
	Score     int        `json:"score"`
	Exchanges []Exchange `json:"exchanges"`
}

// Exchange is one question/answer pair with its verdict, if any.
type Exchange struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Verdict  *Verdict `json:"verdict,omitempty"`
}

// Report is the final hiring report for a full interview.
type Report struct {
	OverallScore    int      `json:"overall_score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	// Recommendation is the hiring call: strong_hire, hire, lean_hire,
	// no_hire.
	Recommendation string `json:"recommendation"`
}

// RoundAnalysis is the rule-based per-round breakdown.
type RoundAnalysis struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// ReportGenerator synthesizes the final hiring report with the judge,
// falling back to a deterministic score-based report when the judge is
// unusable.
type ReportGenerator struct {
	completer ai.Completer
	logger    *zap.Logger
}

// NewReportGenerator creates a ReportGenerator.
func NewReportGenerator(completer ai.Completer, logger *zap.Logger) *ReportGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportGenerator{completer: completer, logger: logger}
}

const reportSystemPrompt = `You are a hiring committee assistant writing the final report for a mock interview.
Summarize performance across all rounds honestly but encouragingly: this is a practice tool.
Ground every strength and weakness in the transcript.

Return ONLY JSON:
{
    "overall_score": <0-100>,
    "summary": "3-5 sentence narrative",
    "strengths": ["..."],
    "weaknesses": ["..."],
    "recommendations": ["..."],
    "recommendation": "strong_hire|hire|lean_hire|no_hire"
}`

// FinalReport produces the hiring report for the completed interview.
func (g *ReportGenerator) FinalReport(ctx context.Context, candidate CandidateInfo, rounds []RoundResult) (*Report, error) {
	if len(rounds) == 0 {
		return nil, fmt.Errorf("at least one round is required")
	}

	payload, err := json.MarshalIndent(map[string]any{
		"candidate": candidate,
		"rounds":    rounds,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}

	raw, err := g.completer.Complete(ctx, reportSystemPrompt, string(payload), reportTemperature)
	if err != nil {
		g.logger.Warn("report generation failed, using score-based fallback", zap.Error(err))
		return fallbackReport(rounds), nil
	}

	report, err := parseReport(raw)
	if err != nil {
		g.logger.Warn("unparseable report, using score-based fallback", zap.Error(err))
		return fallbackReport(rounds), nil
	}

	return report, nil
}

func parseReport(raw string) (*Report, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           report,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building report decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	if _, ok := data["overall_score"]; !ok {
		report.OverallScore = 50
	}
	report.OverallScore = clampScore(report.OverallScore)
	report.Summary = strings.TrimSpace(report.Summary)
	report.Recommendation = strings.TrimSpace(report.Recommendation)

	switch report.Recommendation {
	case "strong_hire", "hire", "lean_hire", "no_hire":
	default:
		report.Recommendation = recommendationForScore(report.OverallScore)
	}

	if report.Summary == "" {
		return nil, fmt.Errorf("report summary is missing")
	}

	return report, nil
}

// fallbackReport builds a deterministic report from the round scores alone.
func fallbackReport(rounds []RoundResult) *Report {
	total := 0
	for _, round := range rounds {
		total += clampScore(round.Score)
	}
	average := total / len(rounds)

	return &Report{
		OverallScore:   average,
		Summary:        fmt.Sprintf("The candidate completed %d round(s) with an average score of %d. A detailed narrative could not be generated for this session.", len(rounds), average),
		Recommendation: recommendationForScore(average),
	}
}

func recommendationForScore(score int) string {
	switch {
	case score >= 85:
		return "strong_hire"
	case score >= 70:
		return "hire"
	case score >= 55:
		return "lean_hire"
	default:
		return "no_hire"
	}
}

// AnalyzeRound produces the rule-based strengths/weaknesses/recommendations
// breakdown for a single round. Pure function, no judge call.
func AnalyzeRound(roundType string, score int) RoundAnalysis {
	score = clampScore(score)
	label := strings.TrimSpace(roundType)
	if label == "" {
		label = "this"
	}

	var analysis RoundAnalysis
	switch {
	case score >= 80:
		analysis.Strengths = append(analysis.Strengths,
			fmt.Sprintf("Excellent performance in %s round", label),
			"Demonstrated strong understanding of concepts",
		)
		analysis.Recommendations = append(analysis.Recommendations, "Continue practicing to maintain this level")
	case score >= 60:
		analysis.Strengths = append(analysis.Strengths, fmt.Sprintf("Good performance in %s round", label))
		analysis.Weaknesses = append(analysis.Weaknesses, "Some areas need improvement")
		analysis.Recommendations = append(analysis.Recommendations, fmt.Sprintf("Review %s fundamentals", label))
	default:
		analysis.Weaknesses = append(analysis.Weaknesses, fmt.Sprintf("Needs significant improvement in %s", label))
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("Focus on strengthening %s skills", label),
			"Practice more problems in this area",
		)
	}

	if score < 70 {
		switch roundType {
		case RoundCoding:
			analysis.Recommendations = append(analysis.Recommendations, "Practice more data-structure and algorithm problems")
		case RoundTechnical:
			analysis.Recommendations = append(analysis.Recommendations, "Review framework documentation and best practices")
		case RoundSystemDesign:
			analysis.Recommendations = append(analysis.Recommendations, "Study system design patterns and scalability concepts")
		}
	}

	return analysis
}
