package interview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// parseVerdict turns the judge's raw output into a Verdict. The judge is an
// untrusted oracle: the payload may be wrapped in prose or code fences, carry
// string-typed numbers or be slightly malformed. Anything unrecoverable is an
// error; the caller substitutes the fallback verdict.
func parseVerdict(raw string) (*Verdict, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	verdict := &Verdict{
		Clarity:          coerceInt(data["clarity"], 50),
		Completeness:     coerceInt(data["completeness"], 50),
		Relevance:        coerceInt(data["relevance"], 50),
		Depth:            coerceInt(data["depth"], 50),
		Coherence:        coerceInt(data["coherence"], 50),
		OverallQuality:   Quality(coerceString(data["overall_quality"])),
		NeedsFollowup:    coerceBool(data["needs_followup"]),
		FollowupTypeHint: FollowupType(coerceString(data["followup_type"])),
		IsRambling:       coerceBool(data["is_rambling"]),
		IsOffTrack:       coerceBool(data["is_off_track"]),
		Feedback:         coerceString(data["feedback"]),
		Reason:           coerceString(data["reason"]),
	}

	verdict.normalize()
	return verdict, nil
}

// parseObject extracts a JSON object from the raw model output, repairing
// near-JSON (trailing commas, single quotes) before giving up.
func parseObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		return data, nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, fmt.Errorf("repair judge response: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), &data); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}

	return data, nil
}

// extractJSON strips surrounding prose and markdown code fences, keeping the
// outermost {...} block when one is present.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceInt(v any, fallback int) int {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return fallback
	}
	return int(math.Round(f))
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
