package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/candidly/intervu/internal/interview"
	"go.uber.org/zap"
)

type handlers struct {
	deps Deps
}

type errorResponse struct {
	Error string `json:"error"`
}

// evaluateAnswerRequest mirrors the core's decide() contract. The caller
// passes its own follow-up counter and clock; the response carries the
// updated counter to persist.
type evaluateAnswerRequest struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	RoundType     string `json:"round_type"`
	FollowupCount int    `json:"followup_count"`
	TimeRemaining int    `json:"time_remaining"`
}

type evaluateAnswerResponse struct {
	Decision *interview.Decision `json:"decision"`
}

func (h *handlers) evaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req evaluateAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	decision, err := h.deps.Engine.Decide(r.Context(), req.Question, req.Answer, req.RoundType, req.FollowupCount, req.TimeRemaining)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, evaluateAnswerResponse{Decision: decision})
}

type generateFollowupRequest struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	FollowupType string   `json:"followup_type"`
	RoundType    string   `json:"round_type"`
	KeySkills    []string `json:"key_skills"`
}

type generateFollowupResponse struct {
	FollowupQuestion string `json:"followup_question"`
}

func (h *handlers) generateFollowup(w http.ResponseWriter, r *http.Request) {
	var req generateFollowupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	followup, err := h.deps.Followups.Generate(
		r.Context(),
		req.Question,
		req.Answer,
		interview.FollowupType(req.FollowupType),
		req.RoundType,
		interview.FollowupContext{KeySkills: req.KeySkills},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateFollowupResponse{FollowupQuestion: followup})
}

type nextQuestionResponse struct {
	Question string `json:"question"`
}

func (h *handlers) nextQuestion(w http.ResponseWriter, r *http.Request) {
	var req interview.QuestionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.QuestionNumber < 1 {
		req.QuestionNumber = 1
	}

	question, err := h.deps.Questions.Next(r.Context(), req)
	if err != nil {
		h.deps.Logger.Error("question generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "question generation failed")
		return
	}

	writeJSON(w, http.StatusOK, nextQuestionResponse{Question: question})
}

type shouldInterruptRequest struct {
	AnswerSoFar   string `json:"answer_so_far"`
	TimeRemaining int    `json:"time_remaining"`
	MaxWordCount  int    `json:"max_word_count"`
}

func (h *handlers) shouldInterrupt(w http.ResponseWriter, r *http.Request) {
	var req shouldInterruptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	maxWords := req.MaxWordCount
	if maxWords <= 0 {
		maxWords = h.deps.MaxAnswerWords
	}

	check := interview.ShouldInterrupt(req.AnswerSoFar, req.TimeRemaining, maxWords)
	writeJSON(w, http.StatusOK, check)
}

type finalReportRequest struct {
	Candidate interview.CandidateInfo `json:"candidate"`
	Rounds    []interview.RoundResult `json:"rounds"`
}

type finalReportResponse struct {
	Report *interview.Report `json:"report"`
}

func (h *handlers) finalReport(w http.ResponseWriter, r *http.Request) {
	var req finalReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Rounds) == 0 {
		writeError(w, http.StatusBadRequest, "at least one round is required")
		return
	}

	report, err := h.deps.Reports.FinalReport(r.Context(), req.Candidate, req.Rounds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, finalReportResponse{Report: report})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
