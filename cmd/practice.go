package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/candidly/intervu/internal/httpapi"
	"github.com/candidly/intervu/internal/interview"
	"github.com/candidly/intervu/internal/logger"
	"github.com/candidly/intervu/internal/session"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultRoundMinutes = 15

var roundPrompt = promptui.Select{
	Label: "Which round would you like to practice?",
	Items: []string{
		interview.RoundScreening,
		interview.RoundCoding,
		interview.RoundTechnical,
		interview.RoundBehavioral,
		interview.RoundSystemDesign,
	},
}

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive mock-interview round in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		practice(cmd)
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)

	practiceCmd.Flags().IntP("questions", "q", 0, "limit the number of main questions in the round")
}

func practice(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildCore(ctx, config, logger)
	if err != nil {
		logger.Fatal("building interview core",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key' key in the configuration file"),
		)
	}

	candidate, roundType, err := collectSetup()
	if err != nil {
		logger.Fatal("collecting interview setup", zap.Error(err))
	}

	minutes := defaultRoundMinutes
	if config.Interview != nil && config.Interview.RoundMinutes > 0 {
		minutes = config.Interview.RoundMinutes
	}

	sess := session.New(candidate, roundType, time.Duration(minutes)*time.Minute)

	questionLimit := interview.ProfileFor(roundType).Questions
	if flagLimit, _ := cmd.Flags().GetInt("questions"); flagLimit > 0 && flagLimit < questionLimit {
		questionLimit = flagLimit
	}

	runRound(ctx, deps, sess, questionLimit)

	analysis := interview.AnalyzeRound(roundType, sess.Score())
	printAnalysis(sess, analysis)
}

func collectSetup() (interview.CandidateInfo, string, error) {
	namePrompt := promptui.Prompt{Label: "Your name"}
	name, err := namePrompt.Run()
	if err != nil {
		return interview.CandidateInfo{}, "", err
	}

	positionPrompt := promptui.Prompt{Label: "Position you are practicing for"}
	position, err := positionPrompt.Run()
	if err != nil {
		return interview.CandidateInfo{}, "", err
	}

	_, roundType, err := roundPrompt.Run()
	if err != nil {
		return interview.CandidateInfo{}, "", err
	}

	return interview.CandidateInfo{Name: name, Position: position}, roundType, nil
}

func runRound(ctx context.Context, deps httpapi.Deps, sess *session.Session, questionLimit int) {
	for sess.QuestionNumber <= questionLimit {
		question, err := deps.Questions.Next(ctx, interview.QuestionRequest{
			RoundType:       sess.RoundType,
			QuestionNumber:  sess.QuestionNumber,
			Candidate:       sess.Candidate,
			PreviousAnswers: sess.PreviousAnswers(),
		})
		if err != nil {
			deps.Logger.Error("question generation failed, ending round", zap.Error(err))
			return
		}

		done := askUntilResolved(ctx, deps, sess, question)
		sess.Advance()

		if done {
			return
		}
	}
}

// askUntilResolved poses one main question and loops through the engine's
// follow-up escalation until it advances or interrupts. Returns true when
// the round should end early.
func askUntilResolved(ctx context.Context, deps httpapi.Deps, sess *session.Session, question string) bool {
	current := question

	for {
		fmt.Printf("\nQ%d: %s\n\n", sess.QuestionNumber, current)

		answerPrompt := promptui.Prompt{Label: "Your answer"}
		answer, err := answerPrompt.Run()
		if err != nil {
			return true
		}

		if check := interview.ShouldInterrupt(answer, sess.TimeRemaining(), deps.MaxAnswerWords); check.ShouldInterrupt {
			fmt.Printf("\n%s\n", check.Message)
			if check.Reason == "time_running_out" {
				return true
			}
		}

		decision, err := deps.Engine.Decide(ctx, current, answer, sess.RoundType, sess.FollowupCount, sess.TimeRemaining())
		if err != nil {
			deps.Logger.Error("decision failed", zap.Error(err))
			return true
		}

		sess.Record(current, answer, decision.Verdict)
		sess.FollowupCount = decision.FollowupCount

		fmt.Printf("\n%s\n", decision.Message)

		if decision.Action != interview.ActionFollowup {
			return sess.TimeRemaining() == 0
		}

		followup, err := deps.Followups.Generate(ctx, question, answer, decision.FollowupType, sess.RoundType, interview.FollowupContext{})
		if err != nil {
			deps.Logger.Error("follow-up generation failed", zap.Error(err))
			return false
		}

		current = followup
	}
}

func printAnalysis(sess *session.Session, analysis interview.RoundAnalysis) {
	fmt.Printf("\n--- Round summary (%s, score %d) ---\n", sess.RoundType, sess.Score())

	printList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("%s:\n", title)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printList("Strengths", analysis.Strengths)
	printList("Weaknesses", analysis.Weaknesses)
	printList("Recommendations", analysis.Recommendations)
}
