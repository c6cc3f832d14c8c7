package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/candidly/intervu/internal/ai/gemini"
	"github.com/candidly/intervu/internal/httpapi"
	"github.com/candidly/intervu/internal/interview"
	"github.com/candidly/intervu/internal/logger"
	"github.com/candidly/intervu/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListen = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stateless interview API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")
	viper.BindPFlag("http.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting intervu", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	deps, err := buildCore(ctx, config, logger)
	if err != nil {
		logger.Fatal("building interview core",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key' key in the configuration file"),
		)
	}

	listen := defaultListen
	if config.HTTP != nil && config.HTTP.Listen != "" {
		listen = config.HTTP.Listen
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// buildCore wires the judge client and every core component from the config.
func buildCore(ctx context.Context, config *Config, log *zap.Logger) (httpapi.Deps, error) {
	geminiCfg := config.gemini()

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		File:  geminiCfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("loading gemini api key: %w", err)
	}

	completer, err := gemini.NewGenerator(ctx, log, apiKey, geminiCfg.Model, geminiCfg.MaxRetries, geminiCfg.MaxLogLength)
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("creating gemini client: %w", err)
	}

	aiLog := logger.WithCommonFields(log, "gemini", completer.Model(), "")

	overrides := config.thresholds()
	thresholds := interview.Thresholds{
		RamblingCoherence:          overrides.RamblingCoherence,
		OffTrackRelevance:          overrides.OffTrackRelevance,
		FirstFollowupCompleteness:  overrides.FirstFollowupCompleteness,
		SecondFollowupCompleteness: overrides.SecondFollowupCompleteness,
		TimePressureSeconds:        overrides.TimePressureSeconds,
		TimePressureCompleteness:   overrides.TimePressureCompleteness,
	}

	maxLogLen := geminiCfg.MaxLogLength
	evaluator := interview.NewEvaluator(completer, aiLog, maxLogLen)

	maxWords := 0
	if config.Interview != nil {
		maxWords = config.Interview.MaxAnswerWords
	}

	return httpapi.Deps{
		Engine:         interview.NewEngine(evaluator, thresholds, aiLog),
		Followups:      interview.NewFollowupGenerator(completer, aiLog, maxLogLen),
		Questions:      interview.NewQuestionGenerator(completer, aiLog, maxLogLen),
		Reports:        interview.NewReportGenerator(completer, aiLog),
		Logger:         log,
		MaxAnswerWords: maxWords,
	}, nil
}
