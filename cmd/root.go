package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "intervu"
)

type Config struct {
	HTTP      *HTTPConfig      `mapstructure:"http"`
	AI        *AIConfig        `mapstructure:"ai"`
	Engine    *EngineConfig    `mapstructure:"engine"`
	Interview *InterviewConfig `mapstructure:"interview"`
}

type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// EngineConfig overrides the decision-engine rule constants. Zero values
// keep the defaults.
type EngineConfig struct {
	RamblingCoherence          int `mapstructure:"rambling-coherence"`
	OffTrackRelevance          int `mapstructure:"off-track-relevance"`
	FirstFollowupCompleteness  int `mapstructure:"first-followup-completeness"`
	SecondFollowupCompleteness int `mapstructure:"second-followup-completeness"`
	TimePressureSeconds        int `mapstructure:"time-pressure-seconds"`
	TimePressureCompleteness   int `mapstructure:"time-pressure-completeness"`
}

type InterviewConfig struct {
	MaxAnswerWords int `mapstructure:"max-answer-words"`
	RoundMinutes   int `mapstructure:"round-minutes"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "intervu is an AI-driven mock-interview orchestrator",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "INTERVU_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding INTERVU_GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intervu.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the serve and practice commands.
	if serveCmd.CalledAs() == "" && practiceCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// Without --config the file is optional: the API key can come from the
	// environment alone.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func (c *Config) gemini() *GeminiConfig {
	if c.AI != nil && c.AI.Gemini != nil {
		return c.AI.Gemini
	}
	return &GeminiConfig{}
}

func (c *Config) thresholds() EngineConfig {
	if c.Engine != nil {
		return *c.Engine
	}
	return EngineConfig{}
}
