package cmd

import (
	"errors"
	"log"

	"github.com/spigell/hh-grader/internal/classifier"
	"github.com/spigell/hh-grader/internal/transform"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-grader"
)

type Config struct {
	// Dataset is the path to the raw résumé CSV. When unset the run command
	// searches the standard locations.
	Dataset  string          `mapstructure:"dataset"`
	Report   string          `mapstructure:"report"`
	Pipeline *PipelineConfig `mapstructure:"pipeline"`
	Training *TrainingConfig `mapstructure:"training"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type PipelineConfig struct {
	// CurrencyRates extends or overrides the built-in salary rate table.
	CurrencyRates       map[string]float64         `mapstructure:"currency-rates"`
	FreshnessCutoffYear int                        `mapstructure:"freshness-cutoff-year"`
	Thresholds          *transform.GradeThresholds `mapstructure:"thresholds"`
}

type TrainingConfig struct {
	classifier.Config `mapstructure:",squash"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-grader builds grade features from hh.ru resumes and trains a grade classifier",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// Every config key has a default, so a missing file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	err := viper.Unmarshal(config)
	if err != nil {
		return config, err
	}

	return config, nil
}
