package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/hh-grader/internal/ai"
	"github.com/spigell/hh-grader/internal/ai/gemini"
	"github.com/spigell/hh-grader/internal/classifier"
	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/logger"
	"github.com/spigell/hh-grader/internal/pipeline"
	"github.com/spigell/hh-grader/internal/report"
	"github.com/spigell/hh-grader/internal/secrets"
	"github.com/spigell/hh-grader/internal/transform"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes          = "Yes"
	PromptNo           = "No"
	PromptDumpFeatures = "Dump features to file"

	defaultReportPath = "grade_report.txt"
	topFeaturesCount  = 20
)

// Standard locations of the raw export, checked in order.
var datasetCandidates = []string{
	"hh.csv",
	"data/hh.csv",
	"parsing/hh.csv",
}

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Train the classifier?",
	Items: []string{PromptYes, PromptNo, PromptDumpFeatures},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the feature matrix from a resume export, then train and report",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation, train right away")
	runCmd.Flags().StringP("dataset", "f", "", "path to the raw resume csv. Default is to search standard locations.")

	viper.BindPFlag("dataset", runCmd.Flags().Lookup("dataset"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-grader", zap.String("version", version))

	autoApprove := cmd.Flag("auto-approve").Value.String() == "true"

	path, err := resolveDataset(config, autoApprove)
	if err != nil {
		logger.Fatal("locating the dataset",
			zap.Error(err),
			zap.String("hint", "put hh.csv next to the binary or set the 'dataset' key in the config"),
		)
	}

	table, err := dataset.Load(path)
	if err != nil {
		logger.Fatal("loading the dataset", zap.Error(err))
	}

	logger.Info("loaded the dataset",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
		zap.Int("columns", table.Width()),
	)

	grader, err := prepareGrader(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("preparing the ai grader", zap.Error(err))
	}

	state, err := pipeline.New(prepareStages(config, grader, logger), logger).Run(ctx, &pipeline.State{Table: table})
	if err != nil {
		logger.Fatal("running the pipeline", zap.Error(err))
	}

	features := state.Features
	logger.Info("features are ready",
		zap.Int("samples", features.Len()),
		zap.Int("features", len(features.Names)),
	)

	fmt.Print(report.Distribution(features.Target))

	for {
		action := PromptYes
		if !autoApprove {
			if _, action, err = prompt.Run(); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, features, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, features *dataset.FeatureSet, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptYes:
		if err := trainAndReport(features, config, logger); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptDumpFeatures:
		filename, err := features.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump features to file: %w", err)
		}
		logger.Info("dumping features to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// resolveDataset returns the configured dataset path or searches the standard
// locations. When several candidates exist the user picks one, unless
// auto-approve takes the first.
func resolveDataset(config *Config, autoApprove bool) (string, error) {
	if configured := strings.TrimSpace(config.Dataset); configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured dataset %q: %w", configured, err)
		}
		return configured, nil
	}

	found := make([]string, 0, len(datasetCandidates))
	for _, candidate := range datasetCandidates {
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		}
	}

	switch {
	case len(found) == 0:
		return "", fmt.Errorf("dataset not found in any of %v", datasetCandidates)
	case len(found) == 1 || autoApprove:
		return found[0], nil
	}

	datasetPrompt := promptui.Select{
		Label: "Several datasets found, choose one",
		Items: found,
	}

	_, selected, err := datasetPrompt.Run()
	if err != nil {
		return "", err
	}

	return selected, nil
}

// prepareStages assembles the pipeline in its required order: experience
// extraction must run before labeling and labeling before encoding.
func prepareStages(config *Config, grader ai.Grader, logger *zap.Logger) []pipeline.Stage {
	pipelineCfg := config.Pipeline
	if pipelineCfg == nil {
		pipelineCfg = &PipelineConfig{}
	}

	thresholds := transform.GradeThresholds{}
	if pipelineCfg.Thresholds != nil {
		thresholds = *pipelineCfg.Thresholds
	}

	return []pipeline.Stage{
		transform.NewITRoleFilter(logger),
		transform.NewPersonalInfo(),
		transform.NewSalary(pipelineCfg.CurrencyRates, logger),
		transform.NewExperience(),
		transform.NewLabeling(thresholds, grader, logger),
		transform.NewLocation(),
		transform.NewEmployment(),
		transform.NewSchedule(),
		transform.NewEducation(),
		transform.NewMisc(transform.MiscConfig{FreshnessCutoffYear: pipelineCfg.FreshnessCutoffYear}),
		transform.NewEncode(transform.GradeColumn),
		transform.NewSplit(transform.GradeColumn),
	}
}

func trainAndReport(features *dataset.FeatureSet, config *Config, logger *zap.Logger) error {
	trainingCfg := classifier.Config{}
	if config.Training != nil {
		trainingCfg = config.Training.Config
	}

	eval, err := classifier.TrainAndEvaluate(features, classifier.NewSoftmax(trainingCfg), trainingCfg, logger)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	classification := report.Classification(eval.YTrue, eval.YPred, eval.Classes)
	topFeatures := report.TopFeatures(features.Names, eval.Importances, topFeaturesCount)

	fmt.Print(classification)
	fmt.Print(topFeatures)

	path := strings.TrimSpace(config.Report)
	if path == "" {
		path = defaultReportPath
	}

	if err := report.Write(path, report.Distribution(features.Target), classification, topFeatures); err != nil {
		return err
	}

	logger.Info("report saved", zap.String("path", path))

	return nil
}

// prepareGrader builds the optional AI grade assistant. A disabled or missing
// ai section yields a nil grader, which keeps the pipeline deterministic.
func prepareGrader(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Grader, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("the ai.gemini section is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	graderLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewGrader(generator, graderLogger, cfg.Gemini.MaxLogLength), nil
}
