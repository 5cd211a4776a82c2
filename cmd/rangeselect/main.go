package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/rangeselect/internal/config"
	"github.com/username/rangeselect/internal/restriction"
	"github.com/username/rangeselect/internal/rulesource"
	"github.com/username/rangeselect/internal/selection"
	"github.com/username/rangeselect/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rangeselect",
		Short: "Restriction-aware date-range selection engine",
		Long:  "Inspect and exercise a date-selection rule set: validate dates and ranges, compute background highlights, and replay selection gestures",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(backgroundCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	var anchorStr string

	cmd := &cobra.Command{
		Use:   "check <date> [<end-date>]",
		Short: "Validate a date or date range against the configured restrictions",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine()
			if err != nil {
				return err
			}
			ctrl := selection.NewController(engine, logger)

			start, err := dateutil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			var result restriction.ValidationResult
			if len(args) == 1 {
				result = ctrl.CanSelectDate(start)
			} else {
				end, err := dateutil.ParseDate(args[1])
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", args[1], err)
				}

				if anchorStr != "" {
					anchor, err := dateutil.ParseDate(anchorStr)
					if err != nil {
						return fmt.Errorf("invalid anchor %q: %w", anchorStr, err)
					}
					result = ctrl.CanSelectRange(start, end, &anchor)
				} else {
					result = ctrl.CanSelectRange(start, end, nil)
				}
			}

			if result.Allowed {
				fmt.Println("✅ allowed")
				return nil
			}
			fmt.Println("⛔ not allowed")
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&anchorStr, "anchor", "", "Gesture anchor date for anchor-aware checks")

	return cmd
}

func backgroundCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "background",
		Short: "Print static background highlight segments for the configured restrictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := buildEngine()
			if err != nil {
				return err
			}

			data := restriction.GenerateBackgroundData(engine.Rules(), cfg.Background.Color)

			if asJSON {
				out, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal background data: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			if len(data) == 0 {
				fmt.Println("No background segments")
				return nil
			}
			fmt.Println("  Start        | End          | Color")
			fmt.Println("---------------+--------------+---------")
			for _, seg := range data {
				fmt.Printf("  %-12s | %-12s | %s\n", seg.StartDate, seg.EndDate, seg.Color)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

func simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <anchor> <date>...",
		Short: "Replay a selection gesture through the controller, one date per pointer position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine()
			if err != nil {
				return err
			}
			ctrl := selection.NewController(engine, logger)

			anchor, err := dateutil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid anchor %q: %w", args[0], err)
			}

			result := ctrl.StartSelection(anchor)
			printStep("start", args[0], result)
			if !result.Success {
				return nil
			}

			for _, arg := range args[1:] {
				date, err := dateutil.ParseDate(arg)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", arg, err)
				}
				result = ctrl.UpdateSelection(result.Range, date)
				printStep("extend", arg, result)
			}
			return nil
		},
	}
}

func printStep(op, input string, result selection.Result) {
	dto := result.Range.DTO()
	rangeText := "(none)"
	if dto.Start != nil && dto.End != nil {
		rangeText = fmt.Sprintf("[%s .. %s]", *dto.Start, *dto.End)
	}

	status := "✅"
	if !result.Success {
		status = "⛔"
	}
	fmt.Printf("%s %-6s → %-12s %s", status, op, input, rangeText)
	if result.Range.IsBackward {
		fmt.Print(" (backward)")
	}
	if result.Message != "" {
		fmt.Printf("  — %s", result.Message)
	}
	fmt.Println()
}

// buildEngine loads the config and constructs the restriction engine, going
// through the remote source with local fallback when one is configured
func buildEngine() (*restriction.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var source rulesource.Source = rulesource.NewStaticSource(cfg.Restrictions)
	if cfg.Source.URL != "" {
		logger.Info("Using remote restriction source",
			zap.String("url", cfg.Source.URL))
		source = rulesource.NewCompositeSource(
			rulesource.NewHTTPSource(cfg.Source.URL, cfg.Source.GetCacheTTL(), logger),
			source,
			logger,
		)
	}

	rules, err := source.FetchRestrictions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch restrictions: %w", err)
	}

	return restriction.NewEngine(rules), cfg, nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
