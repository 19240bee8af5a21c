package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/internal/logging"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// envFile is loaded from the working directory when present. Variables
// already set in the environment win.
const envFile = ".env"

// run carries what every loader command needs.
type run struct {
	id     string
	cfg    *config.Config
	logger transitload.Logger
}

// resolveConfig layers defaults, the YAML file, .env, the environment and
// flags, then validates the result.
func resolveConfig(cmd *cobra.Command, flags *globalFlags, lookup config.LookupFunc) (*config.Config, error) {
	path := flags.configPath
	explicit := path != ""
	if !explicit {
		path = config.ConfigFileName
	}

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if explicit {
			return nil, fmt.Errorf("%w: config file %s does not exist", transitload.ErrInvalidConfig, path)
		}
	case err != nil:
		return nil, fmt.Errorf("%w: %w", transitload.ErrInvalidConfig, err)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("max-retries") {
		cfg.Retry.MaxRetries = flags.maxRetries
	}
	if cmd.Flags().Changed("wait") {
		d, err := time.ParseDuration(strings.TrimSpace(flags.wait))
		if err != nil {
			return nil, fmt.Errorf("%w: --wait %q is not a duration", transitload.ErrUsage, flags.wait)
		}
		cfg.Retry.Wait = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile merges .env into the process environment without overriding.
func loadEnvFile() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", transitload.ErrInvalidConfig, envFile, err)
	}
	return nil
}

func newRun(cmd *cobra.Command, flags *globalFlags) (*run, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}
	cfg, err := resolveConfig(cmd, flags, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	var logger *logging.ConsoleLogger
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		logger = logging.NewTerminalLogger(f, flags.verbose)
	} else {
		logger = logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), flags.verbose)
	}
	r := &run{id: uuid.NewString(), cfg: cfg, logger: logger}
	logger.Info("transitload %s (run %s)", cmd.Name(), r.id)
	return r, nil
}

func (r *run) executor(classifier transitload.ErrorClassifier) *retry.Executor {
	return retry.NewExecutor(classifier, retry.NewFixedInterval(r.cfg.Retry.MaxRetries, r.cfg.Retry.Wait))
}

// csvPath returns the --csv flag when set, otherwise fallback.
func csvPath(cmd *cobra.Command, fallback string) string {
	if cmd.Flags().Changed("csv") {
		if v, err := cmd.Flags().GetString("csv"); err == nil {
			return v
		}
	}
	return fallback
}
