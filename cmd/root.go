package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tass-io/predictor/pkg/dto"
	"github.com/tass-io/predictor/pkg/env"
	"github.com/tass-io/predictor/pkg/http"
	"github.com/tass-io/predictor/pkg/state"
	"github.com/tass-io/predictor/pkg/tools/log"
	"github.com/tass-io/predictor/pkg/trace"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Serve wine quality predictions over HTTP",
	Long: "predictor loads a trained model artifact and its evaluation metrics once at startup\n" +
		"and answers prediction requests over HTTP.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		closer, err := trace.TraceInit()
		if err != nil {
			return err
		}
		defer closer.Close()

		if _, err := state.Init(stateConfig()); err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		server := http.NewServer(viper.GetInt(env.Port))
		errc := make(chan error, 1)
		go func() {
			errc <- server.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errc:
			return err
		case sig := <-quit:
			zap.S().Infow("received signal", "signal", sig.String())
		}
		return server.Stop()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// setup reads the optional config file and builds the global logger before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if file := viper.GetString(env.Config); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return log.Init(viper.GetString(env.LogLevel), viper.GetString(env.LogFile), logOutput(cmd))
}

// logOutput keeps stdout free for commands that print a machine-readable report.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd == checkCmd {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func stateConfig() state.Config {
	return state.Config{
		ModelPath:   viper.GetString(env.ModelPath),
		MetricsPath: viper.GetString(env.MetricsPath),
		Schema:      viper.GetString(env.Schema),
		Owner: dto.Owner{
			Name: viper.GetString(env.OwnerName),
			ID:   viper.GetString(env.OwnerID),
			Lab:  viper.GetString(env.OwnerLab),
		},
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (yaml or json)")
	flags.StringP("model", "m", env.DefaultModelPath, "model artifact path")
	flags.String("metrics", env.DefaultMetricsPath, "evaluation metrics path")
	flags.StringP("schema", "s", env.DefaultSchema, "feature schema the model was trained on")
	flags.String("owner-name", "Your Name", "owner name reported in responses")
	flags.String("owner-id", "2022BCD0026", "owner id reported in responses")
	flags.String("owner-lab", "Lab 6 - Jenkins CI/CD Pipeline", "owner lab reported in responses")
	flags.String("log-level", "info", "log level")
	flags.String("log-file", "", "also write logs to this rotated file")
	bind(flags, map[string]string{
		env.Config:      "config",
		env.ModelPath:   "model",
		env.MetricsPath: "metrics",
		env.Schema:      "schema",
		env.OwnerName:   "owner-name",
		env.OwnerID:     "owner-id",
		env.OwnerLab:    "owner-lab",
		env.LogLevel:    "log-level",
		env.LogFile:     "log-file",
	})

	serve := rootCmd.Flags()
	serve.IntP("port", "p", env.DefaultPort, "http port")
	serve.Bool("pprof", false, "serve pprof under /internal/debug/pprof")
	serve.String("trace-agent", "", "jaeger agent host:port, empty disables tracing")
	bind(serve, map[string]string{
		env.Port:               "port",
		env.Pprof:              "pprof",
		env.TraceAgentHostPort: "trace-agent",
	})

	viper.SetEnvPrefix(env.EnvPrefix)
	viper.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
}

// bind maps viper keys to the cobra flags that set them
func bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
