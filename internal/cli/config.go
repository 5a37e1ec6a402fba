// Package cli holds the configuration, logging and prompting shared by both commands.
package cli

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INFOMARK_SHEET.
const EnvPrefix = "INFOMARK"

// AddLoggingFlags registers the logging flags every command understands.
func AddLoggingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

// setupLogging installs the default slog logger from the log-level and log-format settings.
func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// ViperForCmd binds a command's flags, environment and config file to a fresh viper
// instance and installs the default logger from the resulting settings.
func ViperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("infomark")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/infomark")
	cfgErr := v.ReadInConfig()

	// Logging settings may come from the config file, so the outcome is logged afterwards.
	setupLogging(v)
	var notFound viper.ConfigFileNotFoundError
	switch {
	case cfgErr == nil:
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	case !errors.As(cfgErr, &notFound):
		slog.Warn("error reading config file", "error", cfgErr)
	}
	return v
}

// IsSet reports whether key came from a flag, the environment or the config file.
func IsSet(cmd *cobra.Command, v *viper.Viper, key string) bool {
	if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
		return true
	}
	_, inEnv := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	return inEnv || v.InConfig(key)
}
