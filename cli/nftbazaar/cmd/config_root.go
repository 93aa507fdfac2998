package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nftbazaar-org/nftbazaar/internal/logger"
)

var log = logger.CreateForPackage()

type baseConfiguration struct {
	// The nftbazaar home directory, all db files live under it.
	HomeDir string
	// Configuration file URL. If it's relative, then it's relative from the HomeDir.
	CfgFile string
	// Logging configuration
	LogLevel  string
	LogFormat string
}

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "NB"
	// The default name for config file.
	defaultConfigFile = "config.props"
	// The default nftbazaar directory.
	defaultBazaarDir = ".nftbazaar"
	// The configuration key for home directory.
	keyHome = "home"
	// The configuration key for config file name.
	keyConfig = "config"

	flagNameLogLevel  = "log-level"
	flagNameLogFormat = "log-format"
)

func (r *baseConfiguration) addConfigurationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&r.HomeDir, keyHome, "", fmt.Sprintf("set the NB_HOME for this invocation (default is %s)", bazaarHomeDir()))
	cmd.PersistentFlags().StringVar(&r.CfgFile, keyConfig, "", fmt.Sprintf("config file URL (default is $NB_HOME/%s)", defaultConfigFile))
	cmd.PersistentFlags().StringVar(&r.LogLevel, flagNameLogLevel, "INFO", "logging level, one of: NONE, ERROR, WARNING, INFO, DEBUG, TRACE")
	cmd.PersistentFlags().StringVar(&r.LogFormat, flagNameLogFormat, "console", "log format, one of: console, json")
}

// initConfigFileLocation resolves the home directory and the config file.
// These are used for loading the rest of the configuration, so they are
// handled manually before viper is set up.
func (r *baseConfiguration) initConfigFileLocation() error {
	if r.HomeDir == "" {
		r.HomeDir = os.Getenv(envKey(keyHome))
		if r.HomeDir == "" {
			r.HomeDir = bazaarHomeDir()
		}
	}
	if err := os.MkdirAll(r.HomeDir, 0700); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}

	if r.CfgFile == "" {
		r.CfgFile = os.Getenv(envKey(keyConfig))
		if r.CfgFile == "" {
			r.CfgFile = defaultConfigFile
		}
	}
	if !filepath.IsAbs(r.CfgFile) {
		r.CfgFile = filepath.Join(r.HomeDir, r.CfgFile)
	}
	return nil
}

func (r *baseConfiguration) configFileExists() bool {
	_, err := os.Stat(r.CfgFile)
	return err == nil
}

func (r *baseConfiguration) initLogger() {
	logger.UpdateGlobalConfig(logger.GlobalConfig{
		DefaultLevel:  logger.LevelFromString(r.LogLevel),
		ConsoleFormat: r.LogFormat == "console",
		Writer:        os.Stderr,
	})
}

func (r *baseConfiguration) dbFile(name string) string {
	return filepath.Join(r.HomeDir, name)
}

func bazaarHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		panic("default user home dir is not defined")
	}
	return filepath.Join(dir, defaultBazaarDir)
}

func envKey(key string) string {
	return strings.ToUpper(envPrefix + "_" + key)
}
