package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type nftbazaarApp struct {
	baseCmd    *cobra.Command
	baseConfig *baseConfiguration
}

// New creates the nftbazaar CLI application.
func New() *nftbazaarApp {
	baseCmd, baseConfig := newBaseCmd()
	return &nftbazaarApp{baseCmd, baseConfig}
}

// Execute adds all child commands and runs the application.
func (a *nftbazaarApp) Execute(ctx context.Context) error {
	a.baseCmd.AddCommand(newCreateItemCmd(a.baseConfig))
	a.baseCmd.AddCommand(newCreateBatchItemCmd(a.baseConfig))
	a.baseCmd.AddCommand(newBatchLimitCmd(a.baseConfig))
	a.baseCmd.AddCommand(newListItemCmd(a.baseConfig))
	a.baseCmd.AddCommand(newBuyItemCmd(a.baseConfig))
	a.baseCmd.AddCommand(newCancelSaleCmd(a.baseConfig))
	a.baseCmd.AddCommand(newListOnAuctionCmd(a.baseConfig))
	a.baseCmd.AddCommand(newMakeBidCmd(a.baseConfig))
	a.baseCmd.AddCommand(newFinishAuctionCmd(a.baseConfig))
	a.baseCmd.AddCommand(newFundsCmd(a.baseConfig))
	a.baseCmd.AddCommand(newApproveCmd(a.baseConfig))
	a.baseCmd.AddCommand(newShowCmd(a.baseConfig))
	return a.baseCmd.ExecuteContext(ctx)
}

func newBaseCmd() (*cobra.Command, *baseConfiguration) {
	config := &baseConfiguration{}
	// baseCmd represents the base command when called without any subcommands
	var baseCmd = &cobra.Command{
		Use:           "nftbazaar",
		Short:         "The nftbazaar CLI",
		Long:          `The nftbazaar CLI mints marketplace items and drives their direct-sale and auction lifecycle.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// If a subcommand does not define PersistentPreRunE, the one
			// from the base cmd is used.
			if err := initializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	config.addConfigurationFlags(baseCmd)

	return baseCmd, config
}

func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	if err := config.initConfigFileLocation(); err != nil {
		return err
	}

	v := viper.New()
	if config.configFileExists() {
		v.SetConfigFile(config.CfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	// Flags bind to prefixed environment variables, e.g. --batch-limit
	// binds to NB_BATCH_LIMIT.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	config.initLogger()
	return nil
}

// bindFlags binds each cobra flag to its associated viper configuration
// (config file and environment variable).
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyHome || f.Name == keyConfig {
			// "home" and "config" are handled before viper is set up
			return
		}
		// Environment variables can't have dashes in them, bind the
		// equivalent key with underscores.
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				errs = append(errs, err)
				return
			}
		}
		// Apply the viper config value to the flag when the flag is not
		// set on the command line and viper has a value.
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
