package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newApproveCmd groups the approvals the engine needs before it can take
// custody of tokens or pull payment deposits.
func newApproveCmd(baseConfig *baseConfiguration) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "approve",
		Short: "Grants the marketplace engine spending and custody approvals",
	}
	cmd.AddCommand(newApproveFundsCmd(baseConfig))
	cmd.AddCommand(newApproveTokenCmd(baseConfig))
	cmd.AddCommand(newApproveAllCmd(baseConfig))
	return cmd
}

func newApproveFundsCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var amount uint64
	var cmd = &cobra.Command{
		Use:   "funds",
		Short: "Lets the engine pull up to the given amount of payment units",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := config.from()
			if err != nil {
				return err
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.ledger.Approve(caller, e.bazaar.Address(), amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "engine approved for %d payment units of %s\n", amount, caller)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().Uint64Var(&amount, flagNameAmount, 0, "allowance in payment units")
	_ = cmd.MarkFlagRequired(flagNameAmount)
	return cmd
}

func newApproveTokenCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var tokenID string
	var cmd = &cobra.Command{
		Use:   "token",
		Short: "Lets the engine take custody of one single-unit token",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := config.from()
			if err != nil {
				return err
			}
			id, err := parseTokenID(tokenID)
			if err != nil {
				return err
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.nft.Approve(caller, e.bazaar.Address(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "engine approved for token %s of %s\n", id, caller)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&tokenID, flagNameTokenID, "", "token id")
	_ = cmd.MarkFlagRequired(flagNameTokenID)
	return cmd
}

func newApproveAllCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var registry string
	var revoke bool
	var cmd = &cobra.Command{
		Use:   "all",
		Short: "Lets the engine take custody of any of the caller's tokens in a registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := config.from()
			if err != nil {
				return err
			}
			regAddr, err := parseAddress(registry)
			if err != nil {
				return fmt.Errorf("invalid registry address: %w", err)
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			operator := e.bazaar.Address()
			switch regAddr {
			case e.nft.Address():
				err = e.nft.SetApprovalForAll(caller, operator, !revoke)
			case e.multi.Address():
				err = e.multi.SetApprovalForAll(caller, operator, !revoke)
			default:
				err = fmt.Errorf("unknown registry %s", regAddr)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "engine operator approval for %s in %s: %t\n", caller, regAddr, !revoke)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&registry, flagNameRegistry, defaultNFTRegAddr, "registry the approval applies to")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke instead of grant")
	return cmd
}
