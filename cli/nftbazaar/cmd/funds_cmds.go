package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	flagNameAmount = "amount"
	flagNameTo     = "to"
)

// newFundsCmd groups the payment ledger operations needed to take part in
// sales and auctions.
func newFundsCmd(baseConfig *baseConfiguration) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "funds",
		Short: "Payment ledger operations",
	}
	cmd.AddCommand(newFundsMintCmd(baseConfig))
	cmd.AddCommand(newFundsBalanceCmd(baseConfig))
	cmd.AddCommand(newFundsTransferCmd(baseConfig))
	return cmd
}

func newFundsMintCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var to string
	var amount uint64
	var cmd = &cobra.Command{
		Use:   "mint",
		Short: "Issues new payment units, admin only",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := config.from()
			if err != nil {
				return err
			}
			recipient, err := parseAddress(to)
			if err != nil {
				return fmt.Errorf("invalid recipient address: %w", err)
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.ledger.Mint(caller, recipient, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted %d payment units to %s\n", amount, recipient)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&to, flagNameTo, "", "address the units are issued to")
	cmd.Flags().Uint64Var(&amount, flagNameAmount, 0, "number of units to issue")
	_ = cmd.MarkFlagRequired(flagNameTo)
	_ = cmd.MarkFlagRequired(flagNameAmount)
	return cmd
}

func newFundsBalanceCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var addr string
	var cmd = &cobra.Command{
		Use:   "balance",
		Short: "Shows the payment unit balance of an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress(addr)
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			balance, err := e.ledger.BalanceOf(account)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balance of %s: %d\n", account, balance)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&addr, "address", "", "address to query")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func newFundsTransferCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var to string
	var amount uint64
	var cmd = &cobra.Command{
		Use:   "transfer",
		Short: "Moves payment units to another address",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := config.from()
			if err != nil {
				return err
			}
			recipient, err := parseAddress(to)
			if err != nil {
				return fmt.Errorf("invalid recipient address: %w", err)
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.ledger.Transfer(caller, recipient, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transferred %d payment units to %s\n", amount, recipient)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&to, flagNameTo, "", "recipient address")
	cmd.Flags().Uint64Var(&amount, flagNameAmount, 0, "number of units to move")
	_ = cmd.MarkFlagRequired(flagNameTo)
	_ = cmd.MarkFlagRequired(flagNameAmount)
	return cmd
}
