package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	flagNameRegistry = "registry"
	flagNameTokenID  = "token-id"
	flagNamePrice    = "price"
)

type listingConfiguration struct {
	engineConfiguration

	Registry string
	TokenID  string
	Price    uint64
}

func (c *listingConfiguration) addListingFlags(cmd *cobra.Command) {
	c.addEngineFlags(cmd)
	cmd.Flags().StringVar(&c.Registry, flagNameRegistry, defaultNFTRegAddr, "registry the token belongs to")
	cmd.Flags().StringVar(&c.TokenID, flagNameTokenID, "", "token id")
	cmd.Flags().Uint64Var(&c.Price, flagNamePrice, 0, "price in payment units")
	_ = cmd.MarkFlagRequired(flagNameTokenID)
	_ = cmd.MarkFlagRequired(flagNamePrice)
}

func newListItemCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &listingConfiguration{engineConfiguration: engineConfiguration{base: baseConfig}}
	var cmd = &cobra.Command{
		Use:   "list-item",
		Short: "Puts a catalogued token up for direct sale at a fixed price",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listItemRunFunc(cmd, config)
		},
	}
	config.addListingFlags(cmd)
	return cmd
}

func listItemRunFunc(cmd *cobra.Command, config *listingConfiguration) error {
	caller, err := config.from()
	if err != nil {
		return err
	}
	registry, err := parseAddress(config.Registry)
	if err != nil {
		return fmt.Errorf("invalid registry address: %w", err)
	}
	tokenID, err := parseTokenID(config.TokenID)
	if err != nil {
		return err
	}
	e, err := openEngine(&config.engineConfiguration)
	if err != nil {
		return err
	}
	defer e.close()

	saleID, err := e.bazaar.ListItem(caller, registry, tokenID, config.Price)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sale %d opened: token %s at %d\n", saleID, tokenID, config.Price)
	return nil
}

func newBuyItemCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "buy-item <sale-id>",
		Short: "Buys an item on direct sale at its listed price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buyItemRunFunc(cmd, config, args[0])
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func buyItemRunFunc(cmd *cobra.Command, config *engineConfiguration, arg string) error {
	caller, err := config.from()
	if err != nil {
		return err
	}
	saleID, err := parseID(arg)
	if err != nil {
		return err
	}
	e, err := openEngine(config)
	if err != nil {
		return err
	}
	defer e.close()

	if err = e.bazaar.BuyItem(caller, saleID); err != nil {
		return err
	}
	sale, err := e.bazaar.GetSale(saleID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sale %d settled: token %s bought for %d\n", saleID, sale.Token(), sale.Price)
	return nil
}

func newCancelSaleCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "cancel-sale <sale-id>",
		Short: "Takes an item off direct sale, seller only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cancelSaleRunFunc(cmd, config, args[0])
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func cancelSaleRunFunc(cmd *cobra.Command, config *engineConfiguration, arg string) error {
	caller, err := config.from()
	if err != nil {
		return err
	}
	saleID, err := parseID(arg)
	if err != nil {
		return err
	}
	e, err := openEngine(config)
	if err != nil {
		return err
	}
	defer e.close()

	if err = e.bazaar.CancelSale(caller, saleID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sale %d canceled\n", saleID)
	return nil
}
