package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListOnAuctionCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &listingConfiguration{engineConfiguration: engineConfiguration{base: baseConfig}}
	var cmd = &cobra.Command{
		Use:   "list-on-auction",
		Short: "Opens a fixed-duration auction for a catalogued token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOnAuctionRunFunc(cmd, config)
		},
	}
	config.addListingFlags(cmd)
	return cmd
}

func listOnAuctionRunFunc(cmd *cobra.Command, config *listingConfiguration) error {
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

	auctionID, err := e.bazaar.ListItemOnAuction(caller, registry, tokenID, config.Price)
	if err != nil {
		return err
	}
	auction, err := e.bazaar.GetAuction(auctionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "auction %d opened: token %s, min price %d, ends %s\n",
		auctionID, tokenID, config.Price, auction.EndTime)
	return nil
}

func newMakeBidCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var price uint64
	var cmd = &cobra.Command{
		Use:   "make-bid <auction-id>",
		Short: "Places a bid on an open auction, the previous bid is refunded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return makeBidRunFunc(cmd, config, args[0], price)
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().Uint64Var(&price, flagNamePrice, 0, "bid in payment units")
	_ = cmd.MarkFlagRequired(flagNamePrice)
	return cmd
}

func makeBidRunFunc(cmd *cobra.Command, config *engineConfiguration, arg string, price uint64) error {
	caller, err := config.from()
	if err != nil {
		return err
	}
	auctionID, err := parseID(arg)
	if err != nil {
		return err
	}
	e, err := openEngine(config)
	if err != nil {
		return err
	}
	defer e.close()

	if err = e.bazaar.MakeBid(caller, auctionID, price); err != nil {
		return err
	}
	bid, err := e.bazaar.GetBid(auctionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "auction %d: bid %d accepted (bid number %d)\n", auctionID, bid.Price, bid.Count)
	return nil
}

func newFinishAuctionCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "finish-auction <auction-id>",
		Short: "Settles an auction whose end time has passed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return finishAuctionRunFunc(cmd, config, args[0])
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func finishAuctionRunFunc(cmd *cobra.Command, config *engineConfiguration, arg string) error {
	caller, err := config.from()
	if err != nil {
		return err
	}
	auctionID, err := parseID(arg)
	if err != nil {
		return err
	}
	e, err := openEngine(config)
	if err != nil {
		return err
	}
	defer e.close()

	if err = e.bazaar.FinishAuction(caller, auctionID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "auction %d settled\n", auctionID)
	return nil
}
