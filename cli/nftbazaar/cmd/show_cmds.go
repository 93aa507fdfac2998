package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nftbazaar-org/nftbazaar/internal/market"
)

// newShowCmd groups read-only record lookups.
func newShowCmd(baseConfig *baseConfiguration) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "show",
		Short: "Shows marketplace records",
	}
	cmd.AddCommand(newShowItemCmd(baseConfig))
	cmd.AddCommand(newShowSaleCmd(baseConfig))
	cmd.AddCommand(newShowAuctionCmd(baseConfig))
	return cmd
}

func newShowItemCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "item <item-id>",
		Short: "Shows a catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			item, err := e.bazaar.GetItem(itemID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "item %d: registry %s, token %s\n", item.ID, item.Registry, item.Token())
			return nil
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func newShowSaleCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "sale <sale-id>",
		Short: "Shows a sale record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saleID, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			sale, err := e.bazaar.GetSale(saleID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sale %d: token %s of %s, seller %s, price %d, active %t\n",
				sale.ID, sale.Token(), sale.Registry, sale.Seller, sale.Price, sale.Active)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func newShowAuctionCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "auction <auction-id>",
		Short: "Shows an auction record and its current bid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auctionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := openEngine(config)
			if err != nil {
				return err
			}
			defer e.close()

			auction, err := e.bazaar.GetAuction(auctionID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "auction %d: token %s of %s, seller %s, min price %d, ends %s, active %t\n",
				auction.ID, auction.Token(), auction.Registry, auction.Seller, auction.MinPrice, auction.EndTime, auction.Active)

			bid, err := e.bazaar.GetBid(auctionID)
			if err != nil {
				if errors.Is(err, market.ErrRecordNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "no bids")
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "current bid: %d by %s (bid number %d)\n", bid.Price, bid.Bidder, bid.Count)
			return nil
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}
