package cmd

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

const (
	flagNameURI       = "uri"
	flagNameRecipient = "recipient"
	flagNameTokenIDs  = "token-ids"
	flagNameAmounts   = "amounts"
	flagNameLimit     = "limit"
)

type createItemConfiguration struct {
	engineConfiguration

	URI       string
	Recipient string
	TokenIDs  []string
	Amounts   []uint
}

func newCreateItemCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &createItemConfiguration{engineConfiguration: engineConfiguration{base: baseConfig}}
	var cmd = &cobra.Command{
		Use:   "create-item",
		Short: "Mints a new single-unit item into the marketplace catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createItemRunFunc(cmd, config)
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&config.URI, flagNameURI, "", "metadata uri of the item")
	cmd.Flags().StringVar(&config.Recipient, flagNameRecipient, "", "address the item is minted to")
	_ = cmd.MarkFlagRequired(flagNameRecipient)
	return cmd
}

func createItemRunFunc(cmd *cobra.Command, config *createItemConfiguration) error {
	recipient, err := parseAddress(config.Recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	e, err := openEngine(&config.engineConfiguration)
	if err != nil {
		return err
	}
	defer e.close()

	itemID, err := e.bazaar.CreateSingleItem(config.URI, recipient)
	if err != nil {
		return err
	}
	item, err := e.bazaar.GetItem(itemID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "item %d minted: token %s to %s\n", itemID, item.Token(), recipient)
	return nil
}

func newCreateBatchItemCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &createItemConfiguration{engineConfiguration: engineConfiguration{base: baseConfig}}
	var cmd = &cobra.Command{
		Use:   "create-batch-item",
		Short: "Mints a batch of multi-unit items into the marketplace catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createBatchItemRunFunc(cmd, config)
		},
	}
	config.addEngineFlags(cmd)
	cmd.Flags().StringVar(&config.URI, flagNameURI, "", "metadata uri of the batch")
	cmd.Flags().StringVar(&config.Recipient, flagNameRecipient, "", "address the units are minted to")
	cmd.Flags().StringSliceVar(&config.TokenIDs, flagNameTokenIDs, nil, "token ids to mint")
	cmd.Flags().UintSliceVar(&config.Amounts, flagNameAmounts, nil, "unit count per token id")
	_ = cmd.MarkFlagRequired(flagNameRecipient)
	_ = cmd.MarkFlagRequired(flagNameTokenIDs)
	_ = cmd.MarkFlagRequired(flagNameAmounts)
	return cmd
}

func createBatchItemRunFunc(cmd *cobra.Command, config *createItemConfiguration) error {
	recipient, err := parseAddress(config.Recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	ids := make([]*uint256.Int, 0, len(config.TokenIDs))
	for _, s := range config.TokenIDs {
		id, err := parseTokenID(s)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	e, err := openEngine(&config.engineConfiguration)
	if err != nil {
		return err
	}
	defer e.close()

	amounts := make([]uint64, len(config.Amounts))
	for i, a := range config.Amounts {
		amounts[i] = uint64(a)
	}
	itemIDs, err := e.bazaar.CreateBatchItem(config.URI, recipient, ids, amounts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch of %d items minted to %s, item ids %v\n", len(itemIDs), recipient, itemIDs)
	return nil
}

func newBatchLimitCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &engineConfiguration{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "batch-limit [new-limit]",
		Short: "Shows the batch mint limit, or sets it when a new value is given (admin only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchLimitRunFunc(cmd, config, args)
		},
	}
	config.addEngineFlags(cmd)
	return cmd
}

func batchLimitRunFunc(cmd *cobra.Command, config *engineConfiguration, args []string) error {
	e, err := openEngine(config)
	if err != nil {
		return err
	}
	defer e.close()

	if len(args) == 1 {
		limit, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", args[0], err)
		}
		caller, err := config.from()
		if err != nil {
			return err
		}
		if err = e.bazaar.SetBatchLimit(caller, limit); err != nil {
			return err
		}
	}
	limit, err := e.bazaar.BatchLimit()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch limit: %d\n", limit)
	return nil
}
