package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb/boltdb"
	"github.com/nftbazaar-org/nftbazaar/internal/market"
	"github.com/nftbazaar-org/nftbazaar/internal/tokens"
)

// Well known identities of the locally hosted registries. Overridable so
// several marketplaces can share one home directory.
const (
	defaultAdminAddr    = "0x0000000000000000000000000000000000000Ad1"
	defaultNFTRegAddr   = "0x0000000000000000000000000000000000000721"
	defaultMultiRegAddr = "0x0000000000000000000000000000000000001155"
	defaultLedgerAddr   = "0x0000000000000000000000000000000000000020"

	flagNameAdmin    = "admin"
	flagNameNFTReg   = "nft-registry"
	flagNameMultiReg = "multi-registry"
	flagNameLedger   = "ledger"
	flagNameFrom     = "from"
)

type engine struct {
	bazaar *market.Bazaar
	nft    *tokens.NFTRegistry
	multi  *tokens.MultiTokenRegistry
	ledger *tokens.Ledger

	admin  common.Address
	closeF func()
}

type engineConfiguration struct {
	base *baseConfiguration

	Admin    string
	NFTReg   string
	MultiReg string
	Ledger   string
	From     string
}

func (c *engineConfiguration) addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Admin, flagNameAdmin, defaultAdminAddr, "marketplace admin address")
	cmd.Flags().StringVar(&c.NFTReg, flagNameNFTReg, defaultNFTRegAddr, "single-unit registry address")
	cmd.Flags().StringVar(&c.MultiReg, flagNameMultiReg, defaultMultiRegAddr, "multi-unit registry address")
	cmd.Flags().StringVar(&c.Ledger, flagNameLedger, defaultLedgerAddr, "payment ledger address")
	cmd.Flags().StringVar(&c.From, flagNameFrom, "", "address the operation is performed as")
}

func (c *engineConfiguration) from() (common.Address, error) {
	if c.From == "" {
		return common.Address{}, fmt.Errorf("required flag %q not set", flagNameFrom)
	}
	return parseAddress(c.From)
}

// openEngine opens the bolt backed registries, the ledger and the market
// engine under the home directory. The engine's custody address holds the
// minter role on both registries.
func openEngine(c *engineConfiguration) (*engine, error) {
	adminAddr, err := parseAddress(c.Admin)
	if err != nil {
		return nil, fmt.Errorf("invalid admin address: %w", err)
	}
	nftAddr, err := parseAddress(c.NFTReg)
	if err != nil {
		return nil, fmt.Errorf("invalid registry address: %w", err)
	}
	multiAddr, err := parseAddress(c.MultiReg)
	if err != nil {
		return nil, fmt.Errorf("invalid registry address: %w", err)
	}
	ledgerAddr, err := parseAddress(c.Ledger)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger address: %w", err)
	}

	var dbs []*boltdb.BoltDB
	closeAll := func() {
		for _, db := range dbs {
			if err := db.Close(); err != nil {
				log.Error("failed to close %s: %v", db.Path(), err)
			}
		}
	}
	openDB := func(name string) (*boltdb.BoltDB, error) {
		db, err := boltdb.New(c.base.dbFile(name))
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		dbs = append(dbs, db)
		return db, nil
	}

	ok := false
	defer func() {
		if !ok {
			closeAll()
		}
	}()

	nftDB, err := openDB("nft.db")
	if err != nil {
		return nil, err
	}
	multiDB, err := openDB("multi.db")
	if err != nil {
		return nil, err
	}
	ledgerDB, err := openDB("ledger.db")
	if err != nil {
		return nil, err
	}
	marketDB, err := openDB("market.db")
	if err != nil {
		return nil, err
	}

	nft, err := tokens.NewNFTRegistry(nftAddr, adminAddr, nftDB)
	if err != nil {
		return nil, err
	}
	multi, err := tokens.NewMultiTokenRegistry(multiAddr, adminAddr, multiDB)
	if err != nil {
		return nil, err
	}
	ledger, err := tokens.NewLedger(ledgerAddr, adminAddr, ledgerDB)
	if err != nil {
		return nil, err
	}
	bazaar, err := market.New(adminAddr, nft, multi, ledger, market.WithStorage(marketDB))
	if err != nil {
		return nil, err
	}
	if err = nft.GrantMinterRole(adminAddr, bazaar.Address()); err != nil {
		return nil, err
	}
	if err = multi.GrantMinterRole(adminAddr, bazaar.Address()); err != nil {
		return nil, err
	}

	ok = true
	return &engine{
		bazaar: bazaar,
		nft:    nft,
		multi:  multi,
		ledger: ledger,
		admin:  adminAddr,
		closeF: closeAll,
	}, nil
}

func (e *engine) close() {
	e.closeF()
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.New("not a valid hex address: " + s)
	}
	return common.HexToAddress(s), nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func parseTokenID(s string) (*uint256.Int, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return uint256.NewInt(id), nil
}
