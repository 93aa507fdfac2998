// Package market implements the marketplace engine: item minting
// bookkeeping, the direct sale lifecycle and the auction lifecycle with
// time-gated settlement. The engine is a single sequential state mutator;
// every operation runs to completion under one lock and either fully
// succeeds or leaves the records unchanged.
package market

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/logger"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

var log = logger.CreateForPackage()

type (
	// AssetRegistry is the custody surface the engine requires from both
	// asset kinds. Transfers of a listed unit always cover quantity one.
	AssetRegistry interface {
		Address() common.Address
		TransferFrom(operator, from, to common.Address, tokenID *uint256.Int) error
	}

	// SingleAssetRegistry mints unique, quantity-one units.
	SingleAssetRegistry interface {
		AssetRegistry
		Mint(caller common.Address, uri string, to common.Address) (*uint256.Int, error)
	}

	// MultiAssetRegistry mints (id, amount) pairs in batches.
	MultiAssetRegistry interface {
		AssetRegistry
		MintBatch(caller common.Address, uri string, to common.Address, ids []*uint256.Int, amounts []uint64) error
	}

	// PaymentLedger moves funds between parties. TransferFrom is gated by a
	// prior allowance from the owner to the spender and must fail atomically.
	PaymentLedger interface {
		TransferFrom(spender, from, to common.Address, amount uint64) error
		Transfer(caller, to common.Address, amount uint64) error
	}

	// Bazaar is the marketplace engine. It is the sole authorized minter on
	// both registries and takes custody of every listed or auctioned asset
	// until settlement or cancellation.
	Bazaar struct {
		mu              sync.Mutex
		address         common.Address
		admin           common.Address
		nft             SingleAssetRegistry
		multi           MultiAssetRegistry
		ledger          PaymentLedger
		db              keyvaluedb.KeyValueDB
		clock           Clock
		auctionDuration time.Duration
	}
)

// New creates the marketplace engine on top of the two asset registries and
// the payment ledger. The admin address is the only caller allowed to change
// process-wide configuration such as the batch limit.
func New(admin common.Address, nft SingleAssetRegistry, multi MultiAssetRegistry, ledger PaymentLedger, opts ...Option) (*Bazaar, error) {
	if nft == nil {
		return nil, errors.New("single-unit asset registry is nil")
	}
	if multi == nil {
		return nil, errors.New("multi-unit asset registry is nil")
	}
	if ledger == nil {
		return nil, errors.New("payment ledger is nil")
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	b := &Bazaar{
		address:         options.address,
		admin:           admin,
		nft:             nft,
		multi:           multi,
		ledger:          ledger,
		db:              options.db,
		clock:           options.clock,
		auctionDuration: options.auctionDuration,
	}
	// the configured limit seeds storage on first start only, a limit set
	// via SetBatchLimit survives restarts
	var limit uint64
	found, err := b.db.Read(batchLimitKey, &limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch limit: %w", err)
	}
	if !found {
		if err = b.db.Write(batchLimitKey, options.batchLimit); err != nil {
			return nil, fmt.Errorf("failed to store batch limit: %w", err)
		}
	}
	return b, nil
}

// Address returns the engine's custody/deposit address.
func (b *Bazaar) Address() common.Address {
	return b.address
}

// registryByAddress resolves a listing's registry reference against the two
// configured registries.
func (b *Bazaar) registryByAddress(addr common.Address) (AssetRegistry, error) {
	switch addr {
	case b.nft.Address():
		return b.nft, nil
	case b.multi.Address():
		return b.multi, nil
	default:
		return nil, ErrUnrecognizedAsset
	}
}

// isCatalogued reports whether the token was minted through the engine in
// the given registry.
func (b *Bazaar) isCatalogued(registry common.Address, tokenID *uint256.Int) (bool, error) {
	var itemID uint64
	found, err := b.db.Read(tokenKey(registry, util.Uint256ToBytes(tokenID)), &itemID)
	if err != nil {
		return false, fmt.Errorf("failed to read catalog: %w", err)
	}
	return found, nil
}

func (b *Bazaar) nextID(key []byte) (uint64, error) {
	var next uint64
	if _, err := b.db.Read(key, &next); err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	return next, nil
}

// GetItem returns the catalog record of a minted item.
func (b *Bazaar) GetItem(itemID uint64) (*Item, error) {
	item := &Item{}
	found, err := b.db.Read(itemKey(itemID), item)
	if err != nil {
		return nil, fmt.Errorf("failed to read item %d: %w", itemID, err)
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return item, nil
}

// GetSale returns the full sale record, active or settled.
func (b *Bazaar) GetSale(saleID uint64) (*Sale, error) {
	sale := &Sale{}
	found, err := b.db.Read(saleKey(saleID), sale)
	if err != nil {
		return nil, fmt.Errorf("failed to read sale %d: %w", saleID, err)
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return sale, nil
}

// GetAuction returns the full auction record, active or settled.
func (b *Bazaar) GetAuction(auctionID uint64) (*Auction, error) {
	auction := &Auction{}
	found, err := b.db.Read(auctionKey(auctionID), auction)
	if err != nil {
		return nil, fmt.Errorf("failed to read auction %d: %w", auctionID, err)
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return auction, nil
}

// GetBid returns the auction's current bid slot. ErrRecordNotFound means no
// bid has been placed yet.
func (b *Bazaar) GetBid(auctionID uint64) (*Bid, error) {
	bid := &Bid{}
	found, err := b.db.Read(bidKey(auctionID), bid)
	if err != nil {
		return nil, fmt.Errorf("failed to read bid of auction %d: %w", auctionID, err)
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return bid, nil
}
