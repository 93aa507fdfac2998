package market

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb/memorydb"
)

const (
	// DefaultAuctionDuration is how long a new auction accepts bids.
	DefaultAuctionDuration = 3 * 24 * time.Hour
	// DefaultBatchLimit caps the number of token ids per batch mint.
	DefaultBatchLimit = 3
)

// Clock tells the engine the current wall-clock time. Injectable so tests
// can advance time deterministically; the engine never schedules anything
// itself.
type Clock func() time.Time

type (
	Options struct {
		address         common.Address
		db              keyvaluedb.KeyValueDB
		clock           Clock
		auctionDuration time.Duration
		batchLimit      uint64
	}

	Option func(*Options)
)

func defaultOptions() *Options {
	return &Options{
		address:         common.BytesToAddress([]byte("nft-bazaar-engine")),
		db:              memorydb.New(),
		clock:           time.Now,
		auctionDuration: DefaultAuctionDuration,
		batchLimit:      DefaultBatchLimit,
	}
}

// WithAddress sets the engine's own address, used as the custody account on
// the registries and the deposit account on the payment ledger.
func WithAddress(addr common.Address) Option {
	return func(o *Options) {
		o.address = addr
	}
}

// WithStorage sets the database the engine keeps its records in.
func WithStorage(db keyvaluedb.KeyValueDB) Option {
	return func(o *Options) {
		o.db = db
	}
}

func WithClock(clock Clock) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

func WithAuctionDuration(d time.Duration) Option {
	return func(o *Options) {
		o.auctionDuration = d
	}
}

// WithBatchLimit sets the initial batch limit. Has no effect if a limit is
// already persisted in the engine's storage.
func WithBatchLimit(limit uint64) Option {
	return func(o *Options) {
		o.batchLimit = limit
	}
}
