package market

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

type (
	// Item is a catalog entry created at mint time. Every unit minted
	// through the engine gets a fresh, strictly increasing item id,
	// regardless of which registry minted it.
	Item struct {
		ID       uint64
		Registry common.Address
		TokenID  []byte
	}

	// Sale is a fixed price listing. Terminal states (sold, canceled) set
	// Active to false; the record itself is retained forever.
	Sale struct {
		ID       uint64
		Seller   common.Address
		Registry common.Address
		TokenID  []byte
		Price    uint64
		Active   bool
	}

	// Auction is a time-boxed listing. EndTime is fixed at creation and
	// never changes; Active flips to false exactly once on settlement.
	Auction struct {
		ID       uint64
		Seller   common.Address
		Registry common.Address
		TokenID  []byte
		MinPrice uint64
		EndTime  time.Time
		Active   bool
	}

	// Bid is the single mutable bid slot of an auction: a new accepted bid
	// overwrites the previous one. Count equals the number of accepted bids
	// in the auction's history.
	Bid struct {
		Bidder common.Address
		Price  uint64
		Count  uint32
	}
)

// Token returns the record's token id as an integer.
func (i *Item) Token() *uint256.Int {
	return util.BytesToUint256(i.TokenID)
}

// Token returns the record's token id as an integer.
func (s *Sale) Token() *uint256.Int {
	return util.BytesToUint256(s.TokenID)
}

// Token returns the record's token id as an integer.
func (a *Auction) Token() *uint256.Int {
	return util.BytesToUint256(a.TokenID)
}

func itemKey(id uint64) []byte {
	return append([]byte("item/"), util.Uint64ToBytes(id)...)
}

func tokenKey(registry common.Address, tokenID []byte) []byte {
	key := append([]byte("token/"), registry.Bytes()...)
	return append(key, tokenID...)
}

func saleKey(id uint64) []byte {
	return append([]byte("sale/"), util.Uint64ToBytes(id)...)
}

func auctionKey(id uint64) []byte {
	return append([]byte("auction/"), util.Uint64ToBytes(id)...)
}

func bidKey(auctionID uint64) []byte {
	return append([]byte("bid/"), util.Uint64ToBytes(auctionID)...)
}

var (
	nextItemIDKey    = []byte("meta/next-item-id")
	nextSaleIDKey    = []byte("meta/next-sale-id")
	nextAuctionIDKey = []byte("meta/next-auction-id")
	batchLimitKey    = []byte("meta/batch-limit")
)
