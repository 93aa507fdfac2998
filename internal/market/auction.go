package market

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

// successThreshold is the number of accepted bids an auction needs for the
// asset to be transferred to the final bidder on settlement. Below the
// threshold the asset returns to the seller and the sole bidder, if any, is
// refunded.
const successThreshold = 2

// ListItemOnAuction opens a sealed-duration auction for a catalogued token.
// The engine takes custody of the token; the end time is fixed at creation
// and bids are accepted until it is reached.
func (b *Bazaar) ListItemOnAuction(caller, registry common.Address, tokenID *uint256.Int, minPrice uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reg, err := b.prepareListing(registry, tokenID, minPrice)
	if err != nil {
		return 0, err
	}
	next, err := b.nextID(nextAuctionIDKey)
	if err != nil {
		return 0, err
	}
	if err = reg.TransferFrom(b.address, caller, b.address, tokenID); err != nil {
		return 0, fmt.Errorf("failed to take custody: %w", err)
	}

	auction := &Auction{
		ID:       next,
		Seller:   caller,
		Registry: registry,
		TokenID:  util.Uint256ToBytes(tokenID),
		MinPrice: minPrice,
		EndTime:  b.clock().Add(b.auctionDuration),
		Active:   true,
	}
	if err = keyvaluedb.Update(b.db,
		keyvaluedb.WriteOp(auctionKey(auction.ID), auction),
		keyvaluedb.WriteOp(nextAuctionIDKey, next+1),
	); err != nil {
		b.returnCustody(reg, caller, tokenID)
		return 0, fmt.Errorf("failed to store auction record: %w", err)
	}
	log.Info("auction %d: token %s listed by %s, min price %d, ends %s",
		auction.ID, tokenID, caller, minPrice, auction.EndTime)
	return auction.ID, nil
}

// MakeBid places a bid on an active auction. The new deposit is pulled from
// the bidder (allowance required) and the previous bidder, if any, is
// refunded their full deposit; the single bid slot is overwritten. From the
// caller's point of view the refund, the pull and the record update are one
// atomic step.
func (b *Bazaar) MakeBid(caller common.Address, auctionID uint64, price uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	auction, err := b.loadActiveAuction(auctionID)
	if err != nil {
		return err
	}
	if !b.clock().Before(auction.EndTime) {
		return ErrAuctionExpired
	}
	if caller == auction.Seller {
		return ErrSelfTrade
	}

	prev, err := b.GetBid(auctionID)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	if prev == nil {
		if price < auction.MinPrice {
			return ErrBidTooLow
		}
	} else if price <= prev.Price {
		return ErrBidTooLow
	}

	// pull the new deposit first: an allowance or balance failure aborts
	// the bid before anything else changed
	if err = b.ledger.TransferFrom(b.address, caller, b.address, price); err != nil {
		return fmt.Errorf("bid deposit failed: %w", err)
	}

	bid := &Bid{Bidder: caller, Price: price, Count: 1}
	if prev != nil {
		bid.Count = prev.Count + 1
	}
	if err = b.db.Write(bidKey(auctionID), bid); err != nil {
		b.refund(caller, price)
		return fmt.Errorf("failed to store bid record: %w", err)
	}
	if prev != nil {
		if err = b.ledger.Transfer(b.address, prev.Bidder, prev.Price); err != nil {
			// restore the previous bid and hand the new deposit back
			if wErr := b.db.Write(bidKey(auctionID), prev); wErr != nil {
				log.Error("failed to restore bid record of auction %d: %v", auctionID, wErr)
			}
			b.refund(caller, price)
			return fmt.Errorf("failed to refund previous bidder: %w", err)
		}
	}
	log.Info("auction %d: bid %d by %s (bid number %d)", auctionID, price, caller, bid.Count)
	return nil
}

// FinishAuction settles an auction whose end time has passed. Callable by
// anyone. With at least two accepted bids the token goes to the final bidder
// and the held deposit to the seller; with exactly one bid the token returns
// to the seller and the bidder is refunded; with no bids only custody moves
// back. The record deactivates exactly once.
func (b *Bazaar) FinishAuction(caller common.Address, auctionID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	auction, err := b.loadActiveAuction(auctionID)
	if err != nil {
		return err
	}
	if b.clock().Before(auction.EndTime) {
		return ErrAuctionNotYetEndable
	}
	reg, err := b.registryByAddress(auction.Registry)
	if err != nil {
		return err
	}
	bid, err := b.GetBid(auctionID)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return err
	}

	// settle the record before the asset leaves custody: once the token has
	// moved the auction must never be finishable again
	auction.Active = false
	if err = b.db.Write(auctionKey(auctionID), auction); err != nil {
		return fmt.Errorf("failed to store auction record: %w", err)
	}
	reactivate := func(cause error) error {
		auction.Active = true
		if wErr := b.db.Write(auctionKey(auctionID), auction); wErr != nil {
			log.Error("failed to restore auction record %d: %v", auctionID, wErr)
		}
		return cause
	}

	switch {
	case bid != nil && bid.Count >= successThreshold:
		if err = reg.TransferFrom(b.address, b.address, bid.Bidder, auction.Token()); err != nil {
			return reactivate(fmt.Errorf("asset transfer to winner failed: %w", err))
		}
		if err = b.ledger.Transfer(b.address, auction.Seller, bid.Price); err != nil {
			// the auction stays settled; the deposit is held by the engine
			return fmt.Errorf("seller payout failed: %w", err)
		}
		log.Info("auction %d: token %s sold to %s for %d", auctionID, auction.Token(), bid.Bidder, bid.Price)
	case bid != nil:
		if err = reg.TransferFrom(b.address, b.address, auction.Seller, auction.Token()); err != nil {
			return reactivate(fmt.Errorf("failed to return custody: %w", err))
		}
		if err = b.ledger.Transfer(b.address, bid.Bidder, bid.Price); err != nil {
			return fmt.Errorf("bidder refund failed: %w", err)
		}
		log.Info("auction %d: no sale, sole bidder %s refunded %d", auctionID, bid.Bidder, bid.Price)
	default:
		if err = reg.TransferFrom(b.address, b.address, auction.Seller, auction.Token()); err != nil {
			return reactivate(fmt.Errorf("failed to return custody: %w", err))
		}
		log.Info("auction %d: no bids, token returned to seller", auctionID)
	}
	return nil
}

func (b *Bazaar) loadActiveAuction(auctionID uint64) (*Auction, error) {
	auction, err := b.GetAuction(auctionID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrNoSuchAuction
		}
		return nil, err
	}
	if !auction.Active {
		return nil, ErrNoSuchAuction
	}
	return auction, nil
}
