package market

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

// ListItem puts a catalogued token up for direct sale at a fixed price. The
// engine takes custody of the token; the lister must have approved the
// engine on the registry beforehand.
func (b *Bazaar) ListItem(caller, registry common.Address, tokenID *uint256.Int, price uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reg, err := b.prepareListing(registry, tokenID, price)
	if err != nil {
		return 0, err
	}
	next, err := b.nextID(nextSaleIDKey)
	if err != nil {
		return 0, err
	}
	// custody first: the registry rejects the transfer unless the caller
	// holds the token and approved the engine, so no bogus listing is ever
	// recorded
	if err = reg.TransferFrom(b.address, caller, b.address, tokenID); err != nil {
		return 0, fmt.Errorf("failed to take custody: %w", err)
	}

	sale := &Sale{
		ID:       next,
		Seller:   caller,
		Registry: registry,
		TokenID:  util.Uint256ToBytes(tokenID),
		Price:    price,
		Active:   true,
	}
	if err = keyvaluedb.Update(b.db,
		keyvaluedb.WriteOp(saleKey(sale.ID), sale),
		keyvaluedb.WriteOp(nextSaleIDKey, next+1),
	); err != nil {
		b.returnCustody(reg, caller, tokenID)
		return 0, fmt.Errorf("failed to store sale record: %w", err)
	}
	log.Info("sale %d: token %s listed by %s at %d", sale.ID, tokenID, caller, price)
	return sale.ID, nil
}

// BuyItem settles an active sale: price units move from the buyer to the
// seller (via the engine's deposit account) and custody of the token moves
// to the buyer. The buyer must have approved the engine on the ledger for at
// least the price.
func (b *Bazaar) BuyItem(caller common.Address, saleID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sale, err := b.GetSale(saleID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return ErrNotOnSale
		}
		return err
	}
	if !sale.Active {
		return ErrNotOnSale
	}
	if caller == sale.Seller {
		return ErrSelfTrade
	}
	reg, err := b.registryByAddress(sale.Registry)
	if err != nil {
		return err
	}

	if err = b.ledger.TransferFrom(b.address, caller, b.address, sale.Price); err != nil {
		return fmt.Errorf("payment failed: %w", err)
	}
	// settle the record before the asset leaves custody: once the token has
	// moved the sale must never settle again
	sale.Active = false
	if err = b.db.Write(saleKey(saleID), sale); err != nil {
		b.refund(caller, sale.Price)
		return fmt.Errorf("failed to store sale record: %w", err)
	}
	if err = reg.TransferFrom(b.address, b.address, caller, sale.Token()); err != nil {
		sale.Active = true
		if wErr := b.db.Write(saleKey(saleID), sale); wErr != nil {
			log.Error("failed to restore sale record %d: %v", saleID, wErr)
		}
		b.refund(caller, sale.Price)
		return fmt.Errorf("asset transfer failed: %w", err)
	}
	if err = b.ledger.Transfer(b.address, sale.Seller, sale.Price); err != nil {
		// the sale stays settled; the payment is held by the engine
		return fmt.Errorf("seller payout failed: %w", err)
	}
	log.Info("sale %d: token %s sold to %s for %d", saleID, sale.Token(), caller, sale.Price)
	return nil
}

// CancelSale takes an active sale off the market and returns custody of the
// token to the seller. Only the seller may cancel.
func (b *Bazaar) CancelSale(caller common.Address, saleID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sale, err := b.GetSale(saleID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return ErrNotCancelable
		}
		return err
	}
	if !sale.Active {
		return ErrNotCancelable
	}
	if caller != sale.Seller {
		return ErrNotSeller
	}
	reg, err := b.registryByAddress(sale.Registry)
	if err != nil {
		return err
	}
	sale.Active = false
	if err = b.db.Write(saleKey(saleID), sale); err != nil {
		return fmt.Errorf("failed to store sale record: %w", err)
	}
	if err = reg.TransferFrom(b.address, b.address, sale.Seller, sale.Token()); err != nil {
		sale.Active = true
		if wErr := b.db.Write(saleKey(saleID), sale); wErr != nil {
			log.Error("failed to restore sale record %d: %v", saleID, wErr)
		}
		return fmt.Errorf("failed to return custody: %w", err)
	}
	log.Info("sale %d: canceled by seller %s", saleID, caller)
	return nil
}

// prepareListing runs the shared validation of ListItem and
// ListItemOnAuction and reserves nothing: the caller still owns the token
// until the custody transfer succeeds.
func (b *Bazaar) prepareListing(registry common.Address, tokenID *uint256.Int, price uint64) (AssetRegistry, error) {
	if price == 0 {
		return nil, ErrInvalidPrice
	}
	reg, err := b.registryByAddress(registry)
	if err != nil {
		return nil, err
	}
	known, err := b.isCatalogued(registry, tokenID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrUnrecognizedAsset
	}
	return reg, nil
}

// returnCustody hands a token the engine holds back to its seller. Failures
// are logged, the caller has already failed the operation.
func (b *Bazaar) returnCustody(reg AssetRegistry, to common.Address, tokenID *uint256.Int) {
	if err := reg.TransferFrom(b.address, b.address, to, tokenID); err != nil {
		log.Error("failed to return custody of token %s to %s: %v", tokenID, to, err)
	}
}

// refund returns payment units held by the engine to the given account.
// Failures are logged, the caller has already failed the operation.
func (b *Bazaar) refund(to common.Address, amount uint64) {
	if err := b.ledger.Transfer(b.address, to, amount); err != nil {
		log.Error("failed to refund %d payment units to %s: %v", amount, to, err)
	}
}
