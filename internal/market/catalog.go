package market

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

// CreateSingleItem mints one unit of the single-unit asset kind to the
// recipient and returns the fresh engine-unique item id.
func (b *Bazaar) CreateSingleItem(uri string, recipient common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if uri == "" {
		return 0, ErrInvalidMetadata
	}
	next, err := b.nextID(nextItemIDKey)
	if err != nil {
		return 0, err
	}
	tokenID, err := b.nft.Mint(b.address, uri, recipient)
	if err != nil {
		return 0, fmt.Errorf("minting failed: %w", err)
	}

	item := &Item{ID: next, Registry: b.nft.Address(), TokenID: util.Uint256ToBytes(tokenID)}
	if err = keyvaluedb.Update(b.db,
		keyvaluedb.WriteOp(itemKey(item.ID), item),
		keyvaluedb.WriteOp(tokenKey(item.Registry, item.TokenID), item.ID),
		keyvaluedb.WriteOp(nextItemIDKey, next+1),
	); err != nil {
		return 0, fmt.Errorf("failed to store item record: %w", err)
	}
	log.Info("minted item %d (token %s) to %s", item.ID, tokenID, recipient)
	return item.ID, nil
}

// CreateBatchItem mints amounts[i] units of token ids[i] to the recipient as
// one batch of the multi-unit asset kind and returns a fresh item id per
// (id, amount) pair.
func (b *Bazaar) CreateBatchItem(uri string, recipient common.Address, ids []*uint256.Int, amounts []uint64) ([]uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if uri == "" {
		return nil, ErrInvalidMetadata
	}
	if len(ids) != len(amounts) {
		return nil, ErrBatchMismatch
	}
	limit, err := b.batchLimit()
	if err != nil {
		return nil, err
	}
	if uint64(len(ids)) > limit {
		return nil, ErrBatchLimitExceeded
	}
	next, err := b.nextID(nextItemIDKey)
	if err != nil {
		return nil, err
	}
	if err = b.multi.MintBatch(b.address, uri, recipient, ids, amounts); err != nil {
		return nil, fmt.Errorf("batch minting failed: %w", err)
	}

	itemIDs := make([]uint64, 0, len(ids))
	ops := make([]keyvaluedb.Op, 0, 2*len(ids)+1)
	// duplicate ids get distinct item records; the token index keeps the
	// last of them, it is only ever read as an existence check
	for _, id := range ids {
		item := &Item{ID: next, Registry: b.multi.Address(), TokenID: util.Uint256ToBytes(id)}
		ops = append(ops,
			keyvaluedb.WriteOp(itemKey(item.ID), item),
			keyvaluedb.WriteOp(tokenKey(item.Registry, item.TokenID), item.ID),
		)
		itemIDs = append(itemIDs, next)
		next++
	}
	ops = append(ops, keyvaluedb.WriteOp(nextItemIDKey, next))

	if err = keyvaluedb.Update(b.db, ops...); err != nil {
		return nil, fmt.Errorf("failed to store item records: %w", err)
	}
	log.Info("minted batch of %d items to %s", len(itemIDs), recipient)
	return itemIDs, nil
}

// SetBatchLimit changes the process-wide batch mint cap. Admin only; already
// minted items are unaffected.
func (b *Bazaar) SetBatchLimit(caller common.Address, limit uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.admin {
		return ErrNotAdmin
	}
	if err := b.db.Write(batchLimitKey, limit); err != nil {
		return fmt.Errorf("failed to store batch limit: %w", err)
	}
	log.Info("batch limit set to %d", limit)
	return nil
}

// BatchLimit returns the current batch mint cap.
func (b *Bazaar) BatchLimit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batchLimit()
}

func (b *Bazaar) batchLimit() (uint64, error) {
	var limit uint64
	if _, err := b.db.Read(batchLimitKey, &limit); err != nil {
		return 0, fmt.Errorf("failed to read batch limit: %w", err)
	}
	return limit, nil
}
