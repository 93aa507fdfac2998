package tokens

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

// MultiTokenRegistry is a multi-unit asset registry: a token id may
// represent several fungible-within-id units, minted in batches.
type MultiTokenRegistry struct {
	roleSet
	addr common.Address
	db   keyvaluedb.KeyValueDB
}

func unitBalanceKey(addr common.Address, id *uint256.Int) []byte {
	key := append([]byte("balance/"), addr.Bytes()...)
	return append(key, util.Uint256ToBytes(id)...)
}

// NewMultiTokenRegistry creates a multi-unit registry identified by addr and
// administered by admin. All registry state lives in db.
func NewMultiTokenRegistry(addr, admin common.Address, db keyvaluedb.KeyValueDB) (*MultiTokenRegistry, error) {
	if db == nil {
		return nil, fmt.Errorf("multi token registry storage is nil")
	}
	return &MultiTokenRegistry{
		roleSet: roleSet{admin: admin, db: db},
		addr:    addr,
		db:      db,
	}, nil
}

// Address returns the registry identity used in listing records.
func (r *MultiTokenRegistry) Address() common.Address {
	return r.addr
}

// MintBatch mints amounts[i] units of token ids[i] to the recipient, all in
// one atomic batch. The caller must hold the minter role. ids and amounts
// must be of equal length.
func (r *MultiTokenRegistry) MintBatch(caller common.Address, uri string, to common.Address, ids []*uint256.Int, amounts []uint64) error {
	if err := r.checkMinter(caller); err != nil {
		return err
	}
	if len(ids) != len(amounts) {
		return fmt.Errorf("ids and amounts length mismatch: %d vs %d", len(ids), len(amounts))
	}

	// amounts of duplicate ids accumulate into a single balance write
	totals := make(map[string]uint64, len(ids))
	for i, id := range ids {
		key := string(util.Uint256ToBytes(id))
		if _, ok := totals[key]; !ok {
			var balance uint64
			if _, err := r.db.Read(unitBalanceKey(to, id), &balance); err != nil {
				return fmt.Errorf("failed to read balance: %w", err)
			}
			totals[key] = balance
		}
		totals[key] += amounts[i]
	}

	ops := make([]keyvaluedb.Op, 0, 2*len(totals))
	written := make(map[string]struct{}, len(totals))
	for _, id := range ids {
		key := string(util.Uint256ToBytes(id))
		if _, ok := written[key]; ok {
			continue
		}
		written[key] = struct{}{}
		ops = append(ops,
			keyvaluedb.WriteOp(unitBalanceKey(to, id), totals[key]),
			keyvaluedb.WriteOp(uriKey(id), uri),
		)
	}
	if err := keyvaluedb.Update(r.db, ops...); err != nil {
		return err
	}
	log.Debug("minted batch of %d token ids to %s", len(ids), to)
	return nil
}

// BalanceOf returns the number of units of the given token id held by addr.
func (r *MultiTokenRegistry) BalanceOf(addr common.Address, id *uint256.Int) (uint64, error) {
	var balance uint64
	if _, err := r.db.Read(unitBalanceKey(addr, id), &balance); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// URI returns the metadata uri recorded for the token id.
func (r *MultiTokenRegistry) URI(id *uint256.Int) (string, error) {
	var uri string
	found, err := r.db.Read(uriKey(id), &uri)
	if err != nil {
		return "", fmt.Errorf("failed to read token uri: %w", err)
	}
	if !found {
		return "", ErrNoSuchToken
	}
	return uri, nil
}

// SetApprovalForAll lets operator move any of the caller's units.
func (r *MultiTokenRegistry) SetApprovalForAll(caller, operator common.Address, approved bool) error {
	if approved {
		return r.db.Write(operatorKey(caller, operator), true)
	}
	return r.db.Delete(operatorKey(caller, operator))
}

// TransferFrom moves one unit of the token id from the holder to the
// recipient. The operator must be the holder or approved for all of the
// holder's units.
func (r *MultiTokenRegistry) TransferFrom(operator, from, to common.Address, id *uint256.Int) error {
	if operator != from {
		var all bool
		found, err := r.db.Read(operatorKey(from, operator), &all)
		if err != nil {
			return fmt.Errorf("failed to read operator approval: %w", err)
		}
		if !found || !all {
			return ErrNotApproved
		}
	}
	var fromBalance, toBalance uint64
	if _, err := r.db.Read(unitBalanceKey(from, id), &fromBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if fromBalance < 1 {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	if _, err := r.db.Read(unitBalanceKey(to, id), &toBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	if err := keyvaluedb.Update(r.db,
		keyvaluedb.WriteOp(unitBalanceKey(from, id), fromBalance-1),
		keyvaluedb.WriteOp(unitBalanceKey(to, id), toBalance+1),
	); err != nil {
		return err
	}
	log.Debug("transferred one unit of token %s from %s to %s", id, from, to)
	return nil
}
