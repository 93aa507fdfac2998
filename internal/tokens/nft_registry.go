package tokens

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
	"github.com/nftbazaar-org/nftbazaar/internal/logger"
	"github.com/nftbazaar-org/nftbazaar/internal/util"
)

var log = logger.CreateForPackage()

// NFTRegistry is a single-unit asset registry: every minted token has a
// unique identifier and quantity one.
type NFTRegistry struct {
	roleSet
	addr common.Address
	db   keyvaluedb.KeyValueDB
}

func ownerKey(id *uint256.Int) []byte {
	return append([]byte("owner/"), util.Uint256ToBytes(id)...)
}

func uriKey(id *uint256.Int) []byte {
	return append([]byte("uri/"), util.Uint256ToBytes(id)...)
}

func balanceKey(addr common.Address) []byte {
	return append([]byte("balance/"), addr.Bytes()...)
}

func approvalKey(id *uint256.Int) []byte {
	return append([]byte("approval/"), util.Uint256ToBytes(id)...)
}

func operatorKey(owner, operator common.Address) []byte {
	key := append([]byte("operator/"), owner.Bytes()...)
	return append(key, operator.Bytes()...)
}

var nextTokenIDKey = []byte("meta/next-token-id")

// NewNFTRegistry creates a single-unit registry identified by addr and
// administered by admin. All registry state lives in db.
func NewNFTRegistry(addr, admin common.Address, db keyvaluedb.KeyValueDB) (*NFTRegistry, error) {
	if db == nil {
		return nil, fmt.Errorf("nft registry storage is nil")
	}
	return &NFTRegistry{
		roleSet: roleSet{admin: admin, db: db},
		addr:    addr,
		db:      db,
	}, nil
}

// Address returns the registry identity used in listing records.
func (r *NFTRegistry) Address() common.Address {
	return r.addr
}

// Mint creates a new token with the given metadata uri and assigns it to the
// recipient. The caller must hold the minter role. Returns the registry
// assigned token id.
func (r *NFTRegistry) Mint(caller common.Address, uri string, to common.Address) (*uint256.Int, error) {
	if err := r.checkMinter(caller); err != nil {
		return nil, err
	}
	var next uint64
	if _, err := r.db.Read(nextTokenIDKey, &next); err != nil {
		return nil, fmt.Errorf("failed to read token counter: %w", err)
	}
	id := uint256.NewInt(next)

	var balance uint64
	if _, err := r.db.Read(balanceKey(to), &balance); err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := keyvaluedb.Update(r.db,
		keyvaluedb.WriteOp(ownerKey(id), to),
		keyvaluedb.WriteOp(uriKey(id), uri),
		keyvaluedb.WriteOp(balanceKey(to), balance+1),
		keyvaluedb.WriteOp(nextTokenIDKey, next+1),
	); err != nil {
		return nil, err
	}
	log.Debug("minted token %s to %s", id, to)
	return id, nil
}

// OwnerOf returns the current owner of the token.
func (r *NFTRegistry) OwnerOf(id *uint256.Int) (common.Address, error) {
	var owner common.Address
	found, err := r.db.Read(ownerKey(id), &owner)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read owner: %w", err)
	}
	if !found {
		return common.Address{}, ErrNoSuchToken
	}
	return owner, nil
}

// BalanceOf returns the number of tokens held by addr.
func (r *NFTRegistry) BalanceOf(addr common.Address) (uint64, error) {
	var balance uint64
	if _, err := r.db.Read(balanceKey(addr), &balance); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// TokenURI returns the metadata uri recorded at mint.
func (r *NFTRegistry) TokenURI(id *uint256.Int) (string, error) {
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

// Approve lets operator move the given token once. Caller must own the token.
func (r *NFTRegistry) Approve(caller, operator common.Address, id *uint256.Int) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	return r.db.Write(approvalKey(id), operator)
}

// SetApprovalForAll lets operator move any of the caller's tokens.
func (r *NFTRegistry) SetApprovalForAll(caller, operator common.Address, approved bool) error {
	if approved {
		return r.db.Write(operatorKey(caller, operator), true)
	}
	return r.db.Delete(operatorKey(caller, operator))
}

// TransferFrom moves the token from its owner to the recipient. The operator
// must be the owner, the per-token approved operator, or approved for all of
// the owner's tokens. The per-token approval is consumed by the transfer.
func (r *NFTRegistry) TransferFrom(operator, from, to common.Address, id *uint256.Int) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotOwner
	}
	if operator != from {
		approved, err := r.isApproved(operator, from, id)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotApproved
		}
	}
	if from == to {
		return nil
	}

	var fromBalance, toBalance uint64
	if _, err = r.db.Read(balanceKey(from), &fromBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if _, err = r.db.Read(balanceKey(to), &toBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	if err = keyvaluedb.Update(r.db,
		keyvaluedb.WriteOp(ownerKey(id), to),
		keyvaluedb.WriteOp(balanceKey(from), fromBalance-1),
		keyvaluedb.WriteOp(balanceKey(to), toBalance+1),
		keyvaluedb.DeleteOp(approvalKey(id)),
	); err != nil {
		return err
	}
	log.Debug("transferred token %s from %s to %s", id, from, to)
	return nil
}

func (r *NFTRegistry) isApproved(operator, owner common.Address, id *uint256.Int) (bool, error) {
	var approvedFor common.Address
	found, err := r.db.Read(approvalKey(id), &approvedFor)
	if err != nil {
		return false, fmt.Errorf("failed to read approval: %w", err)
	}
	if found && approvedFor == operator {
		return true, nil
	}
	var all bool
	found, err = r.db.Read(operatorKey(owner, operator), &all)
	if err != nil {
		return false, fmt.Errorf("failed to read operator approval: %w", err)
	}
	return found && all, nil
}
