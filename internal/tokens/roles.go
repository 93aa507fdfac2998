package tokens

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
)

// roleSet is a grantable minter role, the registry equivalent of the
// access control role the market engine must hold to mint.
type roleSet struct {
	admin common.Address
	db    keyvaluedb.KeyValueDB
}

func minterKey(addr common.Address) []byte {
	return append([]byte("minter/"), addr.Bytes()...)
}

// GrantMinterRole adds addr to the minter set. Only the registry admin may grant.
func (r *roleSet) GrantMinterRole(caller, addr common.Address) error {
	if caller != r.admin {
		return ErrNotAdmin
	}
	if err := r.db.Write(minterKey(addr), true); err != nil {
		return fmt.Errorf("failed to store minter role: %w", err)
	}
	return nil
}

// RevokeMinterRole removes addr from the minter set. Only the registry admin may revoke.
func (r *roleSet) RevokeMinterRole(caller, addr common.Address) error {
	if caller != r.admin {
		return ErrNotAdmin
	}
	if err := r.db.Delete(minterKey(addr)); err != nil {
		return fmt.Errorf("failed to remove minter role: %w", err)
	}
	return nil
}

// IsMinter returns true if addr holds the minter role.
func (r *roleSet) IsMinter(addr common.Address) (bool, error) {
	var granted bool
	found, err := r.db.Read(minterKey(addr), &granted)
	if err != nil {
		return false, fmt.Errorf("failed to read minter role: %w", err)
	}
	return found && granted, nil
}

func (r *roleSet) checkMinter(caller common.Address) error {
	ok, err := r.IsMinter(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMinter
	}
	return nil
}
