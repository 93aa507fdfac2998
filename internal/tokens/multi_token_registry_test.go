package tokens

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb/memorydb"
)

func newMultiTokenRegistry(t *testing.T) *MultiTokenRegistry {
	t.Helper()
	r, err := NewMultiTokenRegistry(regAddr, admin, memorydb.New())
	require.NoError(t, err)
	require.NoError(t, r.GrantMinterRole(admin, minter))
	return r
}

func TestMultiTokenRegistry_MintBatch(t *testing.T) {
	r := newMultiTokenRegistry(t)
	ids := []*uint256.Int{uint256.NewInt(0), uint256.NewInt(1)}

	err := r.MintBatch(alice, "uri", alice, ids, []uint64{1, 5})
	require.ErrorIs(t, err, ErrNotMinter)
	err = r.MintBatch(minter, "uri", alice, ids, []uint64{1})
	require.ErrorContains(t, err, "length mismatch")

	require.NoError(t, r.MintBatch(minter, "uri", alice, ids, []uint64{1, 5}))
	balance, err := r.BalanceOf(alice, ids[0])
	require.NoError(t, err)
	require.EqualValues(t, 1, balance)
	balance, err = r.BalanceOf(alice, ids[1])
	require.NoError(t, err)
	require.EqualValues(t, 5, balance)
	uri, err := r.URI(ids[1])
	require.NoError(t, err)
	require.Equal(t, "uri", uri)

	// minting the same id again adds units
	require.NoError(t, r.MintBatch(minter, "uri", alice, ids[:1], []uint64{2}))
	balance, err = r.BalanceOf(alice, ids[0])
	require.NoError(t, err)
	require.EqualValues(t, 3, balance)
}

func TestMultiTokenRegistry_MintBatchDuplicateIDs(t *testing.T) {
	r := newMultiTokenRegistry(t)
	id := uint256.NewInt(7)

	// amounts of a repeated id within one batch must add up
	require.NoError(t, r.MintBatch(minter, "uri", alice, []*uint256.Int{id, id}, []uint64{1, 2}))
	balance, err := r.BalanceOf(alice, id)
	require.NoError(t, err)
	require.EqualValues(t, 3, balance)
}

func TestMultiTokenRegistry_TransferFrom(t *testing.T) {
	r := newMultiTokenRegistry(t)
	id := uint256.NewInt(0)
	require.NoError(t, r.MintBatch(minter, "uri", alice, []*uint256.Int{id}, []uint64{2}))

	require.ErrorIs(t, r.TransferFrom(operator, alice, bob, id), ErrNotApproved)
	require.ErrorIs(t, r.TransferFrom(bob, bob, alice, id), ErrInsufficientBalance)

	// the holder moves a unit directly
	require.NoError(t, r.TransferFrom(alice, alice, bob, id))

	// an approved operator moves the second unit
	require.NoError(t, r.SetApprovalForAll(alice, operator, true))
	require.NoError(t, r.TransferFrom(operator, alice, bob, id))
	require.ErrorIs(t, r.TransferFrom(operator, alice, bob, id), ErrInsufficientBalance)

	balance, err := r.BalanceOf(bob, id)
	require.NoError(t, err)
	require.EqualValues(t, 2, balance)

	_, err = r.URI(uint256.NewInt(9))
	require.ErrorIs(t, err, ErrNoSuchToken)
}
