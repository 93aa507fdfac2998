package tokens

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb/memorydb"
	test "github.com/nftbazaar-org/nftbazaar/internal/testutils"
)

var (
	regAddr  = common.HexToAddress("0x0000000000000000000000000000000000000721")
	admin    = common.HexToAddress("0x00000000000000000000000000000000000000AD")
	minter   = common.HexToAddress("0x00000000000000000000000000000000000000F1")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000002")
	operator = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func newNFTRegistry(t *testing.T) *NFTRegistry {
	t.Helper()
	r, err := NewNFTRegistry(regAddr, admin, memorydb.New())
	require.NoError(t, err)
	require.NoError(t, r.GrantMinterRole(admin, minter))
	return r
}

func TestNFTRegistry_Mint(t *testing.T) {
	r := newNFTRegistry(t)

	id, err := r.Mint(minter, test.RandomString(32), alice)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(0), id)

	// ids are sequential
	minted := test.RandomString(32)
	id, err = r.Mint(minter, minted, alice)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(1), id)

	owner, err := r.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, alice, owner)
	uri, err := r.TokenURI(id)
	require.NoError(t, err)
	require.Equal(t, minted, uri)
	balance, err := r.BalanceOf(alice)
	require.NoError(t, err)
	require.EqualValues(t, 2, balance)
}

func TestNFTRegistry_MintRoleGated(t *testing.T) {
	r := newNFTRegistry(t)

	_, err := r.Mint(alice, "uri", alice)
	require.ErrorIs(t, err, ErrNotMinter)

	// the admin address holds no implicit minter role
	_, err = r.Mint(admin, "uri", alice)
	require.ErrorIs(t, err, ErrNotMinter)

	require.NoError(t, r.RevokeMinterRole(admin, minter))
	_, err = r.Mint(minter, "uri", alice)
	require.ErrorIs(t, err, ErrNotMinter)

	require.ErrorIs(t, r.GrantMinterRole(alice, alice), ErrNotAdmin)
}

func TestNFTRegistry_UnknownToken(t *testing.T) {
	r := newNFTRegistry(t)

	_, err := r.OwnerOf(uint256.NewInt(42))
	require.ErrorIs(t, err, ErrNoSuchToken)
	_, err = r.TokenURI(uint256.NewInt(42))
	require.ErrorIs(t, err, ErrNoSuchToken)
	err = r.TransferFrom(alice, alice, bob, uint256.NewInt(42))
	require.ErrorIs(t, err, ErrNoSuchToken)
}

func TestNFTRegistry_TransferByOwner(t *testing.T) {
	r := newNFTRegistry(t)
	id, err := r.Mint(minter, "uri", alice)
	require.NoError(t, err)

	require.ErrorIs(t, r.TransferFrom(bob, bob, alice, id), ErrNotOwner)
	require.NoError(t, r.TransferFrom(alice, alice, bob, id))

	owner, err := r.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, bob, owner)
	balance, err := r.BalanceOf(alice)
	require.NoError(t, err)
	require.EqualValues(t, 0, balance)
	balance, err = r.BalanceOf(bob)
	require.NoError(t, err)
	require.EqualValues(t, 1, balance)
}

func TestNFTRegistry_ApprovalConsumed(t *testing.T) {
	r := newNFTRegistry(t)
	id, err := r.Mint(minter, "uri", alice)
	require.NoError(t, err)

	require.ErrorIs(t, r.TransferFrom(operator, alice, bob, id), ErrNotApproved)
	require.ErrorIs(t, r.Approve(bob, operator, id), ErrNotOwner)
	require.NoError(t, r.Approve(alice, operator, id))
	require.NoError(t, r.TransferFrom(operator, alice, bob, id))

	// the per-token approval does not carry over to the new owner
	require.ErrorIs(t, r.TransferFrom(operator, bob, alice, id), ErrNotApproved)
}

func TestNFTRegistry_OperatorApproval(t *testing.T) {
	r := newNFTRegistry(t)
	first, err := r.Mint(minter, "uri", alice)
	require.NoError(t, err)
	second, err := r.Mint(minter, "uri", alice)
	require.NoError(t, err)

	require.NoError(t, r.SetApprovalForAll(alice, operator, true))
	require.NoError(t, r.TransferFrom(operator, alice, bob, first))
	require.NoError(t, r.TransferFrom(operator, alice, bob, second))

	require.NoError(t, r.SetApprovalForAll(bob, operator, true))
	require.NoError(t, r.SetApprovalForAll(bob, operator, false))
	require.ErrorIs(t, r.TransferFrom(operator, bob, alice, first), ErrNotApproved)
}
