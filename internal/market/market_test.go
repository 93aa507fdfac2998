package market

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb/memorydb"
	"github.com/nftbazaar-org/nftbazaar/internal/tokens"
)

var (
	admin  = common.HexToAddress("0x00000000000000000000000000000000000000AD")
	owner  = common.HexToAddress("0x0000000000000000000000000000000000000001")
	other  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	third  = common.HexToAddress("0x0000000000000000000000000000000000000003")
	nftReg = common.HexToAddress("0x0000000000000000000000000000000000000721")
	mtReg  = common.HexToAddress("0x0000000000000000000000000000000000001155")
	payReg = common.HexToAddress("0x0000000000000000000000000000000000000020")
)

const initialFunds = 20000

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testBazaar struct {
	*Bazaar
	nftRegistry *tokens.NFTRegistry
	mtRegistry  *tokens.MultiTokenRegistry
	ledger      *tokens.Ledger
	clock       *testClock
	// backing stores, kept so tests can simulate storage failures
	mtDB     *memorydb.MemoryDB
	ledgerDB *memorydb.MemoryDB
}

func newTestBazaar(t *testing.T) *testBazaar {
	t.Helper()

	nft, err := tokens.NewNFTRegistry(nftReg, admin, memorydb.New())
	require.NoError(t, err)
	mtDB := memorydb.New()
	mt, err := tokens.NewMultiTokenRegistry(mtReg, admin, mtDB)
	require.NoError(t, err)
	ledgerDB := memorydb.New()
	ledger, err := tokens.NewLedger(payReg, admin, ledgerDB)
	require.NoError(t, err)

	clock := &testClock{now: time.Unix(1700000000, 0)}
	bazaar, err := New(admin, nft, mt, ledger, WithClock(clock.Now))
	require.NoError(t, err)

	require.NoError(t, nft.GrantMinterRole(admin, bazaar.Address()))
	require.NoError(t, mt.GrantMinterRole(admin, bazaar.Address()))
	require.NoError(t, ledger.Mint(admin, owner, initialFunds))
	require.NoError(t, ledger.Mint(admin, other, initialFunds))
	require.NoError(t, ledger.Mint(admin, third, initialFunds))

	return &testBazaar{
		Bazaar:      bazaar,
		nftRegistry: nft,
		mtRegistry:  mt,
		ledger:      ledger,
		clock:       clock,
		mtDB:        mtDB,
		ledgerDB:    ledgerDB,
	}
}

// mintAndListSingle mints a single-unit token to owner, approves the engine
// and lists it at the given price.
func (tb *testBazaar) mintAndListSingle(t *testing.T, price uint64) (uint64, *uint256.Int) {
	t.Helper()

	itemID, err := tb.CreateSingleItem("newuri", owner)
	require.NoError(t, err)
	item, err := tb.GetItem(itemID)
	require.NoError(t, err)
	tokenID := item.Token()

	require.NoError(t, tb.nftRegistry.Approve(owner, tb.Address(), tokenID))
	saleID, err := tb.ListItem(owner, nftReg, tokenID, price)
	require.NoError(t, err)
	return saleID, tokenID
}

// mintAndListBatch mints one unit of multi-token id 0 to owner, approves the
// engine and lists it at the given price.
func (tb *testBazaar) mintAndListBatch(t *testing.T, price uint64) (uint64, *uint256.Int) {
	t.Helper()

	tokenID := uint256.NewInt(0)
	_, err := tb.CreateBatchItem("newuri", owner, []*uint256.Int{tokenID}, []uint64{1})
	require.NoError(t, err)
	require.NoError(t, tb.mtRegistry.SetApprovalForAll(owner, tb.Address(), true))
	saleID, err := tb.ListItem(owner, mtReg, tokenID, price)
	require.NoError(t, err)
	return saleID, tokenID
}

// mintAndAuctionBatch mints one unit of multi-token id 0 to owner, approves
// the engine and opens an auction with the given minimum price.
func (tb *testBazaar) mintAndAuctionBatch(t *testing.T, minPrice uint64) (uint64, *uint256.Int) {
	t.Helper()

	tokenID := uint256.NewInt(0)
	_, err := tb.CreateBatchItem("newuri", owner, []*uint256.Int{tokenID}, []uint64{1})
	require.NoError(t, err)
	require.NoError(t, tb.mtRegistry.SetApprovalForAll(owner, tb.Address(), true))
	auctionID, err := tb.ListItemOnAuction(owner, mtReg, tokenID, minPrice)
	require.NoError(t, err)
	return auctionID, tokenID
}

func (tb *testBazaar) approveAndBid(t *testing.T, bidder common.Address, auctionID, price uint64) {
	t.Helper()

	require.NoError(t, tb.ledger.Approve(bidder, tb.Address(), price))
	require.NoError(t, tb.MakeBid(bidder, auctionID, price))
}

func TestNew_NotOk(t *testing.T) {
	nft, err := tokens.NewNFTRegistry(nftReg, admin, memorydb.New())
	require.NoError(t, err)
	mt, err := tokens.NewMultiTokenRegistry(mtReg, admin, memorydb.New())
	require.NoError(t, err)
	ledger, err := tokens.NewLedger(payReg, admin, memorydb.New())
	require.NoError(t, err)

	_, err = New(admin, nil, mt, ledger)
	require.ErrorContains(t, err, "single-unit asset registry is nil")
	_, err = New(admin, nft, nil, ledger)
	require.ErrorContains(t, err, "multi-unit asset registry is nil")
	_, err = New(admin, nft, mt, nil)
	require.ErrorContains(t, err, "payment ledger is nil")
}

func TestBatchLimit_SurvivesRestart(t *testing.T) {
	db := memorydb.New()
	nft, err := tokens.NewNFTRegistry(nftReg, admin, memorydb.New())
	require.NoError(t, err)
	mt, err := tokens.NewMultiTokenRegistry(mtReg, admin, memorydb.New())
	require.NoError(t, err)
	ledger, err := tokens.NewLedger(payReg, admin, memorydb.New())
	require.NoError(t, err)

	bazaar, err := New(admin, nft, mt, ledger, WithStorage(db))
	require.NoError(t, err)
	require.NoError(t, bazaar.SetBatchLimit(admin, 7))

	// a new engine on the same storage keeps the stored limit, the
	// configured default does not overwrite it
	bazaar, err = New(admin, nft, mt, ledger, WithStorage(db))
	require.NoError(t, err)
	limit, err := bazaar.BatchLimit()
	require.NoError(t, err)
	require.EqualValues(t, 7, limit)
}
