package memorydb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
)

type record struct {
	ID     uint64
	Price  uint64
	Active bool
}

func TestMemDB_Empty(t *testing.T) {
	db := New()
	require.NotNil(t, db)
	require.True(t, db.Empty())
	require.NoError(t, db.Write([]byte("foo"), "test"))
	require.False(t, db.Empty())
}

func TestMemDB_WriteReadDelete(t *testing.T) {
	db := New()
	sale := &record{ID: 1, Price: 100, Active: true}
	var back record
	found, err := db.Read([]byte("sale/1"), &back)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, db.Write([]byte("sale/1"), sale))
	found, err = db.Read([]byte("sale/1"), &back)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, sale, &back)
	require.NoError(t, db.Delete([]byte("sale/1")))
	found, err = db.Read([]byte("sale/1"), &back)
	require.NoError(t, err)
	require.False(t, found)
	// deleting an absent key is not an error
	require.NoError(t, db.Delete([]byte("sale/1")))
}

func TestMemDB_InvalidWriteAndRead(t *testing.T) {
	db := New()
	var sale *record = nil
	require.Error(t, db.Write([]byte("sale/1"), sale))
	require.Error(t, db.Write(nil, uint64(1)))
	require.Error(t, db.Write([]byte(""), uint64(1)))
	found, err := db.Read(nil, &record{})
	require.Error(t, err)
	require.False(t, found)
	// nil value works as a presence check
	found, err = db.Read([]byte("sale/1"), nil)
	require.NoError(t, err)
	require.False(t, found)
	require.Error(t, db.Delete(nil))
}

func TestMemDB_WriteFailsWhenFull(t *testing.T) {
	db := NewWithLimiter(1)
	require.NoError(t, db.Write([]byte("a"), uint64(1)))
	require.ErrorContains(t, db.Write([]byte("b"), uint64(2)), "disk is full")
	var value uint64
	found, err := db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, value)
}

func TestMemDB_TxCommit(t *testing.T) {
	db := New()
	tx, err := db.StartTx()
	require.NoError(t, err)
	require.NoError(t, tx.Write([]byte("a"), uint64(1)))
	require.NoError(t, tx.Write([]byte("b"), uint64(2)))

	// not visible before commit
	var value uint64
	found, err := db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, tx.Commit())
	found, err = db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.True(t, found)
	found, err = db.Read([]byte("b"), &value)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 2, value)

	// tx is closed after commit
	require.Error(t, tx.Write([]byte("c"), uint64(3)))
	require.Error(t, tx.Commit())
}

func TestMemDB_TxRollback(t *testing.T) {
	db := New()
	require.NoError(t, db.Write([]byte("a"), uint64(1)))
	tx, err := db.StartTx()
	require.NoError(t, err)
	require.NoError(t, tx.Write([]byte("a"), uint64(10)))
	require.NoError(t, tx.Delete([]byte("a")))
	require.NoError(t, tx.Rollback())

	var value uint64
	found, err := db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, value)
}

func TestMemDB_UpdateAllOrNothing(t *testing.T) {
	db := NewWithLimiter(2)
	require.NoError(t, db.Write([]byte("a"), uint64(1)))

	// the second write trips the limiter, the first must not stick
	err := keyvaluedb.Update(db,
		keyvaluedb.WriteOp([]byte("b"), uint64(2)),
		keyvaluedb.WriteOp([]byte("c"), uint64(3)),
	)
	require.ErrorContains(t, err, "disk is full")
	var value uint64
	found, err := db.Read([]byte("b"), &value)
	require.NoError(t, err)
	require.False(t, found)

	db.SetLimit(0)
	require.NoError(t, keyvaluedb.Update(db,
		keyvaluedb.WriteOp([]byte("b"), uint64(2)),
		keyvaluedb.DeleteOp([]byte("a")),
	))
	found, err = db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.False(t, found)
	found, err = db.Read([]byte("b"), &value)
	require.NoError(t, err)
	require.True(t, found)
}
