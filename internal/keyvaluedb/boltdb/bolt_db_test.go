package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
)

type record struct {
	_      struct{} `cbor:",toarray"`
	ID     uint64
	Price  uint64
	Active bool
}

func initBoltDB(t *testing.T) *BoltDB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestBoltDB_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no", "such", "dir", "test.db"))
	require.Error(t, err)
}

func TestBoltDB_WriteReadDelete(t *testing.T) {
	db := initBoltDB(t)
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
	require.NoError(t, db.Delete([]byte("sale/1")))
}

func TestBoltDB_InvalidWriteAndRead(t *testing.T) {
	db := initBoltDB(t)
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

func TestBoltDB_ValueSurvivesReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")
	db, err := New(file)
	require.NoError(t, err)
	require.NoError(t, db.Write([]byte("limit"), uint64(7)))
	require.NoError(t, db.Close())

	db, err = New(file)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	var limit uint64
	found, err := db.Read([]byte("limit"), &limit)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 7, limit)
}

func TestBoltDB_TxCommitAndRollback(t *testing.T) {
	db := initBoltDB(t)
	require.NoError(t, db.Write([]byte("a"), uint64(1)))

	tx, err := db.StartTx()
	require.NoError(t, err)
	require.NoError(t, tx.Write([]byte("a"), uint64(10)))
	require.NoError(t, tx.Write([]byte("b"), uint64(2)))
	require.NoError(t, tx.Rollback())

	var value uint64
	found, err := db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, value)
	found, err = db.Read([]byte("b"), &value)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, keyvaluedb.Update(db,
		keyvaluedb.WriteOp([]byte("a"), uint64(10)),
		keyvaluedb.WriteOp([]byte("b"), uint64(2)),
		keyvaluedb.DeleteOp([]byte("b")),
	))
	found, err = db.Read([]byte("a"), &value)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 10, value)
	found, err = db.Read([]byte("b"), &value)
	require.NoError(t, err)
	require.False(t, found)
}
