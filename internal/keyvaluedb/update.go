package keyvaluedb

// Op is a single operation in a multi-key update.
type Op func(tx DBTransaction) error

func WriteOp(key []byte, value any) Op {
	return func(tx DBTransaction) error {
		return tx.Write(key, value)
	}
}

func DeleteOp(key []byte) Op {
	return func(tx DBTransaction) error {
		return tx.Delete(key)
	}
}

// Update runs the given operations in one transaction and commits. The
// first failing operation rolls the whole transaction back, so a multi-key
// update is always all or nothing.
func Update(db DBTx, ops ...Op) error {
	tx, err := db.StartTx()
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err = op(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
