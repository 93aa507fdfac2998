package tokens

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftbazaar-org/nftbazaar/internal/keyvaluedb"
)

// Ledger is the fungible payment token. Transfers on behalf of another
// account are gated by a prior allowance and consume it.
type Ledger struct {
	addr  common.Address
	admin common.Address
	db    keyvaluedb.KeyValueDB
}

func allowanceKey(owner, spender common.Address) []byte {
	key := append([]byte("allowance/"), owner.Bytes()...)
	return append(key, spender.Bytes()...)
}

var totalSupplyKey = []byte("meta/total-supply")

// NewLedger creates a payment ledger identified by addr and administered by
// admin. All balances and allowances live in db.
func NewLedger(addr, admin common.Address, db keyvaluedb.KeyValueDB) (*Ledger, error) {
	if db == nil {
		return nil, fmt.Errorf("ledger storage is nil")
	}
	return &Ledger{addr: addr, admin: admin, db: db}, nil
}

// Address returns the ledger identity.
func (l *Ledger) Address() common.Address {
	return l.addr
}

// Mint issues new payment units to the recipient. Admin only.
func (l *Ledger) Mint(caller, to common.Address, amount uint64) error {
	if caller != l.admin {
		return ErrNotAdmin
	}
	var balance, supply uint64
	if _, err := l.db.Read(balanceKey(to), &balance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if _, err := l.db.Read(totalSupplyKey, &supply); err != nil {
		return fmt.Errorf("failed to read total supply: %w", err)
	}
	return keyvaluedb.Update(l.db,
		keyvaluedb.WriteOp(balanceKey(to), balance+amount),
		keyvaluedb.WriteOp(totalSupplyKey, supply+amount),
	)
}

// BalanceOf returns the payment unit balance of addr.
func (l *Ledger) BalanceOf(addr common.Address) (uint64, error) {
	var balance uint64
	if _, err := l.db.Read(balanceKey(addr), &balance); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// TotalSupply returns the number of payment units ever minted.
func (l *Ledger) TotalSupply() (uint64, error) {
	var supply uint64
	if _, err := l.db.Read(totalSupplyKey, &supply); err != nil {
		return 0, fmt.Errorf("failed to read total supply: %w", err)
	}
	return supply, nil
}

// Approve lets spender move up to amount units on the caller's behalf.
// Overwrites any previous allowance.
func (l *Ledger) Approve(caller, spender common.Address, amount uint64) error {
	return l.db.Write(allowanceKey(caller, spender), amount)
}

// Allowance returns how much spender may still move on the owner's behalf.
func (l *Ledger) Allowance(owner, spender common.Address) (uint64, error) {
	var amount uint64
	if _, err := l.db.Read(allowanceKey(owner, spender), &amount); err != nil {
		return 0, fmt.Errorf("failed to read allowance: %w", err)
	}
	return amount, nil
}

// Transfer moves amount units from the caller to the recipient.
func (l *Ledger) Transfer(caller, to common.Address, amount uint64) error {
	return l.move(caller, to, amount, nil)
}

// TransferFrom moves amount units from the owner to the recipient on behalf
// of the spender. Fails atomically when the allowance or the balance does
// not cover the amount; consumes the allowance on success.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount uint64) error {
	if spender == from {
		return l.move(from, to, amount, nil)
	}
	var allowance uint64
	if _, err := l.db.Read(allowanceKey(from, spender), &allowance); err != nil {
		return fmt.Errorf("failed to read allowance: %w", err)
	}
	if allowance < amount {
		return ErrInsufficientAllowance
	}
	remaining := allowance - amount
	return l.move(from, to, amount, keyvaluedb.WriteOp(allowanceKey(from, spender), remaining))
}

func (l *Ledger) move(from, to common.Address, amount uint64, extra keyvaluedb.Op) error {
	var fromBalance, toBalance uint64
	if _, err := l.db.Read(balanceKey(from), &fromBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	if _, err := l.db.Read(balanceKey(to), &toBalance); err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	ops := []keyvaluedb.Op{
		keyvaluedb.WriteOp(balanceKey(from), fromBalance-amount),
		keyvaluedb.WriteOp(balanceKey(to), toBalance+amount),
	}
	if extra != nil {
		ops = append(ops, extra)
	}
	if err := keyvaluedb.Update(l.db, ops...); err != nil {
		return err
	}
	log.Debug("moved %d payment units from %s to %s", amount, from, to)
	return nil
}
