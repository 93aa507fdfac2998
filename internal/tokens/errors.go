package tokens

import "errors"

var (
	ErrNotAdmin              = errors.New("caller is not the registry admin")
	ErrNotMinter             = errors.New("caller does not have the minter role")
	ErrNoSuchToken           = errors.New("no such token")
	ErrNotOwner              = errors.New("sender is not the token owner")
	ErrNotApproved           = errors.New("operator is not approved")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)
