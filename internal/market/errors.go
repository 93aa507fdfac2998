package market

import "errors"

var (
	ErrInvalidMetadata      = errors.New("undefined uri")
	ErrBatchLimitExceeded   = errors.New("limit per batch exceeded")
	ErrBatchMismatch        = errors.New("ids and amounts length mismatch")
	ErrUnrecognizedAsset    = errors.New("non marketplace token")
	ErrInvalidPrice         = errors.New("price must be greater than zero")
	ErrNotOnSale            = errors.New("token sold or sale canceled")
	ErrSelfTrade            = errors.New("cannot act as counterparty to own listing")
	ErrNotCancelable        = errors.New("sale canceled, sold or does not exist")
	ErrNotSeller            = errors.New("caller is not the seller")
	ErrNoSuchAuction        = errors.New("auction does not exist")
	ErrAuctionExpired       = errors.New("auction has ended")
	ErrBidTooLow            = errors.New("bid price too low")
	ErrAuctionNotYetEndable = errors.New("not time to finish the auction")
	ErrNotAdmin             = errors.New("caller is not the marketplace admin")
	ErrRecordNotFound       = errors.New("record not found")
)
