// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import "errors"

var (
	ErrInvalidKittyID      = errors.New("invalid kitty id")
	ErrNotOwner            = errors.New("caller is not the kitty owner")
	ErrIDOverflow          = errors.New("kitty id space exhausted")
	ErrInsufficientStake   = errors.New("insufficient free balance to reserve kitty deposit")
	ErrInsufficientBalance = errors.New("insufficient free balance")
	ErrSameParent          = errors.New("cannot breed a kitty with itself")
	ErrIncompatibleParents = errors.New("parents share the same trait bit")
	ErrTransferToSelf      = errors.New("cannot transfer a kitty to its owner")
	ErrAlreadyOnSale       = errors.New("kitty is already on sale")
	ErrNotOnSale           = errors.New("kitty is not on sale")
	ErrSaleExpired         = errors.New("sale has reached its target block")
	ErrTargetBlockTooSmall = errors.New("target block must be after the current block")
	ErrPriceTooLow         = errors.New("bid does not exceed the current best offer")
	ErrBidderIsOwner       = errors.New("owner cannot bid on their own kitty")
	ErrUnknownVersion      = errors.New("unknown kitties storage version")
)
