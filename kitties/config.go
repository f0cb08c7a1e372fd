// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/json"
	"fmt"
)

// BreedPolicy decides which parents a breeder has to own
type BreedPolicy uint8

const (
	// BreedRequireOne lets the owner of either parent breed. The owner of the
	// other parent is paid the breed fee.
	BreedRequireOne BreedPolicy = iota
	// BreedRequireBoth only lets the owner of both parents breed
	BreedRequireBoth
)

var breedPolicyNames = map[BreedPolicy]string{
	BreedRequireOne:  "requireOne",
	BreedRequireBoth: "requireBoth",
}

func (p BreedPolicy) String() string {
	if name, ok := breedPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("BreedPolicy(%d)", uint8(p))
}

func (p BreedPolicy) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *BreedPolicy) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for policy, name := range breedPolicyNames {
		if name == s {
			*p = policy
			return nil
		}
	}
	return fmt.Errorf("unknown breed policy %q", s)
}

// TransferPolicy decides what a direct transfer does to a listed kitty
type TransferPolicy uint8

const (
	// TransferRejectListed refuses to transfer listed kitties
	TransferRejectListed TransferPolicy = iota
	// TransferCancelListing cancels the listing, refunds the best bidder and
	// then transfers
	TransferCancelListing
)

var transferPolicyNames = map[TransferPolicy]string{
	TransferRejectListed:  "rejectListed",
	TransferCancelListing: "cancelListing",
}

func (p TransferPolicy) String() string {
	if name, ok := transferPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TransferPolicy(%d)", uint8(p))
}

func (p TransferPolicy) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *TransferPolicy) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for policy, name := range transferPolicyNames {
		if name == s {
			*p = policy
			return nil
		}
	}
	return fmt.Errorf("unknown transfer policy %q", s)
}

// Config holds the policy points of the engine
type Config struct {
	// KittyDeposit is reserved from the owner of every kitty while they own
	// it. Zero disables deposits.
	KittyDeposit uint64 `json:"kittyDeposit"`
	// BreedFee is paid to the owner of the parent the breeder doesn't own
	BreedFee           uint64         `json:"breedFee"`
	BreedPolicy        BreedPolicy    `json:"breedPolicy"`
	TransferPolicy     TransferPolicy `json:"transferPolicy"`
	TraitCompatibility bool           `json:"traitCompatibility"`
}

func DefaultConfig() Config {
	return Config{
		BreedPolicy:        BreedRequireOne,
		TransferPolicy:     TransferRejectListed,
		TraitCompatibility: true,
	}
}
