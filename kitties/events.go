// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import "github.com/ava-labs/avalanchego/ids"

const (
	KittyCreated       = "KittyCreated"
	KittyBred          = "KittyBred"
	KittyTransferred   = "KittyTransferred"
	KittyListed        = "KittyListed"
	KittyBid           = "KittyBid"
	KittySold          = "KittySold"
	ListingExpired     = "ListingExpired"
	ListingCancelled   = "ListingCancelled"
	SettlementDeferred = "SettlementDeferred"
)

// Event is a notification about a state change of a kitty.
// Fields that don't apply to [Type] are left zero.
type Event struct {
	Type         string      `serialize:"true" json:"type"`
	KittyID      uint32      `serialize:"true" json:"kittyID"`
	Account      ids.ShortID `serialize:"true" json:"account"`
	Counterparty ids.ShortID `serialize:"true" json:"counterparty"`
	Amount       uint64      `serialize:"true" json:"amount"`
	Target       uint64      `serialize:"true" json:"target"`
	Block        uint64      `serialize:"true" json:"block"`
	DNA          DNA         `serialize:"true" json:"dna"`
	Parents      [2]uint32   `serialize:"true" json:"parents"`
	Reason       string      `serialize:"true" json:"reason"`
}

// EventSink receives the events emitted by the engine
type EventSink interface {
	Emit(Event)
}

// EventLog is an EventSink that keeps events in emission order
type EventLog struct {
	events []Event
}

func (l *EventLog) Emit(e Event) { l.events = append(l.events, e) }

// Events returns every event emitted so far
func (l *EventLog) Events() []Event { return l.events }

// Reset drops the collected events
func (l *EventLog) Reset() { l.events = nil }

type noopSink struct{}

func (noopSink) Emit(Event) {}
