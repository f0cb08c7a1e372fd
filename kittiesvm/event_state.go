// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittiesvm/kitties"
)

var _ EventState = (*eventState)(nil)

// EventRecord is an engine event together with the transaction that caused
// it. Events raised by settlement have an empty TxID.
type EventRecord struct {
	TxID  ids.ID        `serialize:"true" json:"txID"`
	Event kitties.Event `serialize:"true" json:"event"`
}

// EventState keeps the events of every block in emission order
type EventState interface {
	GetEvents(height uint64) ([]EventRecord, error)
	PutEvents(height uint64, records []EventRecord) error
}

type eventState struct {
	eventDB database.Database
}

func NewEventState(db database.Database) EventState {
	return &eventState{eventDB: db}
}

func (s *eventState) GetEvents(height uint64) ([]EventRecord, error) {
	it := s.eventDB.NewIteratorWithPrefix(heightKey(height))
	defer it.Release()

	var records []EventRecord
	for it.Next() {
		var record EventRecord
		if _, err := Codec.Unmarshal(it.Value(), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, it.Error()
}

func (s *eventState) PutEvents(height uint64, records []EventRecord) error {
	for i := range records {
		b, err := Codec.Marshal(CodecVersion, &records[i])
		if err != nil {
			return err
		}
		if err := s.eventDB.Put(eventKey(height, uint32(i)), b); err != nil {
			return err
		}
	}
	return nil
}
