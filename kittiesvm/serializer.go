package kittiesvm

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	heightKeySize = wrappers.LongLen
	eventKeySize  = heightKeySize + wrappers.IntLen
)

// heightKey sorts heights in ascending order
func heightKey(height uint64) []byte {
	raw := make([]byte, heightKeySize)
	binary.BigEndian.PutUint64(raw, height)
	return raw
}

func eventKey(height uint64, index uint32) []byte {
	raw := make([]byte, eventKeySize)
	work := raw

	binary.BigEndian.PutUint64(work, height)
	work = work[wrappers.LongLen:]
	binary.BigEndian.PutUint32(work, index)
	return raw
}
