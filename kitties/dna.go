// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kitties

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"golang.org/x/crypto/blake2b"
)

// deriveDNA hashes (seed, account, height, nonce) into a DNA.
// The result is replayable from the chain and must not be used where an
// adversary could profit from predicting it.
func deriveDNA(seed []byte, account ids.ShortID, height, nonce uint64) DNA {
	// New only fails on an invalid size or an oversized key
	h, err := blake2b.New(DNALen, nil)
	if err != nil {
		panic(err)
	}

	var buf [2 * wrappers.LongLen]byte
	binary.BigEndian.PutUint64(buf[:wrappers.LongLen], height)
	binary.BigEndian.PutUint64(buf[wrappers.LongLen:], nonce)

	_, _ = h.Write(seed)
	_, _ = h.Write(account[:])
	_, _ = h.Write(buf[:])

	var dna DNA
	copy(dna[:], h.Sum(nil))
	return dna
}

// mixDNA takes each bit from [a] where [selector] is set and from [b]
// where it is clear.
func mixDNA(a, b, selector DNA) DNA {
	var child DNA
	for i := range child {
		child[i] = (a[i] & selector[i]) | (b[i] &^ selector[i])
	}
	return child
}

// compatible reports whether two kitties may be bred together
func compatible(a, b DNA) bool {
	return a.Trait() != b.Trait()
}
