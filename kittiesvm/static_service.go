// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	stdjson "encoding/json"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/go-playground/validator/v10"
)

// StaticService defines the base service for the kitties vm. It needs no
// running chain.
type StaticService struct {
	validate *validator.Validate
}

// CreateStaticService ...
func CreateStaticService() *StaticService {
	return &StaticService{validate: validator.New()}
}

// BuildGenesisArgs are arguments for BuildGenesis
type BuildGenesisArgs struct {
	Genesis  Genesis             `json:"genesis"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildGenesisReply is the reply from BuildGenesis
type BuildGenesisReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildGenesis checks [args.Genesis] and returns the bytes to start a chain
// with
func (ss *StaticService) BuildGenesis(_ *http.Request, args *BuildGenesisArgs, reply *BuildGenesisReply) error {
	if err := ss.validate.Struct(&args.Genesis); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	genesisBytes, err := stdjson.Marshal(&args.Genesis)
	if err != nil {
		return fmt.Errorf("couldn't marshal genesis: %w", err)
	}
	bytes, err := formatting.Encode(args.Encoding, genesisBytes)
	if err != nil {
		return fmt.Errorf("couldn't encode genesis as string: %s", err)
	}
	reply.Bytes = bytes
	reply.Encoding = args.Encoding
	return nil
}

// DecoderArgs are arguments for Decode
type DecoderArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecoderReply is the reply from Decoder
type DecoderReply struct {
	Genesis  Genesis             `json:"genesis"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecodeGenesis parses genesis bytes produced by BuildGenesis
func (ss *StaticService) DecodeGenesis(_ *http.Request, args *DecoderArgs, reply *DecoderReply) error {
	bytes, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode genesis bytes: %s", err)
	}
	genesis, err := ParseGenesis(bytes)
	if err != nil {
		return err
	}
	reply.Genesis = *genesis
	reply.Encoding = args.Encoding
	return nil
}
