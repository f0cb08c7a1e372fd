// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/kittiesvm/kittiesvm"
)

// StaticClient talks to the chain independent API of a node
type StaticClient interface {
	// BuildGenesis checks [genesis] and returns it encoded with [encoding]
	BuildGenesis(ctx context.Context, genesis *kittiesvm.Genesis, encoding formatting.Encoding) (string, error)
	DecodeGenesis(ctx context.Context, bytes string, encoding formatting.Encoding) (*kittiesvm.Genesis, error)
}

// NewStatic creates a client of the static API at [uri], e.g.
// http://127.0.0.1:9650/ext/kittiesvm
func NewStatic(uri string) StaticClient {
	return &staticClient{req: rpc.NewEndpointRequester(uri)}
}

type staticClient struct {
	req rpc.EndpointRequester
}

func (cli *staticClient) BuildGenesis(ctx context.Context, genesis *kittiesvm.Genesis, encoding formatting.Encoding) (string, error) {
	resp := new(kittiesvm.BuildGenesisReply)
	err := cli.req.SendRequest(ctx,
		kittiesvm.StaticServiceName+".buildGenesis",
		&kittiesvm.BuildGenesisArgs{Genesis: *genesis, Encoding: encoding},
		resp,
	)
	return resp.Bytes, err
}

func (cli *staticClient) DecodeGenesis(ctx context.Context, bytes string, encoding formatting.Encoding) (*kittiesvm.Genesis, error) {
	resp := new(kittiesvm.DecoderReply)
	err := cli.req.SendRequest(ctx,
		kittiesvm.StaticServiceName+".decodeGenesis",
		&kittiesvm.DecoderArgs{Bytes: bytes, Encoding: encoding},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Genesis, nil
}
