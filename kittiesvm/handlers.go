// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kittiesvm

import (
	"net/http"

	"github.com/gorilla/rpc/v2"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

const (
	// ServiceName prefixes every JSON-RPC method, as in "kitties.mint"
	ServiceName = "kitties"
	// StaticServiceName prefixes the methods of the static API
	StaticServiceName = "kittiesvm"
)

// CreateHandlers returns a map where:
// Keys: The path extension for this VM's API (empty in this case)
// Values: The handler for the API
func (vm *VM) CreateHandlers() (map[string]http.Handler, error) {
	server := newServer()
	return map[string]http.Handler{
		"": server,
	}, server.RegisterService(NewService(vm), ServiceName)
}

// CreateStaticHandlers returns a map where:
// Keys: The path extension for this VM's static API
// Values: The handler for that static API
func (vm *VM) CreateStaticHandlers() (map[string]http.Handler, error) {
	server := newServer()
	return map[string]http.Handler{
		"": server,
	}, server.RegisterService(CreateStaticService(), StaticServiceName)
}

func newServer() *rpc.Server {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server
}
