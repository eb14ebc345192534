// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"

	"github.com/dumbly-labs/taxvm/consts"
)

var jsonContentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewHandler exposes the exported methods of [service] as JSON-RPC methods
// named "[name].method". Request bodies larger than
// [consts.NetworkSizeLimit] are refused before decoding.
func NewHandler(service any, name string) (http.Handler, error) {
	s := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range jsonContentTypes {
		s.RegisterCodec(codec, contentType)
	}
	if err := s.RegisterService(service, name); err != nil {
		return nil, err
	}
	return http.MaxBytesHandler(s, consts.NetworkSizeLimit), nil
}
