// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package authtest

import (
	"context"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

var _ chain.Auth = (*MockAuth)(nil)

// MockAuth is an auth that accepts every message unless [VerifyError] is set.
type MockAuth struct {
	ActorAddr   codec.Address
	VerifyError error
}

func (m *MockAuth) Actor() codec.Address {
	return m.ActorAddr
}

func (*MockAuth) GetTypeID() uint8 {
	return consts.MaxUint8
}

func (m *MockAuth) Marshal(p *codec.Packer) {
	p.PackAddress(m.ActorAddr)
}

func (*MockAuth) Size() int {
	return codec.AddressLen
}

func (m *MockAuth) Verify(context.Context, []byte) error {
	return m.VerifyError
}

// MockFactory signs with [MockAuth] for [Addr].
type MockFactory struct {
	Addr codec.Address
}

func (m *MockFactory) Sign([]byte) (chain.Auth, error) {
	return &MockAuth{ActorAddr: m.Addr}, nil
}

func (m *MockFactory) Address() codec.Address {
	return m.Addr
}
