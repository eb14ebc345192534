// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/requester"
	"github.com/dumbly-labs/taxvm/settlement"
	"github.com/dumbly-labs/taxvm/validator"
)

var _ settlement.Ledger = (*JSONRPCClient)(nil)

// JSONRPCClient talks to a ledger node. Failures to reach the node wrap
// [settlement.ErrLedgerUnavailable]; rejections are rebuilt into the
// ledger's own errors.
type JSONRPCClient struct {
	requester *requester.EndpointRequester
	breaker   *gobreaker.CircuitBreaker
	params    singleflight.Group
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{
		requester: req,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    uri,
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
		}),
	}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args, reply interface{}) error {
	_, err := cli.breaker.Execute(func() (interface{}, error) {
		return nil, cli.requester.SendRequest(ctx, method, args, reply)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, requester.ErrRequestFailed),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", settlement.ErrLedgerUnavailable, err)
	default:
		return err
	}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Network(ctx context.Context) (*NetworkReply, error) {
	resp := new(NetworkReply)
	if err := cli.send(ctx, "network", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SuggestedParams shares one request among concurrent callers. The shared
// request outlives any single caller's cancellation.
func (cli *JSONRPCClient) SuggestedParams(ctx context.Context) (*builder.Params, error) {
	ch := cli.params.DoChan("params", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), paramsTimeout)
		defer cancel()

		resp := new(SuggestedParamsReply)
		if err := cli.send(ctx, "suggestedParams", nil, resp); err != nil {
			return nil, err
		}
		return resp.Params, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers may modify the result.
		p := *res.Val.(*builder.Params)
		return &p, nil
	}
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address, asset uint64) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &BalanceArgs{Address: addr, Asset: asset}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Submit(ctx context.Context, sg *chain.SignedGroup) (ids.ID, error) {
	resp := new(SubmitGroupReply)
	if err := cli.send(ctx, "submitGroup", &SubmitGroupArgs{Group: sg.Bytes()}, resp); err != nil {
		return ids.Empty, err
	}
	if resp.Code != CodeAccepted {
		return ids.Empty, rejectionError(resp.Code, resp.Reason)
	}
	return resp.GroupID, nil
}

func (cli *JSONRPCClient) Status(ctx context.Context, ref ids.ID) (*chain.Receipt, error) {
	resp := new(GroupStatusReply)
	if err := cli.send(ctx, "groupStatus", &GroupStatusArgs{GroupID: ref}, resp); err != nil {
		return nil, err
	}
	return resp.Receipt, nil
}

// Contract returns nil if [contract] was never created.
func (cli *JSONRPCClient) Contract(ctx context.Context, contract uint64) (*validator.Config, error) {
	resp := new(ContractReply)
	if err := cli.send(ctx, "contract", &ContractArgs{Contract: contract}, resp); err != nil {
		return nil, err
	}
	if !resp.Exists {
		return nil, nil
	}
	return &validator.Config{Admin: resp.Admin, Treasury: resp.Treasury}, nil
}
