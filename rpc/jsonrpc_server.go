// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/server"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

// NewHandler serves [c] under [Name].
func NewHandler(c Controller) (http.Handler, error) {
	return server.NewHandler(NewJSONRPCServer(c), Name)
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	ChainID   ids.ID `json:"chainId"`
	HRP       string `json:"hrp"`
	Version   string `json:"version"`
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	reply.ChainID = j.c.ChainID()
	reply.HRP = consts.HRP
	reply.Version = consts.Version
	reply.Height, reply.Timestamp = j.c.Height()
	return nil
}

type SuggestedParamsReply struct {
	Params *builder.Params `json:"params"`
}

func (j *JSONRPCServer) SuggestedParams(
	req *http.Request,
	_ *struct{},
	reply *SuggestedParamsReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SuggestedParams")
	defer span.End()

	params, err := j.c.SuggestedParams(ctx)
	if err != nil {
		return err
	}
	reply.Params = params
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
	Asset   uint64        `json:"asset"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	bal, err := j.c.Balance(ctx, args.Address, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

type SubmitGroupArgs struct {
	Group []byte `json:"group"`
}

// SubmitGroupReply carries a rejection in [Code] and [Reason] rather than
// as a JSON-RPC error.
type SubmitGroupReply struct {
	GroupID ids.ID `json:"groupId"`
	Code    uint16 `json:"code"`
	Reason  string `json:"reason,omitempty"`
}

func (j *JSONRPCServer) SubmitGroup(
	req *http.Request,
	args *SubmitGroupArgs,
	reply *SubmitGroupReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SubmitGroup")
	defer span.End()

	sg, err := chain.ParseSignedGroup(args.Group, j.c.AuthRegistry())
	if err != nil {
		reply.Code = rejectionCode(err)
		reply.Reason = err.Error()
		return nil
	}
	reply.GroupID = sg.ID()
	if _, err := j.c.Submit(ctx, sg); err != nil {
		reply.Code = rejectionCode(err)
		reply.Reason = err.Error()
		j.c.Logger().Debug("rejected submission",
			zap.Stringer("groupID", sg.ID()),
			zap.Uint16("code", reply.Code),
			zap.Error(err),
		)
	}
	return nil
}

type GroupStatusArgs struct {
	GroupID ids.ID `json:"groupId"`
}

type GroupStatusReply struct {
	Receipt *chain.Receipt `json:"receipt"`
}

func (j *JSONRPCServer) GroupStatus(
	req *http.Request,
	args *GroupStatusArgs,
	reply *GroupStatusReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.GroupStatus")
	defer span.End()

	receipt, err := j.c.Status(ctx, args.GroupID)
	if err != nil {
		return err
	}
	reply.Receipt = receipt
	return nil
}

type ContractArgs struct {
	Contract uint64 `json:"contract"`
}

type ContractReply struct {
	Exists   bool          `json:"exists"`
	Admin    codec.Address `json:"admin"`
	Treasury codec.Address `json:"treasury"`
}

func (j *JSONRPCServer) Contract(req *http.Request, args *ContractArgs, reply *ContractReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Contract")
	defer span.End()

	cfg, err := j.c.Contract(ctx, args.Contract)
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	reply.Exists = true
	reply.Admin = cfg.Admin
	reply.Treasury = cfg.Treasury
	return nil
}
