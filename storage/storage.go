// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/pebble"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/utils"
	"github.com/dumbly-labs/taxvm/validator"
)

// State
// 0x0/ (balance)
//   -> [owner|asset] => balance
// 0x1/ (assets)
//   -> [asset] => decimals|supply|creator|symbol
// 0x2/ (contract globals)
//   -> [contract|name] => value
// 0x3/ (next contract id)
// 0x4/ (height)
// 0x5/ (timestamp)
//
// Metadata
// 0x6/ (receipts)
//   -> [groupID] => receipt

const (
	balancePrefix  = 0x0
	assetPrefix    = 0x1
	contractPrefix = 0x2
	counterPrefix  = 0x3
	heightPrefix   = 0x4
	timePrefix     = 0x5
	receiptPrefix  = 0x6
)

// Names of the global state fields of a contract.
const (
	AdminField    = "Admin"
	TreasuryField = "Treasury"
)

var (
	counterKey = []byte{counterPrefix}
	heightKey  = []byte{heightPrefix}
	timeKey    = []byte{timePrefix}
)

// New opens the pebble database under [dataDir].
func New(cfg pebble.Config, dataDir string, registerer prometheus.Registerer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, ledgerDir)
	if err != nil {
		return nil, err
	}
	return pebble.New(path, cfg, registerer)
}

// [balancePrefix] + [address] + [asset]
func BalanceKey(addr codec.Address, asset uint64) (k []byte) {
	k = make([]byte, 1+codec.AddressLen+consts.Uint64Len)
	k[0] = balancePrefix
	copy(k[1:], addr[:])
	binary.BigEndian.PutUint64(k[1+codec.AddressLen:], asset)
	return
}

// GetBalance returns the balance of [addr] and whether it opted in to
// [asset].
func GetBalance(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
	asset uint64,
) (uint64, bool, error) {
	return innerGetBalance(im.GetValue(ctx, BalanceKey(addr, asset)))
}

func innerGetBalance(v []byte, err error) (uint64, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, fmt.Errorf("%w: balance of length %d", ErrCorrupt, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

// SetBalance writes a balance record. Zero balances are stored because
// the record marks the opt-in.
func SetBalance(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	asset uint64,
	balance uint64,
) error {
	return mu.Insert(ctx, BalanceKey(addr, asset), binary.BigEndian.AppendUint64(nil, balance))
}

// OptIn creates an empty balance record if none exists.
func OptIn(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	asset uint64,
) error {
	_, exists, err := GetBalance(ctx, mu, addr, asset)
	if err != nil || exists {
		return err
	}
	return SetBalance(ctx, mu, addr, asset, 0)
}

func AddBalance(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	asset uint64,
	amount uint64,
) error {
	bal, exists, err := GetBalance(ctx, mu, addr, asset)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: addr=%s asset=%d", ErrNotOptedIn, addr, asset)
	}
	nbal, err := smath.Add64(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not add balance (asset=%d, bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			asset,
			bal,
			addr,
			amount,
		)
	}
	return SetBalance(ctx, mu, addr, asset, nbal)
}

func SubBalance(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	asset uint64,
	amount uint64,
) error {
	bal, exists, err := GetBalance(ctx, mu, addr, asset)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: addr=%s asset=%d", ErrNotOptedIn, addr, asset)
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not subtract balance (asset=%d, bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			asset,
			bal,
			addr,
			amount,
		)
	}
	return SetBalance(ctx, mu, addr, asset, nbal)
}

// Asset is the immutable description of a fungible asset.
type Asset struct {
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
	Supply   uint64        `json:"supply"`
	Creator  codec.Address `json:"creator"`
}

// [assetPrefix] + [asset]
func AssetKey(asset uint64) (k []byte) {
	k = make([]byte, 1+consts.Uint64Len)
	k[0] = assetPrefix
	binary.BigEndian.PutUint64(k[1:], asset)
	return
}

func SetAsset(ctx context.Context, mu state.Mutable, id uint64, asset *Asset) error {
	p := codec.NewWriter(consts.Uint8Len+consts.Uint64Len+codec.AddressLen+codec.StringLen(asset.Symbol), consts.NetworkSizeLimit)
	p.PackByte(asset.Decimals)
	p.PackUint64(asset.Supply)
	p.PackAddress(asset.Creator)
	p.PackString(asset.Symbol)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, AssetKey(id), p.Bytes())
}

// GetAsset returns [ErrUnknownAsset] if [id] was never created.
func GetAsset(ctx context.Context, im state.Immutable, id uint64) (*Asset, error) {
	v, err := im.GetValue(ctx, AssetKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAsset, id)
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, len(v))
	var asset Asset
	asset.Decimals = p.UnpackByte()
	asset.Supply = p.UnpackUint64(false)
	// The creator is optional for genesis assets.
	var creator []byte
	p.UnpackFixedBytes(codec.AddressLen, &creator)
	copy(asset.Creator[:], creator)
	asset.Symbol = p.UnpackString(false)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: asset %d: %w", ErrCorrupt, id, err)
	}
	return &asset, nil
}

// [contractPrefix] + [contract] + [field]
func ContractKey(contract uint64, field string) (k []byte) {
	k = make([]byte, 1+consts.Uint64Len+len(field))
	k[0] = contractPrefix
	binary.BigEndian.PutUint64(k[1:], contract)
	copy(k[1+consts.Uint64Len:], field)
	return
}

// SetContract stores the global state of a new contract.
func SetContract(ctx context.Context, mu state.Mutable, contract uint64, cfg *validator.Config) error {
	if err := mu.Insert(ctx, ContractKey(contract, AdminField), cfg.Admin[:]); err != nil {
		return err
	}
	return mu.Insert(ctx, ContractKey(contract, TreasuryField), cfg.Treasury[:])
}

// GetContract loads the global state of [contract]. It returns nil if the
// contract was never created.
func GetContract(ctx context.Context, im state.Immutable, contract uint64) (*validator.Config, error) {
	admin, err := im.GetValue(ctx, ContractKey(contract, AdminField))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	treasury, err := im.GetValue(ctx, ContractKey(contract, TreasuryField))
	if err != nil {
		return nil, err
	}
	if len(admin) != codec.AddressLen || len(treasury) != codec.AddressLen {
		return nil, fmt.Errorf("%w: contract %d globals", ErrCorrupt, contract)
	}
	return &validator.Config{
		Admin:    codec.Address(admin),
		Treasury: codec.Address(treasury),
	}, nil
}

// NextContract allocates a contract id. Ids start at 1 because 0 is
// reserved for creation calls.
func NextContract(ctx context.Context, mu state.Mutable) (uint64, error) {
	last, err := getUint64(ctx, mu, counterKey)
	if err != nil {
		return 0, err
	}
	next := last + 1
	if next == chain.CreateContract {
		next++
	}
	return next, mu.Insert(ctx, counterKey, binary.BigEndian.AppendUint64(nil, next))
}

// HeightKey is written with the first tip, so its absence marks an empty
// database.
func HeightKey() []byte {
	return heightKey
}

func GetHeight(ctx context.Context, im state.Immutable) (uint64, error) {
	return getUint64(ctx, im, heightKey)
}

func GetTimestamp(ctx context.Context, im state.Immutable) (int64, error) {
	t, err := getUint64(ctx, im, timeKey)
	return int64(t), err
}

// SetTip records the height and time of the last accepted block.
func SetTip(ctx context.Context, mu state.Mutable, height uint64, timestamp int64) error {
	if err := mu.Insert(ctx, heightKey, binary.BigEndian.AppendUint64(nil, height)); err != nil {
		return err
	}
	return mu.Insert(ctx, timeKey, binary.BigEndian.AppendUint64(nil, uint64(timestamp)))
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, fmt.Errorf("%w: key %x", ErrCorrupt, k)
	}
	return binary.BigEndian.Uint64(v), nil
}

// [receiptPrefix] + [groupID]
func ReceiptKey(id ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = receiptPrefix
	copy(k[1:], id[:])
	return
}

func StoreReceipt(db database.KeyValueWriter, r *chain.Receipt) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	return db.Put(ReceiptKey(r.GroupID), b)
}

// GetReceipt returns nil if no receipt was stored for [id].
func GetReceipt(db database.KeyValueReader, id ids.ID) (*chain.Receipt, error) {
	v, err := db.Get(ReceiptKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chain.UnmarshalReceipt(v)
}
