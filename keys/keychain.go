// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys resolves the signers of logical roles (admin, treasury,
// seller, ...) and persists their keys.
package keys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dumbly-labs/taxvm/auth"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/crypto/ed25519"
	"github.com/dumbly-labs/taxvm/utils"
)

const (
	RoleAdmin    = "admin"
	RoleTreasury = "treasury"
	RoleSeller   = "seller"
	RoleBuyer    = "buyer"
	RoleBurn     = "burn"
	RoleLP       = "lp"
	RoleRewards  = "rewards"

	keyExt        = ".pk"
	addressesFile = "addresses.json"
)

// Keychain maps roles to addresses and addresses to signers. A role may
// name an address without a key, like a burn sink.
type Keychain struct {
	mu      sync.RWMutex
	signers map[codec.Address]chain.AuthFactory
	roles   map[string]codec.Address
}

func New() *Keychain {
	return &Keychain{
		signers: map[codec.Address]chain.AuthFactory{},
		roles:   map[string]codec.Address{},
	}
}

// Add registers [f] and binds it to [role] if [role] is not empty.
func (k *Keychain) Add(role string, f chain.AuthFactory) codec.Address {
	k.mu.Lock()
	defer k.mu.Unlock()

	addr := f.Address()
	k.signers[addr] = f
	if len(role) > 0 {
		k.roles[role] = addr
	}
	return addr
}

// SetAddress binds [role] to [addr] without a key.
func (k *Keychain) SetAddress(role string, addr codec.Address) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.roles[role] = addr
}

func (k *Keychain) ResolveKey(addr codec.Address) (chain.AuthFactory, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	f, ok := k.signers[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, addr)
	}
	return f, nil
}

// Role returns the address bound to [name].
func (k *Keychain) Role(name string) (codec.Address, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	addr, ok := k.roles[name]
	if !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownRole, name)
	}
	return addr, nil
}

// Signer returns the key of the address bound to [role].
func (k *Keychain) Signer(role string) (chain.AuthFactory, error) {
	addr, err := k.Role(role)
	if err != nil {
		return nil, err
	}
	f, err := k.ResolveKey(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSigner, role)
	}
	return f, nil
}

// Roles returns the bound role names in sorted order.
func (k *Keychain) Roles() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	roles := maps.Keys(k.roles)
	slices.Sort(roles)
	return roles
}

// Generate creates a new ed25519 key for [role].
func (k *Keychain) Generate(role string) (*auth.ED25519Factory, error) {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	f := auth.NewED25519Factory(priv)
	k.Add(role, f)
	return f, nil
}

// Import adds the hex encoded ed25519 key [hexKey] for [role].
func (k *Keychain) Import(role string, hexKey string) (*auth.ED25519Factory, error) {
	priv, err := ed25519.HexToKey(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, err
	}
	f := auth.NewED25519Factory(priv)
	k.Add(role, f)
	return f, nil
}

// Load reads every "<role>.pk" key file and the optional role address book
// from [dir].
func Load(dir string) (*Keychain, error) {
	k := New()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return k, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != keyExt {
			continue
		}
		priv, err := ed25519.LoadKey(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("could not load %s: %w", name, err)
		}
		k.Add(strings.TrimSuffix(name, keyExt), auth.NewED25519Factory(priv))
	}

	b, err := utils.LoadBytes(filepath.Join(dir, addressesFile), -1)
	switch {
	case os.IsNotExist(err):
		return k, nil
	case err != nil:
		return nil, err
	}
	var book map[string]string
	if err := json.Unmarshal(b, &book); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", addressesFile, err)
	}
	for role, saddr := range book {
		if _, err := k.Role(role); err == nil {
			continue
		}
		addr, err := codec.ParseAddressBech32(consts.HRP, saddr)
		if err != nil {
			return nil, fmt.Errorf("%w: role %s", err, role)
		}
		k.SetAddress(role, addr)
	}
	return k, nil
}

// Save writes the ed25519 keys and keyless role addresses of k to [dir].
func (k *Keychain) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()

	book := map[string]string{}
	for role, addr := range k.roles {
		f, ok := k.signers[addr].(*auth.ED25519Factory)
		if !ok {
			book[role] = codec.MustAddressBech32(consts.HRP, addr)
			continue
		}
		if err := f.PrivateKey().Save(filepath.Join(dir, role+keyExt)); err != nil {
			return err
		}
	}
	if len(book) == 0 {
		return nil
	}
	b, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}
	return utils.SaveBytes(filepath.Join(dir, addressesFile), b)
}
