// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// TypeParser maps a one byte type identifier to the decoder for that type.
type TypeParser[T any] struct {
	typeToIndex    map[string]uint8
	indexToDecoder map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		typeToIndex:    map[string]uint8{},
		indexToDecoder: map[uint8]func(*Packer) (T, error){},
	}
}

// Register adds [f] as the decoder of [o] under [typeID].
func (p *TypeParser[T]) Register(o T, typeID uint8, f func(*Packer) (T, error)) error {
	k := fmt.Sprintf("%T", o)
	if _, ok := p.typeToIndex[k]; ok {
		return ErrDuplicateItem
	}
	if _, ok := p.indexToDecoder[typeID]; ok {
		return ErrDuplicateItem
	}
	p.typeToIndex[k] = typeID
	p.indexToDecoder[typeID] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}
