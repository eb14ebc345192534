// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/utils"
)

var (
	ErrInputEmpty          = errors.New("input is empty")
	ErrInvalidChoice       = errors.New("invalid choice")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func Address(label string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := codec.ParseAddressBech32(consts.HRP, strings.TrimSpace(input))
			return err
		},
	}
	recipient, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddressBech32(consts.HRP, strings.TrimSpace(recipient))
}

// Amount reads a decimal amount with [decimals] places and returns it in
// base units. Values above [balance] are refused.
func Amount(label string, decimals uint8, balance uint64) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			input = strings.TrimSpace(input)
			if len(input) == 0 {
				return ErrInputEmpty
			}
			v, err := amount.Parse(input, decimals)
			if err != nil {
				return err
			}
			if v > balance {
				return ErrInsufficientBalance
			}
			return nil
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return amount.Parse(strings.TrimSpace(raw), decimals)
}

func Uint64(label string) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			input = strings.TrimSpace(input)
			if len(input) == 0 {
				return ErrInputEmpty
			}
			_, err := strconv.ParseUint(input, 10, 64)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

func Continue() (bool, error) {
	promptText := promptui.Prompt{
		Label: "continue (y/n)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			lower := strings.ToLower(input)
			if lower == "y" || lower == "n" {
				return nil
			}
			return ErrInvalidChoice
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	cont := strings.ToLower(rawContinue)
	if cont == "n" {
		utils.Outf("{{red}}exiting...{{/}}\n")
		return false, nil
	}
	return true, nil
}
