package statediff

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseOption configures ParseSpec.
type ParseOption func(*parseOptions)

type parseOptions struct {
	defaultAccount *common.Address
}

// WithDefaultAccount sets the account implied by entries that omit the
// "account" field. Without this option, every entry must name its account
// explicitly; guessing a target from context is never done.
func WithDefaultAccount(addr common.Address) ParseOption {
	return func(o *parseOptions) {
		o.defaultAccount = &addr
	}
}

// specDocument mirrors the on-disk JSON shape with pointer fields, so that
// absent and zero-valued fields can be told apart during validation.
type specDocument struct {
	ChainID      *uint64        `json:"chainId"`
	StorageSpecs []entryDocument `json:"storageSpecs"`
}

type entryDocument struct {
	Account       *string `json:"account"`
	Slot          *string `json:"slot"`
	PreviousValue *string `json:"previousValue"`
	NewValue      *string `json:"newValue"`
}

// ParseSpecFile parses the state diff spec document at path.
func ParseSpecFile(path string, opts ...ParseOption) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to read state diff spec %s: %w", path, err)
	}

	return ParseSpec(data, opts...)
}

// ParseSpec parses a state diff spec document.
//
// The document requires an unsigned integer "chainId" and an ordered
// "storageSpecs" list. Each entry requires "slot" and "newValue" as 32-byte
// hex values; "previousValue" defaults to the zero value and "account" may be
// omitted only when WithDefaultAccount supplies the implied target.
func ParseSpec(data []byte, opts ...ParseOption) (Spec, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	var doc specDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Spec{}, &ParseError{Field: "document", Err: err}
	}

	if doc.ChainID == nil {
		return Spec{}, &ParseError{Field: "chainId", Err: errors.New("required field is missing")}
	}
	if doc.StorageSpecs == nil {
		return Spec{}, &ParseError{Field: "storageSpecs", Err: errors.New("required field is missing")}
	}

	spec := Spec{
		ChainID:      *doc.ChainID,
		StorageSpecs: make([]StorageDiff, 0, len(doc.StorageSpecs)),
	}

	for i, entry := range doc.StorageSpecs {
		parsed, err := parseEntry(i, entry, o.defaultAccount)
		if err != nil {
			return Spec{}, err
		}
		spec.StorageSpecs = append(spec.StorageSpecs, parsed)
	}

	return spec, nil
}

func parseEntry(i int, entry entryDocument, defaultAccount *common.Address) (StorageDiff, error) {
	var diff StorageDiff

	switch {
	case entry.Account != nil:
		fieldPath := fmt.Sprintf("storageSpecs[%d].account", i)
		if !common.IsHexAddress(*entry.Account) {
			return StorageDiff{}, &ParseError{
				Field: fieldPath,
				Err:   fmt.Errorf("%q is not a valid address", *entry.Account),
			}
		}
		diff.Account = common.HexToAddress(*entry.Account)
	case defaultAccount != nil:
		diff.Account = *defaultAccount
	default:
		return StorageDiff{}, &ParseError{
			Field: fmt.Sprintf("storageSpecs[%d].account", i),
			Err:   errors.New("required field is missing and no default account is configured"),
		}
	}

	slot, err := parseHash(fmt.Sprintf("storageSpecs[%d].slot", i), entry.Slot, true)
	if err != nil {
		return StorageDiff{}, err
	}
	diff.Slot = slot

	newValue, err := parseHash(fmt.Sprintf("storageSpecs[%d].newValue", i), entry.NewValue, true)
	if err != nil {
		return StorageDiff{}, err
	}
	diff.NewValue = newValue

	// previousValue defaults to the zero value when omitted.
	previousValue, err := parseHash(fmt.Sprintf("storageSpecs[%d].previousValue", i), entry.PreviousValue, false)
	if err != nil {
		return StorageDiff{}, err
	}
	diff.PreviousValue = previousValue

	return diff, nil
}

// parseHash strictly decodes a 0x-prefixed hex string of at most 32 bytes,
// left-padding shorter values. common.HexToHash is deliberately avoided here
// since it silently truncates oversized input.
func parseHash(fieldPath string, value *string, required bool) (common.Hash, error) {
	if value == nil {
		if required {
			return common.Hash{}, &ParseError{Field: fieldPath, Err: errors.New("required field is missing")}
		}

		return common.Hash{}, nil
	}

	raw, err := hexutil.Decode(*value)
	if err != nil {
		return common.Hash{}, &ParseError{Field: fieldPath, Err: err}
	}
	if len(raw) > common.HashLength {
		return common.Hash{}, &ParseError{
			Field: fieldPath,
			Err:   fmt.Errorf("value is %d bytes, want at most %d", len(raw), common.HashLength),
		}
	}

	return common.BytesToHash(raw), nil
}
