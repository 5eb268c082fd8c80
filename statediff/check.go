package statediff

import (
	"fmt"
	"sort"
	"strconv"
)

// Check verifies that the actual state diff matches the expected one.
//
// Comparison is strictly positional: chain id first, then entry counts, then
// each index in order, comparing account, slot, newValue and previousValue in
// that fixed field order. The first divergence fails immediately with a
// MismatchError naming the exact field path; no further indices or fields are
// checked.
func Check(expected, actual Spec) error {
	if expected.ChainID != actual.ChainID {
		return &MismatchError{
			Field:    "chainId",
			Expected: strconv.FormatUint(expected.ChainID, 10),
			Actual:   strconv.FormatUint(actual.ChainID, 10),
		}
	}

	if len(expected.StorageSpecs) != len(actual.StorageSpecs) {
		return &MismatchError{
			Field:    "storageSpecs.length",
			Expected: strconv.Itoa(len(expected.StorageSpecs)),
			Actual:   strconv.Itoa(len(actual.StorageSpecs)),
		}
	}

	for i := range expected.StorageSpecs {
		exp, act := expected.StorageSpecs[i], actual.StorageSpecs[i]

		if exp.Account != act.Account {
			return &MismatchError{
				Field:    fmt.Sprintf("storageSpecs[%d].account", i),
				Expected: exp.Account.Hex(),
				Actual:   act.Account.Hex(),
			}
		}
		if exp.Slot != act.Slot {
			return &MismatchError{
				Field:    fmt.Sprintf("storageSpecs[%d].slot", i),
				Expected: exp.Slot.Hex(),
				Actual:   act.Slot.Hex(),
			}
		}
		if exp.NewValue != act.NewValue {
			return &MismatchError{
				Field:    fmt.Sprintf("storageSpecs[%d].newValue", i),
				Expected: exp.NewValue.Hex(),
				Actual:   act.NewValue.Hex(),
			}
		}
		if exp.PreviousValue != act.PreviousValue {
			return &MismatchError{
				Field:    fmt.Sprintf("storageSpecs[%d].previousValue", i),
				Expected: exp.PreviousValue.Hex(),
				Actual:   act.PreviousValue.Hex(),
			}
		}
	}

	return nil
}

// storageKey identifies one storage location across both diff sides.
type storageKey struct {
	account string
	slot    string
}

type valuePair struct {
	previous string
	new      string
}

// CheckByKey verifies the actual diff against the expected one keyed by
// (account, slot) instead of by position, making the comparison robust
// against write reordering between authoring and execution.
//
// When the same location is written more than once on a side, the first
// previousValue and the last newValue are kept, i.e. the net transition.
// Divergences are reported for the lexicographically smallest differing key:
// a value mismatch carries both transitions, a location present on only one
// side is reported against "(missing)".
func CheckByKey(expected, actual Spec) error {
	if expected.ChainID != actual.ChainID {
		return &MismatchError{
			Field:    "chainId",
			Expected: strconv.FormatUint(expected.ChainID, 10),
			Actual:   strconv.FormatUint(actual.ChainID, 10),
		}
	}

	expByKey := collapseByKey(expected.StorageSpecs)
	actByKey := collapseByKey(actual.StorageSpecs)

	keys := make([]storageKey, 0, len(expByKey)+len(actByKey))
	for key := range expByKey {
		keys = append(keys, key)
	}
	for key := range actByKey {
		if _, ok := expByKey[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}

		return keys[i].slot < keys[j].slot
	})

	for _, key := range keys {
		exp, inExp := expByKey[key]
		act, inAct := actByKey[key]
		fieldPath := fmt.Sprintf("storageSpecs[%s:%s]", key.account, key.slot)

		switch {
		case !inAct:
			return &MismatchError{
				Field:    fieldPath,
				Expected: renderTransition(exp),
				Actual:   "(missing)",
			}
		case !inExp:
			return &MismatchError{
				Field:    fieldPath,
				Expected: "(missing)",
				Actual:   renderTransition(act),
			}
		case exp != act:
			return &MismatchError{
				Field:    fieldPath,
				Expected: renderTransition(exp),
				Actual:   renderTransition(act),
			}
		}
	}

	return nil
}

func collapseByKey(entries []StorageDiff) map[storageKey]valuePair {
	byKey := make(map[storageKey]valuePair, len(entries))
	for _, entry := range entries {
		key := storageKey{account: entry.Account.Hex(), slot: entry.Slot.Hex()}
		pair, seen := byKey[key]
		if !seen {
			pair.previous = entry.PreviousValue.Hex()
		}
		pair.new = entry.NewValue.Hex()
		byKey[key] = pair
	}

	return byKey
}

func renderTransition(pair valuePair) string {
	return fmt.Sprintf("%s -> %s", pair.previous, pair.new)
}
