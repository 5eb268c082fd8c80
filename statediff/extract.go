package statediff

import "github.com/ethereum/go-ethereum/common"

// StorageAccess is one storage access event from an execution trace, in
// execution order. Reads are carried so a trace can be inspected in full, but
// only writes contribute to the extracted diff.
type StorageAccess struct {
	ChainID  uint64
	Account  common.Address
	Slot     common.Hash
	Previous common.Hash
	New      common.Hash
	Write    bool
}

// ExtractActual reduces an execution trace into the actual state diff spec.
//
// The trace is scanned left-to-right and every storage write emits its own
// positional entry. Repeated writes to the same (account, slot) pair are not
// deduplicated or merged, matching how the expected side is authored. The
// chain id is taken from the trace's single execution context; a trace
// spanning more than one chain id fails with ErrAmbiguousChain.
func ExtractActual(trace []StorageAccess) (Spec, error) {
	if len(trace) == 0 {
		return Spec{}, ErrEmptyTrace
	}

	chainID := trace[0].ChainID
	spec := Spec{
		ChainID:      chainID,
		StorageSpecs: make([]StorageDiff, 0, len(trace)),
	}

	for _, access := range trace {
		if access.ChainID != chainID {
			return Spec{}, ErrAmbiguousChain
		}
		if !access.Write {
			continue
		}

		spec.StorageSpecs = append(spec.StorageSpecs, StorageDiff{
			Account:       access.Account,
			Slot:          access.Slot,
			PreviousValue: access.Previous,
			NewValue:      access.New,
		})
	}

	return spec, nil
}
