package statediff

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var gatekeeperAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestParseSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		give      string
		opts      []ParseOption
		wantField string
	}{
		{
			name: "valid spec",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"slot": "0x0000000000000000000000000000000000000000000000000000000000000000",
					"newValue": "0x0000000000000000000000000000000000000000000000000000000000000001"
				}]
			}`,
		},
		{
			name:      "malformed document",
			give:      `{`,
			wantField: "document",
		},
		{
			name:      "missing chain id",
			give:      `{"storageSpecs": []}`,
			wantField: "chainId",
		},
		{
			name:      "missing storage specs",
			give:      `{"chainId": 31337}`,
			wantField: "storageSpecs",
		},
		{
			name: "missing slot",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"newValue": "0x01"
				}]
			}`,
			wantField: "storageSpecs[0].slot",
		},
		{
			name: "missing new value",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"slot": "0x00"
				}]
			}`,
			wantField: "storageSpecs[0].newValue",
		},
		{
			name: "malformed hex",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"slot": "0xzz",
					"newValue": "0x01"
				}]
			}`,
			wantField: "storageSpecs[0].slot",
		},
		{
			name: "oversized value",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"slot": "0x00",
					"newValue": "0x010000000000000000000000000000000000000000000000000000000000000001"
				}]
			}`,
			wantField: "storageSpecs[0].newValue",
		},
		{
			name: "invalid account",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"account": "not-an-address",
					"slot": "0x00",
					"newValue": "0x01"
				}]
			}`,
			wantField: "storageSpecs[0].account",
		},
		{
			name: "omitted account without default",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"slot": "0x00",
					"newValue": "0x01"
				}]
			}`,
			wantField: "storageSpecs[0].account",
		},
		{
			name: "omitted account with default",
			give: `{
				"chainId": 31337,
				"storageSpecs": [{
					"slot": "0x00",
					"newValue": "0x01"
				}]
			}`,
			opts: []ParseOption{WithDefaultAccount(gatekeeperAddr)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec, err := ParseSpec([]byte(tt.give), tt.opts...)
			if tt.wantField != "" {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				require.Equal(t, tt.wantField, perr.Field)

				return
			}

			require.NoError(t, err)
			require.Equal(t, uint64(31337), spec.ChainID)
			require.Len(t, spec.StorageSpecs, 1)
			require.Equal(t, gatekeeperAddr, spec.StorageSpecs[0].Account)
		})
	}
}

func TestParseSpec_PreviousValueDefaultsToZero(t *testing.T) {
	t.Parallel()

	spec, err := ParseSpec([]byte(`{
		"chainId": 31337,
		"storageSpecs": [{
			"account": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			"slot": "0x02",
			"newValue": "0xacdc"
		}]
	}`))
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, spec.StorageSpecs[0].PreviousValue)
	require.Equal(t, common.HexToHash("0xacdc"), spec.StorageSpecs[0].NewValue)
}

// TestParseSpecFile_GatekeeperFixture parses the expectation file for the
// gatekeeper fixture: running its mutating operation zeroes the value field in
// slot 0, writes an address into slot 1, and writes 0xacdc into the mapping
// slot for key 1 at base slot 2.
func TestParseSpecFile_GatekeeperFixture(t *testing.T) {
	t.Parallel()

	spec, err := ParseSpecFile(filepath.Join("testdata", "gatekeeper_diff.json"))
	require.NoError(t, err)

	require.Equal(t, uint64(31337), spec.ChainID)
	require.Len(t, spec.StorageSpecs, 3)

	require.Equal(t, StorageDiff{
		Account:       gatekeeperAddr,
		Slot:          common.HexToHash("0x00"),
		PreviousValue: common.HexToHash("0x01"),
		NewValue:      common.Hash{},
	}, spec.StorageSpecs[0])

	require.Equal(t, StorageDiff{
		Account:  gatekeeperAddr,
		Slot:     common.HexToHash("0x01"),
		NewValue: common.HexToHash("0xabba"),
	}, spec.StorageSpecs[1])

	// The third entry targets the derived mapping slot keccak256(key, base).
	mappingSlot := crypto.Keccak256Hash(
		common.BigToHash(big.NewInt(1)).Bytes(),
		common.BigToHash(big.NewInt(2)).Bytes(),
	)
	require.Equal(t, StorageDiff{
		Account:  gatekeeperAddr,
		Slot:     mappingSlot,
		NewValue: common.HexToHash("0xacdc"),
	}, spec.StorageSpecs[2])
}
