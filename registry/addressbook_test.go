package registry

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestNewAddressBook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantErr error
	}{
		{
			name: "valid addresses",
			give: `
[addresses]
SecurityCouncil = "0xc2819DC788505Aac350142A7A707BF9D03E3Bd03"
FoundationOperationsSafe = "0x9BA6e03D8B90dE867373Db8cF1A58d2F7F006b3A"
`,
		},
		{
			name:    "malformed toml",
			give:    `[addresses`,
			wantErr: ErrInvalidConfig,
		},
		{
			name: "invalid address",
			give: `
[addresses]
SecurityCouncil = "not-an-address"
`,
			wantErr: ErrInvalidAddress,
		},
		{
			name: "zero address",
			give: `
[addresses]
SecurityCouncil = "0x0000000000000000000000000000000000000000"
`,
			wantErr: ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book, err := NewAddressBook([]byte(tt.give))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, 2, book.Len())
		})
	}
}

func TestAddressBook_Get(t *testing.T) {
	t.Parallel()

	// Lowercased source must come back checksummed.
	book, err := NewAddressBook([]byte(`
[addresses]
SecurityCouncil = "0xc2819dc788505aac350142a7a707bf9d03e3bd03"
`))
	require.NoError(t, err)

	addr, err := book.Get("SecurityCouncil")
	require.NoError(t, err)
	require.Equal(t, "0xc2819DC788505Aac350142A7A707BF9D03E3Bd03", addr.Hex())

	_, err = book.Get("Unconfigured")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadAddressBook(t *testing.T) {
	t.Parallel()

	book, err := LoadAddressBook(filepath.Join("testdata", "addresses.toml"))
	require.NoError(t, err)

	addr, err := book.Get("FoundationUpgradeSafe")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x847B5c174615B1B7fDF770882256e2D3E95b9D92"), addr)

	_, err = LoadAddressBook(filepath.Join("testdata", "does-not-exist.toml"))
	require.Error(t, err)
}
