package task

import (
	"context"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/Melvillian/superchain-ops/pkg/logger"
	"github.com/Melvillian/superchain-ops/registry"
)

// fakeTemplate is a configurable Template used across the package tests.
type fakeTemplate struct {
	taskType  TaskType
	safeName  string
	nested    bool
	nestedErr error

	simulateErr error
	signErr     error

	simulatedPaths []string
	signedOwners   []common.Address
}

func (f *fakeTemplate) TaskType() TaskType        { return f.taskType }
func (f *fakeTemplate) SafeAddressString() string { return f.safeName }

func (f *fakeTemplate) IsNestedSafe(_ context.Context, _ common.Address) (bool, error) {
	return f.nested, f.nestedErr
}

func (f *fakeTemplate) SimulateRun(_ context.Context, configPath string) error {
	f.simulatedPaths = append(f.simulatedPaths, configPath)

	return f.simulateErr
}

func (f *fakeTemplate) SignFromChildMultisig(_ context.Context, _ string, owner common.Address) error {
	f.signedOwners = append(f.signedOwners, owner)

	return f.signErr
}

// newTestRegistry registers tmpl under name and returns the registry.
func newTestRegistry(t *testing.T, name string, tmpl Template) *Registry {
	t.Helper()

	reg := NewRegistry()
	err := reg.Register(Definition{
		Name:        name,
		Version:     semver.MustParse("1.0.0"),
		Description: "test template",
	}, func() (Template, error) { return tmpl, nil })
	require.NoError(t, err)

	return reg
}

func newTestResolver(t *testing.T, templates *Registry) *TopologyResolver {
	t.Helper()

	addresses, err := registry.NewAddressBook([]byte(`
[addresses]
FoundationUpgradeSafe = "0x847B5c174615B1B7fDF770882256e2D3E95b9D92"
`))
	require.NoError(t, err)

	superchain, err := registry.NewSuperchainRegistry([]byte(`
[[chains]]
chainId = 10
name = "OP Mainnet"
[chains.addresses]
ProxyAdminOwner = "0x5a0Aae59D09fccBdDb6C6CcEB07B7279367C3d2A"

[[chains]]
chainId = 8453
name = "Base"
[chains.addresses]
ProxyAdminOwner = "0x7bB41C3008B3f03FE483B28b8DB90e19Cf07595c"
`))
	require.NoError(t, err)

	return NewTopologyResolver(logger.Test(t), templates, addresses, superchain)
}
