// Package safe provides read-only introspection of Gnosis Safe multisigs:
// owner sets, ownership checks and signing thresholds. It is the concrete
// multisig-introspection collaborator consumed by the task runner; no
// transaction is ever sent from here.
package safe

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Melvillian/superchain-ops/pkg/logger"
)

// safeABIString covers the view methods of the Safe contract used for
// topology resolution.
const safeABIString = `[
	{
		"inputs": [],
		"name": "getOwners",
		"outputs": [{"internalType": "address[]", "name": "", "type": "address[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"type": "address", "name": "owner"}],
		"name": "isOwner",
		"outputs": [{"type": "bool", "name": ""}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getThreshold",
		"outputs": [{"type": "uint256", "name": ""}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Client reads Safe state through any bind.ContractCaller. Production use
// dials an RPC endpoint via Dial; tests inject a fake caller.
type Client struct {
	lggr   logger.Logger
	caller bind.ContractCaller
	abi    abi.ABI

	retryAttempts uint
	retryDelay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRetry overrides the retry policy applied to RPC calls.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a Client over an existing contract caller.
func NewClient(lggr logger.Logger, caller bind.ContractCaller, opts ...Option) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(safeABIString))
	if err != nil {
		return nil, fmt.Errorf("failed to parse safe ABI: %w", err)
	}

	c := &Client{
		lggr:          lggr.Named("SafeClient"),
		caller:        caller,
		abi:           parsed,
		retryAttempts: 3,
		retryDelay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Dial creates a Client connected to the given RPC endpoint.
func Dial(lggr logger.Logger, rpcURL string, opts ...Option) (*Client, error) {
	ethClient, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	return NewClient(lggr, ethClient, opts...)
}

// GetOwners returns the owner list of the Safe at the given address, in the
// order the contract reports them.
func (c *Client) GetOwners(ctx context.Context, safeAddr common.Address) ([]common.Address, error) {
	var out []any
	if err := c.call(ctx, safeAddr, &out, "getOwners"); err != nil {
		return nil, fmt.Errorf("failed to get owners of %s: %w", safeAddr.Hex(), err)
	}

	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

// IsOwner reports whether owner is an owner of the Safe at safeAddr.
func (c *Client) IsOwner(ctx context.Context, safeAddr, owner common.Address) (bool, error) {
	var out []any
	if err := c.call(ctx, safeAddr, &out, "isOwner", owner); err != nil {
		return false, fmt.Errorf("failed to check ownership on %s: %w", safeAddr.Hex(), err)
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// GetThreshold returns the number of signatures the Safe at safeAddr
// requires.
func (c *Client) GetThreshold(ctx context.Context, safeAddr common.Address) (uint64, error) {
	var out []any
	if err := c.call(ctx, safeAddr, &out, "getThreshold"); err != nil {
		return 0, fmt.Errorf("failed to get threshold of %s: %w", safeAddr.Hex(), err)
	}

	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// IsNested reports whether the Safe at safeAddr is owned exclusively by
// contracts, the topology that requires the child-signing flow. A Safe with
// no owners or with any externally-owned-account owner is not nested.
// Templates commonly delegate their nestedness judgment here.
func (c *Client) IsNested(ctx context.Context, safeAddr common.Address) (bool, error) {
	owners, err := c.GetOwners(ctx, safeAddr)
	if err != nil {
		return false, err
	}
	if len(owners) == 0 {
		return false, nil
	}

	for _, owner := range owners {
		code, err := c.caller.CodeAt(ctx, owner, nil)
		if err != nil {
			return false, fmt.Errorf("failed to get code of owner %s: %w", owner.Hex(), err)
		}
		if len(code) == 0 {
			return false, nil
		}
	}

	return true, nil
}

// call invokes a view method on the Safe at safeAddr with retries. Retrying
// lives here, at the RPC boundary; callers above this layer never retry.
func (c *Client) call(ctx context.Context, safeAddr common.Address, out *[]any, method string, args ...any) error {
	contract := bind.NewBoundContract(safeAddr, c.abi, c.caller, nil, nil)

	return retry.Do(
		func() error {
			return contract.Call(&bind.CallOpts{Context: ctx}, out, method, args...)
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.lggr.Warnw("Retrying safe call", "method", method, "safe", safeAddr.Hex(), "attempt", n+1, "err", err)
		}),
	)
}
