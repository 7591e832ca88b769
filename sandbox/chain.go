// Package sandbox is a single-node host for contract components. It keeps
// accounts, storage and code in a store.Store and executes transactions as
// chains of receipts, one receipt at a time.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/image"
	"github.com/govm-net/riffs/security"
	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/store/memory"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// DefaultGas is attached to transactions that do not name their gas.
const DefaultGas = 300 * types.TGas

// DefaultStorageByteCost is 10^19 yocto per byte.
func DefaultStorageByteCost() *uint256.Int {
	return uint256.NewInt(10_000_000_000_000_000_000)
}

// Options configure a Chain. Zero values select in-memory defaults.
type Options struct {
	Store           store.Store
	Codes           CodeStore
	Catalog         *Catalog
	Inspector       *image.Inspector
	Limits          security.Limits
	StorageByteCost *uint256.Int
	Costs           map[types.HostFunctionID]types.Gas
	// DefaultGas is attached to transactions and views that name no gas.
	DefaultGas types.Gas
	// ValidateImages compiles every deployed binary before accepting it.
	ValidateImages bool
	Logger         *slog.Logger
}

// Chain executes transactions. Calls are serialized.
type Chain struct {
	mu sync.Mutex

	store        store.Store
	codes        CodeStore
	catalog      *Catalog
	inspector    *image.Inspector
	ownInspector bool
	limits       security.Limits
	byteCost     *uint256.Int
	costs        map[types.HostFunctionID]types.Gas
	defaultGas   types.Gas
	validate     bool
	logger       *slog.Logger
	height       uint64
}

// New creates a chain from opts.
func New(ctx context.Context, opts Options) *Chain {
	c := &Chain{
		store:      opts.Store,
		codes:      opts.Codes,
		catalog:    opts.Catalog,
		inspector:  opts.Inspector,
		limits:     opts.Limits,
		byteCost:   opts.StorageByteCost,
		costs:      opts.Costs,
		defaultGas: opts.DefaultGas,
		validate:   opts.ValidateImages,
		logger:     opts.Logger,
	}
	if c.store == nil {
		c.store = memory.New()
	}
	if c.codes == nil {
		c.codes = NewStoreCodes(c.store)
	}
	if c.catalog == nil {
		c.catalog = NewCatalog()
	}
	if c.inspector == nil {
		c.inspector = image.NewInspector(ctx, 10*time.Minute)
		c.ownInspector = true
	}
	if c.byteCost == nil {
		c.byteCost = DefaultStorageByteCost()
	}
	if c.costs == nil {
		c.costs = DefaultCosts
	}
	if c.defaultGas == 0 {
		c.defaultGas = DefaultGas
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Close releases the store and the inspector if the chain created it.
func (c *Chain) Close(ctx context.Context) error {
	var errs []error
	if c.ownInspector {
		errs = append(errs, c.inspector.Close(ctx))
	}
	errs = append(errs, c.store.Close())
	return errors.Join(errs...)
}

func (c *Chain) Catalog() *Catalog { return c.catalog }

// Height is the number of transactions executed.
func (c *Chain) Height() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func loadAccount(s interface{ Get([]byte) ([]byte, error) }, id types.AccountID) (*Account, error) {
	data, err := s.Get(accountKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeAccount(data)
}

func saveAccount(o *store.Overlay, id types.AccountID, a *Account) error {
	data, err := a.encode()
	if err != nil {
		return err
	}
	o.Set(accountKey(id), data)
	return nil
}

// CreateAccount adds an account outside of any transaction. It is how
// genesis accounts come to exist.
func (c *Chain) CreateAccount(id types.AccountID, balance *uint256.Int, key types.PublicKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := id.Validate(); err != nil {
		return err
	}
	if _, err := loadAccount(c.store, id); err == nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, id)
	}
	a := newAccount()
	if balance != nil {
		a.setBalance(balance)
	}
	if key != "" {
		if _, err := types.ParsePublicKey(string(key)); err != nil {
			return err
		}
		if err := a.addKey(key); err != nil {
			return err
		}
	}
	o := store.NewOverlay(c.store)
	if err := saveAccount(o, id, a); err != nil {
		return err
	}
	c.logger.Info("account created", "account", id, "balance", a.Balance)
	return o.Commit()
}

// Deploy installs code on an existing account outside of any transaction.
func (c *Chain) Deploy(ctx context.Context, id types.AccountID, code []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := loadAccount(c.store, id)
	if err != nil {
		return err
	}
	if err := c.install(ctx, a, code); err != nil {
		return err
	}
	o := store.NewOverlay(c.store)
	if err := saveAccount(o, id, a); err != nil {
		return err
	}
	c.logger.Info("code deployed", "account", id, "hash", a.CodeHash)
	return o.Commit()
}

// Account reports an account, resolving the contract its code names.
func (c *Chain) Account(ctx context.Context, id types.AccountID) (*AccountView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := loadAccount(c.store, id)
	if err != nil {
		return nil, err
	}
	view := &AccountView{
		ID:           id,
		Balance:      a.BalanceValue(),
		CodeHash:     a.CodeHash,
		Keys:         a.Keys,
		StorageUsage: a.StorageUsage,
	}
	if a.CodeHash != "" {
		if name, err := c.contractName(ctx, a); err == nil {
			view.Contract = name
		}
	}
	return view, nil
}

// Balance returns the balance of id.
func (c *Chain) Balance(id types.AccountID) (*uint256.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, err := loadAccount(c.store, id)
	if err != nil {
		return nil, err
	}
	return a.BalanceValue(), nil
}

// StorageUsage returns the bytes id is charged for.
func (c *Chain) StorageUsage(id types.AccountID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, err := loadAccount(c.store, id)
	if err != nil {
		return 0, err
	}
	return a.StorageUsage, nil
}

// Code returns the binary installed on id.
func (c *Chain) Code(id types.AccountID) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, err := loadAccount(c.store, id)
	if err != nil {
		return nil, err
	}
	if a.CodeHash == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoCode, id)
	}
	return c.codes.Get(a.CodeHash)
}

// ReadStorage reads a key of id's contract state.
func (c *Chain) ReadStorage(id types.AccountID, key []byte) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := c.store.Get(dataKey(id, key))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (c *Chain) install(ctx context.Context, a *Account, code []byte) error {
	if err := c.limits.CheckCode(code); err != nil {
		return err
	}
	if c.validate {
		if _, err := c.inspector.Inspect(ctx, code); err != nil {
			return err
		}
	}
	hash, err := c.codes.Put(code)
	if err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	a.adjustUsage(int64(len(code)) - int64(a.CodeSize))
	a.CodeHash, a.CodeSize = hash, uint64(len(code))
	return nil
}

func (c *Chain) contractName(ctx context.Context, a *Account) (string, error) {
	if a.CodeHash == "" {
		return "", ErrNoCode
	}
	code, err := c.codes.Get(a.CodeHash)
	if err != nil {
		return "", err
	}
	info, err := c.inspector.Inspect(ctx, code)
	if err != nil {
		return "", err
	}
	return info.Contract()
}

func (c *Chain) resolve(ctx context.Context, a *Account) (env.Contract, error) {
	name, err := c.contractName(ctx, a)
	if err != nil {
		return nil, err
	}
	return c.catalog.Lookup(name)
}

// Tx is a signed function call.
type Tx struct {
	Signer types.AccountID
	// SignerKey defaults to the signer's first key.
	SignerKey types.PublicKey
	Receiver  types.AccountID
	Method    string
	Args      []byte
	Deposit   *uint256.Int
	Gas       types.Gas
}

// Call executes tx and every receipt it spawns and commits their effects.
// The error is only set when the transaction could not be started; failures
// of its receipts are reported in the outcome.
func (c *Chain) Call(ctx context.Context, tx Tx) (*Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := tx.Receiver.Validate(); err != nil {
		return nil, err
	}
	if err := c.limits.CheckArgs(tx.Args); err != nil {
		return nil, err
	}
	signer, err := loadAccount(c.store, tx.Signer)
	if err != nil {
		return nil, err
	}
	key := tx.SignerKey
	if key == "" && len(signer.Keys) > 0 {
		key = types.PublicKey(signer.Keys[0])
	} else if key != "" && !signer.HasKey(key) {
		return nil, fmt.Errorf("key %s does not belong to %s", key, tx.Signer)
	}
	deposit := new(uint256.Int)
	if tx.Deposit != nil {
		deposit.Set(tx.Deposit)
	}
	if !deposit.IsZero() {
		if err := signer.debit(deposit); err != nil {
			return nil, fmt.Errorf("%s: %w", tx.Signer, err)
		}
		o := store.NewOverlay(c.store)
		if err := saveAccount(o, tx.Signer, signer); err != nil {
			return nil, err
		}
		if err := o.Commit(); err != nil {
			return nil, err
		}
	}
	gas := tx.Gas
	if gas == 0 {
		gas = c.defaultGas
	}

	c.height++
	first := &Receipt{
		ID:          uuid.NewString(),
		Predecessor: tx.Signer,
		Receiver:    tx.Receiver,
		Signer:      tx.Signer,
		SignerKey:   key,
		Actions: []Action{{
			Kind:    ActionFunctionCall,
			Method:  tx.Method,
			Args:    tx.Args,
			Deposit: deposit,
			Gas:     gas,
		}},
	}
	c.logger.Debug("transaction", "id", first.ID, "signer", tx.Signer, "receiver", tx.Receiver, "method", tx.Method)
	return c.run(ctx, first), nil
}

// View runs a read-only call. Its writes are never committed and it may not
// write storage or create promises.
func (c *Chain) View(ctx context.Context, receiver types.AccountID, method string, args []byte) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := &Receipt{
		ID:          uuid.NewString(),
		Predecessor: receiver,
		Receiver:    receiver,
		Signer:      receiver,
		Actions:     []Action{{Kind: ActionFunctionCall, Method: method, Args: args, Gas: c.defaultGas}},
	}
	rt := newRuntime(c, store.NewOverlay(c.store), r, nil)
	rt.view = true
	err := rt.apply(ctx)

	res := &Result{
		ID:          r.ID,
		Predecessor: receiver,
		Receiver:    receiver,
		Method:      method,
		Deposit:     new(uint256.Int),
		Logs:        rt.logs,
		GasUsed:     rt.gasUsed,
	}
	if err != nil {
		res.Status, res.Err, res.cause = types.PromiseFailed, err.Error(), err
		return res, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	res.Status, res.Value = types.PromiseSuccessful, rt.returned
	return res, nil
}

// refund returns the deposit of a failed receipt to its predecessor.
func (c *Chain) refund(r *Receipt) {
	amount := r.Deposit()
	if amount.IsZero() {
		return
	}
	o := store.NewOverlay(c.store)
	a, err := loadAccount(o, r.Predecessor)
	if err == nil {
		err = a.credit(amount)
	}
	if err == nil {
		err = saveAccount(o, r.Predecessor, a)
	}
	if err == nil {
		err = o.Commit()
	}
	if err != nil {
		c.logger.Error("refund lost", "receipt", r.ID, "to", r.Predecessor, "amount", amount.Dec(), "error", err)
		return
	}
	c.logger.Info("deposit refunded", "receipt", r.ID, "to", r.Predecessor, "amount", amount.Dec())
}
