package sandbox

import (
	"errors"
	"fmt"

	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// pending is a promise created during an invocation. It becomes a receipt
// once the invocation succeeds.
type pending struct {
	receiver types.AccountID
	after    []uint64
	joined   []uint64
	actions  []Action
}

func (p *pending) joint() bool {
	return p.joined != nil
}

// runtime is the types.Host of one receipt. Function call actions of the
// receipt share it; registers and the gas meter are reset per call.
type runtime struct {
	chain   *Chain
	overlay *store.Overlay
	receipt *Receipt
	results []*slot
	view    bool

	accounts map[types.AccountID]*Account

	// per function call
	registers map[uint64][]byte
	input     []byte
	deposit   *uint256.Int
	gas       *GasMeter

	promises        []*pending
	logs            []string
	returned        []byte
	returnedPromise *uint64
	gasUsed         types.Gas
}

func newRuntime(c *Chain, overlay *store.Overlay, r *Receipt, results []*slot) *runtime {
	return &runtime{
		chain:     c,
		overlay:   overlay,
		receipt:   r,
		results:   results,
		accounts:  make(map[types.AccountID]*Account),
		registers: make(map[uint64][]byte),
		deposit:   new(uint256.Int),
		gas:       NewGasMeter(0, c.costs),
	}
}

// beginCall prepares the runtime for a function call action.
func (rt *runtime) beginCall(a Action) {
	rt.registers = make(map[uint64][]byte)
	rt.input = a.Args
	rt.deposit = new(uint256.Int).Set(a.amount())
	rt.gas = NewGasMeter(a.Gas, rt.chain.costs)
	rt.returned = nil
	rt.returnedPromise = nil
}

func (rt *runtime) endCall() {
	rt.gasUsed += rt.gas.Used()
}

// account loads id into the runtime's working set.
func (rt *runtime) account(id types.AccountID) (*Account, error) {
	if a, ok := rt.accounts[id]; ok {
		return a, nil
	}
	data, err := rt.overlay.Get(accountKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	a, err := decodeAccount(data)
	if err != nil {
		return nil, err
	}
	rt.accounts[id] = a
	return a, nil
}

func (rt *runtime) current() *Account {
	a, err := rt.account(rt.receipt.Receiver)
	if err != nil {
		types.Abort(0, "%v", err)
	}
	return a
}

// flush checks storage staking of every touched account and writes them to
// the overlay.
func (rt *runtime) flush() error {
	for id, a := range rt.accounts {
		if need := a.stake(rt.chain.byteCost); a.BalanceValue().Lt(need) {
			return fmt.Errorf("%w: %s holds %s, storage of %d bytes needs %s",
				ErrInsufficientStake, id, a.Balance, a.StorageUsage, need.Dec())
		}
		data, err := a.encode()
		if err != nil {
			return err
		}
		rt.overlay.Set(accountKey(id), data)
	}
	return nil
}

func (rt *runtime) register(fn types.HostFunctionID, id uint64) []byte {
	data, ok := rt.registers[id]
	if !ok {
		types.Abort(fn, "register %d is not set", id)
	}
	return data
}

func (rt *runtime) setRegister(id uint64, data []byte) {
	rt.registers[id] = append([]byte{}, data...)
}

func (rt *runtime) ReadRegister(id uint64) ([]byte, bool) {
	data, ok := rt.registers[id]
	rt.gas.Consume(types.FuncReadRegister, len(data))
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (rt *runtime) RegisterLen(id uint64) (uint64, bool) {
	rt.gas.Consume(types.FuncRegisterLen, 0)
	data, ok := rt.registers[id]
	return uint64(len(data)), ok
}

func (rt *runtime) WriteRegister(id uint64, data []byte) {
	rt.gas.Consume(types.FuncWriteRegister, len(data))
	rt.setRegister(id, data)
}

func (rt *runtime) Input(register uint64) {
	rt.gas.Consume(types.FuncInput, len(rt.input))
	rt.setRegister(register, rt.input)
}

func (rt *runtime) CurrentAccountID(register uint64) {
	rt.gas.Consume(types.FuncCurrentAccountID, 0)
	rt.setRegister(register, []byte(rt.receipt.Receiver))
}

func (rt *runtime) PredecessorAccountID(register uint64) {
	rt.gas.Consume(types.FuncPredecessorAccountID, 0)
	rt.setRegister(register, []byte(rt.receipt.Predecessor))
}

func (rt *runtime) SignerAccountID(register uint64) {
	rt.gas.Consume(types.FuncSignerAccountID, 0)
	rt.setRegister(register, []byte(rt.receipt.Signer))
}

func (rt *runtime) SignerAccountPK(register uint64) {
	rt.gas.Consume(types.FuncSignerAccountPK, 0)
	rt.setRegister(register, []byte(rt.receipt.SignerKey))
}

func (rt *runtime) load(fn types.HostFunctionID, key []byte) ([]byte, bool) {
	v, err := rt.overlay.Get(dataKey(rt.receipt.Receiver, key))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		types.Abort(fn, "storage: %v", err)
	}
	return v, true
}

func (rt *runtime) prohibitedInView(fn types.HostFunctionID) {
	if rt.view {
		types.Abort(fn, "%s is not allowed in view calls", fn)
	}
}

func (rt *runtime) StorageWrite(key []byte, valueRegister, evictedRegister uint64) bool {
	rt.prohibitedInView(types.FuncStorageWrite)
	value := rt.register(types.FuncStorageWrite, valueRegister)
	rt.gas.Consume(types.FuncStorageWrite, len(key)+len(value))

	acct := rt.current()
	prev, had := rt.load(types.FuncStorageWrite, key)
	if had {
		acct.adjustUsage(int64(len(value)) - int64(len(prev)))
		rt.setRegister(evictedRegister, prev)
	} else {
		acct.adjustUsage(int64(len(key) + len(value) + DataOverhead))
	}
	rt.overlay.Set(dataKey(rt.receipt.Receiver, key), value)
	return had
}

func (rt *runtime) StorageRead(key []byte, register uint64) bool {
	v, ok := rt.load(types.FuncStorageRead, key)
	rt.gas.Consume(types.FuncStorageRead, len(key)+len(v))
	if ok {
		rt.setRegister(register, v)
	}
	return ok
}

func (rt *runtime) StorageRemove(key []byte, evictedRegister uint64) bool {
	rt.prohibitedInView(types.FuncStorageRemove)
	prev, had := rt.load(types.FuncStorageRemove, key)
	rt.gas.Consume(types.FuncStorageRemove, len(key)+len(prev))
	if !had {
		return false
	}
	rt.current().adjustUsage(-int64(len(key) + len(prev) + DataOverhead))
	rt.overlay.Delete(dataKey(rt.receipt.Receiver, key))
	rt.setRegister(evictedRegister, prev)
	return true
}

func (rt *runtime) StorageHasKey(key []byte) bool {
	rt.gas.Consume(types.FuncStorageHasKey, len(key))
	_, ok := rt.load(types.FuncStorageHasKey, key)
	return ok
}

func (rt *runtime) StorageUsage() uint64 {
	return rt.current().StorageUsage
}

func (rt *runtime) AttachedDeposit() *uint256.Int { return new(uint256.Int).Set(rt.deposit) }
func (rt *runtime) AccountBalance() *uint256.Int  { return rt.current().BalanceValue() }
func (rt *runtime) StorageByteCost() *uint256.Int { return new(uint256.Int).Set(rt.chain.byteCost) }
func (rt *runtime) PrepaidGas() types.Gas         { return rt.gas.Prepaid() }
func (rt *runtime) UsedGas() types.Gas            { return rt.gas.Used() }
func (rt *runtime) BlockHeight() uint64           { return rt.chain.height }

func (rt *runtime) LogStr(msg string) {
	rt.gas.Consume(types.FuncLog, len(msg))
	rt.logs = append(rt.logs, msg)
	rt.chain.logger.Info("contract log", "account", rt.receipt.Receiver, "receipt", rt.receipt.ID, "msg", msg)
}

func (rt *runtime) ValueReturn(register uint64) {
	value := rt.register(types.FuncValueReturn, register)
	rt.gas.Consume(types.FuncValueReturn, len(value))
	rt.returned = append([]byte{}, value...)
}

func (rt *runtime) promise(fn types.HostFunctionID, idx uint64) *pending {
	if idx >= uint64(len(rt.promises)) {
		types.Abort(fn, "unknown promise %d", idx)
	}
	return rt.promises[idx]
}

// spend moves amount out of the current account into a new action.
func (rt *runtime) spend(fn types.HostFunctionID, amount *uint256.Int) *uint256.Int {
	if amount == nil || amount.IsZero() {
		return new(uint256.Int)
	}
	if err := rt.current().debit(amount); err != nil {
		types.Abort(fn, "%v", err)
	}
	return new(uint256.Int).Set(amount)
}

func (rt *runtime) newPromise(fn types.HostFunctionID, account types.AccountID, after ...uint64) (uint64, *pending) {
	rt.prohibitedInView(fn)
	if err := account.Validate(); err != nil {
		types.Abort(fn, "%v", err)
	}
	for _, idx := range after {
		rt.promise(fn, idx)
	}
	p := &pending{receiver: account, after: after}
	rt.promises = append(rt.promises, p)
	return uint64(len(rt.promises) - 1), p
}

func (rt *runtime) functionCall(fn types.HostFunctionID, method string, args []byte, amount *uint256.Int, gas types.Gas) Action {
	rt.gas.Consume(fn, len(method)+len(args))
	rt.gas.Reserve(fn, gas)
	return Action{
		Kind:    ActionFunctionCall,
		Method:  method,
		Args:    append([]byte{}, args...),
		Deposit: rt.spend(fn, amount),
		Gas:     gas,
	}
}

func (rt *runtime) PromiseCreate(account types.AccountID, method string, args []byte, amount *uint256.Int, gas types.Gas) uint64 {
	idx, p := rt.newPromise(types.FuncPromiseCreate, account)
	p.actions = append(p.actions, rt.functionCall(types.FuncPromiseCreate, method, args, amount, gas))
	return idx
}

func (rt *runtime) PromiseThen(promise uint64, account types.AccountID, method string, args []byte, amount *uint256.Int, gas types.Gas) uint64 {
	idx, p := rt.newPromise(types.FuncPromiseThen, account, promise)
	p.actions = append(p.actions, rt.functionCall(types.FuncPromiseThen, method, args, amount, gas))
	return idx
}

func (rt *runtime) PromiseAnd(promises ...uint64) uint64 {
	rt.prohibitedInView(types.FuncPromiseAnd)
	rt.gas.Consume(types.FuncPromiseAnd, 0)
	if len(promises) == 0 {
		types.Abort(types.FuncPromiseAnd, "nothing to join")
	}
	for _, idx := range promises {
		rt.promise(types.FuncPromiseAnd, idx)
	}
	rt.promises = append(rt.promises, &pending{joined: append([]uint64{}, promises...)})
	return uint64(len(rt.promises) - 1)
}

func (rt *runtime) PromiseBatchCreate(account types.AccountID) uint64 {
	rt.gas.Consume(types.FuncPromiseBatchCreate, 0)
	idx, _ := rt.newPromise(types.FuncPromiseBatchCreate, account)
	return idx
}

func (rt *runtime) PromiseBatchThen(promise uint64, account types.AccountID) uint64 {
	rt.gas.Consume(types.FuncPromiseBatchThen, 0)
	idx, _ := rt.newPromise(types.FuncPromiseBatchThen, account, promise)
	return idx
}

func (rt *runtime) addAction(promise uint64, a Action) {
	p := rt.promise(types.FuncPromiseBatchAction, promise)
	if p.joint() {
		types.Abort(types.FuncPromiseBatchAction, "cannot add actions to joint promise %d", promise)
	}
	p.actions = append(p.actions, a)
}

func (rt *runtime) PromiseBatchActionCreateAccount(promise uint64) {
	rt.gas.Consume(types.FuncPromiseBatchAction, 0)
	rt.addAction(promise, Action{Kind: ActionCreateAccount})
}

func (rt *runtime) PromiseBatchActionDeployContract(promise uint64, codeRegister uint64) {
	code := rt.register(types.FuncPromiseBatchAction, codeRegister)
	rt.gas.Consume(types.FuncPromiseBatchAction, len(code))
	rt.addAction(promise, Action{Kind: ActionDeployContract, Code: append([]byte{}, code...)})
}

func (rt *runtime) PromiseBatchActionFunctionCall(promise uint64, method string, args []byte, amount *uint256.Int, gas types.Gas) {
	rt.promise(types.FuncPromiseBatchAction, promise)
	rt.addAction(promise, rt.functionCall(types.FuncPromiseBatchAction, method, args, amount, gas))
}

func (rt *runtime) PromiseBatchActionTransfer(promise uint64, amount *uint256.Int) {
	rt.gas.Consume(types.FuncPromiseBatchAction, 0)
	rt.promise(types.FuncPromiseBatchAction, promise)
	rt.addAction(promise, Action{Kind: ActionTransfer, Deposit: rt.spend(types.FuncPromiseBatchAction, amount)})
}

func (rt *runtime) PromiseBatchActionAddKeyWithFullAccess(promise uint64, key types.PublicKey, nonce uint64) {
	rt.gas.Consume(types.FuncPromiseBatchAction, len(key))
	rt.addAction(promise, Action{Kind: ActionAddKey, Key: key})
}

func (rt *runtime) PromiseBatchActionDeleteKey(promise uint64, key types.PublicKey) {
	rt.gas.Consume(types.FuncPromiseBatchAction, len(key))
	rt.addAction(promise, Action{Kind: ActionDeleteKey, Key: key})
}

func (rt *runtime) PromiseResultsCount() uint64 {
	return uint64(len(rt.results))
}

func (rt *runtime) PromiseResult(index uint64, register uint64) types.PromiseStatus {
	if index >= uint64(len(rt.results)) {
		types.Abort(types.FuncPromiseResult, "no dependency %d", index)
	}
	s := rt.results[index]
	rt.gas.Consume(types.FuncPromiseResult, len(s.data))
	if s.status == types.PromiseSuccessful {
		rt.setRegister(register, s.data)
	}
	return s.status
}

func (rt *runtime) PromiseReturn(promise uint64) {
	rt.gas.Consume(types.FuncPromiseReturn, 0)
	if rt.promise(types.FuncPromiseReturn, promise).joint() {
		types.Abort(types.FuncPromiseReturn, "cannot return joint promise %d", promise)
	}
	rt.returnedPromise = &promise
}

var _ types.Host = (*runtime)(nil)
