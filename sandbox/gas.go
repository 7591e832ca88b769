package sandbox

import (
	"sync"

	"github.com/govm-net/riffs/types"
)

// ByteGas is charged per byte moved through a register or into storage.
const ByteGas types.Gas = 10_000_000

// DefaultCosts 每个宿主函数的基础gas
var DefaultCosts = map[types.HostFunctionID]types.Gas{
	types.FuncReadRegister:         1 * types.GGas,
	types.FuncRegisterLen:          1 * types.GGas,
	types.FuncWriteRegister:        1 * types.GGas,
	types.FuncInput:                1 * types.GGas,
	types.FuncCurrentAccountID:     1 * types.GGas,
	types.FuncPredecessorAccountID: 1 * types.GGas,
	types.FuncSignerAccountID:      1 * types.GGas,
	types.FuncSignerAccountPK:      1 * types.GGas,
	types.FuncStorageWrite:         60 * types.GGas,
	types.FuncStorageRead:          50 * types.GGas,
	types.FuncStorageRemove:        50 * types.GGas,
	types.FuncStorageHasKey:        50 * types.GGas,
	types.FuncLog:                  3 * types.GGas,
	types.FuncValueReturn:          1 * types.GGas,
	types.FuncPromiseCreate:        5 * types.GGas,
	types.FuncPromiseThen:          5 * types.GGas,
	types.FuncPromiseAnd:           1 * types.GGas,
	types.FuncPromiseBatchCreate:   5 * types.GGas,
	types.FuncPromiseBatchThen:     5 * types.GGas,
	types.FuncPromiseBatchAction:   5 * types.GGas,
	types.FuncPromiseResult:        1 * types.GGas,
	types.FuncPromiseReturn:        1 * types.GGas,
}

// GasMeter 记录一个收据的gas使用
type GasMeter struct {
	mu      sync.Mutex
	prepaid types.Gas
	used    types.Gas
	costs   map[types.HostFunctionID]types.Gas
}

// NewGasMeter 初始化gas
func NewGasMeter(prepaid types.Gas, costs map[types.HostFunctionID]types.Gas) *GasMeter {
	if costs == nil {
		costs = DefaultCosts
	}
	return &GasMeter{prepaid: prepaid, costs: costs}
}

// Prepaid 获取预付gas
func (m *GasMeter) Prepaid() types.Gas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepaid
}

// Used 获取已使用的gas
func (m *GasMeter) Used() types.Gas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Remaining 获取剩余gas
func (m *GasMeter) Remaining() types.Gas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepaid - m.used
}

// Consume 按宿主函数和数据长度消耗gas
func (m *GasMeter) Consume(fn types.HostFunctionID, bytes int) {
	m.charge(fn, m.costs[fn]+types.Gas(bytes)*ByteGas)
}

// Reserve 为新的promise预留gas
func (m *GasMeter) Reserve(fn types.HostFunctionID, gas types.Gas) {
	m.charge(fn, gas)
}

// Refund 退还gas
func (m *GasMeter) Refund(fn types.HostFunctionID, gas types.Gas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gas > m.used {
		types.Abort(fn, "invalid refund: used=%d, refund=%d", m.used, gas)
	}
	m.used -= gas
}

func (m *GasMeter) charge(fn types.HostFunctionID, amount types.Gas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount == 0 {
		return
	}
	if m.prepaid-m.used < amount {
		types.Abort(fn, "exceeded prepaid gas: used=%d, need=%d, prepaid=%d", m.used, amount, m.prepaid)
	}
	m.used += amount
}
