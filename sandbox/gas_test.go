package sandbox

import (
	"testing"

	"github.com/govm-net/riffs/types"
	"github.com/stretchr/testify/assert"
)

func TestGasMeter(t *testing.T) {
	m := NewGasMeter(100*types.GGas, nil)
	assert.Equal(t, 100*types.GGas, m.Prepaid())
	assert.Zero(t, m.Used())

	// 测试消耗gas
	m.Consume(types.FuncStorageWrite, 0)
	assert.Equal(t, 60*types.GGas, m.Used())
	m.Consume(types.FuncLog, 100)
	assert.Equal(t, 63*types.GGas+100*ByteGas, m.Used())

	// 测试退还gas
	m.Refund(types.FuncLog, 3*types.GGas)
	assert.Equal(t, 60*types.GGas+100*ByteGas, m.Used())
	assert.Equal(t, m.Prepaid()-m.Used(), m.Remaining())
}

func TestGasMeterPanics(t *testing.T) {
	m := NewGasMeter(10*types.GGas, nil)

	// 测试gas不足
	assert.PanicsWithValue(t,
		&types.HostError{Func: types.FuncPromiseCreate, Msg: "exceeded prepaid gas: used=0, need=20000000000, prepaid=10000000000"},
		func() { m.Reserve(types.FuncPromiseCreate, 20*types.GGas) })
	assert.Zero(t, m.Used())

	// 测试无效退还
	assert.Panics(t, func() { m.Refund(types.FuncReadRegister, 1) })
}
