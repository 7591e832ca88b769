// Package security 提供沙箱的资源限制和调用追踪
package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
)

var (
	ErrTooManyReceipts = errors.New("too many receipts")
	ErrArgsTooLarge    = errors.New("arguments too large")
	ErrCodeTooLarge    = errors.New("code too large")
)

// Limits 限制一笔交易可使用的资源
type Limits struct {
	MaxReceipts int
	MaxArgsSize datasize.ByteSize
	MaxCodeSize datasize.ByteSize
}

// DefaultLimits 默认限制
func DefaultLimits() Limits {
	return Limits{
		MaxReceipts: 64,
		MaxArgsSize: 4 * datasize.MB,
		MaxCodeSize: 4 * datasize.MB,
	}
}

// CheckReceipts 检查已执行的收据数量
func (l Limits) CheckReceipts(n int) error {
	if l.MaxReceipts > 0 && n > l.MaxReceipts {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyReceipts, n, l.MaxReceipts)
	}
	return nil
}

// CheckArgs 检查调用参数大小
func (l Limits) CheckArgs(args []byte) error {
	if l.MaxArgsSize > 0 && datasize.ByteSize(len(args)) > l.MaxArgsSize {
		return fmt.Errorf("%w: %s exceeds %s", ErrArgsTooLarge, datasize.ByteSize(len(args)).HR(), l.MaxArgsSize.HR())
	}
	return nil
}

// CheckCode 检查部署代码大小
func (l Limits) CheckCode(code []byte) error {
	if l.MaxCodeSize > 0 && datasize.ByteSize(len(code)) > l.MaxCodeSize {
		return fmt.Errorf("%w: %s exceeds %s", ErrCodeTooLarge, datasize.ByteSize(len(code)).HR(), l.MaxCodeSize.HR())
	}
	return nil
}

// CallTracer 用于追踪收据调用链
type CallTracer struct {
	callStack []CallFrame
	history   []CallFrame
}

// CallFrame 表示一个调用栈帧
type CallFrame struct {
	Receipt     string `json:"receipt"`
	Parent      string `json:"parent,omitempty"`
	Predecessor string `json:"predecessor"`
	Receiver    string `json:"receiver"`
	Method      string `json:"method,omitempty"`
	Depth       int    `json:"depth"`
	Failed      bool   `json:"failed,omitempty"`
}

// NewCallTracer 创建调用追踪器
func NewCallTracer() *CallTracer {
	return &CallTracer{
		callStack: make([]CallFrame, 0),
	}
}

// BeginCall 记录调用开始
func (t *CallTracer) BeginCall(frame CallFrame) {
	t.callStack = append(t.callStack, frame)
}

// EndCall 记录调用结束
func (t *CallTracer) EndCall(failed bool) {
	if len(t.callStack) == 0 {
		return
	}
	frame := t.callStack[len(t.callStack)-1]
	frame.Failed = failed
	t.callStack = t.callStack[:len(t.callStack)-1]
	t.history = append(t.history, frame)
}

// Current 返回正在执行的调用
func (t *CallTracer) Current() (CallFrame, bool) {
	if len(t.callStack) == 0 {
		return CallFrame{}, false
	}
	return t.callStack[len(t.callStack)-1], true
}

// Frames 返回已结束的调用, 按结束顺序
func (t *CallTracer) Frames() []CallFrame {
	return append([]CallFrame(nil), t.history...)
}

// String 以缩进形式输出调用链
func (t *CallTracer) String() string {
	var sb strings.Builder
	for _, f := range t.history {
		sb.WriteString(strings.Repeat("  ", f.Depth))
		fmt.Fprintf(&sb, "%s -> %s", f.Predecessor, f.Receiver)
		if f.Method != "" {
			sb.WriteString("." + f.Method)
		}
		if f.Failed {
			sb.WriteString(" (failed)")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
