package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Gas is the unit of computation charged for an invocation.
type Gas uint64

const (
	GGas Gas = 1_000_000_000
	TGas Gas = 1000 * GGas
)

// nearDecimals is the number of yocto digits in one NEAR.
const nearDecimals = 24

// OneYocto returns the smallest balance unit.
func OneYocto() *uint256.Int {
	return uint256.NewInt(1)
}

// OneNear returns 10^24 yocto.
func OneNear() *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(nearDecimals))
}

// Near returns n NEAR in yocto.
func Near(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), OneNear())
}

// Yocto returns n yocto.
func Yocto(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

// ParseBalance parses a yocto amount. Whole NEAR can be written with a
// "NEAR" or "N" suffix ("6 NEAR", "6N").
func ParseBalance(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	whole := false
	for _, suffix := range []string{"NEAR", "N"} {
		if trimmed, ok := strings.CutSuffix(s, suffix); ok {
			s, whole = strings.TrimSpace(trimmed), true
			break
		}
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", s, err)
	}
	if whole {
		if _, overflow := v.MulOverflow(v, OneNear()); overflow {
			return nil, fmt.Errorf("invalid balance %q: overflow", s)
		}
	}
	return v, nil
}

// FormatBalance renders a yocto amount as a decimal string; nil renders as "0".
func FormatBalance(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}
