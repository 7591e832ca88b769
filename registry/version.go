package registry

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/govm-net/riffs/core"
)

// Version is a semantic version. Its storage key is "major_minor_patch" and
// its display form is "vmajor_minor_patch".
type Version struct {
	Major uint16 `msgpack:"major" json:"major"`
	Minor uint16 `msgpack:"minor" json:"minor"`
	Patch uint16 `msgpack:"patch" json:"patch"`
}

// ParseVersion parses "1_2_3" or "v1_2_3".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), "_")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: version %q", core.ErrMalformedInput, s)
	}
	var nums [3]uint16
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("%w: version %q: %v", core.ErrMalformedInput, s, err)
		}
		nums[i] = uint16(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Key is the storage key of the binary published under v.
func (v Version) Key() []byte {
	return []byte(fmt.Sprintf("%d_%d_%d", v.Major, v.Minor, v.Patch))
}

func (v Version) String() string {
	return fmt.Sprintf("v%d_%d_%d", v.Major, v.Minor, v.Patch)
}

// Compare orders versions by major, minor, then patch.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// Bump selects which component of a version is incremented.
type Bump int

const (
	BumpPatch Bump = iota
	BumpMinor
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "patch"
	}
}

// Next returns v bumped by b. Lower components are reset.
func (v Version) Next(b Bump) (Version, error) {
	overflow := func(n uint16) error {
		if n == math.MaxUint16 {
			return fmt.Errorf("%w: %s component of %s is exhausted", core.ErrMalformedInput, b, v)
		}
		return nil
	}
	switch b {
	case BumpMajor:
		if err := overflow(v.Major); err != nil {
			return v, err
		}
		return Version{Major: v.Major + 1}, nil
	case BumpMinor:
		if err := overflow(v.Minor); err != nil {
			return v, err
		}
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	default:
		if err := overflow(v.Patch); err != nil {
			return v, err
		}
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	}
}
