package sandbox

import (
	"fmt"
	"slices"

	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// DataOverhead is charged per stored entry on top of key and value length.
	DataOverhead = 40
	// AccountOverhead is the storage usage of an empty account.
	AccountOverhead = 100
)

// Key prefixes of the chain state.
const (
	accountPrefix = "a/"
	dataPrefix    = "d/"
	codePrefix    = "c/"
)

func accountKey(id types.AccountID) []byte {
	return []byte(accountPrefix + string(id))
}

func dataKey(id types.AccountID, key []byte) []byte {
	return append([]byte(dataPrefix+string(id)+"/"), key...)
}

func codeKey(hash string) []byte {
	return []byte(codePrefix + hash)
}

// Account is the persisted record of an account.
type Account struct {
	Balance      string   `msgpack:"balance" json:"balance"`
	CodeHash     string   `msgpack:"code_hash,omitempty" json:"code_hash,omitempty"`
	CodeSize     uint64   `msgpack:"code_size,omitempty" json:"code_size,omitempty"`
	Keys         []string `msgpack:"keys,omitempty" json:"keys,omitempty"`
	StorageUsage uint64   `msgpack:"storage_usage" json:"storage_usage"`
}

func newAccount() *Account {
	return &Account{Balance: "0", StorageUsage: AccountOverhead}
}

func decodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &a, nil
}

func (a *Account) encode() ([]byte, error) {
	return msgpack.Marshal(a)
}

// BalanceValue parses the balance.
func (a *Account) BalanceValue() *uint256.Int {
	v, err := uint256.FromDecimal(a.Balance)
	if err != nil {
		return new(uint256.Int)
	}
	return v
}

func (a *Account) setBalance(v *uint256.Int) {
	a.Balance = v.Dec()
}

func (a *Account) credit(v *uint256.Int) error {
	sum, overflow := new(uint256.Int).AddOverflow(a.BalanceValue(), v)
	if overflow {
		return fmt.Errorf("balance overflow")
	}
	a.setBalance(sum)
	return nil
}

func (a *Account) debit(v *uint256.Int) error {
	bal := a.BalanceValue()
	if bal.Lt(v) {
		return fmt.Errorf("%w: balance %s, need %s", ErrInsufficientBalance, bal.Dec(), v.Dec())
	}
	a.setBalance(bal.Sub(bal, v))
	return nil
}

// HasKey reports whether key is a full access key of the account.
func (a *Account) HasKey(key types.PublicKey) bool {
	return slices.Contains(a.Keys, string(key))
}

func (a *Account) addKey(key types.PublicKey) error {
	if a.HasKey(key) {
		return fmt.Errorf("key %s already added", key)
	}
	a.Keys = append(a.Keys, string(key))
	return nil
}

func (a *Account) deleteKey(key types.PublicKey) error {
	i := slices.Index(a.Keys, string(key))
	if i < 0 {
		return fmt.Errorf("key %s does not exist", key)
	}
	a.Keys = slices.Delete(a.Keys, i, i+1)
	return nil
}

// adjustUsage applies a signed change in bytes.
func (a *Account) adjustUsage(delta int64) {
	if delta < 0 && uint64(-delta) > a.StorageUsage {
		a.StorageUsage = 0
		return
	}
	a.StorageUsage = uint64(int64(a.StorageUsage) + delta)
}

// stake is the balance the account must hold for its storage.
func (a *Account) stake(byteCost *uint256.Int) *uint256.Int {
	v := uint256.NewInt(a.StorageUsage)
	return v.Mul(v, byteCost)
}

// AccountView is an account as reported to callers.
type AccountView struct {
	ID           types.AccountID `json:"account_id"`
	Balance      *uint256.Int    `json:"balance"`
	CodeHash     string          `json:"code_hash,omitempty"`
	Contract     string          `json:"contract,omitempty"`
	Keys         []string        `json:"keys,omitempty"`
	StorageUsage uint64          `json:"storage_usage"`
}
