package supply

import (
	"bytes"
	"encoding/json"
	"math/big"
)

// Balances maps account ids to token amounts in smallest denomination units.
// Iteration follows insertion order; overwriting an account keeps its position.
type Balances struct {
	accounts []string
	amounts  map[string]*big.Int
}

// NewBalances creates an empty mapping
func NewBalances() *Balances {
	return &Balances{
		accounts: make([]string, 0),
		amounts:  make(map[string]*big.Int),
	}
}

// Set stores amount for account, last write wins
func (b *Balances) Set(account string, amount *big.Int) {
	if _, exists := b.amounts[account]; !exists {
		b.accounts = append(b.accounts, account)
	}
	b.amounts[account] = amount
}

// Get returns the amount held by account
func (b *Balances) Get(account string) (*big.Int, bool) {
	if b == nil {
		return nil, false
	}
	amount, ok := b.amounts[account]
	return amount, ok
}

// Len returns the number of accounts
func (b *Balances) Len() int {
	if b == nil {
		return 0
	}
	return len(b.accounts)
}

// Accounts returns the account ids in insertion order
func (b *Balances) Accounts() []string {
	if b == nil {
		return []string{}
	}
	out := make([]string, len(b.accounts))
	copy(out, b.accounts)
	return out
}

// Range calls fn for every entry in insertion order until fn returns false
func (b *Balances) Range(fn func(account string, amount *big.Int) bool) {
	if b == nil {
		return
	}
	for _, account := range b.accounts {
		if !fn(account, b.amounts[account]) {
			return
		}
	}
}

// MarshalJSON encodes the mapping as an object of decimal strings, keys in insertion order
func (b *Balances) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	b.Range(func(account string, amount *big.Int) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var key, value []byte
		if key, err = json.Marshal(account); err != nil {
			return false
		}
		if value, err = json.Marshal(amount.String()); err != nil {
			return false
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
