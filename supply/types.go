package supply

import (
	"encoding/json"
	"math/big"
)

// TokenInfo holds the figures read from the token metadata endpoint
type TokenInfo struct {
	TotalSupply *big.Int
	Decimals    int
}

// BalanceEntry is one account balance parsed from a balances page
type BalanceEntry struct {
	Account string
	Balance *big.Int
}

// BalancesPage is one page of the balances listing
type BalancesPage struct {
	Index   int    // 0-based position in the traversal
	Path    string // path that produced the page
	Entries []BalanceEntry
	Next    string // next cursor path, empty on the last page
}

// Result is the outcome of one aggregation call
type Result struct {
	RunID            string
	Token            string
	Decimals         int
	Source           string
	Timestamp        string
	TotalSupply      *big.Int
	Circulating      *big.Int
	NonCirculating   *big.Int
	TreasuryBalances *Balances
	ConsumerBalances *Balances
}

// tokenInfoResponse is the subset of /api/v1/tokens/{id} we read.
// json.Number accepts both quoted and bare numbers.
type tokenInfoResponse struct {
	TokenID     string      `json:"token_id"`
	TotalSupply json.Number `json:"total_supply"`
	Decimals    json.Number `json:"decimals"`
}

type balancesResponse struct {
	Balances []balanceRecord `json:"balances"`
	Links    *struct {
		Next *string `json:"next"`
	} `json:"links"`
}

type balanceRecord struct {
	Account string      `json:"account"`
	Balance json.Number `json:"balance"`
}
