package supply

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// parseAmount converts a mirror amount into a non-negative big.Int
func parseAmount(field string, n json.Number) (*big.Int, error) {
	if n == "" {
		return nil, fmt.Errorf("%s is missing", field)
	}
	amount, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("%s %q is not an integer", field, n.String())
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%s %q is negative", field, n.String())
	}
	return amount, nil
}

// parseDecimals reads the optional decimals field, defaulting to 0
func parseDecimals(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	decimals, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("decimals %q is not an integer", n.String())
	}
	if decimals < 0 {
		return 0, fmt.Errorf("decimals %d is negative", decimals)
	}
	return decimals, nil
}

func parseTokenInfo(body []byte) (*TokenInfo, error) {
	var resp tokenInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	total, err := parseAmount("total_supply", resp.TotalSupply)
	if err != nil {
		return nil, err
	}
	decimals, err := parseDecimals(resp.Decimals)
	if err != nil {
		return nil, err
	}

	return &TokenInfo{TotalSupply: total, Decimals: decimals}, nil
}

// parseBalancesPage decodes one balances page; next is empty when the page has no successor
func parseBalancesPage(body []byte) ([]BalanceEntry, string, error) {
	var resp balancesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	entries := make([]BalanceEntry, 0, len(resp.Balances))
	for i, record := range resp.Balances {
		if record.Account == "" {
			return nil, "", fmt.Errorf("balances[%d] has no account", i)
		}
		balance, err := parseAmount(fmt.Sprintf("balances[%d].balance", i), record.Balance)
		if err != nil {
			return nil, "", err
		}
		entries = append(entries, BalanceEntry{Account: record.Account, Balance: balance})
	}

	next := ""
	if resp.Links != nil && resp.Links.Next != nil {
		next = *resp.Links.Next
	}

	return entries, next, nil
}
