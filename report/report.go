// Package report renders aggregation results for people and programs.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/status-im/token-supply/supply"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// SupplyResponse is the JSON form of a supply.Result. Amounts are decimal
// strings so no consumer has to round-trip them through a float.
type SupplyResponse struct {
	RunID            string           `json:"run_id,omitempty"`
	Token            string           `json:"token"`
	Decimals         int              `json:"decimals"`
	Source           string           `json:"source"`
	Timestamp        string           `json:"timestamp"`
	TotalSupply      string           `json:"total_supply"`
	Circulating      string           `json:"circulating"`
	NonCirculating   string           `json:"non_circulating"`
	TreasuryBalances *supply.Balances `json:"treasury_balances"`
	ConsumerBalances *supply.Balances `json:"consumer_balances"`
}

// NewSupplyResponse converts result into its JSON form
func NewSupplyResponse(result *supply.Result) SupplyResponse {
	treasuries := result.TreasuryBalances
	if treasuries == nil {
		treasuries = supply.NewBalances()
	}
	consumers := result.ConsumerBalances
	if consumers == nil {
		consumers = supply.NewBalances()
	}

	return SupplyResponse{
		RunID:            result.RunID,
		Token:            result.Token,
		Decimals:         result.Decimals,
		Source:           result.Source,
		Timestamp:        result.Timestamp,
		TotalSupply:      amountString(result.TotalSupply),
		Circulating:      amountString(result.Circulating),
		NonCirculating:   amountString(result.NonCirculating),
		TreasuryBalances: treasuries,
		ConsumerBalances: consumers,
	}
}

// Write renders result in the given format
func Write(w io.Writer, format string, result *supply.Result) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, result)
	case FormatJSON:
		return WriteJSON(w, result)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteCSV writes the summary rows followed by the treasury and consumer
// sections. A section is omitted when it has no accounts.
func WriteCSV(w io.Writer, result *supply.Result) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Token", result.Token},
		{"Decimals", strconv.Itoa(result.Decimals)},
		{"Source", result.Source},
		{"Timestamp", result.Timestamp},
		{"Total Supply", amountString(result.TotalSupply)},
		{"Circulating", amountString(result.Circulating)},
	}
	rows = appendSection(rows, "Treasuries", result.TreasuryBalances)
	rows = appendSection(rows, "Consumers", result.ConsumerBalances)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

func appendSection(rows [][]string, title string, balances *supply.Balances) [][]string {
	if balances.Len() == 0 {
		return rows
	}
	rows = append(rows, []string{}, []string{title})
	balances.Range(func(account string, amount *big.Int) bool {
		rows = append(rows, []string{account, amount.String()})
		return true
	})
	return rows
}

// WriteJSON writes result as an indented JSON document
func WriteJSON(w io.Writer, result *supply.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewSupplyResponse(result)); err != nil {
		return fmt.Errorf("error encoding json: %w", err)
	}
	return nil
}

func amountString(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}
