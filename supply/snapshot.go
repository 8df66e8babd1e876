package supply

import (
	"fmt"
	"net/url"
	"time"
)

// FormatTimestamp renders t as seconds since epoch with nine fractional digits.
// Integer formatting only; the value never passes through a float.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

func tokenInfoPath(token, timestamp string) string {
	query := url.Values{}
	query.Set("timestamp", timestamp)
	return "/api/v1/tokens/" + url.PathEscape(token) + "?" + query.Encode()
}

func tokenBalancesPath(token, timestamp string) string {
	query := url.Values{}
	query.Set("timestamp", timestamp)
	return "/api/v1/tokens/" + url.PathEscape(token) + "/balances?" + query.Encode()
}
