package supply

import (
	"context"
	"net/http"

	"github.com/status-im/token-supply/mirror"
)

// BalancePager walks the balances listing of one token by following the
// server's links.next cursor. The cursor is dereferenced verbatim; the pager
// never rebuilds pagination state itself. A pager serves a single traversal.
type BalancePager struct {
	client mirror.IClient
	host   string
	token  string
	next   string
	index  int
	done   bool
}

// NewBalancePager starts a traversal at the first balances page for the snapshot timestamp
func NewBalancePager(client mirror.IClient, host, token, timestamp string) *BalancePager {
	return &BalancePager{
		client: client,
		host:   host,
		token:  token,
		next:   tokenBalancesPath(token, timestamp),
	}
}

// HasNext reports whether another page remains
func (p *BalancePager) HasNext() bool {
	return !p.done
}

// Next fetches the next page. An empty page that still carries a cursor is
// returned like any other page; only a missing cursor ends the traversal.
func (p *BalancePager) Next(ctx context.Context) (*BalancesPage, error) {
	path := p.next

	status, body, err := p.client.Fetch(ctx, p.host, path)
	if err != nil {
		p.done = true
		return nil, err
	}
	if status != http.StatusOK {
		p.done = true
		return nil, &NotFoundError{Resource: ResourceBalances, Token: p.token, StatusCode: status}
	}

	entries, next, err := parseBalancesPage(body)
	if err != nil {
		p.done = true
		return nil, &MalformedResponseError{Resource: ResourceBalances, Token: p.token, Path: path, Err: err}
	}

	page := &BalancesPage{
		Index:   p.index,
		Path:    path,
		Entries: entries,
		Next:    next,
	}

	p.index++
	p.next = next
	if next == "" {
		p.done = true
	}

	return page, nil
}
