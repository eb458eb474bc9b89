package remote

import (
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
)

// Backend serves auth and records from the hosted store.
type Backend struct {
	c    *Client
	auth *Auth
}

// NewBackend wires a Backend over c.
func NewBackend(c *Client) *Backend {
	return &Backend{c: c, auth: NewAuth(c)}
}

func (b *Backend) Auth() repository.AuthRepo { return b.auth }

func (b *Backend) Records(res domain.Resource) repository.RecordRepo {
	return NewTable(b.c, res)
}

var _ repository.Backend = (*Backend)(nil)
