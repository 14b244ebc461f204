package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

const fallbackTimeout = 3 * time.Second

// base carries the connection and the per-call deadline shared by every repository.
type base struct {
	db      *bun.DB
	timeout time.Duration
}

func newBase(db *bun.DB, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	return base{db: db, timeout: timeout}
}

func (b base) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, b.timeout)
}

// nullable maps an empty reference to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
