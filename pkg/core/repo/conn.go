package repo

import "context"

type TxHandler func(context.Context, Tx) error

// Conn represents a database connection. It is unsafe to be used
// concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction and passes it to handler. The
	// transaction is committed if handler returns nil, otherwise,
	// it is rolled back.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
