package repo

import "context"

// ConnHandler is a function which uses a database connection.
// The connection is released as soon as the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connections pool.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and returns
	// its error after releasing that connection.
	Conn(ctx context.Context, handler ConnHandler) error
}
