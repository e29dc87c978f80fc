// Package graphstore persists discovered transformation networks into a
// property-graph database so paths can be explored with graph queries after
// a run. Export is optional; searches never depend on it.
package graphstore

import (
	"context"
	"errors"
)

// Client is the minimal contract the exporter needs from the underlying
// graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graphstore: graph URI is required")
