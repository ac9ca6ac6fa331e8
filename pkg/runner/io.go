package runner

import (
	"context"

	"github.com/aretw0/tinysplit"
)

// OutputHandler receives every result produced by the Runner, in order.
// The result borrows session memory and is only valid during the call.
type OutputHandler interface {
	Output(ctx context.Context, res tinysplit.Result) error
}

// HandlerFunc adapts a function to OutputHandler.
type HandlerFunc func(ctx context.Context, res tinysplit.Result) error

// Output calls f.
func (f HandlerFunc) Output(ctx context.Context, res tinysplit.Result) error {
	return f(ctx, res)
}

// MultiHandler fans a result out to several handlers, stopping at the first error.
type MultiHandler []OutputHandler

// Output calls every handler in order.
func (m MultiHandler) Output(ctx context.Context, res tinysplit.Result) error {
	for _, h := range m {
		if err := h.Output(ctx, res); err != nil {
			return err
		}
	}
	return nil
}
