package driver

import (
	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/event"
)

// handleRPCMake invokes a named remote procedure. The completion emits
// rpc.response with the result, or rpc.error with the backend-reported
// error - failures ride the stream like every other error channel, they
// never raise.
func (d *Driver) handleRPCMake(a action.RPCMake) {
	s := d.current(action.KindRPCMake)
	if s == nil {
		return
	}

	s.client.RPC(a.Method, a.Data, func(result any, errStr string) {
		if errStr != "" {
			d.emit(event.Event{Kind: event.RPCError, Name: a.Method, Scope: a.Scope, Error: errStr})
			return
		}
		d.emit(event.Event{Kind: event.RPCResponse, Name: a.Method, Scope: a.Scope, Data: result})
	})
}
