package service

import (
	"context"

	"github.com/schoolgate/webclient/internal/gateway"
)

type recordedCall struct {
	action string
	params gateway.Params
}

// fakeGateway returns canned results per action and records every call.
type fakeGateway struct {
	results  map[string]*gateway.Result
	calls    []recordedCall
	degraded bool
}

func (f *fakeGateway) Call(_ context.Context, action string, params gateway.Params) *gateway.Result {
	f.calls = append(f.calls, recordedCall{action: action, params: params})
	if result, ok := f.results[action]; ok {
		return result
	}
	return &gateway.Result{Success: false, Message: gateway.GenericFailureMessage}
}

func (f *fakeGateway) Degraded() bool { return f.degraded }

func (f *fakeGateway) callCount(action string) int {
	n := 0
	for _, c := range f.calls {
		if c.action == action {
			n++
		}
	}
	return n
}

func (f *fakeGateway) lastCall(action string) *recordedCall {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].action == action {
			return &f.calls[i]
		}
	}
	return nil
}
