// Package bus intercepts mutations on a fact store and emits canonical
// typed events in call order. The bus wraps an owned FactStore by
// composition and delegates every mutation; event payloads are computed
// before removal-style mutations run, because the store cannot report what
// no longer exists afterwards.
package bus

import (
	"context"

	"github.com/Aman-CERP/quadsync/internal/quad"
)

// Event is the closed set of mutation events. Exactly four variants exist;
// consumers switch on the concrete type.
type Event interface {
	isEvent()
}

// FactAdded reports one fact inserted.
type FactAdded struct {
	Fact quad.Fact
}

// FactRemoved reports one fact deleted.
type FactRemoved struct {
	Fact quad.Fact
}

// BatchAdded reports a batch of facts inserted in one mutation call.
type BatchAdded struct {
	Facts []quad.Fact
}

// BatchRemoved reports a batch of facts deleted in one mutation call.
// Pattern and graph removals emit exactly the snapshot taken before the
// mutation ran.
type BatchRemoved struct {
	Facts []quad.Fact
}

func (FactAdded) isEvent()    {}
func (FactRemoved) isEvent()  {}
func (BatchAdded) isEvent()   {}
func (BatchRemoved) isEvent() {}

// Handler consumes one event. Handlers run synchronously on the mutating
// goroutine; an error propagates to the mutation caller.
type Handler func(ctx context.Context, ev Event) error
