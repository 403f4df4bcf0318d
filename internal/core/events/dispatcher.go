// Package events is a small typed publish/subscribe dispatcher. A
// Dispatcher is an owned value passed to whoever needs it; there is no
// package-level handler table.
//
// Delivery is synchronous and happens on the publisher's goroutine.
// Handlers for one event type run in registration order. Events published
// with no subscriber are dropped.
package events

import (
	"reflect"
	"sync"
)

type handler struct {
	id uint64
	fn any
}

// Dispatcher routes events to handlers keyed by the event's Go type.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[reflect.Type][]handler
}

// Subscription identifies one registered handler.
type Subscription struct {
	eventType reflect.Type
	id        uint64
	cancel    func() bool
}

// Close removes the handler. It reports whether the handler was still registered.
func (s Subscription) Close() bool {
	if s.cancel == nil {
		return false
	}
	return s.cancel()
}

// NewDispatcher creates a dispatcher with no subscribers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[reflect.Type][]handler)}
}

// Subscribe registers fn for events of type T.
func Subscribe[T any](d *Dispatcher, fn func(T)) Subscription {
	t := reflect.TypeFor[T]()
	if fn == nil {
		return Subscription{eventType: t}
	}

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.handlers[t] = append(d.handlers[t], handler{id: id, fn: fn})
	d.mu.Unlock()

	sub := Subscription{eventType: t, id: id}
	sub.cancel = func() bool { return d.remove(t, id) }
	return sub
}

// Publish delivers event to every handler registered for T. Handlers may
// subscribe or unsubscribe while running; the change applies to the next
// Publish.
func Publish[T any](d *Dispatcher, event T) {
	t := reflect.TypeFor[T]()

	d.mu.RLock()
	snapshot := make([]handler, len(d.handlers[t]))
	copy(snapshot, d.handlers[t])
	d.mu.RUnlock()

	for _, h := range snapshot {
		h.fn.(func(T))(event)
	}
}

// Unsubscribe removes the handler behind sub and reports whether it was registered.
func (d *Dispatcher) Unsubscribe(sub Subscription) bool {
	if sub.id == 0 {
		return false
	}
	return d.remove(sub.eventType, sub.id)
}

// HandlerCount returns how many handlers are registered for T.
func HandlerCount[T any](d *Dispatcher) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[reflect.TypeFor[T]()])
}

func (d *Dispatcher) remove(t reflect.Type, id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.handlers[t]
	for i, h := range list {
		if h.id != id {
			continue
		}
		updated := make([]handler, 0, len(list)-1)
		updated = append(updated, list[:i]...)
		updated = append(updated, list[i+1:]...)
		if len(updated) == 0 {
			delete(d.handlers, t)
		} else {
			d.handlers[t] = updated
		}
		return true
	}
	return false
}
