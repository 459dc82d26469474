package host

import (
	"fmt"
	"sync"
)

// Payload carries whatever the runner attached to an event. Fields that do not
// apply to an event are nil.
type Payload struct {
	Test *TestInfo
	Spec *SpecInfo
	Log  *LogEvent
}

// Handler receives an event. Handlers are fire-and-forget: the runner does not
// wait on a result.
type Handler func(Payload)

// Hook runs after each test. A hook error fails the enclosing test-end step.
type Hook func(test TestInfo, spec SpecInfo) error

// Bus dispatches runner events synchronously, in registration order, on the
// goroutine that emits them.
type Bus struct {
	mu         sync.RWMutex
	handlers   map[EventName][]Handler
	finalizers []Hook
	afterEach  []Hook
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventName][]Handler),
	}
}

// On subscribes h to the named event.
func (b *Bus) On(name EventName, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Emit delivers p to every handler subscribed to name.
func (b *Bus) Emit(name EventName, p Payload) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[name]))
	copy(handlers, b.handlers[name])
	b.mu.RUnlock()

	for _, h := range handlers {
		h(p)
	}
}

// Subscribers returns the number of handlers subscribed to name.
func (b *Bus) Subscribers(name EventName) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Finalizer registers a hook that runs after every test, ahead of all hooks
// registered with AfterEach.
func (b *Bus) Finalizer(h Hook) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalizers = append(b.finalizers, h)
}

// AfterEach registers a user hook that runs after every test.
func (b *Bus) AfterEach(h Hook) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.afterEach = append(b.afterEach, h)
}

// Hooks returns the number of finalizers and user after-each hooks.
func (b *Bus) Hooks() (finalizers, afterEach int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.finalizers), len(b.afterEach)
}

// RunAfterEach runs the finalizers and then the user hooks for a finished
// test. The first failing hook stops the chain and its error is returned.
func (b *Bus) RunAfterEach(test TestInfo, spec SpecInfo) error {
	b.mu.RLock()
	hooks := make([]Hook, 0, len(b.finalizers)+len(b.afterEach))
	hooks = append(hooks, b.finalizers...)
	hooks = append(hooks, b.afterEach...)
	b.mu.RUnlock()

	for i, h := range hooks {
		if err := h(test, spec); err != nil {
			return fmt.Errorf("after-each hook %d for %q: %w", i, test.QualifiedName(), err)
		}
	}
	return nil
}
