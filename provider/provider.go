// Package provider implements an observable value.
//
// A [Provider] holds a single value and calls its trigger every time the value is assigned,
// including assignments of the value it already holds:
//
//	p := provider.New(func(v int) {
//	    fmt.Println("value is now", v)
//	})
//	p.Set(1) // value is now 1
//	p.Set(1) // value is now 1
//
// Providers are NOT safe for concurrent use. The trigger runs synchronously on the calling
// goroutine before Set returns.
package provider

// Provider holds a value of type T.
type Provider[T any] struct {
	trigger func(T)
	value   T
	ok      bool
}

// New returns a Provider without a value. The trigger may be nil and is not called.
func New[T any](trigger func(T)) *Provider[T] {
	return &Provider[T]{trigger: trigger}
}

// Value returns the current value, or the zero value of T if none was assigned yet.
func (p *Provider[T]) Value() T {
	return p.value
}

// Get returns the current value and whether a value was ever assigned.
func (p *Provider[T]) Get() (T, bool) {
	return p.value, p.ok
}

// Set stores v and calls the trigger with v.
func (p *Provider[T]) Set(v T) {
	p.value, p.ok = v, true
	if p.trigger != nil {
		p.trigger(v)
	}
}

// Update sets the value to the result of transform applied to the current value.
func (p *Provider[T]) Update(transform func(T) T) {
	p.Set(transform(p.value))
}
