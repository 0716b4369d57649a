// Package registry provides a generic registry that is populated once and
// then frozen.
//
// Registries are written during package initialization and read afterwards
// from any number of goroutines:
//
//	r := registry.New[string, *Function]()
//	r.MustRegister("sqrt", sqrtFn)
//	r.Freeze()
//
//	fn, ok := r.Get("sqrt")
//
// Once frozen, Register returns ErrFrozen and lookups take no lock.
package registry
