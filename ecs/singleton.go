package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton gives a system typed access to one world-wide value that is not
// attached to any entity. Declared as a system field, it is bound by the
// Scheduler on registration.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
}

// NewSingleton returns an accessor for T, adding the initializer (or the zero
// value) to storage when T is not stored yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.resolve()
}

func (s *Singleton[T]) resolve() {
	if s.ptr != nil || s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.ptr = entry.dataPtr
	}
}

// Get returns the stored value, or nil if T was never added.
func (s *Singleton[T]) Get() *T {
	s.resolve()
	return (*T)(s.ptr)
}

// Exists reports whether T has been added to storage.
func (s *Singleton[T]) Exists() bool {
	s.resolve()
	return s.ptr != nil
}
