package ldexpand

// null tracks whether a key was absent, explicitly set to JSON null, or set to
// a value.
type null[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func some[T any](v T) null[T] {
	return null[T]{Set: true, Valid: true, Value: v}
}

func explicitNull[T any]() null[T] {
	return null[T]{Set: true}
}

// isNull reports if the key was present with a JSON null.
func (n null[T]) isNull() bool {
	return n.Set && !n.Valid
}
