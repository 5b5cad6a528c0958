package domain

// Optional marks a patch field as supplied. The zero value means "leave the
// stored value unchanged". For nullable columns use a pointer T; a supplied
// nil pointer clears the column.
type Optional[T any] struct {
	Present bool
	Value   T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null returns a supplied Optional that clears a nullable column.
func Null[T any]() Optional[*T] {
	return Optional[*T]{Present: true}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
