package consumable

import (
	"fmt"
	"strings"
)

// Contains matches string items that contain pattern.
func Contains[T ~string](pattern string) Predicate[T] {
	return func(item T) bool {
		return strings.Contains(string(item), pattern)
	}
}

// HasPrefix matches string items that, once trimmed, start with the trimmed pattern.
func HasPrefix[T ~string](pattern string) Predicate[T] {
	pattern = strings.TrimSpace(pattern)
	return func(item T) bool {
		return strings.HasPrefix(strings.TrimSpace(string(item)), pattern)
	}
}

// TextContains matches items whose textual representation contains pattern.
// fmt.Stringer is used when implemented, fmt.Sprint otherwise.
func TextContains[T any](pattern string) Predicate[T] {
	return func(item T) bool {
		return strings.Contains(text(item), pattern)
	}
}

// ConsumeText consumes every item of c whose text contains pattern.
func ConsumeText[T any](c Consumable[T], pattern string) (*Vec[T], bool) {
	return c.Consume(TextContains[T](pattern))
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
