// Package assert holds invariant checks for values the program generates
// itself. A failure is a bug, so they panic instead of returning errors.
package assert

import (
	"fmt"
)

// Length panics unless value is exactly expected bytes long
func Length(value string, expected int) {
	if len(value) != expected {
		panic(fmt.Sprintf("assert.Length expected %d actual %d", expected, len(value)))
	}
}

// NotEmpty panics when value is empty
func NotEmpty(name, value string) {
	if value == "" {
		panic(fmt.Sprintf("assert.NotEmpty %s is empty", name))
	}
}
