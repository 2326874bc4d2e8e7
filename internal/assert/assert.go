// Package assert holds invariant checks that panic when broken. They guard values
// the program generates itself, never user input.
package assert

import (
	"fmt"
)

// Length panics unless value has exactly expected bytes
func Length[S ~string | ~[]byte](value S, expected int) {
	if len(value) != expected {
		msg := fmt.Sprintf("assert.Length expected %d actual %d", expected, len(value))
		panic(msg)
	}
}
