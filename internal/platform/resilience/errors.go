package resilience

import "fmt"

// PanicError carries a panic raised inside a deduplicated call to every waiter.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("singleflight call panicked: %v", e.Value)
}
