package services

import "fmt"

// persistFail wraps an underlying store error. Callers should not branch on
// the wrapped cause; the failure is generic and retryable from their side.
func persistFail(err error) error {
	return fmt.Errorf("persistence failure: %w", err)
}
