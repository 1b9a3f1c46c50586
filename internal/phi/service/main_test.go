package service

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no goroutines leak from the encryption service:
// key loading and the KMS keeper must not leave background work running.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
