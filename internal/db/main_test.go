package db

import (
	"testing"

	"go.uber.org/goleak"
)

// Every test database must be closed; an open *sql.DB keeps its connection
// opener goroutine alive.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
