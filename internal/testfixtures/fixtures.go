// Package testfixtures provides deterministic clocks, seeded stores and a
// fully wired App for package tests.
package testfixtures

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/housekeeping/internal/application"
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime is the baseline instant used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// TestSecret signs session tokens minted by fixtures.
const TestSecret = "housekeeping-test-secret"

// Credentials of the seeded demo accounts.
const (
	AdminEmail       = "admin@example.com"
	AdminPassword    = "admin123"
	PreparerEmail    = "roompreparer@example.com"
	PreparerPassword = "preparer123"
)

// CheapArgon2Params keeps password hashing fast in tests.
var CheapArgon2Params = application.Argon2idParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  8,
	KeyLength:   16,
}

// CheapHash hashes with CheapArgon2Params.
func CheapHash(password string) (string, error) {
	return application.CreatePasswordHash(password, CheapArgon2Params)
}

// DiscardLogger drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
