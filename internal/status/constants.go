// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a device whose last poll decoded cleanly.
const HealthOK uint16 = 1

// HealthError represents a device whose last poll failed.
const HealthError uint16 = 2

// ---- LIMITS ----

// MaxSecondsInError is where SecondsInError saturates.
const MaxSecondsInError = 65535

// ---- ERROR CODES ----

// ErrorGeneric is used when an error exposes no code of its own.
const ErrorGeneric uint16 = 1
