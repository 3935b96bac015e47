// Package alert delivers mountpoint status codes to an external alerting
// backend.
package alert

// Sink receives one (hostname, key, value) tuple per reported status code.
// Send failures are never fatal; callers log and carry on.
type Sink interface {
	Send(hostname, key string, value int) error
}

// Nop discards every event. It is used when alerting is disabled.
type Nop struct{}

func (Nop) Send(hostname, key string, value int) error { return nil }
