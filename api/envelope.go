package api

import "time"

// Envelope is the uniform response wrapper. Every response, success or
// failure, carries Success and Timestamp; Data/Message appear on success,
// Error/Message on failure.
type Envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Now returns the envelope timestamp for the current instant.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
