package simulation

import "time"

// Options represents configuration options for the Controller.
type Options struct {
	// TickInterval is the period between synthetic orders while running.
	TickInterval time.Duration
	// CommandBuffer is the capacity of the inbound command queue.
	CommandBuffer int
}

// DefaultOptions returns the default controller options.
func DefaultOptions() *Options {
	return &Options{
		TickInterval:  750 * time.Millisecond,
		CommandBuffer: 32,
	}
}
