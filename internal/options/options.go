// Package options contains the program options.
package options

import (
	"time"
)

// Program contains the options shared by all commands, resolved from
// the config file and command line flags.
type Program struct {
	ProcessName string
	Address     uint64

	Debug bool
	Quiet bool
}

// Read contains the one-shot read options.
type Read struct {
	MaxSize int
	Dump    bool
}

// Write contains the write command options.
type Write struct {
	Text string
}

// Watch contains the continuous watch options.
type Watch struct {
	Addresses   []uint64
	Interval    time.Duration
	ReadSize    int
	Suppression time.Duration
	PrintAll    bool

	Gossip        bool
	GossipState   string
	VillagersPath string
}

// Scan contains the memory scan options.
type Scan struct {
	Needle string
}

// NewRead returns read options with default values.
func NewRead() Read {
	return Read{
		MaxSize: 4096,
	}
}
