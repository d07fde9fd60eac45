// Package generate produces new dialogue lines for a speaker through
// an OpenAI compatible chat completions endpoint.
package generate

import (
	"context"
	"time"

	"github.com/emutalk/dolphintalk/internal/villagers"
)

// ContinueCode advances to a fresh dialogue page when inserted between
// generated lines.
const ContinueCode = "<Press A><Clear Text>"

// Request describes one generation call.
type Request struct {
	// Speaker is the villager currently talking.
	Speaker string
	// Record holds the speaker's metadata, zero valued when unknown.
	Record villagers.Record
	// HasRecord reports whether Record was found in the store.
	HasRecord bool

	// GossipStage is the speaker's rumor stage 0-5.
	GossipStage int
	// GossipTopic is what the rumor is actually about.
	GossipTopic string
	// HotVillagers are the names currently most exposed to the rumor.
	HotVillagers []string

	// Notes carries free-form situational context.
	Notes string
	// Images are paths of screenshots to attach.
	Images []string

	// Now is the in-game wall clock moment, used for time flavor.
	Now time.Time
}

// Generator produces tagged dialogue text for a speaker. It is slow
// and fallible and must never be invoked concurrently.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
