// Package watch polls dialogue buffers inside the emulated game and
// rewrites them with freshly generated text. It owns the per-target
// observation state and the process wide single-flight generation
// gate.
package watch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/emutalk/dolphintalk/internal/codec"
	"github.com/emutalk/dolphintalk/internal/generate"
	"github.com/emutalk/dolphintalk/internal/gossip"
	"github.com/emutalk/dolphintalk/internal/villagers"
)

// LoadingPlaceholder is written to the dialogue buffer while a
// generation call is in flight, so the live view shows activity.
const LoadingPlaceholder = ".<Pause [0A]>.<Pause [0A]>.<Pause [0A]><Press A><Clear Text>"

const (
	defaultInterval    = 2 * time.Second
	defaultReadSize    = 1024
	defaultSuppression = 25 * time.Second
	defaultFallback    = "Ace"
)

// Memory is the translated console memory access the watcher needs.
type Memory interface {
	Read(address uint64, size int) ([]byte, error)
	Write(address uint64, data []byte) error
	Speaker() (string, error)
}

// Config holds the tunable watch parameters.
type Config struct {
	// Interval is the sleep between poll ticks.
	Interval time.Duration
	// ReadSize is the fixed number of bytes read per tick.
	ReadSize int
	// Suppression is how long observed changes after a write are
	// treated as echoes of that write.
	Suppression time.Duration
	// PrintAll logs the decoded buffer on every tick, not only on
	// change.
	PrintAll bool
	// FallbackSpeaker is used when the speaker buffer cannot be read.
	FallbackSpeaker string
}

// Options bundles the watcher dependencies.
type Options struct {
	Config    Config
	Memory    Memory
	Codec     *codec.Codec
	Generator generate.Generator
	// Gate is the process wide single-flight generation gate, held for
	// the whole placeholder-write, generate, encode, write cycle.
	Gate *sync.Mutex
	// Gossip is optional rumor state feeding prompt flavor.
	Gossip *gossip.Simulator
	// Villagers is the optional character metadata store.
	Villagers *villagers.Store
	Logger    *log.Logger
}

// Target is one console address under observation.
type Target struct {
	Address uint64

	lastSeen      string
	generating    bool
	suppressUntil time.Time
}

// NewTarget creates a watch target for a console address.
func NewTarget(address uint64) *Target {
	return &Target{Address: address}
}

// Watcher drives the poll loop over a set of targets.
type Watcher struct {
	cfg       Config
	mem       Memory
	codec     *codec.Codec
	generator generate.Generator
	gate      *sync.Mutex
	gossip    *gossip.Simulator
	villagers *villagers.Store
	logger    *log.Logger

	now func() time.Time

	seen map[string]struct{}
}

// New creates a watcher.
func New(opts Options) *Watcher {
	cfg := opts.Config
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.ReadSize <= 0 {
		cfg.ReadSize = defaultReadSize
	}
	if cfg.Suppression <= 0 {
		cfg.Suppression = defaultSuppression
	}
	if cfg.FallbackSpeaker == "" {
		cfg.FallbackSpeaker = defaultFallback
	}

	store := opts.Villagers
	if store == nil {
		store = villagers.Empty()
	}
	gate := opts.Gate
	if gate == nil {
		gate = &sync.Mutex{}
	}

	return &Watcher{
		cfg:       cfg,
		mem:       opts.Memory,
		codec:     opts.Codec,
		generator: opts.Generator,
		gate:      gate,
		gossip:    opts.Gossip,
		villagers: store,
		logger:    opts.Logger,
		now:       time.Now,
		seen:      map[string]struct{}{},
	}
}

// Run polls all targets until the context is cancelled. The loop is
// interruptible at tick granularity, an in-flight generation call
// completes or fails before the loop continues.
func (w *Watcher) Run(ctx context.Context, targets []*Target) error {
	for _, target := range targets {
		w.prime(target)
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch loop stopped")
			return nil
		case <-ticker.C:
		}

		w.trackSpeaker()
		for _, target := range targets {
			w.Tick(ctx, target)
		}
	}
}

// prime records the current buffer content so the first tick only
// triggers on an actual change.
func (w *Watcher) prime(target *Target) {
	raw, err := w.mem.Read(target.Address, w.cfg.ReadSize)
	if err != nil {
		w.logger.Warn("initial read failed",
			log.Hex("address", target.Address),
			log.Err(err))
		return
	}
	target.lastSeen = w.codec.Decode(raw)
	w.logger.Info("watching dialogue buffer",
		log.Hex("address", target.Address))
}

// trackSpeaker notes who is talking before the targets are polled.
// Seen speakers accumulate across the whole run and feed the rumor
// simulation, which seeds once and then spreads a little every tick.
func (w *Watcher) trackSpeaker() {
	speaker, err := w.mem.Speaker()
	if err == nil && speaker != "" {
		w.seen[speaker] = struct{}{}
	}

	if w.gossip == nil || len(w.seen) == 0 {
		return
	}

	names := w.villagers.Names()
	if len(names) == 0 {
		names = w.seenSpeakers()
	}
	w.gossip.Seed(names)
	w.gossip.Spread(w.seenSpeakers())
	if err := w.gossip.Save(); err != nil {
		w.logger.Warn("saving gossip state failed", log.Err(err))
	}
}

// Tick performs one poll cycle for a target.
func (w *Watcher) Tick(ctx context.Context, target *Target) {
	raw, err := w.mem.Read(target.Address, w.cfg.ReadSize)
	if err != nil {
		w.logger.Warn("read failed",
			log.Hex("address", target.Address),
			log.Err(err))
		return
	}

	decoded := w.codec.Decode(raw)
	if w.cfg.PrintAll {
		w.logger.Info("dialogue",
			log.Hex("address", target.Address),
			log.String("text", decoded))
	}
	if decoded == target.lastSeen {
		return
	}

	now := w.now()
	if now.Before(target.suppressUntil) {
		// expected echo of our own recent write
		target.lastSeen = decoded
		if strings.Contains(decoded, codec.EndConversationTag) {
			target.suppressUntil = time.Time{}
		}
		return
	}

	if isTimeAnnouncement(decoded) {
		target.lastSeen = decoded
		return
	}

	if target.generating {
		return
	}
	if !w.gate.TryLock() {
		w.logger.Debug("generation in flight elsewhere, skipping",
			log.Hex("address", target.Address))
		return
	}
	target.generating = true
	defer func() {
		target.generating = false
		w.gate.Unlock()
	}()

	w.rewrite(ctx, target, now)
}

// rewrite runs one generation cycle for a target, called with the gate
// held.
func (w *Watcher) rewrite(ctx context.Context, target *Target, now time.Time) {
	speaker := w.currentSpeaker()

	if err := w.mem.Write(target.Address, w.codec.Encode(LoadingPlaceholder)); err != nil {
		w.logger.Warn("writing loading placeholder failed",
			log.Hex("address", target.Address),
			log.Err(err))
		return
	}

	text, err := w.generator.Generate(ctx, w.buildRequest(speaker, now))
	if err != nil {
		w.logger.Warn("generation failed",
			log.String("speaker", speaker),
			log.Err(err))
		return
	}

	encoded := w.codec.Encode(text)
	if err := w.mem.Write(target.Address, encoded); err != nil {
		w.logger.Warn("writing generated dialogue failed",
			log.Hex("address", target.Address),
			log.Err(err))
		return
	}

	// store the predicted decode so the echo does not re-trigger
	target.lastSeen = w.codec.Decode(encoded)
	target.suppressUntil = now.Add(w.cfg.Suppression)

	w.observeGossip(speaker)

	w.logger.Info("dialogue rewritten",
		log.Hex("address", target.Address),
		log.String("speaker", speaker),
		log.Int("bytes", len(encoded)))
}

func (w *Watcher) buildRequest(speaker string, now time.Time) generate.Request {
	record, ok := w.villagers.Get(speaker)

	req := generate.Request{
		Speaker:   speaker,
		Record:    record,
		HasRecord: ok,
		Now:       now,
	}
	if w.gossip != nil {
		req.GossipStage = gossip.Stage(w.gossip.Level(speaker))
		req.GossipTopic = w.gossip.Topic()
		req.HotVillagers = w.gossip.Hot()
	}
	return req
}

func (w *Watcher) currentSpeaker() string {
	speaker, err := w.mem.Speaker()
	if err != nil {
		w.logger.Debug("speaker read failed", log.Err(err))
		return w.cfg.FallbackSpeaker
	}
	if speaker == "" {
		return w.cfg.FallbackSpeaker
	}
	return speaker
}

// observeGossip credits the speaker with first-hand rumor exposure
// after a conversation was rewritten. Seeding and ambient spread
// happen per tick in trackSpeaker.
func (w *Watcher) observeGossip(speaker string) {
	if w.gossip == nil {
		return
	}

	w.gossip.Observe(speaker)
	if err := w.gossip.Save(); err != nil {
		w.logger.Warn("saving gossip state failed", log.Err(err))
	}
}

func (w *Watcher) seenSpeakers() []string {
	names := make([]string, 0, len(w.seen))
	for name := range w.seen {
		names = append(names, name)
	}
	return names
}

// isTimeAnnouncement reports whether the decoded text is the start
// menu time announcement screen. Detection is currently disabled
// pending a decision on how announcements should be handled, the
// pattern branch stays in place but always reports false.
func isTimeAnnouncement(text string) bool {
	const announcementDetection = false
	if !announcementDetection {
		return false
	}
	return strings.Contains(text, "The time is") ||
		strings.Contains(text, "It is now")
}
