// Package gossip simulates rumors spreading between villagers. Each
// villager carries an exposure level 0-100 and a single global scalar
// tracks how widely the current rumor circulates. The state only
// flavors generation prompts, it never affects memory access.
package gossip

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxLevel = 100

	seedGlobal    = 10
	seedVillagers = 3
	seedLevel     = 20

	observeSpeakerBump = 7
	observeGlobalBump  = 1
	spreadGlobalRise   = 1

	hotCount    = 3
	hotMinLevel = 25
)

// defaultTopic is the rumor planted when no saved state carries one.
const defaultTopic = "Tom Nook's loan terms are exploitative and the town's economy is unfair."

// stageBounds maps exposure levels to rumor stages 0-5. A level
// belongs to the highest stage whose bound it reaches.
var stageBounds = []int{0, 10, 25, 45, 70, 90}

type state struct {
	Topic    string         `msgpack:"topic"`
	Global   int            `msgpack:"global"`
	Exposure map[string]int `msgpack:"exposure"`
}

// Simulator owns the rumor state and persists it between runs.
type Simulator struct {
	path   string
	logger *log.Logger
	rng    *rand.Rand

	state state
}

// New creates a simulator persisting to path. Existing state is loaded
// leniently, a missing or unreadable file starts fresh. A nil rng uses
// a time-seeded source.
func New(path string, logger *log.Logger, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulator{
		path:   path,
		logger: logger,
		rng:    rng,
		state: state{
			Topic:    defaultTopic,
			Exposure: map[string]int{},
		},
	}
	s.load()
	return s
}

func (s *Simulator) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var loaded state
	if err := msgpack.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("discarding corrupt gossip state",
			log.String("path", s.path),
			log.Err(err))
		return
	}
	if loaded.Exposure == nil {
		loaded.Exposure = map[string]int{}
	}
	if loaded.Topic == "" {
		loaded.Topic = defaultTopic
	}
	s.state = loaded
}

// Save persists the rumor state to disk.
func (s *Simulator) Save() error {
	data, err := msgpack.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encoding gossip state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing gossip state: %w", err)
	}
	return nil
}

// Seeded returns true once a rumor has been planted.
func (s *Simulator) Seeded() bool {
	return s.state.Global > 0
}

// Seed plants a fresh rumor: the global level starts at 10 and three
// random villagers hear it first. Seeding an active rumor is a no-op.
func (s *Simulator) Seed(names []string) {
	if s.Seeded() || len(names) == 0 {
		return
	}

	s.state.Global = seedGlobal

	shuffled := make([]string, len(names))
	copy(shuffled, names)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	count := min(seedVillagers, len(shuffled))
	for _, name := range shuffled[:count] {
		s.state.Exposure[name] = seedLevel
	}

	s.logger.Debug("seeded rumor", log.Int("carriers", count))
}

// Observe records that the given speaker took part in a conversation,
// raising their exposure and the global level.
func (s *Simulator) Observe(speaker string) {
	s.state.Exposure[speaker] = clampLevel(s.state.Exposure[speaker] + observeSpeakerBump)
	s.state.Global = clampLevel(s.state.Global + observeGlobalBump)
}

// Spread simulates the rumor travelling between villagers: the number
// of contacts and the exposure bump both grow with the global level,
// which itself creeps up a little on every call.
func (s *Simulator) Spread(names []string) {
	if len(names) == 0 {
		return
	}

	contacts := max(1, s.state.Global/20)
	bump := 1 + s.state.Global/33
	for range contacts {
		name := names[s.rng.Intn(len(names))]
		s.state.Exposure[name] = clampLevel(s.state.Exposure[name] + bump)
	}

	s.state.Global = clampLevel(s.state.Global + spreadGlobalRise)
}

// Topic returns the rumor currently making the rounds.
func (s *Simulator) Topic() string {
	return s.state.Topic
}

// SetTopic replaces the rumor topic. An empty topic keeps the current
// one.
func (s *Simulator) SetTopic(topic string) {
	if topic == "" {
		return
	}
	s.state.Topic = topic
}

// Level returns the exposure level of one villager.
func (s *Simulator) Level(name string) int {
	return s.state.Exposure[name]
}

// Global returns the global rumor level.
func (s *Simulator) Global() int {
	return s.state.Global
}

// Stage converts an exposure level into a rumor stage 0-5.
func Stage(level int) int {
	stage := 0
	for i, bound := range stageBounds {
		if level >= bound {
			stage = i
		}
	}
	return stage
}

// Hot returns up to three villagers with the highest exposure levels,
// skipping anyone below stage 2 territory. Ties break by name so the
// result is stable.
func (s *Simulator) Hot() []string {
	type entry struct {
		name  string
		level int
	}

	var entries []entry
	for name, level := range s.state.Exposure {
		if level >= hotMinLevel {
			entries = append(entries, entry{name: name, level: level})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].level != entries[j].level {
			return entries[i].level > entries[j].level
		}
		return entries[i].name < entries[j].name
	})

	count := min(hotCount, len(entries))
	hot := make([]string, 0, count)
	for _, e := range entries[:count] {
		hot = append(hot, e.name)
	}
	return hot
}

func clampLevel(level int) int {
	if level > maxLevel {
		return maxLevel
	}
	return level
}
