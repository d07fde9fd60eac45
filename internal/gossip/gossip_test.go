package gossip

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testNames = []string{"Rosie", "Bob", "Mitzi", "Punchy", "Olivia"}

func testSimulator(t *testing.T) *Simulator {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gossip.bin")
	return New(path, log.NewTestLogger(t), rand.New(rand.NewSource(1)))
}

func TestSeed(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)
	assert.False(t, sim.Seeded())

	sim.Seed(testNames)
	assert.True(t, sim.Seeded())
	assert.Equal(t, 10, sim.Global())

	carriers := 0
	for _, name := range testNames {
		if sim.Level(name) == 20 {
			carriers++
		}
	}
	assert.Equal(t, 3, carriers)

	// seeding an active rumor changes nothing
	sim.Observe("Rosie")
	global := sim.Global()
	sim.Seed(testNames)
	assert.Equal(t, global, sim.Global())
}

func TestObserve(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)

	sim.Observe("Rosie")
	assert.Equal(t, 7, sim.Level("Rosie"))
	assert.Equal(t, 1, sim.Global())

	// levels cap at 100
	for range 20 {
		sim.Observe("Rosie")
	}
	assert.Equal(t, 100, sim.Level("Rosie"))
}

func TestSpreadGrowsWithGlobalLevel(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)

	// at global 0 exactly one contact hears the rumor, bumped by 1
	sim.Spread(testNames)
	total := 0
	for _, name := range testNames {
		total += sim.Level(name)
	}
	assert.Equal(t, 1, total)

	for range 100 {
		sim.Observe("Rosie")
	}
	// at global 100: 5 contacts, bump 4. Rosie already sits at the cap
	// and is excluded so every bump is visible in the total.
	others := []string{"Bob", "Mitzi", "Punchy", "Olivia"}
	before := totalExposure(sim)
	sim.Spread(others)
	assert.Equal(t, before+5*4, totalExposure(sim))
}

func totalExposure(sim *Simulator) int {
	total := 0
	for _, name := range testNames {
		total += sim.Level(name)
	}
	return total
}

func TestSpreadRaisesGlobalLevel(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)

	sim.Spread(testNames)
	assert.Equal(t, 1, sim.Global())

	// the natural rise stops at the cap
	sim.state.Global = 100
	sim.Spread(testNames)
	assert.Equal(t, 100, sim.Global())
}

func TestTopic(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)
	assert.Equal(t, defaultTopic, sim.Topic())

	sim.SetTopic("Resetti is digging a tunnel under the museum.")
	assert.Equal(t, "Resetti is digging a tunnel under the museum.", sim.Topic())

	// an empty topic keeps the current one
	sim.SetTopic("")
	assert.Equal(t, "Resetti is digging a tunnel under the museum.", sim.Topic())
}

func TestStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    int
		expected int
	}{
		{level: 0, expected: 0},
		{level: 9, expected: 0},
		{level: 10, expected: 1},
		{level: 24, expected: 1},
		{level: 25, expected: 2},
		{level: 44, expected: 2},
		{level: 45, expected: 3},
		{level: 69, expected: 3},
		{level: 70, expected: 4},
		{level: 89, expected: 4},
		{level: 90, expected: 5},
		{level: 100, expected: 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Stage(tt.level))
	}
}

func TestHot(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)
	sim.state.Exposure = map[string]int{
		"Rosie":  80,
		"Bob":    25,
		"Mitzi":  60,
		"Punchy": 24, // below threshold
		"Olivia": 80, // ties with Rosie, name breaks the tie
	}

	assert.Equal(t, "Olivia,Rosie,Mitzi", strings.Join(sim.Hot(), ","))
}

func TestHotEmpty(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t)
	assert.Len(t, sim.Hot(), 0)
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gossip.bin")
	logger := log.NewTestLogger(t)

	sim := New(path, logger, rand.New(rand.NewSource(1)))
	sim.Seed(testNames)
	sim.Observe("Rosie")
	sim.SetTopic("Someone saw K.K. Slider at the dump.")
	assert.NoError(t, sim.Save())

	reloaded := New(path, logger, rand.New(rand.NewSource(2)))
	assert.True(t, reloaded.Seeded())
	assert.Equal(t, sim.Global(), reloaded.Global())
	assert.Equal(t, sim.Level("Rosie"), reloaded.Level("Rosie"))
	assert.Equal(t, "Someone saw K.K. Slider at the dump.", reloaded.Topic())
}

func TestCorruptStateStartsFresh(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gossip.bin")
	assert.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0o644))

	sim := New(path, log.NewTestLogger(t), rand.New(rand.NewSource(1)))
	assert.False(t, sim.Seeded())
	assert.Equal(t, 0, sim.Global())
	assert.Equal(t, defaultTopic, sim.Topic())
}
