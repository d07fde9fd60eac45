package scan

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/emutalk/dolphintalk/internal/gamecube"
)

// fakeMemory serves reads from sparse chunks planted at console
// addresses, zero-filling everything else.
type fakeMemory struct {
	data map[uint64][]byte
}

func (f *fakeMemory) Read(address uint64, size int) ([]byte, error) {
	buf := make([]byte, size)
	for base, chunk := range f.data {
		end := base + uint64(len(chunk))
		if address >= end || base >= address+uint64(size) {
			continue
		}
		from, to := uint64(0), uint64(0)
		if base > address {
			to = base - address
		} else {
			from = address - base
		}
		copy(buf[to:], chunk[from:])
	}
	return buf, nil
}

func TestFind(t *testing.T) {
	t.Parallel()

	mem := &fakeMemory{data: map[uint64][]byte{
		gamecube.MEM1Start + 0x100:    []byte("\x00Hello, I'm Rosie!\x00"),
		gamecube.MEM1Start + 0x298360: []byte("Rosie: want to trade?"),
	}}

	scanner := New(mem, log.NewTestLogger(t))
	matches, err := scanner.Find("Rosie")
	assert.NoError(t, err)
	assert.Len(t, matches, 2)

	// sorted by address, context expands to the printable run
	assert.Equal(t, gamecube.MEM1Start+0x100+12, matches[0].Address)
	assert.Equal(t, "Hello, I'm Rosie!", matches[0].Context)
	assert.Equal(t, gamecube.MEM1Start+0x298360, matches[1].Address)
	assert.Equal(t, "Rosie: want to trade?", matches[1].Context)
}

func TestFindAcrossChunkBoundary(t *testing.T) {
	t.Parallel()

	scannerChunk := 0x1000
	boundary := gamecube.MEM1Start + uint64(scannerChunk)
	mem := &fakeMemory{data: map[uint64][]byte{
		boundary - 3: []byte("needle"),
	}}

	scanner := New(mem, log.NewTestLogger(t))
	scanner.chunkSize = scannerChunk

	matches, err := scanner.Find("needle")
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, boundary-3, matches[0].Address)
}

func TestFindNoMatches(t *testing.T) {
	t.Parallel()

	scanner := New(&fakeMemory{data: map[uint64][]byte{}}, log.NewTestLogger(t))
	scanner.chunkSize = 0x100000

	matches, err := scanner.Find("absent")
	assert.NoError(t, err)
	assert.Len(t, matches, 0)

	matches, err = scanner.Find("")
	assert.NoError(t, err)
	assert.Len(t, matches, 0)
}
