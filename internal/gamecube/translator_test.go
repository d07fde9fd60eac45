package gamecube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/emutalk/dolphintalk/internal/memory"
)

const testHostBase = 0x7f2c38000000

// fakeBackend serves reads from sparse preset chunks keyed by real
// address, zero-filling everything else.
type fakeBackend struct {
	regions []memory.Region
	data    map[uint64][]byte
}

func newFakeBackend(regions []memory.Region) *fakeBackend {
	return &fakeBackend{
		regions: regions,
		data:    map[uint64][]byte{},
	}
}

func (f *fakeBackend) Connect() error {
	return nil
}

func (f *fakeBackend) Read(address uint64, size int) ([]byte, error) {
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

func (f *fakeBackend) Write(address uint64, data []byte) error {
	chunk := make([]byte, len(data))
	copy(chunk, data)
	f.data[address] = chunk
	return nil
}

func (f *fakeBackend) Regions() ([]memory.Region, error) {
	return f.regions, nil
}

func (f *fakeBackend) Disconnect() error {
	return nil
}

func (f *fakeBackend) PID() int {
	return 1234
}

func testTranslator(t *testing.T, regions []memory.Region) (*Translator, *fakeBackend) {
	t.Helper()

	backend := newFakeBackend(regions)
	return NewTranslator(backend, log.NewTestLogger(t)), backend
}

func mem1Regions() []memory.Region {
	return []memory.Region{
		{Base: 0x1000, Size: 0x10000, Protection: "rw-p"},
		{Base: 0x55c3a0a00000, Size: MEM1Size, Protection: "r--p"},
		{Base: 0x7f2c20000000, Size: MEM1Size, Protection: "rw-p"},
		{Base: testHostBase, Size: MEM1Size + 0x1000, Protection: "rw-p"},
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	translator, backend := testTranslator(t, mem1Regions())
	backend.data[testHostBase] = []byte("GAFE01\x00\x00JFE\x00\x00\x00\x00\x00")

	assert.NoError(t, translator.Locate())
	assert.Equal(t, uint64(testHostBase), translator.HostBase())
}

func TestLocateNotFound(t *testing.T) {
	t.Parallel()

	translator, _ := testTranslator(t, mem1Regions())

	err := translator.Locate()
	assert.True(t, errors.Is(err, ErrWindowNotFound))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	translator, backend := testTranslator(t, mem1Regions())
	backend.data[testHostBase] = []byte("GAFE")
	assert.NoError(t, translator.Locate())

	real, err := translator.Translate(DialogueAddress)
	assert.NoError(t, err)
	assert.Equal(t, uint64(testHostBase)+(DialogueAddress-MEM1Start), real)

	tests := []struct {
		name    string
		address uint64
	}{
		{name: "below window", address: MEM1Start - 1},
		{name: "at window end", address: MEM1End},
		{name: "far outside", address: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translator.Translate(tt.address)
			assert.True(t, errors.Is(err, ErrOutsideWindow))
		})
	}
}

func TestTranslateBeforeLocate(t *testing.T) {
	t.Parallel()

	translator, _ := testTranslator(t, nil)

	_, err := translator.Translate(DialogueAddress)
	assert.True(t, errors.Is(err, ErrWindowNotFound))
}

func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	translator, backend := testTranslator(t, mem1Regions())
	backend.data[testHostBase] = []byte("GAFE")
	assert.NoError(t, translator.Locate())

	payload := []byte{0x48, 0x65, 0x6C, 0x6C, 0x6F, 0x00}
	assert.NoError(t, translator.Write(DialogueAddress, payload))

	read, err := translator.Read(DialogueAddress, len(payload))
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("% X", payload), fmt.Sprintf("% X", read))
}

func TestReadRejectsWindowOverrun(t *testing.T) {
	t.Parallel()

	translator, backend := testTranslator(t, mem1Regions())
	backend.data[testHostBase] = []byte("GAFE")
	assert.NoError(t, translator.Locate())

	_, err := translator.Read(MEM1End-8, 16)
	assert.True(t, errors.Is(err, ErrOutsideWindow))

	err = translator.Write(MEM1End-8, make([]byte, 16))
	assert.True(t, errors.Is(err, ErrOutsideWindow))
}

func TestSpeaker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		buffer   []byte
		expected string
	}{
		{
			name:     "name followed by stale data",
			buffer:   append([]byte("Rosie\x00"), []byte("garbage")...),
			expected: "Rosie",
		},
		{
			name:     "control byte terminates",
			buffer:   []byte("Bob\x01old"),
			expected: "Bob",
		},
		{
			name:     "all zero buffer",
			buffer:   make([]byte, speakerWindow),
			expected: "",
		},
		{
			name:     "trailing spaces trimmed",
			buffer:   []byte("Ace   \x00"),
			expected: "Ace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			translator, backend := testTranslator(t, mem1Regions())
			backend.data[testHostBase] = []byte("GAFE")
			assert.NoError(t, translator.Locate())

			speakerReal := uint64(testHostBase) + (SpeakerAddress - MEM1Start)
			backend.data[speakerReal] = tt.buffer

			speaker, err := translator.Speaker()
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, speaker)
		})
	}
}
