// Package gamecube maps the GameCube's MEM1 address window onto the
// host addresses where the emulator keeps it mapped.
package gamecube

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/emutalk/dolphintalk/internal/memory"
)

const (
	// MEM1Start is the base of the console's primary RAM window.
	MEM1Start uint64 = 0x80000000
	// MEM1End is the exclusive end of the MEM1 window.
	MEM1End uint64 = 0x81800000
	// MEM1Size is the size of MEM1, 24 MiB.
	MEM1Size = MEM1End - MEM1Start

	// DialogueAddress is the dialogue text buffer of the NTSC-U build.
	DialogueAddress uint64 = 0x81298360
	// SpeakerAddress holds the current speaker name.
	SpeakerAddress uint64 = 0x8129A3EA

	speakerWindow = 32
	probeSize     = 16
)

// gameMarker is the game ID of Animal Crossing (NTSC-U), present at the
// start of MEM1 while the game is running.
var gameMarker = []byte("GAFE")

var (
	// ErrWindowNotFound indicates that no mapped region of the target
	// process looks like the emulated MEM1 window.
	ErrWindowNotFound = errors.New("MEM1 window not found in target process")

	// ErrOutsideWindow indicates a console address outside MEM1.
	// Such addresses are always rejected, never clamped into range.
	ErrOutsideWindow = errors.New("address outside MEM1 window")
)

// Translator resolves console MEM1 addresses to real addresses inside
// the emulator process and performs reads and writes through them.
type Translator struct {
	backend memory.Backend
	logger  *log.Logger

	hostBase uint64
	located  bool
}

// NewTranslator creates a translator on top of a connected backend.
func NewTranslator(backend memory.Backend, logger *log.Logger) *Translator {
	return &Translator{
		backend: backend,
		logger:  logger,
	}
}

// Locate discovers where MEM1 is mapped inside the target process by
// scanning its memory regions. Only regions at least as large as MEM1
// and mapped read+write are candidates; the one whose first bytes
// contain the game ID marker wins.
func (t *Translator) Locate() error {
	regions, err := t.backend.Regions()
	if err != nil {
		return fmt.Errorf("enumerating regions: %w", err)
	}

	for _, region := range regions {
		if region.Size < MEM1Size || !region.ReadWrite() {
			continue
		}

		probe, err := t.backend.Read(region.Base, probeSize)
		if err != nil {
			t.logger.Debug("probe read failed",
				log.Hex("base", region.Base),
				log.Err(err))
			continue
		}
		if !bytes.Contains(probe, gameMarker) {
			continue
		}

		t.hostBase = region.Base
		t.located = true
		t.logger.Debug("located MEM1 window",
			log.Hex("host_base", region.Base),
			log.Hex("size", region.Size))
		return nil
	}
	return fmt.Errorf("%w: is the game running?", ErrWindowNotFound)
}

// HostBase returns the discovered real base address of MEM1.
func (t *Translator) HostBase() uint64 {
	return t.hostBase
}

// Translate resolves a console MEM1 address to a real address inside
// the target process.
func (t *Translator) Translate(address uint64) (uint64, error) {
	if !t.located {
		return 0, ErrWindowNotFound
	}
	if address < MEM1Start || address >= MEM1End {
		return 0, fmt.Errorf("0x%08X: %w", address, ErrOutsideWindow)
	}
	return t.hostBase + (address - MEM1Start), nil
}

// Read reads size bytes at a console MEM1 address.
func (t *Translator) Read(address uint64, size int) ([]byte, error) {
	real, err := t.Translate(address)
	if err != nil {
		return nil, err
	}
	if size > 0 && address+uint64(size) > MEM1End {
		return nil, fmt.Errorf("read of %d bytes at 0x%08X: %w", size, address, ErrOutsideWindow)
	}
	return t.backend.Read(real, size)
}

// Write writes data at a console MEM1 address.
func (t *Translator) Write(address uint64, data []byte) error {
	real, err := t.Translate(address)
	if err != nil {
		return err
	}
	if address+uint64(len(data)) > MEM1End {
		return fmt.Errorf("write of %d bytes at 0x%08X: %w", len(data), address, ErrOutsideWindow)
	}
	return t.backend.Write(real, data)
}

// Speaker reads the current speaker name from the game's speaker
// buffer. An empty string means no speaker is set.
func (t *Translator) Speaker() (string, error) {
	raw, err := t.Read(SpeakerAddress, speakerWindow)
	if err != nil {
		return "", err
	}

	// The buffer holds printable ASCII up to the first NUL or control
	// byte, the remainder is stale data.
	end := len(raw)
	for i, b := range raw {
		if b < 0x20 || b > 0x7E {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(raw[:end])), nil
}
