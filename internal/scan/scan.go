// Package scan searches the console's MEM1 window for text, used to
// find dialogue buffer addresses of game builds that have not been
// mapped yet.
package scan

import (
	"bytes"
	"sort"

	"github.com/retroenv/retrogolib/log"

	"github.com/emutalk/dolphintalk/internal/gamecube"
)

const (
	defaultChunkSize = 64 * 1024
	contextRadius    = 48
)

// Match is one occurrence of the needle inside MEM1.
type Match struct {
	// Address is the console address of the first needle byte.
	Address uint64
	// Context is the printable text surrounding the match.
	Context string
}

// Memory reads translated console memory.
type Memory interface {
	Read(address uint64, size int) ([]byte, error)
}

// Scanner walks MEM1 in overlapping chunks looking for a byte needle.
type Scanner struct {
	mem    Memory
	logger *log.Logger

	chunkSize int
}

// New creates a scanner.
func New(mem Memory, logger *log.Logger) *Scanner {
	return &Scanner{
		mem:       mem,
		logger:    logger,
		chunkSize: defaultChunkSize,
	}
}

// Find returns all occurrences of needle inside MEM1, sorted by
// address. Chunks overlap by the needle length so matches spanning a
// chunk boundary are not missed; the overlap duplicates are dropped.
func (s *Scanner) Find(needle string) ([]Match, error) {
	if needle == "" {
		return nil, nil
	}

	pattern := []byte(needle)
	overlap := len(pattern) - 1
	seen := map[uint64]struct{}{}
	var matches []Match

	for base := gamecube.MEM1Start; base < gamecube.MEM1End; base += uint64(s.chunkSize) {
		size := s.chunkSize + overlap
		if base+uint64(size) > gamecube.MEM1End {
			size = int(gamecube.MEM1End - base)
		}

		chunk, err := s.mem.Read(base, size)
		if err != nil {
			s.logger.Debug("chunk read failed",
				log.Hex("address", base),
				log.Err(err))
			continue
		}

		offset := 0
		for {
			idx := bytes.Index(chunk[offset:], pattern)
			if idx < 0 {
				break
			}
			at := offset + idx
			address := base + uint64(at)
			if _, dup := seen[address]; !dup {
				seen[address] = struct{}{}
				matches = append(matches, Match{
					Address: address,
					Context: extractContext(chunk, at, len(pattern)),
				})
			}
			offset = at + 1
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Address < matches[j].Address
	})
	return matches, nil
}

// extractContext expands around a match while the bytes stay printable
// ASCII, bounded by a fixed radius on each side.
func extractContext(chunk []byte, at, length int) string {
	start := at
	for start > 0 && at-start < contextRadius && printable(chunk[start-1]) {
		start--
	}
	end := at + length
	for end < len(chunk) && end-(at+length) < contextRadius && printable(chunk[end]) {
		end++
	}
	return string(chunk[start:end])
}

func printable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}
