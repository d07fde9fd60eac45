// Package memory provides raw virtual memory access to another process
// on the host. It locates the target process by name, opens a handle
// capable of memory operations and exposes arbitrary-offset reads and
// writes plus region enumeration.
//
// One implementation exists per host platform behind the Backend
// interface; upper layers never see platform types. Reads may be
// partially fulfilled where the platform call itself was partial,
// writes are all or nothing.
package memory

import (
	"errors"
	"strings"
)

var (
	// ErrProcessNotFound indicates that no running process matched the
	// configured target name.
	ErrProcessNotFound = errors.New("target process not found")

	// ErrNotConnected indicates an operation before a successful Connect.
	ErrNotConnected = errors.New("not connected to target process")

	// ErrAccessDenied indicates the platform refused memory access,
	// usually due to missing privileges or process protection.
	ErrAccessDenied = errors.New("memory access denied")
)

// Region describes one mapped memory region of the target process.
type Region struct {
	Base       uint64
	Size       uint64
	Protection string // rwx style flag string, dashes for missing bits
}

// ReadWrite returns true if the region is both readable and writable.
func (r Region) ReadWrite() bool {
	return strings.Contains(r.Protection, "rw")
}

// Backend is the per-platform raw memory access capability.
type Backend interface {
	// Connect locates the target process and opens a memory-capable
	// handle. Failure is reported, never fatal; callers may retry.
	Connect() error
	// Read reads size bytes at the given real address. The result may be
	// shorter than requested if the platform call was partially
	// fulfilled. Ordinary access failures return an error, they never
	// panic, so polling callers can continue.
	Read(address uint64, size int) ([]byte, error)
	// Write writes data at the given real address. A short write is an
	// error.
	Write(address uint64, data []byte) error
	// Regions enumerates the mapped memory regions of the target
	// process in address order. May be empty on permission failure.
	Regions() ([]Region, error)
	// Disconnect releases the process handle.
	Disconnect() error
	// PID returns the process id of the connected target, 0 before
	// Connect.
	PID() int
}

// New creates the memory backend for the current host platform. The
// target process is matched by case-sensitive name substring.
func New(processName string) Backend {
	return newBackend(processName)
}
