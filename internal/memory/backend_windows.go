//go:build windows

package memory

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

type windowsBackend struct {
	processName string

	pid       uint32
	handle    windows.Handle
	connected bool
}

func newBackend(processName string) Backend {
	return &windowsBackend{
		processName: processName,
	}
}

func (b *windowsBackend) Connect() error {
	pid, err := findProcessByName(b.processName)
	if err != nil {
		return fmt.Errorf("locating process %q: %w", b.processName, err)
	}

	access := uint32(windows.PROCESS_QUERY_INFORMATION | windows.PROCESS_VM_READ |
		windows.PROCESS_VM_WRITE | windows.PROCESS_VM_OPERATION)
	handle, err := windows.OpenProcess(access, false, pid)
	if err != nil {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return fmt.Errorf("opening process %d: %w: run as Administrator", pid, ErrAccessDenied)
		}
		return fmt.Errorf("opening process %d: %w", pid, err)
	}

	b.pid = pid
	b.handle = handle
	b.connected = true
	return nil
}

func (b *windowsBackend) Read(address uint64, size int) ([]byte, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}
	if size <= 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	var read uintptr
	err := windows.ReadProcessMemory(b.handle, uintptr(address), &buf[0], uintptr(size), &read)
	if err != nil {
		return nil, b.wrapSyscallError("read", address, err)
	}
	return buf[:read], nil
}

func (b *windowsBackend) Write(address uint64, data []byte) error {
	if !b.connected {
		return ErrNotConnected
	}
	if len(data) == 0 {
		return nil
	}

	var written uintptr
	err := windows.WriteProcessMemory(b.handle, uintptr(address), &data[0], uintptr(len(data)), &written)
	if err != nil {
		return b.wrapSyscallError("write", address, err)
	}
	if written != uintptr(len(data)) {
		return fmt.Errorf("short write at 0x%X: %d of %d bytes", address, written, len(data))
	}
	return nil
}

func (b *windowsBackend) Regions() ([]Region, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}

	var regions []Region
	var address uintptr
	for {
		var info windows.MemoryBasicInformation
		err := windows.VirtualQueryEx(b.handle, address, &info, unsafe.Sizeof(info))
		if err != nil {
			break // reached the end of the address space
		}

		if info.State == windows.MEM_COMMIT {
			regions = append(regions, Region{
				Base:       uint64(info.BaseAddress),
				Size:       uint64(info.RegionSize),
				Protection: protectionString(info.Protect),
			})
		}

		next := info.BaseAddress + info.RegionSize
		if next <= address {
			break
		}
		address = next
	}
	return regions, nil
}

func (b *windowsBackend) Disconnect() error {
	if !b.connected {
		return nil
	}
	err := windows.CloseHandle(b.handle)
	b.handle = 0
	b.pid = 0
	b.connected = false
	if err != nil {
		return fmt.Errorf("closing process handle: %w", err)
	}
	return nil
}

func (b *windowsBackend) PID() int {
	return int(b.pid)
}

func (b *windowsBackend) wrapSyscallError(op string, address uint64, err error) error {
	if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return fmt.Errorf("%s at 0x%X: %w: run as Administrator", op, address, ErrAccessDenied)
	}
	if errors.Is(err, windows.ERROR_INVALID_HANDLE) {
		b.connected = false
		return fmt.Errorf("%s at 0x%X: process %d exited: %w", op, address, b.pid, ErrNotConnected)
	}
	return fmt.Errorf("%s at 0x%X: %w", op, address, err)
}

// findProcessByName walks the process snapshot and returns the pid of
// the first process whose executable name contains name.
func findProcessByName(name string) (uint32, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, fmt.Errorf("creating process snapshot: %w", err)
	}
	defer func() {
		_ = windows.CloseHandle(snapshot)
	}()

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return 0, fmt.Errorf("reading process snapshot: %w", err)
	}

	for {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if strings.Contains(exe, name) {
			return entry.ProcessID, nil
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return 0, fmt.Errorf("%w: is the emulator running?", ErrProcessNotFound)
}

// protectionString converts a PAGE_* protection constant into an rwx
// style flag string.
func protectionString(protect uint32) string {
	flags := []byte("---")
	switch protect &^ (windows.PAGE_GUARD | windows.PAGE_NOCACHE | windows.PAGE_WRITECOMBINE) {
	case windows.PAGE_READONLY:
		flags[0] = 'r'
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		flags[0], flags[1] = 'r', 'w'
	case windows.PAGE_EXECUTE:
		flags[2] = 'x'
	case windows.PAGE_EXECUTE_READ:
		flags[0], flags[2] = 'r', 'x'
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		flags[0], flags[1], flags[2] = 'r', 'w', 'x'
	}
	return string(flags)
}
