//go:build linux

package memory

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type linuxBackend struct {
	processName string

	pid       int
	connected bool
}

func newBackend(processName string) Backend {
	return &linuxBackend{
		processName: processName,
	}
}

func (b *linuxBackend) Connect() error {
	pid, err := findProcessByName(b.processName)
	if err != nil {
		return fmt.Errorf("locating process %q: %w", b.processName, err)
	}

	b.pid = pid
	b.connected = true
	return nil
}

func (b *linuxBackend) Read(address uint64, size int) ([]byte, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}
	if size <= 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	local := unix.Iovec{Base: &buf[0]}
	local.SetLen(size)
	remote := unix.RemoteIovec{Base: uintptr(address), Len: size}

	n, err := unix.ProcessVMReadv(b.pid, []unix.Iovec{local}, []unix.RemoteIovec{remote}, 0)
	if err != nil {
		return nil, b.wrapSyscallError("read", address, err)
	}
	return buf[:n], nil
}

func (b *linuxBackend) Write(address uint64, data []byte) error {
	if !b.connected {
		return ErrNotConnected
	}
	if len(data) == 0 {
		return nil
	}

	local := unix.Iovec{Base: &data[0]}
	local.SetLen(len(data))
	remote := unix.RemoteIovec{Base: uintptr(address), Len: len(data)}

	n, err := unix.ProcessVMWritev(b.pid, []unix.Iovec{local}, []unix.RemoteIovec{remote}, 0)
	if err != nil {
		return b.wrapSyscallError("write", address, err)
	}
	if n != len(data) {
		return fmt.Errorf("short write at 0x%X: %d of %d bytes", address, n, len(data))
	}
	return nil
}

func (b *linuxBackend) Regions() ([]Region, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}
	return readProcessMaps(b.pid)
}

func (b *linuxBackend) Disconnect() error {
	b.pid = 0
	b.connected = false
	return nil
}

func (b *linuxBackend) PID() int {
	return b.pid
}

func (b *linuxBackend) wrapSyscallError(op string, address uint64, err error) error {
	switch err {
	case unix.EPERM:
		return fmt.Errorf("%s at 0x%X: %w: grant CAP_SYS_PTRACE or relax "+
			"/proc/sys/kernel/yama/ptrace_scope", op, address, ErrAccessDenied)
	case unix.ESRCH:
		b.connected = false
		return fmt.Errorf("%s at 0x%X: process %d exited: %w", op, address, b.pid, ErrNotConnected)
	}
	return fmt.Errorf("%s at 0x%X: %w", op, address, err)
}
