//go:build darwin

package memory

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

const (
	kernSuccess           = 0
	kernProtectionFailure = 2
	kernInvalidAddress    = 1

	vmRegionBasicInfo64      = 9
	vmRegionBasicInfoCount64 = 9

	vmProtRead    = 0x1
	vmProtWrite   = 0x2
	vmProtExecute = 0x4
)

// vm_region_basic_info_data_64_t as handed back by mach_vm_region.
type regionBasicInfo64 struct {
	Protection     int32
	MaxProtection  int32
	Inheritance    uint32
	Shared         uint32
	Reserved       uint32
	Offset         uint64
	Behavior       int32
	UserWiredCount uint16
	_              uint16
}

// Mach trap bindings, resolved from libSystem at first connect.
var (
	machBindOnce sync.Once
	machBindErr  error

	machTaskSelf        func() uint32
	taskForPid          func(target uint32, pid int32, task *uint32) int32
	machVMReadOverwrite func(task uint32, address uint64, size uint64, data uintptr, outSize *uint64) int32
	machVMWrite         func(task uint32, address uint64, data uintptr, count uint32) int32
	machVMRegion        func(task uint32, address *uint64, size *uint64, flavor int32, info uintptr, count *uint32, objectName *uint32) int32
	machPortDeallocate  func(task uint32, port uint32) int32
)

func bindMach() error {
	machBindOnce.Do(func() {
		lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			machBindErr = fmt.Errorf("loading libSystem: %w", err)
			return
		}

		purego.RegisterLibFunc(&machTaskSelf, lib, "mach_task_self")
		purego.RegisterLibFunc(&taskForPid, lib, "task_for_pid")
		purego.RegisterLibFunc(&machVMReadOverwrite, lib, "mach_vm_read_overwrite")
		purego.RegisterLibFunc(&machVMWrite, lib, "mach_vm_write")
		purego.RegisterLibFunc(&machVMRegion, lib, "mach_vm_region")
		purego.RegisterLibFunc(&machPortDeallocate, lib, "mach_port_deallocate")
	})
	return machBindErr
}

type darwinBackend struct {
	processName string

	pid       int
	task      uint32
	connected bool
}

func newBackend(processName string) Backend {
	return &darwinBackend{
		processName: processName,
	}
}

func (b *darwinBackend) Connect() error {
	if err := bindMach(); err != nil {
		return err
	}

	pid, err := findProcessByName(b.processName)
	if err != nil {
		return fmt.Errorf("locating process %q: %w", b.processName, err)
	}

	var task uint32
	if ret := taskForPid(machTaskSelf(), int32(pid), &task); ret != kernSuccess {
		return fmt.Errorf("task_for_pid for %d failed (kern %d): %w: run as root or grant "+
			"the debugger entitlement", pid, ret, ErrAccessDenied)
	}

	b.pid = pid
	b.task = task
	b.connected = true
	return nil
}

func (b *darwinBackend) Read(address uint64, size int) ([]byte, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}
	if size <= 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	var outSize uint64
	ret := machVMReadOverwrite(b.task, address, uint64(size),
		uintptr(unsafe.Pointer(&buf[0])), &outSize)
	if ret != kernSuccess {
		return nil, b.wrapKernError("read", address, ret)
	}
	return buf[:outSize], nil
}

func (b *darwinBackend) Write(address uint64, data []byte) error {
	if !b.connected {
		return ErrNotConnected
	}
	if len(data) == 0 {
		return nil
	}

	ret := machVMWrite(b.task, address, uintptr(unsafe.Pointer(&data[0])), uint32(len(data)))
	if ret != kernSuccess {
		return b.wrapKernError("write", address, ret)
	}
	return nil
}

func (b *darwinBackend) Regions() ([]Region, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}

	var regions []Region
	var address uint64
	for {
		var size uint64
		var info regionBasicInfo64
		count := uint32(vmRegionBasicInfoCount64)
		var objectName uint32

		ret := machVMRegion(b.task, &address, &size, vmRegionBasicInfo64,
			uintptr(unsafe.Pointer(&info)), &count, &objectName)
		if ret != kernSuccess {
			break // reached the end of the address space
		}
		if objectName != 0 {
			machPortDeallocate(machTaskSelf(), objectName)
		}

		regions = append(regions, Region{
			Base:       address,
			Size:       size,
			Protection: machProtectionString(info.Protection),
		})
		address += size
	}
	return regions, nil
}

func (b *darwinBackend) Disconnect() error {
	if b.connected && b.task != 0 {
		machPortDeallocate(machTaskSelf(), b.task)
	}
	b.task = 0
	b.pid = 0
	b.connected = false
	return nil
}

func (b *darwinBackend) PID() int {
	return b.pid
}

func (b *darwinBackend) wrapKernError(op string, address uint64, ret int32) error {
	switch ret {
	case kernProtectionFailure:
		return fmt.Errorf("%s at 0x%X: %w (kern %d)", op, address, ErrAccessDenied, ret)
	case kernInvalidAddress:
		return fmt.Errorf("%s at 0x%X: invalid address (kern %d)", op, address, ret)
	}
	return fmt.Errorf("%s at 0x%X: mach error %d", op, address, ret)
}

// findProcessByName walks the kernel process table and returns the pid
// of the first process whose command name contains name.
func findProcessByName(name string) (int, error) {
	procs, err := unix.SysctlKinfoProcSlice("kern.proc.all")
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}

	for i := range procs {
		comm := commString(procs[i].Proc.P_comm[:])
		if strings.Contains(comm, name) {
			return int(procs[i].Proc.P_pid), nil
		}
	}
	return 0, fmt.Errorf("%w: is the emulator running?", ErrProcessNotFound)
}

func commString(comm []int8) string {
	buf := make([]byte, 0, len(comm))
	for _, c := range comm {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	return string(buf)
}

func machProtectionString(prot int32) string {
	flags := []byte("---")
	if prot&vmProtRead != 0 {
		flags[0] = 'r'
	}
	if prot&vmProtWrite != 0 {
		flags[1] = 'w'
	}
	if prot&vmProtExecute != 0 {
		flags[2] = 'x'
	}
	return string(flags)
}
