//go:build linux

package memory

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// findProcessByName walks /proc and returns the pid of the first
// process whose command name or executable path contains name.
func findProcessByName(name string) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("reading /proc: %w", err)
	}

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		comm, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "comm"))
		if err == nil && strings.Contains(strings.TrimSpace(string(comm)), name) {
			return pid, nil
		}

		// comm is truncated to 15 characters, check the executable
		// path as well.
		exe, err := os.Readlink(filepath.Join("/proc", entry.Name(), "exe"))
		if err == nil && strings.Contains(filepath.Base(exe), name) {
			return pid, nil
		}
	}
	return 0, fmt.Errorf("%w: is the emulator running?", ErrProcessNotFound)
}

// readProcessMaps parses /proc/<pid>/maps into regions.
func readProcessMaps(pid int) ([]Region, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("opening maps for pid %d: %w: run with elevated "+
				"privileges", pid, ErrAccessDenied)
		}
		return nil, fmt.Errorf("opening maps for pid %d: %w", pid, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var regions []Region
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		region, ok := parseMapsLine(scanner.Text())
		if !ok {
			continue
		}
		regions = append(regions, region)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading maps for pid %d: %w", pid, err)
	}
	return regions, nil
}

// parseMapsLine parses one /proc/<pid>/maps line of the form
// "start-end perms offset dev inode path".
func parseMapsLine(line string) (Region, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Region{}, false
	}

	bounds := strings.SplitN(fields[0], "-", 2)
	if len(bounds) != 2 {
		return Region{}, false
	}
	start, err := strconv.ParseUint(bounds[0], 16, 64)
	if err != nil {
		return Region{}, false
	}
	end, err := strconv.ParseUint(bounds[1], 16, 64)
	if err != nil || end < start {
		return Region{}, false
	}

	return Region{
		Base:       start,
		Size:       end - start,
		Protection: fields[1],
	}, true
}
