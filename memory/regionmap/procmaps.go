package regionmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadProcMaps enumerates the regions of a process from
// /proc/<pid>/maps.
func ReadProcMaps(pid int) ([]Region, error) {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseProcMaps(file)
}

// ParseProcMaps parses /proc/<pid>/maps formatted content. Malformed
// lines are skipped rather than failing the whole enumeration.
func ParseProcMaps(r io.Reader) ([]Region, error) {
	var regions []Region

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil || end < start {
			continue
		}

		perms := fields[1]
		kind := "private"
		if len(fields) >= 6 {
			kind = fields[5]
		}

		regions = append(regions, Region{
			Base:       start,
			Size:       end - start,
			State:      "mapped",
			Protection: perms,
			Kind:       kind,
			Readable:   len(perms) > 0 && perms[0] == 'r',
			Writable:   len(perms) > 1 && perms[1] == 'w',
			Executable: len(perms) > 2 && perms[2] == 'x',
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	Sort(regions)
	return regions, nil
}
