package memory

import (
	"memprobe/pattern"
)

// FindMatches runs a left-to-right masked byte search over data and
// returns the absolute addresses of matches, treating data as starting
// at base. The first match per offset wins; max caps the result count
// (max <= 0 means unbounded).
func FindMatches(data []byte, pat pattern.Pattern, base Address, max int) []Address {
	if len(data) < pat.Len() || pat.Len() == 0 {
		return nil
	}

	var matches []Address
	for i := 0; i <= len(data)-pat.Len(); i++ {
		matched := true
		for j := 0; j < pat.Len(); j++ {
			if !pat.Mask[j] {
				continue
			}
			if data[i+j] != pat.Bytes[j] {
				matched = false
				break
			}
		}
		if matched {
			matches = append(matches, base+Address(i))
			if max > 0 && len(matches) >= max {
				break
			}
		}
	}
	return matches
}
