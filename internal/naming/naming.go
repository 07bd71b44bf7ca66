// Package naming derives collision-free names for duplicated and pasted
// entities.
package naming

import "strconv"

// CopySuffix is appended by AppendUntilFree when pasting.
const CopySuffix = "_Copy"

// NextSuffixed returns name + "_" + k for the smallest k >= 1 for which
// exists reports false.
func NextSuffixed(name string, exists func(string) bool) string {
	base := name + "_"
	for k := 1; ; k++ {
		candidate := base + strconv.Itoa(k)
		if !exists(candidate) {
			return candidate
		}
	}
}

// AppendUntilFree returns name unchanged if it is free, otherwise name with
// suffix appended as many times as needed.
func AppendUntilFree(name, suffix string, exists func(string) bool) string {
	for exists(name) {
		name += suffix
	}
	return name
}
