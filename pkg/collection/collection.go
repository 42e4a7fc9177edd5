package collection

import (
	"sort"
	"strings"
)

// UniqueNames returns the sorted distinct non-empty elements of in
func UniqueNames(in []string) []string {
	uniqueMap := make(map[string]struct{}, len(in))
	for i := range in {
		if in[i] == "" {
			continue
		}
		uniqueMap[in[i]] = struct{}{}
	}

	out := make([]string, 0, len(uniqueMap))
	for k := range uniqueMap {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// CollateStrings returns the first non-empty string in list
func CollateStrings(input ...string) string {
	for i := range input {
		if input[i] != "" {
			return input[i]
		}
	}
	return ""
}

// StringInList returns true if a given string is in a list of strings
func StringInList(str string, list []string) bool {
	for i := range list {
		if str == list[i] {
			return true
		}
	}
	return false
}

// AnyEmpty checks for any empty string in slice
func AnyEmpty(s []*string) bool {
	for i := range s {
		if *s[i] == "" {
			return true
		}
	}
	return false
}

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
