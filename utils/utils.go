package utils

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Int64Ptr returns a pointer to the provided int64 literal.
func Int64Ptr(v int64) *int64 {
	return &v
}
