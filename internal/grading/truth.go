package grading

import "strings"

// truthValue maps the usual spellings of a true/false answer onto "true"
// or "false". ok is false for anything else, e.g. plain option ids.
func truthValue(s string) (v string, ok bool) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), ".!")) {
	case "true", "t", "yes", "y", "1":
		return "true", true
	case "false", "f", "no", "n", "0":
		return "false", true
	}
	return "", false
}

// sameAnswer compares a true/false response with one key entry. Keys that
// are not truth values, such as option ids, must match exactly.
func sameAnswer(key, response string) bool {
	kv, kok := truthValue(key)
	rv, rok := truthValue(response)
	if kok && rok {
		return kv == rv
	}
	return strings.TrimSpace(key) == strings.TrimSpace(response)
}
