package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placedRegex = regexp.MustCompile(`^node-([1-9][0-9]*)$`)

// New formats the placed node id for counter value n.
func New(n uint64) ID {
	return ID(Prefix + strconv.FormatUint(n, 10))
}

// Preview returns the throwaway id of the preview record for a module.
func Preview(moduleID string) ID {
	return ID(PreviewPrefix + moduleID)
}

// IsPreview reports whether id belongs to the preview namespace.
func IsPreview(id ID) bool {
	return strings.HasPrefix(string(id), PreviewPrefix)
}

// Parse extracts the counter value of a placed node id.
func Parse(raw string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("identifier cannot be empty")
	}
	matches := placedRegex.FindStringSubmatch(raw)
	if matches == nil {
		return 0, fmt.Errorf("invalid node identifier: %q", raw)
	}
	n, err := strconv.ParseUint(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node identifier %q: %w", raw, err)
	}
	return n, nil
}
