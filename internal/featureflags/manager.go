// Package featureflags evaluates the FEATURE_FLAGS setting.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flag names a switchable behaviour.
type Flag string

const (
	// CascadeCommentDelete removes an article's comments, and their likes,
	// together with the article. Off by default: comments outlive their article.
	CascadeCommentDelete Flag = "cascade_comment_delete"
)

// Known lists every flag the application reads.
var Known = []Flag{CascadeCommentDelete}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "cascade_comment_delete=on" or "cascade_comment_delete=25%".
type Manager struct {
	flags map[Flag]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	out := make(map[Flag]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value := Flag(normalize(key)), normalize(value)
		if name == "" || value == "" {
			continue
		}
		out[name] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether flag is on for the given user.
// Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic rollout keyed by user, e.g. 25%)
func (m *Manager) Enabled(flag Flag, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[Flag(normalize(string(flag)))]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(flag, userID) < pct
}

// Unknown returns configured flag names the application does not read,
// sorted. They usually indicate a typo in FEATURE_FLAGS.
func (m *Manager) Unknown() []string {
	known := make(map[Flag]bool, len(Known))
	for _, f := range Known {
		known[f] = true
	}
	var out []string
	for name := range m.flags {
		if !known[name] {
			out = append(out, string(name))
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns evaluated status of every known flag for one user.
// userID 0 gives the global view reported by the readiness probe, where a
// partial rollout reads as off.
func (m *Manager) Snapshot(userID uint) map[Flag]bool {
	out := make(map[Flag]bool, len(Known))
	for _, f := range Known {
		out[f] = m.Enabled(f, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(flag Flag, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(string(flag)), userID)
	return int(h.Sum32() % 100)
}
