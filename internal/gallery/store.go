// Package gallery accumulates the images selected during a capture session.
package gallery

import (
	"fmt"
	"strings"
)

// DedupPolicy selects what makes two uploads "the same".
type DedupPolicy string

const (
	// DedupIdentity treats uploads with the same source reference as duplicates.
	// Identical bytes selected from two different files are kept twice.
	DedupIdentity DedupPolicy = "identity"
	// DedupContent treats uploads with the same BLAKE2b fingerprint as duplicates.
	DedupContent DedupPolicy = "content"
)

// ParseDedupPolicy maps a config value onto a policy. Empty means content.
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DedupContent:
		return DedupContent, nil
	case DedupIdentity:
		return DedupIdentity, nil
	default:
		return "", fmt.Errorf("unknown dedup policy %q", s)
	}
}

// Store is the ordered, deduplicated set of uploads for one session.
// It is not safe for concurrent use; the wizard machine serializes access.
type Store struct {
	policy DedupPolicy
	images []Upload
	seen   map[string]struct{}
}

func NewStore(policy DedupPolicy) *Store {
	if policy == "" {
		policy = DedupContent
	}
	return &Store{policy: policy, seen: map[string]struct{}{}}
}

// Add appends every candidate not already present, in arrival order,
// and returns how many were accepted.
func (s *Store) Add(candidates ...Upload) int {
	added := 0
	for _, c := range candidates {
		k := s.key(c)
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.images = append(s.images, c)
		added++
	}
	return added
}

// Clear drops every image.
func (s *Store) Clear() {
	s.images = nil
	s.seen = map[string]struct{}{}
}

func (s *Store) Count() int { return len(s.images) }

// Remaining reports how many more images are needed to reach min.
func (s *Store) Remaining(min int) int {
	if n := min - len(s.images); n > 0 {
		return n
	}
	return 0
}

// Images returns a copy of the gallery in arrival order.
func (s *Store) Images() []Upload {
	out := make([]Upload, len(s.images))
	copy(out, s.images)
	return out
}

// Fingerprints lists content fingerprints in arrival order.
func (s *Store) Fingerprints() []string {
	out := make([]string, 0, len(s.images))
	for _, img := range s.images {
		out = append(out, img.Fingerprint)
	}
	return out
}

func (s *Store) key(u Upload) string {
	if s.policy == DedupIdentity {
		return "id:" + u.Identity
	}
	if u.Fingerprint == "" {
		// hand-built uploads without bytes fall back to identity
		return "id:" + u.Identity
	}
	return "sum:" + u.Fingerprint
}
