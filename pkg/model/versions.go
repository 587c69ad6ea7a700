package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// CompatibleVersions is the set of IDE versions a project or target can be
// generated for. It either accepts every version or an explicit list.
//
// The zero value accepts every version. An explicit empty list accepts none.
// Explicit lists keep declaration order and duplicates; diagnostics rely on
// that order.
type CompatibleVersions struct {
	explicit bool
	versions []string
}

// AllVersions returns the spec accepting any version.
func AllVersions() CompatibleVersions { return CompatibleVersions{} }

// VersionList returns the spec accepting exactly versions, in order.
func VersionList(versions ...string) CompatibleVersions {
	return CompatibleVersions{explicit: true, versions: slices.Clone(versions)}
}

// IsAll reports whether every version is accepted.
func (c CompatibleVersions) IsAll() bool { return !c.explicit }

// Versions returns a copy of the explicit list, or nil for [AllVersions].
func (c CompatibleVersions) Versions() []string {
	if !c.explicit {
		return nil
	}
	return slices.Clone(c.versions)
}

// IsEmpty reports whether no version at all is accepted.
func (c CompatibleVersions) IsEmpty() bool { return c.explicit && len(c.versions) == 0 }

// Accepts reports whether version v is accepted.
func (c CompatibleVersions) Accepts(v string) bool {
	return !c.explicit || slices.Contains(c.versions, v)
}

// Intersect returns the versions accepted by both c and o. Explicit results
// keep c's order.
func (c CompatibleVersions) Intersect(o CompatibleVersions) CompatibleVersions {
	switch {
	case c.IsAll() && o.IsAll():
		return AllVersions()
	case c.IsAll():
		return VersionList(o.versions...)
	case o.IsAll():
		return VersionList(c.versions...)
	}
	out := CompatibleVersions{explicit: true, versions: []string{}}
	for _, v := range c.versions {
		if slices.Contains(o.versions, v) && !slices.Contains(out.versions, v) {
			out.versions = append(out.versions, v)
		}
	}
	return out
}

// Equal reports whether c and o are the same spec. Explicit lists compare
// element-wise, so order matters.
func (c CompatibleVersions) Equal(o CompatibleVersions) bool {
	return c.explicit == o.explicit && slices.Equal(c.versions, o.versions)
}

// Hash returns a SHA-256 digest that is stable across process runs.
func (c CompatibleVersions) Hash() string {
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c CompatibleVersions) String() string {
	if !c.explicit {
		return "all"
	}
	return "[" + strings.Join(c.versions, ", ") + "]"
}

// MarshalJSON encodes the spec as the string "all" or a list of versions.
func (c CompatibleVersions) MarshalJSON() ([]byte, error) {
	if !c.explicit {
		return json.Marshal("all")
	}
	if c.versions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.versions)
}

// UnmarshalJSON is the inverse of [CompatibleVersions.MarshalJSON].
func (c *CompatibleVersions) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "all" {
			return fmt.Errorf("compatible versions: unknown value %q", s)
		}
		*c = AllVersions()
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("compatible versions: %w", err)
	}
	*c = VersionList(list...)
	return nil
}
