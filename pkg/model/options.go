package model

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// OptionKind names a generation option.
type OptionKind string

// ProjectNameOption overrides the display name of the generated project.
const ProjectNameOption OptionKind = "xcode-project-name"

// KnownOptionKinds lists every option kind the generator understands.
var KnownOptionKinds = []OptionKind{ProjectNameOption}

// IsKnown reports whether k is a recognized option kind.
func (k OptionKind) IsKnown() bool { return slices.Contains(KnownOptionKinds, k) }

// GenerationOption is one setting influencing the shape of generated output.
type GenerationOption struct {
	Kind  OptionKind `json:"kind"`
	Value string     `json:"value"`
}

// GenerationOptions is an insertion-ordered option set. Equality and hashing
// ignore order; iteration and serialization keep it.
type GenerationOptions []GenerationOption

// Get returns the option of the given kind.
func (o GenerationOptions) Get(kind OptionKind) (GenerationOption, bool) {
	for _, opt := range o {
		if opt.Kind == kind {
			return opt, true
		}
	}
	return GenerationOption{}, false
}

// ProjectName returns the project name override, if any.
func (o GenerationOptions) ProjectName() (string, bool) {
	opt, ok := o.Get(ProjectNameOption)
	return opt.Value, ok
}

// Duplicate returns the first kind declared more than once.
func (o GenerationOptions) Duplicate() (OptionKind, bool) {
	seen := make(map[OptionKind]bool, len(o))
	for _, opt := range o {
		if seen[opt.Kind] {
			return opt.Kind, true
		}
		seen[opt.Kind] = true
	}
	return "", false
}

// Equal reports whether o and other hold the same options in any order.
func (o GenerationOptions) Equal(other GenerationOptions) bool {
	return slices.Equal(o.sorted(), other.sorted())
}

// Hash returns an order-insensitive SHA-256 digest, stable across runs.
func (o GenerationOptions) Hash() string {
	data, _ := json.Marshal(o.sorted())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (o GenerationOptions) sorted() GenerationOptions {
	s := slices.Clone(o)
	if s == nil {
		s = GenerationOptions{}
	}
	slices.SortStableFunc(s, func(a, b GenerationOption) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return s
}
