package graph

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackgen/pkg/model"
)

// NodeID identifies a target within a build: the project directory plus the
// target name.
type NodeID struct {
	Project string
	Target  string
}

// Separator joins the project path and target name in a rendered ID.
// Target names must not contain it; project paths may.
const Separator = ":"

// String renders the ID as <project path>:<target>.
func (id NodeID) String() string { return id.Project + Separator + id.Target }

// ParseNodeID is the inverse of [NodeID.String]. The target is everything
// after the last colon, so project paths may contain colons.
func ParseNodeID(s string) (NodeID, error) {
	i := strings.LastIndex(s, Separator)
	if i <= 0 || i == len(s)-1 {
		return NodeID{}, fmt.Errorf("invalid node ID %q", s)
	}
	return NodeID{Project: s[:i], Target: s[i+1:]}, nil
}

// MarshalText lets NodeID be used as a JSON string and map key. An ID whose
// target contains [Separator] cannot be parsed back and is rejected.
func (id NodeID) MarshalText() ([]byte, error) {
	if strings.Contains(id.Target, Separator) {
		return nil, fmt.Errorf("target name %q contains %q", id.Target, Separator)
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Node is one target in the graph.
type Node struct {
	ID          NodeID
	ProjectName string
	Target      model.Target

	// External lists dependencies that live outside the build (frameworks,
	// libraries, packages, SDKs), in declaration order.
	External []model.Dependency
}

func (n Node) clone() Node {
	c := n
	c.Target = n.Target.Clone()
	c.External = append([]model.Dependency(nil), n.External...)
	return c
}
