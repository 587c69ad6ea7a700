package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/model"
)

// DocumentVersion is bumped whenever the document layout changes.
const DocumentVersion = 1

// Document is the canonical serialization of a resolved graph. It is what
// the CLI prints, the API returns and the cache stores.
//
// Nodes and edges keep declaration order, so encoding the same graph twice
// produces identical bytes and an identical Hash.
type Document struct {
	Version int            `json:"version"`
	Nodes   []DocumentNode `json:"nodes"`
	Edges   []DocumentEdge `json:"edges"`
	Order   []NodeID       `json:"order"`
	Hash    string         `json:"hash"`
}

// DocumentNode is a target as it appears in a [Document].
type DocumentNode struct {
	ID                 NodeID                    `json:"id"`
	ProjectName        string                    `json:"project_name"`
	Product            model.Product             `json:"product"`
	BundleID           string                    `json:"bundle_id,omitempty"`
	CompatibleVersions *model.CompatibleVersions `json:"compatible_versions,omitempty"`
	External           []model.Dependency        `json:"external,omitempty"`
}

// DocumentEdge is a directed dependency: From depends on To.
type DocumentEdge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Document exports the graph. The Hash field is filled in.
func (g *Graph) Document() Document {
	doc := Document{
		Version: DocumentVersion,
		Nodes:   make([]DocumentNode, 0, len(g.ids)),
		Edges:   make([]DocumentEdge, 0, g.d.EdgeCount()),
		Order:   g.Order(),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, DocumentNode{
			ID:                 n.ID,
			ProjectName:        n.ProjectName,
			Product:            n.Target.Product,
			BundleID:           n.Target.BundleID,
			CompatibleVersions: n.Target.CompatibleVersions,
			External:           n.External,
		})
	}
	for _, e := range g.d.Edges() {
		doc.Edges = append(doc.Edges, DocumentEdge{
			From: g.ids[g.d.Index(e.From)],
			To:   g.ids[g.d.Index(e.To)],
		})
	}
	doc.Hash = doc.ComputeHash()
	return doc
}

// ComputeHash returns the SHA-256 of the document's canonical JSON with the
// Hash field cleared.
func (d Document) ComputeHash() string {
	d.Hash = ""
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Dependencies returns the direct dependencies of id recorded in the
// document, in edge order.
func (d Document) Dependencies(id NodeID) []NodeID {
	var out []NodeID
	for _, e := range d.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// MarshalDocument encodes a document as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes a document as indented JSON to w.
func WriteDocument(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes a document to a JSON file.
func WriteDocumentFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(doc, f)
}

// ReadDocument decodes a document and verifies its hash. A document without
// a hash is accepted and gets one computed.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "decode graph document")
	}
	if doc.Version != DocumentVersion {
		return Document{}, serrors.New(serrors.ErrCodeInvalidInput,
			"unsupported graph document version %d", doc.Version)
	}
	want := doc.ComputeHash()
	if doc.Hash == "" {
		doc.Hash = want
	} else if doc.Hash != want {
		return Document{}, serrors.New(serrors.ErrCodeInvalidInput, "graph document hash mismatch")
	}
	return doc, nil
}

// ReadDocumentFile reads a document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}
