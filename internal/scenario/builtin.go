// Package scenario turns structures documents into running simulations.
// Built-in scenarios are embedded documents registered at init time; a
// Session wires a document to a combat world, the kinematic physics space
// and the scripted gunners that fire on its structures.
package scenario

import (
	"embed"
	"fmt"
	"path"
	"sort"

	"github.com/vovakirdan/hullbreach/internal/layout"
	"github.com/vovakirdan/hullbreach/internal/registry"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

func init() {
	docs, err := Builtin()
	if err != nil {
		panic(err)
	}
	for _, doc := range docs {
		if err := registry.RegisterDocument(doc); err != nil {
			panic(err)
		}
	}
}

// Builtin parses the embedded scenario documents, sorted by ID.
func Builtin() ([]layout.Document, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("scenario: read builtin: %w", err)
	}

	docs := make([]layout.Document, 0, len(entries))
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("scenario: read %s: %w", name, err)
		}
		doc, err := layout.Parse(data, path.Ext(name))
		if err != nil {
			return nil, fmt.Errorf("scenario: %s: %w", name, err)
		}
		doc.FilePath = name
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}
