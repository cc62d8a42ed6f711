package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a document. ext selects the format
// (".yaml", ".yml" or ".json").
func Parse(data []byte, ext string) (Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := validateYAML(data); err != nil {
			return Document{}, err
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case ".json":
		if err := validateJSON(data); err != nil {
			return Document{}, err
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("json unmarshal: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported extension: %s", ext)
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Encode writes a document in the format selected by ext.
func Encode(w io.Writer, doc Document, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported extension: %s", ext)
	}
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

func isSupportedExtension(ext string) bool {
	for _, supported := range Extensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Loader loads documents from a directory tree.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Root: root, Logger: logger}
}

// LoadFile loads a single document.
func (l *Loader) LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Document{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	doc.FilePath = path
	return doc, nil
}

// LoadAll recursively loads every supported file under Root. Invalid files
// are logged and skipped. Documents are sorted by ID.
func (l *Loader) LoadAll() ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		doc, err := l.LoadFile(path)
		if err != nil {
			l.Logger.Warn("skipping structures document", "path", path, "err", err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// LoadByID loads the document with the given id.
func (l *Loader) LoadByID(id string) (Document, error) {
	docs, err := l.LoadAll()
	if err != nil {
		return Document{}, err
	}
	for _, doc := range docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return Document{}, fmt.Errorf("layout: document not found: %s", id)
}
