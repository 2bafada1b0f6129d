// Package docfile reads document batches for ingest from YAML or JSON.
package docfile

import (
	"bytes"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/athaapa/clamp/internal/vectorstore"
)

// Document is one entry of a batch file. Besides an explicit payload mapping,
// any other top-level key is payload too, so flat entries such as
// {"id": 1, "vector": [...], "text": "..."} keep their fields.
type Document struct {
	ID      string         `yaml:"id" json:"id,omitempty"`
	Vector  []float32      `yaml:"vector" json:"vector"`
	Payload map[string]any `yaml:"payload" json:"payload,omitempty"`
	Fields  map[string]any `yaml:",inline" json:"-"`
}

// payload merges Fields and Payload. Keys under payload win.
func (d Document) payload() map[string]any {
	if len(d.Fields) == 0 {
		return d.Payload
	}
	out := make(map[string]any, len(d.Fields)+len(d.Payload))
	maps.Copy(out, d.Fields)
	maps.Copy(out, d.Payload)
	return out
}

// Batch is the content of a batch file or an ingest request body.
type Batch struct {
	Collection string     `yaml:"collection" json:"collection,omitempty"`
	Message    string     `yaml:"message" json:"message"`
	Author     string     `yaml:"author" json:"author,omitempty"`
	Documents  []Document `yaml:"documents" json:"documents"`
}

// Load reads a batch from path.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a batch. JSON input is accepted since it is valid YAML. A
// bare list of documents is treated as a batch without a message.
func Parse(data []byte) (*Batch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document file is empty")
	}

	var batch Batch
	if trimmed[0] == '[' || bytes.HasPrefix(trimmed, []byte("- ")) || bytes.HasPrefix(trimmed, []byte("-\n")) {
		if err := yaml.Unmarshal(data, &batch.Documents); err != nil {
			return nil, fmt.Errorf("failed to parse document list: %w", err)
		}
		return &batch, nil
	}

	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse document file: %w", err)
	}
	return &batch, nil
}

// VectorDocuments converts the batch entries for ingest.
func (b *Batch) VectorDocuments() []vectorstore.Document {
	docs := make([]vectorstore.Document, len(b.Documents))
	for i, d := range b.Documents {
		docs[i] = vectorstore.Document{ID: d.ID, Vector: d.Vector, Payload: d.payload()}
	}
	return docs
}
