package docfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		wantMessage string
		wantDocs    int
		check       func(*testing.T, *Batch)
	}{
		{
			name: "yaml batch",
			input: `message: Refresh FAQ
author: ops
documents:
  - id: "1"
    vector: [0.1, 0.2]
    payload:
      text: refunds take 5 days
      tags: [billing]
  - vector: [0.3, 0.4]
`,
			wantMessage: "Refresh FAQ",
			wantDocs:    2,
			check: func(t *testing.T, b *Batch) {
				if b.Author != "ops" {
					t.Errorf("Author = %q", b.Author)
				}
				if b.Documents[0].Payload["text"] != "refunds take 5 days" {
					t.Errorf("payload = %v", b.Documents[0].Payload)
				}
				if b.Documents[1].ID != "" {
					t.Errorf("second ID = %q, want empty", b.Documents[1].ID)
				}
			},
		},
		{
			name:        "json batch",
			input:       `{"message": "v2", "collection": "faq", "documents": [{"id": "7", "vector": [1, 0], "payload": {"n": 3}}]}`,
			wantMessage: "v2",
			wantDocs:    1,
			check: func(t *testing.T, b *Batch) {
				if b.Collection != "faq" {
					t.Errorf("Collection = %q", b.Collection)
				}
				if b.Documents[0].Vector[0] != 1 {
					t.Errorf("Vector = %v", b.Documents[0].Vector)
				}
			},
		},
		{
			name:     "bare json list",
			input:    `[{"id": "1", "vector": [1]}, {"id": "2", "vector": [2]}]`,
			wantDocs: 2,
		},
		{
			name:     "bare yaml list",
			input:    "- id: a\n  vector: [1]\n",
			wantDocs: 1,
		},
		{
			name:     "document without vector is kept for validation downstream",
			input:    "documents:\n  - id: a\n",
			wantDocs: 1,
			check: func(t *testing.T, b *Batch) {
				if len(b.Documents[0].Vector) != 0 {
					t.Errorf("Vector = %v, want empty", b.Documents[0].Vector)
				}
			},
		},
		{
			name:     "flat json list",
			input:    `[{"id": 1, "vector": [0.1, 0.2], "text": "hello", "lang": "en"}]`,
			wantDocs: 1,
			check: func(t *testing.T, b *Batch) {
				docs := b.VectorDocuments()
				if docs[0].ID != "1" {
					t.Errorf("ID = %q, want 1", docs[0].ID)
				}
				if docs[0].Payload["text"] != "hello" || docs[0].Payload["lang"] != "en" {
					t.Errorf("payload = %v", docs[0].Payload)
				}
				if _, ok := docs[0].Payload["vector"]; ok {
					t.Error("vector leaked into payload")
				}
			},
		},
		{
			name:     "flat keys merge with payload",
			input:    "documents:\n  - id: a\n    vector: [1]\n    text: flat\n    lang: en\n    payload: {lang: de}\n",
			wantDocs: 1,
			check: func(t *testing.T, b *Batch) {
				p := b.VectorDocuments()[0].Payload
				if p["text"] != "flat" || p["lang"] != "de" {
					t.Errorf("payload = %v, want text=flat lang=de", p)
				}
			},
		},
		{
			name:    "empty",
			input:   "   \n",
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   "documents: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("Parse() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if b.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", b.Message, tt.wantMessage)
			}
			if len(b.Documents) != tt.wantDocs {
				t.Fatalf("len(Documents) = %d, want %d", len(b.Documents), tt.wantDocs)
			}
			if tt.check != nil {
				tt.check(t, b)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := "message: hello\ndocuments:\n  - id: \"1\"\n    vector: [1, 2]\n    payload: {text: hi}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	docs := b.VectorDocuments()
	if len(docs) != 1 || docs[0].ID != "1" || len(docs[0].Vector) != 2 || docs[0].Payload["text"] != "hi" {
		t.Errorf("VectorDocuments() = %+v", docs)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}
