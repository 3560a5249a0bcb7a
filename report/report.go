// Package report renders run results, audits and reconstructed indexes as YAML.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/innerfix/audit"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/pipeline"
	"gopkg.in/yaml.v3"
)

// Run is the document written after rewriting a program
type Run struct {
	Input  string           `yaml:"input"`
	Output string           `yaml:"output"`
	Result *pipeline.Result `yaml:"result"`
}

// Audit is the document listing heuristic blind spots found against sources
type Audit struct {
	Input    string          `yaml:"input"`
	Sources  string          `yaml:"sources"`
	Checked  int             `yaml:"checked"`
	Findings []audit.Finding `yaml:"findings"`
}

// Outer lists records reconstructed for one enclosing type
type Outer struct {
	Name    string              `yaml:"name"`
	Records []innerclass.Record `yaml:"records"`
}

// Index converts a reconstructed index to a document sorted by enclosing name
func Index(index *innerclass.Index) []Outer {
	var result []Outer
	for _, name := range index.Outers() {
		result = append(result, Outer{Name: name, Records: index.Lookup(name)})
	}
	return result
}

// Marshal encodes v as YAML with two space indentation
func Marshal(v interface{}) ([]byte, error) {
	buffer := new(bytes.Buffer)
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write encodes v to URL, or to w when URL is empty or "-"
func Write(ctx context.Context, fs afs.Service, URL string, w io.Writer, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if URL == "" || URL == "-" {
		_, err = w.Write(data)
		return err
	}
	if err = fs.Upload(ctx, URL, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", URL, err)
	}
	return nil
}
