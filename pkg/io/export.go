package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
	"github.com/matzehuels/autolayout/pkg/layout"
)

// WriteDiagram encodes d as a document in format f. Frame fields are always
// written in full so the output does not depend on reader defaults.
func WriteDiagram(w io.Writer, d *diagram.Diagram, f Format) error {
	return Encode(w, fromDiagram(d), f)
}

// ExportDiagram writes d to path, inferring the format from its extension.
func ExportDiagram(d *diagram.Diagram, path string) error {
	return exportTo(path, func(w io.Writer, f Format) error { return WriteDiagram(w, d, f) })
}

// WriteResult encodes res in format f.
func WriteResult(w io.Writer, res *layout.Result, f Format) error {
	return Encode(w, res, f)
}

// ExportResult writes res to path, inferring the format from its extension.
func ExportResult(res *layout.Result, path string) error {
	return exportTo(path, func(w io.Writer, f Format) error { return WriteResult(w, res, f) })
}

// ExportLaidOut writes the laid-out diagram of res to path.
func ExportLaidOut(res *layout.Result, path string) error {
	if res.Diagram == nil {
		return errors.New(errors.ErrCodeInvalidInput, "result carries no diagram")
	}
	return ExportDiagram(res.Diagram, path)
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	return nil
}

func exportTo(path string, write func(io.Writer, Format) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
