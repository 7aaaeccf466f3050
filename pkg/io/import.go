package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
)

// ReadDiagram decodes a diagram document in format f from r. The result is
// not validated; call [diagram.Validate] at the boundary.
func ReadDiagram(r io.Reader, f Format) (*diagram.Diagram, error) {
	var doc document
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	return doc.diagram(), nil
}

// DecodeDiagram decodes data, trying JSON first and then YAML. The HTTP
// service uses it when the request names no content type.
func DecodeDiagram(data []byte) (*diagram.Diagram, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ReadDiagram(bytes.NewReader(data), FormatJSON)
	}
	return ReadDiagram(bytes.NewReader(data), FormatYAML)
}

// ImportDiagram reads the document at path, inferring the format from its
// extension.
func ImportDiagram(path string) (*diagram.Diagram, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer file.Close()

	d, err := ReadDiagram(file, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return d, nil
}
