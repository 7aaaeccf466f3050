package io

import (
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/autolayout/pkg/errors"
	"github.com/matzehuels/autolayout/pkg/layout"
)

// ReadResult decodes a result written by [WriteResult]. The result carries
// no diagram.
func ReadResult(r io.Reader, f Format) (*layout.Result, error) {
	var res layout.Result
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&res)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&res)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	if len(res.Placements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "result has no placements")
	}
	return &res, nil
}

// ImportResult reads the result file at path.
func ImportResult(path string) (*layout.Result, error) {
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
	return ReadResult(file, f)
}
