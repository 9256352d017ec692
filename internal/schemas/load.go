package schemas

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ix-apps/storage-render/internal/gerrors"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyRequest      = errors.New("empty render request")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
)

// FormatFromPath picks the decoder by file extension. "-" (stdin) is read as YAML,
// which also accepts plain JSON.
func FormatFromPath(path string) (Format, error) {
	if path == "-" {
		return FormatYAML, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	}
	return "", gerrors.Wrapf(ErrUnsupportedFormat, "input %s: expected one of [.yaml, .yml, .json, .jsonc]", path)
}

// LoadRenderRequest reads and decodes a render request from path ("-" for stdin).
func LoadRenderRequest(path string, stdin io.Reader) (*RenderRequest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, gerrors.Wrapf(err, "reading input %s", path)
	}

	return DecodeRenderRequest(data, format)
}

func DecodeRenderRequest(data []byte, format Format) (*RenderRequest, error) {
	var req RenderRequest

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, gerrors.Wrapf(err, "parsing yaml")
		}
	case FormatJSON, FormatJSONC:
		// comments are accepted in .json as well
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, gerrors.Wrapf(err, "parsing %s", format)
		}
		if err := json.Unmarshal(standardized, &req); err != nil {
			return nil, gerrors.Wrapf(err, "parsing %s", format)
		}
	default:
		return nil, gerrors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}

	return &req, nil
}
