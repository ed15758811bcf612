package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// signatureFileSchema validates custom signature files before they are
// turned into a registry, so a malformed file fails with a diagnostic that
// names the offending entry instead of silently corrupting categorization.
const signatureFileSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "replace": {"type": "boolean"},
    "signatures": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "kind", "category", "reason"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "kind": {"enum": ["attribute", "tag", "call", "member"]},
          "category": {"enum": ["web", "native"]},
          "name": {"type": "string"},
          "object": {"type": "string"},
          "property": {"type": "string"},
          "reason": {"type": "string", "minLength": 1}
        }
      }
    }
  },
  "required": ["signatures"]
}`

// SignatureFile is the on-disk custom registry format. With Replace unset
// the signatures extend the compiled-in defaults; with it set they replace
// them entirely.
type SignatureFile struct {
	Replace    bool        `json:"replace"    yaml:"replace"`
	Signatures []Signature `json:"signatures" yaml:"signatures"`
}

// LoadSignatureFile reads and validates a custom signature file (JSON or
// YAML by extension). Every failure is an ErrRegistryMisconfigured: a bad
// signature file must abort before any source file is processed.
func LoadSignatureFile(path string) (*SignatureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRegistryMisconfigured, path, err)
	}

	jsonRaw, err := toJSON(path, raw)
	if err != nil {
		return nil, err
	}

	validateErr := validateAgainstSchema(path, jsonRaw)
	if validateErr != nil {
		return nil, validateErr
	}

	var file SignatureFile

	unmarshalErr := json.Unmarshal(jsonRaw, &file)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrRegistryMisconfigured, path, unmarshalErr)
	}

	return &file, nil
}

// toJSON normalizes YAML files to JSON so one schema covers both formats.
func toJSON(path string, raw []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return raw, nil
	}

	var decoded any

	decodeErr := yaml.Unmarshal(raw, &decoded)
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrRegistryMisconfigured, path, decodeErr)
	}

	jsonRaw, marshalErr := json.Marshal(decoded)
	if marshalErr != nil {
		return nil, fmt.Errorf("%w: convert %s: %w", ErrRegistryMisconfigured, path, marshalErr)
	}

	return jsonRaw, nil
}

func validateAgainstSchema(path string, jsonRaw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(signatureFileSchema),
		gojsonschema.NewBytesLoader(jsonRaw),
	)
	if err != nil {
		return fmt.Errorf("%w: validate %s: %w", ErrRegistryMisconfigured, path, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrRegistryMisconfigured, path, strings.Join(details, "; "))
}

// BuildRegistry turns an optional signature file into the active registry.
// A nil file yields the compiled-in defaults.
func BuildRegistry(file *SignatureFile) (*Registry, error) {
	if file == nil {
		return NewDefaultRegistry()
	}

	if file.Replace {
		return NewRegistry(file.Signatures)
	}

	return NewRegistry(append(DefaultSignatures(), file.Signatures...))
}
