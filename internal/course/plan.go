package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naucourse/chooser/internal/validate"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPlan is wrapped by every plan parsing or validation failure.
var ErrInvalidPlan = errors.New("invalid withdrawal plan")

// Format selects the plan file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// planFile is the on-disk document shape.
type planFile struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// FormatFromPath picks the encoding from the file extension; anything other
// than .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	plan, err := ParsePlan(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan decodes data and validates the result. The returned plan is never
// nil on success, even for a document that lists no groups.
func ParsePlan(data []byte, format Format) (Plan, error) {
	var doc planFile

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidPlan, format)
	}

	plan := Plan(doc.Groups)
	if plan == nil {
		plan = Plan{}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// EncodePlan renders p in the document shape ParsePlan reads.
func EncodePlan(p Plan, format Format) ([]byte, error) {
	doc := planFile{Groups: p}
	if doc.Groups == nil {
		doc.Groups = []Group{}
	}

	switch format {
	case FormatJSON:
		return json.Marshal(doc)
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown plan format %q", format)
	}
}

// Validate checks every group and course against its struct tags.
func (p Plan) Validate() error {
	for i := range p {
		if err := validate.ValidateStruct(&p[i]); err != nil {
			return fmt.Errorf("%w: group %d (%s): %v", ErrInvalidPlan, i, p[i].Type.Name, err)
		}
	}
	return nil
}
