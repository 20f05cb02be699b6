package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadDefinition reads an automaton definition (YAML or JSON) and returns it as a snapshot.
//
// The document has the snapshot shape:
//
//	initial: 1
//	states:
//	  - name: 4
//	    output: z
//	transitions:
//	  - {from: 1, input: 0, output: 1, to: 2}
//
// Scalars are decoded weakly, so unquoted numbers become state names and symbols.
func LoadDefinition(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return DecodeDefinition(raw)
}

// DecodeDefinition converts a generic document into a snapshot.
func DecodeDefinition(raw map[string]any) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &snap,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &domain.ValidationError{Field: "definition", Reason: err.Error()}
	}

	for i, st := range snap.States {
		if st.Name == "" {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("states[%d].name", i), Reason: "must not be empty"}
		}
		if st.Output != "" {
			snap.States[i].HasOutput = true
		}
	}
	for i, t := range snap.Transitions {
		if t.From == "" || t.Input == "" || t.To == "" {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("transitions[%d]", i),
				Reason: "from, input and to are required",
			}
		}
	}
	return &snap, nil
}

// SaveDefinition writes the snapshot as a YAML definition.
func SaveDefinition(path string, snap *domain.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write definition: %w", err)
	}
	return nil
}
