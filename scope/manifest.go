/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package scope

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"dirpx.dev/typehandling/typeinfo"
)

var (
	// ErrManifestName is returned when a manifest has no scope name.
	ErrManifestName = errors.New("typehandling(scope): manifest name must be provided")
	// ErrManifestType is returned when a manifest type has no name or an
	// unparsable field type.
	ErrManifestType = errors.New("typehandling(scope): invalid manifest type")
)

// manifest is the YAML form of a module's published types:
//
//	name: combat
//	types:
//	  - name: Weapon
//	    fields:
//	      - name: damage
//	        type: int
//	      - name: tags
//	        type: list<string>
type manifest struct {
	Name  string         `yaml:"name"`
	Types []manifestType `yaml:"types"`
}

type manifestType struct {
	Name   string          `yaml:"name"`
	Fields []manifestField `yaml:"fields"`
}

type manifestField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadManifest reads a YAML module manifest and returns the scope it
// describes. Field types use the descriptor syntax of typeinfo.Parse.
func LoadManifest(r io.Reader) (*Scope, error) {
	var m manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("typehandling(scope): decode manifest: %w", err)
	}
	if m.Name == "" {
		return nil, ErrManifestName
	}

	defs := make([]typeinfo.Definition, 0, len(m.Types))
	for _, mt := range m.Types {
		if mt.Name == "" {
			return nil, fmt.Errorf("%w: unnamed type in %s", ErrManifestType, m.Name)
		}
		fields := make([]typeinfo.Field, 0, len(mt.Fields))
		for _, mf := range mt.Fields {
			if mf.Name == "" {
				return nil, fmt.Errorf("%w: %s has an unnamed field", ErrManifestType, mt.Name)
			}
			ft, err := typeinfo.Parse(mf.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %w", ErrManifestType, mt.Name, mf.Name, err)
			}
			fields = append(fields, typeinfo.Field{Name: mf.Name, Type: ft})
		}
		defs = append(defs, typeinfo.Define(mt.Name, fields...))
	}
	return New(m.Name, defs...), nil
}
