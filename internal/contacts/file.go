package contacts

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type snapshotFile struct {
	Contacts []fileContact `yaml:"contacts"`
}

type fileContact struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name"`
	Birthday string `yaml:"birthday,omitempty"`
}

// LoadFile reads a YAML snapshot:
//
//	contacts:
//	  - name: lewis
//	    birthday: 2002-01-22
//
// Entries without a birthday are skipped, and entries without an id get a
// new one.
func LoadFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var f snapshotFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decoding snapshot file %s: %w", path, err)
	}

	var (
		snap = make(Snapshot, 0, len(f.Contacts))
		seen = make(map[Name]struct{}, len(f.Contacts))
	)
	for i, fc := range f.Contacts {
		if fc.Birthday == "" {
			continue
		}

		name := Name(fc.Name).Normalize()
		if err := name.Validate(); err != nil {
			return nil, fmt.Errorf("contact %d: %w", i, err)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("contact %d: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}

		b, err := ParseBirthday(fc.Birthday)
		if err != nil {
			return nil, fmt.Errorf("contact %q: %w", name, err)
		}

		id := uuid.New()
		if fc.ID != "" {
			if id, err = uuid.Parse(fc.ID); err != nil {
				return nil, fmt.Errorf("contact %q: parsing id: %w", name, err)
			}
		}
		snap = append(snap, Contact{ID: id, Name: name, Birthday: b})
	}
	return snap, nil
}

// WriteFile writes s to path in the format LoadFile reads.
func WriteFile(path string, s Snapshot) error {
	f := snapshotFile{Contacts: make([]fileContact, len(s))}
	for i, c := range s {
		f.Contacts[i] = fileContact{ID: c.ID.String(), Name: c.Name.String(), Birthday: c.Birthday.String()}
	}

	raw, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding snapshot file: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	return nil
}
