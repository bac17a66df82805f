package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Library is a named collection of saved instances.
type Library struct {
	Instances []model.Instance `json:"instances"`
}

// NewLibrary returns an empty library.
func NewLibrary() Library {
	return Library{Instances: []model.Instance{}}
}

// Add stores inst, replacing any instance with the same name.
func (l *Library) Add(inst model.Instance) error {
	if inst.Name == "" {
		return fmt.Errorf("instance has no name")
	}
	if err := inst.Validate(); err != nil {
		return err
	}
	for i := range l.Instances {
		if l.Instances[i].Name == inst.Name {
			l.Instances[i] = inst
			return nil
		}
	}
	l.Instances = append(l.Instances, inst)
	return nil
}

// Find returns the instance with the given name.
func (l Library) Find(name string) (model.Instance, bool) {
	for _, inst := range l.Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return model.Instance{}, false
}

// Remove deletes the named instance and reports whether it was present.
func (l *Library) Remove(name string) bool {
	for i, inst := range l.Instances {
		if inst.Name == name {
			l.Instances = append(l.Instances[:i], l.Instances[i+1:]...)
			return true
		}
	}
	return false
}

// Names lists the stored instance names in sorted order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l.Instances))
	for _, inst := range l.Instances {
		names = append(names, inst.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultLibraryPath returns the default file path for the instance library.
// This is located at ~/.squarefill/library.json.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), "library.json")
}

// SaveLibrary writes the library to a JSON file.
func SaveLibrary(path string, lib Library) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a library from a JSON file.
// If the file does not exist, returns an empty library.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLibrary(), nil
		}
		return Library{}, err
	}
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return Library{}, fmt.Errorf("failed to parse library %s: %w", path, err)
	}
	if lib.Instances == nil {
		lib.Instances = []model.Instance{}
	}
	return lib, nil
}
