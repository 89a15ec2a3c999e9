// Package labels holds the display-name tables used when revenue is grouped
// for presentation. A Table is immutable once built and is passed to the
// components that need it.
package labels

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a label table.
//
//	fee_names:
//	  Management fee: Phí quản lý
//	fee_types:
//	  mandatory: Bắt buộc
type File struct {
	FeeNames map[string]string `yaml:"fee_names"`
	FeeTypes map[string]string `yaml:"fee_types"`
}

// Table translates fee names and fee types to display names. Unmapped keys
// pass through unchanged.
type Table struct {
	feeNames map[string]string
	feeTypes map[string]string
}

// New builds a Table from copies of the given maps.
func New(feeNames, feeTypes map[string]string) Table {
	return Table{feeNames: clone(feeNames), feeTypes: clone(feeTypes)}
}

// Identity returns a Table with no mappings.
func Identity() Table {
	return Table{}
}

// Default returns the built-in Vietnamese display names.
func Default() Table {
	return New(
		map[string]string{
			"Management fee":  "Phí quản lý",
			"Service fee":     "Phí dịch vụ",
			"Parking fee":     "Phí gửi xe",
			"Motorbike fee":   "Phí gửi xe máy",
			"Car parking fee": "Phí gửi ô tô",
			"Water fee":       "Tiền nước",
			"Electricity fee": "Tiền điện",
			"Internet fee":    "Phí internet",
			"Cleaning fee":    "Phí vệ sinh",
			"Maintenance fee": "Phí bảo trì",
			"Charity fund":    "Quỹ từ thiện",
		},
		map[string]string{
			"mandatory":    "Bắt buộc",
			"voluntary":    "Tự nguyện",
			"contribution": "Đóng góp",
			"parking":      "Gửi xe",
		},
	)
}

// FeeName returns the display name for a fee name.
func (t Table) FeeName(name string) string {
	if v, ok := t.feeNames[name]; ok {
		return v
	}
	return name
}

// FeeType returns the display name for a fee type tag.
func (t Table) FeeType(feeType string) string {
	if v, ok := t.feeTypes[feeType]; ok {
		return v
	}
	return feeType
}

// Len returns the number of fee-name and fee-type mappings.
func (t Table) Len() int {
	return len(t.feeNames) + len(t.feeTypes)
}

// Merge returns a new Table where entries of o override entries of t.
func (t Table) Merge(o Table) Table {
	names := clone(t.feeNames)
	for k, v := range o.feeNames {
		names[k] = v
	}
	types := clone(t.feeTypes)
	for k, v := range o.feeTypes {
		types[k] = v
	}
	return Table{feeNames: names, feeTypes: types}
}

// Parse decodes a YAML label file.
func Parse(data []byte) (Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Table{}, fmt.Errorf("error parsing labels file: %w", err)
	}
	return New(f.FeeNames, f.FeeTypes), nil
}

// Load reads the label file at path and merges it over the defaults. An
// empty path returns the defaults.
func Load(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}

	resolved, err := FindFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("labels file %s: %w", path, err)
	}

	data, err := os.ReadFile(resolved) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return Table{}, fmt.Errorf("error reading labels file: %w", err)
	}

	custom, err := Parse(data)
	if err != nil {
		return Table{}, err
	}
	return Default().Merge(custom), nil
}

// FindFile looks for filename as given, then under ./config and
// $HOME/.aptfee.
func FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".aptfee", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
