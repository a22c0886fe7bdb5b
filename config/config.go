package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"segmmu/mmu"
	"segmmu/trace"
)

// FileName is searched for in the user and system config folders
const FileName = "config.json"

// Values keeps everything the driver can be configured with
type Values struct {
	MMU       mmu.Config `json:"mmu"`
	Addresses []uint32   `json:"addresses"`
	LogFile   string     `json:"log_file"`
	Trace     bool       `json:"trace"`
	Color     string     `json:"color"`
}

// Default returns the reference geometry and the two demonstration addresses:
// 4200 lands in the heap, 14400 in the stack.
func Default() Values {
	return Values{
		MMU:       mmu.DefaultConfig(),
		Addresses: []uint32{4200, 14400},
		Trace:     true,
		Color:     trace.ColorAuto,
	}
}

// Load reads the json file at path on top of the defaults.
// Keys missing from the file keep their default value, unknown keys are an error.
func Load(path string) (Values, error) {
	v := Default()
	f, err := os.Open(path)
	if err != nil {
		return v, errors.Wrap(err, "can't open config file")
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, errors.Wrapf(err, "can't decode config file %s", path)
	}
	if err := v.Validate(); err != nil {
		return v, errors.Wrapf(err, "invalid config file %s", path)
	}
	return v, nil
}

// Validate checks geometry and color mode
func (v Values) Validate() error {
	switch v.Color {
	case trace.ColorAuto, trace.ColorAlways, trace.ColorNever:
	default:
		return errors.Errorf("unknown color mode %q", v.Color)
	}
	return v.MMU.Validate()
}

// Find looks for FileName in the local, user and system config folders.
// Returns empty path if there's none.
func Find() string {
	dirs := configdir.New("segmmu", "segmmu")
	dirs.LocalPath = "."
	if folder := dirs.QueryFolderContainsFile(FileName); folder != nil {
		return filepath.Join(folder.Path, FileName)
	}
	return ""
}

// Resolve loads the file at path, or the one found by Find when path is empty.
// Defaults are used if there is no config file at all.
func Resolve(path string) (Values, string, error) {
	if path == "" {
		path = Find()
	}
	if path == "" {
		return Default(), "", nil
	}
	v, err := Load(path)
	return v, path, err
}
