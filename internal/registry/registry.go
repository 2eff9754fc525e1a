// Package registry implements the pattern registry: a static catalog of
// regex patterns tagged by class/subclass, split into a scan-safe view
// (compiled into the DFA-like substrate) and a fallback view (unsafe
// patterns run through a backtracking engine). The catalog is embedded
// as YAML and partitioned once at load time.
package registry

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nbdfinder/engine/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed patterns/*.yml
var builtinFS embed.FS

// Pattern is one catalog entry: a regex tagged with its owning class,
// subclass, and a stable intra-class motif identifier.
type Pattern struct {
	ClassID  types.ClassID
	Subclass string
	MotifID  string
	Name     string
	Regex    string
	Weight   float64
	// ScanSafe is computed from Regex by IsScanSafe; cached here so
	// classification happens once, at load time, not per chunk.
	ScanSafe bool
}

// unsafeMarkers are the conservative literal-source signals a pattern is
// not expressible in the DFA-like scan substrate: backreferences, named
// backreferences, comments, and lookaround.
var unsafeMarkers = []string{
	`\1`, `\2`, `\3`, `\4`, `\5`, `\6`, `\7`, `\8`, `\9`,
	`\k<`, `(?P=`, `(?#`, `(?=`, `(?!`,
}

// IsScanSafe reports whether a raw pattern source contains none of the
// unsafe markers and can go to the compiled substrate.
func IsScanSafe(pattern string) bool {
	for _, m := range unsafeMarkers {
		if strings.Contains(pattern, m) {
			return false
		}
	}
	return true
}

// Registry holds the full catalog plus its scan-safe/fallback split.
type Registry struct {
	All      []*Pattern
	Safe     []*Pattern
	Fallback []*Pattern
}

type yamlPattern struct {
	MotifID  string  `yaml:"motif_id"`
	Name     string  `yaml:"name"`
	Class    string  `yaml:"class"`
	Subclass string  `yaml:"subclass"`
	Regex    string  `yaml:"regex"`
	Weight   float64 `yaml:"weight"`
}

type yamlPatternFile struct {
	Patterns []yamlPattern `yaml:"patterns"`
}

// Load reads the builtin pattern catalog from the embedded filesystem and
// partitions it into safe/fallback views. A pattern whose class name does
// not resolve (e.g. a typo in the YAML) is a load-time error: unlike a
// single bad regex (demoted silently at compile time), a malformed catalog
// entry indicates a broken build artifact, not a runtime condition.
func Load() (*Registry, error) {
	return LoadFS(builtinFS, "patterns")
}

// LoadFS reads a pattern catalog from an arbitrary filesystem rooted at
// dir, allowing tests to supply their own catalogs.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	reg := &Registry{}

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		var file yamlPatternFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, yp := range file.Patterns {
			classID, ok := types.ClassByName(yp.Class)
			if !ok {
				return fmt.Errorf("%s: unknown class %q for pattern %s", path, yp.Class, yp.MotifID)
			}
			p := &Pattern{
				ClassID:  classID,
				Subclass: yp.Subclass,
				MotifID:  yp.MotifID,
				Name:     yp.Name,
				Regex:    yp.Regex,
				Weight:   yp.Weight,
				ScanSafe: IsScanSafe(yp.Regex),
			}
			reg.All = append(reg.All, p)
			if p.ScanSafe {
				reg.Safe = append(reg.Safe, p)
			} else {
				reg.Fallback = append(reg.Fallback, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// ForClass returns every pattern (safe and fallback) tagged with the given
// class, in catalog order, used by detectors that consume the registry
// directly (G4, i-motif, triplex, R-loop, slipped DNA).
func (r *Registry) ForClass(c types.ClassID) []*Pattern {
	out := make([]*Pattern, 0)
	for _, p := range r.All {
		if p.ClassID == c {
			out = append(out, p)
		}
	}
	return out
}
