package options

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
)

// Base names looked up in an extensions directory, tried per extension in
// the order of sourceExtensions
const (
	SnippetsFile       = "snippets"
	SyntaxProfilesFile = "syntaxProfiles"
)

var sourceExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// IsSourceFile reports whether name is a file Load reads from an
// extensions directory
func IsSourceFile(name string) bool {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	if base != SnippetsFile && base != SyntaxProfilesFile {
		return false
	}
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// variablesKey is the top-level snippets-file key holding global variables
const variablesKey = "variables"

// SyntaxSource is one syntax section of a snippets file
type SyntaxSource struct {
	Snippets  map[string]string
	Variables map[string]string
	Extends   string
}

// Source is the raw content of an extensions directory
type Source struct {
	Dir       string
	Variables map[string]string
	Syntaxes  map[string]SyntaxSource
	// Profiles maps syntax -> profile value (mapping or preset name)
	Profiles map[string]any
}

// Load reads the snippets and syntax profile files of dir concurrently.
// Missing or unreadable files are logged and contribute nothing; the only
// error returned is ctx's.
func Load(ctx context.Context, dir string) (*Source, error) {
	log := logger.ComponentLogger("options.source")
	src := &Source{
		Dir:       dir,
		Variables: map[string]string{},
		Syntaxes:  map[string]SyntaxSource{},
		Profiles:  map[string]any{},
	}

	var snippets, profiles map[string]any
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := readSourceFile(gctx, dir, SnippetsFile)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Warnw("Snippets file not loaded, using built-in snippets only",
				logger.FieldPath, dir,
				logger.FieldError, err)
			return nil
		}
		snippets = raw
		return nil
	})

	g.Go(func() error {
		raw, err := readSourceFile(gctx, dir, SyntaxProfilesFile)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Warnw("Syntax profiles file not loaded",
				logger.FieldPath, dir,
				logger.FieldError, err)
			return nil
		}
		profiles = raw
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	src.parseSnippets(snippets)
	for syntaxID, value := range profiles {
		src.Profiles[strings.ToLower(syntaxID)] = value
	}

	log.Debugw("Loaded extensions directory",
		logger.FieldPath, dir,
		logger.FieldCount, len(src.Syntaxes))
	return src, nil
}

func (s *Source) parseSnippets(raw map[string]any) {
	for key, value := range raw {
		section, ok := toStringMap(value)
		if !ok {
			continue
		}
		if key == variablesKey {
			s.Variables = stringValues(section)
			continue
		}

		var syn SyntaxSource
		if m, ok := toStringMap(section["snippets"]); ok {
			syn.Snippets = stringValues(m)
		}
		if m, ok := toStringMap(section["variables"]); ok {
			syn.Variables = stringValues(m)
		}
		if ext, ok := section["extends"].(string); ok {
			syn.Extends = strings.ToLower(strings.TrimSpace(ext))
		}
		s.Syntaxes[strings.ToLower(key)] = syn
	}
}

// Extends returns the "extends" declarations of every syntax section
func (s *Source) Extends() map[string]string {
	out := make(map[string]string)
	for id, syn := range s.Syntaxes {
		if syn.Extends != "" {
			out[id] = syn.Extends
		}
	}
	return out
}

// readSourceFile finds base.{json,yaml,yml,toml} in dir and decodes it
func readSourceFile(ctx context.Context, dir, base string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ext := range sourceExtensions {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.WrapSourceUnavailable(err, path)
		}
		raw, err := decode(ext, data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
		return raw, nil
	}
	return nil, errors.WrapSourceUnavailable(fs.ErrNotExist, filepath.Join(dir, base+".json"))
}

func decode(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	var err error
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "extension %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// toStringMap normalises the nested mappings yaml may produce
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func stringValues(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
