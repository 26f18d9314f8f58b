// Package fallback resolves, from a declarative YAML policy set, which
// fallback dialog name a given dialog name/version should route to on a
// version mismatch. It watches a directory of policy files and reloads
// on change. It does not import pkg/dialogs and is not imported by it:
// names and versions are plain strings, and the calling application maps a resolved
// fallback name to the actual Go dialog closure, since dialog identity
// in this engine is code, not data.
package fallback

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Policy declares that a dialog matching DialogName at a version matching
// VersionPattern (a doublestar glob, e.g. "1.*") should fall back to
// FallbackName.
type Policy struct {
	DialogName     string `yaml:"dialogName"`
	VersionPattern string `yaml:"versionPattern"`
	FallbackName   string `yaml:"fallbackName"`
}

func (p Policy) matches(name, version string) (bool, error) {
	if p.DialogName != name {
		return false, nil
	}
	return doublestar.Match(p.VersionPattern, version)
}

// Registry loads and optionally hot-reloads fallback routing policies
// from a directory of YAML files.
type Registry struct {
	dir string

	mu       sync.RWMutex
	policies []Policy
}

// NewRegistry creates a registry rooted at dir. Call LoadAll to populate
// it before Resolve is used.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// LoadAll loads all .yaml and .yml files from the registry's directory,
// replacing the current policy set.
func (r *Registry) LoadAll() ([]Policy, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("fallback: read policy dir %q: %w", r.dir, err)
	}

	var all []Policy
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		policies, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fallback: load %q: %w", path, err)
		}
		all = append(all, policies...)
	}

	r.mu.Lock()
	r.policies = all
	r.mu.Unlock()

	return all, nil
}

func loadFile(path string) ([]Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var policies []Policy
	if err := yaml.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return policies, nil
}

// Resolve returns the fallback dialog name configured for the given
// dialog name and version, and whether a matching policy was found. The
// first matching policy in load order wins.
func (r *Registry) Resolve(name, version string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.policies {
		ok, err := p.matches(name, version)
		if err != nil || !ok {
			continue
		}
		return p.FallbackName, true
	}
	return "", false
}

// WatchAndReload starts watching the registry's directory for changes
// and reloads on write/create of a YAML file. It blocks until done is
// closed.
func (r *Registry) WatchAndReload(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fallback: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("fallback: watch dir %q: %w", r.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					if _, err := r.LoadAll(); err != nil {
						return err
					}
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
