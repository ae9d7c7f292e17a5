// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package prompts manages the LLM prompt templates. Compiled-in defaults
// ship with the binary; an optional overlay directory replaces individual
// prompts at runtime and can be hot-reloaded, so prompt tuning never needs
// a redeploy.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// promptFile is the on-disk YAML document for one prompt.
type promptFile struct {
	Key         string   `yaml:"key"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Variables   []string `yaml:"variables"`
	Content     string   `yaml:"content"`
}

// Entry is a loaded prompt.
type Entry struct {
	Key         string
	Version     string
	Description string
	Variables   []string
	Content     string
	// Source is "embedded" or the overlay file path.
	Source string
}

// Registry resolves prompt keys to interpolated prompt text.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]Entry

	overlayDir string
	watcher    *fsnotify.Watcher
	logger     *zap.Logger
}

// NewRegistry loads the embedded defaults. It never fails at runtime; the
// embedded files are validated by tests.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{prompts: make(map[string]Entry), logger: logger}
	r.loadEmbedded()
	return r
}

func (r *Registry) loadEmbedded() {
	entries, err := fs.ReadDir(defaultFS, "defaults")
	if err != nil {
		r.logger.Error("embedded prompt directory missing", zap.Error(err))
		return
	}
	for _, de := range entries {
		data, err := defaultFS.ReadFile("defaults/" + de.Name())
		if err != nil {
			continue
		}
		var pf promptFile
		if err := yaml.Unmarshal(data, &pf); err != nil || pf.Key == "" {
			r.logger.Error("embedded prompt malformed", zap.String("file", de.Name()), zap.Error(err))
			continue
		}
		r.prompts[pf.Key] = Entry{
			Key:         pf.Key,
			Version:     pf.Version,
			Description: pf.Description,
			Variables:   pf.Variables,
			Content:     pf.Content,
			Source:      "embedded",
		}
	}
}

// LoadOverlay reads every .yaml/.yml file in dir and replaces prompts with
// matching keys. Keys absent from the overlay keep their embedded content.
func (r *Registry) LoadOverlay(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read prompt overlay dir: %w", err)
	}

	loaded := 0
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, de := range entries {
		ext := filepath.Ext(de.Name())
		if de.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read prompt file %s: %w", path, err)
		}
		var pf promptFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return fmt.Errorf("failed to parse prompt file %s: %w", path, err)
		}
		if pf.Key == "" {
			return fmt.Errorf("prompt file %s has no key", path)
		}
		r.prompts[pf.Key] = Entry{
			Key:         pf.Key,
			Version:     pf.Version,
			Description: pf.Description,
			Variables:   pf.Variables,
			Content:     pf.Content,
			Source:      path,
		}
		loaded++
	}
	r.overlayDir = dir

	r.logger.Info("prompt overlay loaded", zap.String("dir", dir), zap.Int("prompts", loaded))
	return nil
}

// EnableReload watches the overlay directory and reapplies it whenever a
// prompt file changes.
func (r *Registry) EnableReload(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prompt watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch prompt dir: %w", err)
	}
	r.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				ext := filepath.Ext(event.Name)
				if ext != ".yaml" && ext != ".yml" {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
					if err := r.LoadOverlay(dir); err != nil {
						r.logger.Warn("prompt reload failed", zap.Error(err))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("prompt watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Close stops the reload watcher if one was enabled.
func (r *Registry) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

// Get resolves a prompt and interpolates vars into it.
func (r *Registry) Get(key string, vars map[string]interface{}) (string, error) {
	r.mu.RLock()
	entry, ok := r.prompts[key]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("prompt not found: %s", key)
	}
	return Interpolate(strings.TrimSpace(entry.Content), vars), nil
}

// Metadata returns the loaded entry for a key without interpolation.
func (r *Registry) Metadata(key string) (Entry, error) {
	r.mu.RLock()
	entry, ok := r.prompts[key]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("prompt not found: %s", key)
	}
	return entry, nil
}

// List returns all prompt keys in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.prompts))
	for k := range r.prompts {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
