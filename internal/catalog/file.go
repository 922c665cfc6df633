// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/admatch/internal/models"
)

// File is the on-disk YAML catalog layout.
//
//	advertisers:
//	  - id: adv-tech
//	    name: TechCorp
//	items:
//	  - id: laptop-pro
//	    advertiser_id: adv-tech
//	    format: card
//	    status: active
//	    title: {en: Laptop Pro, es: Portátil Pro}
//	    tags: [laptop, work]
type File struct {
	Advertisers []models.Advertiser `yaml:"advertisers"`
	Items       []models.Item       `yaml:"items"`
}

// ParseFile decodes and validates a YAML catalog.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Items))
	for i := range f.Items {
		if err := ValidateItem(&f.Items[i]); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Items[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %s", ErrInvalidItem, f.Items[i].ID)
		}
		seen[f.Items[i].ID] = struct{}{}
	}
	return &f, nil
}

// FileSource serves a catalog loaded from a YAML file.
type FileSource struct {
	path string
	mem  *MemorySource
}

// NewFileSource loads path.
func NewFileSource(path string) (*FileSource, error) {
	fs := &FileSource{path: path, mem: NewMemorySource(nil, nil)}
	if err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Reload re-reads the file. On error the previous catalog stays active.
func (fs *FileSource) Reload() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", fs.path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", fs.path, err)
	}

	items := make([]*models.Item, len(f.Items))
	for i := range f.Items {
		items[i] = &f.Items[i]
	}
	fs.mem.Replace(items, f.Advertisers)
	return nil
}

// Name implements Source.
func (fs *FileSource) Name() string { return "file" }

// ActiveItems implements Source.
func (fs *FileSource) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	return fs.mem.ActiveItems(ctx)
}

// Advertiser implements Source.
func (fs *FileSource) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	return fs.mem.Advertiser(ctx, id)
}

// Ping implements Source by checking the file is still readable.
func (fs *FileSource) Ping(_ context.Context) error {
	_, err := os.Stat(fs.path)
	return err
}
