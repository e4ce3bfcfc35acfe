// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"context"
	"sync"

	"github.com/olegiv/blockpress/internal/model"
)

// fakeSource is an in-memory Source that counts calls.
type fakeSource struct {
	mu         sync.Mutex
	pages      map[int64]*model.Page
	instances  map[int64][]model.BlockInstance
	params     map[int64]map[string]string
	blog       []model.Page
	categories []model.Category
	inCategory map[int64][]model.Page
	container  *model.Page
	err        error
	calls      map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:      make(map[int64]*model.Page),
		instances:  make(map[int64][]model.BlockInstance),
		params:     make(map[int64]map[string]string),
		inCategory: make(map[int64][]model.Page),
		calls:      make(map[string]int),
	}
}

func (f *fakeSource) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeSource) GetPage(_ context.Context, id int64) (*model.Page, error) {
	f.count("GetPage")
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[id], nil
}

func (f *fakeSource) ListBlockInstances(_ context.Context, pageID int64) ([]model.BlockInstance, error) {
	f.count("ListBlockInstances")
	if f.err != nil {
		return nil, f.err
	}
	return f.instances[pageID], nil
}

func (f *fakeSource) GetParameters(_ context.Context, instanceID int64) (map[string]string, error) {
	f.count("GetParameters")
	if f.err != nil {
		return nil, f.err
	}
	return f.params[instanceID], nil
}

func (f *fakeSource) ListPublishedBlogPages(context.Context) ([]model.Page, error) {
	f.count("ListPublishedBlogPages")
	if f.err != nil {
		return nil, f.err
	}
	return f.blog, nil
}

func (f *fakeSource) ListCategories(context.Context) ([]model.Category, error) {
	f.count("ListCategories")
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeSource) ListPagesInCategory(_ context.Context, categoryID int64) ([]model.Page, error) {
	f.count("ListPagesInCategory")
	if f.err != nil {
		return nil, f.err
	}
	return f.inCategory[categoryID], nil
}

func (f *fakeSource) GetBlogContainer(context.Context) (*model.Page, error) {
	f.count("GetBlogContainer")
	if f.err != nil {
		return nil, f.err
	}
	return f.container, nil
}

// fakeSettings is a fixed settings snapshot that counts lookups per key.
type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	calls  map[string]int
}

func newFakeSettings(values map[string]string) *fakeSettings {
	if values == nil {
		values = make(map[string]string)
	}
	return &fakeSettings{values: values, calls: make(map[string]int)}
}

func (f *fakeSettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeSettings) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
