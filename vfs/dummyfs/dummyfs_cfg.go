//
//  Copyright 2024 The EmuFS authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//  	http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package dummyfs implements a file system where every operation fails,
// the equivalent of a mounted device with no registered handlers. It stands
// in for a real file system while one is being developed and exercises the
// framework dispatch path in tests.
package dummyfs

import (
	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
)

// Option configures a DummyFS.
type Option func(*DummyFS)

// WithName sets the name of the file system.
func WithName(name string) Option {
	return func(dfs *DummyFS) {
		dfs.name = name
	}
}

// Mount builds the device and root node of a new mount. The root is the
// only node the mount ever carries : every operation on it fails.
func Mount(opts ...Option) (*emufs.Mount, error) {
	dfs := &DummyFS{}

	for _, opt := range opts {
		opt(dfs)
	}

	dev := emufs.NewDevice(dfs, nil)
	root := dev.NewRoot("/", unix.S_IFDIR|0o555, 1, nil)

	return &emufs.Mount{Dev: dev, Root: root}, nil
}

// Features returns the set of features provided by the file system.
func (dfs *DummyFS) Features() emufs.Features {
	return emufs.FeatReadOnly
}

// HasFeature returns true if the file system provides a given feature.
func (dfs *DummyFS) HasFeature(feature emufs.Features) bool {
	return dfs.Features().HasFeature(feature)
}

// Name returns the name of the file system.
func (dfs *DummyFS) Name() string {
	return dfs.name
}

// Type returns the type of the file system.
func (*DummyFS) Type() string {
	return "DummyFS"
}
