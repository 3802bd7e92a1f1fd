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

// Package hostfs exposes a host directory subtree as a read only mounted
// file system. Each virtual node resolves to an absolute host path; the
// operations forward to the host file system and synthesize a stable
// virtual (device, inode) identity, so the emulated environment never sees
// host native device or inode numbers.
//
// The security boundary of a mount is whatever the host file system
// permissions allow under the source directory : the adapter performs no
// sandboxing, no symlink resolution and no path normalization of its own.
package hostfs

import (
	"io/fs"
	"log/slog"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
)

// DefaultSource is the host source directory used when no source is
// configured.
const DefaultSource = "/"

// Option configures a HostFS.
type Option func(*HostFS)

// WithSource sets the host source directory exposed by the mount.
// An empty source falls back to DefaultSource.
func WithSource(source string) Option {
	return func(hfs *HostFS) {
		hfs.source = source
	}
}

// WithLogger sets the logger receiving mount and teardown diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(hfs *HostFS) {
		hfs.logger = logger
	}
}

// WithName sets the name of the file system.
func WithName(name string) Option {
	return func(hfs *HostFS) {
		hfs.name = name
	}
}

// Mount validates the configured host source directory and builds the
// device and root node of a new mount. The source must exist and be a
// directory : a stat failure passes the host error through, anything that
// is not a directory fails with emufs.ErrNotADirectory.
func Mount(opts ...Option) (*emufs.Mount, error) {
	const op = "mount"

	hfs := &HostFS{
		logger: slog.Default(),
		source: DefaultSource,
	}

	for _, opt := range opts {
		opt(hfs)
	}

	if hfs.source == "" {
		hfs.source = DefaultSource
	}

	var st unix.Stat_t

	err := unix.Stat(hfs.source, &st)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: hfs.source, Err: err}
	}

	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, &fs.PathError{Op: op, Path: hfs.source, Err: emufs.ErrNotADirectory}
	}

	hfs.source = strings.TrimRight(hfs.source, "/")
	if hfs.source == "" {
		hfs.source = "/"
	}

	dev := emufs.NewDevice(hfs, &hostDevice{hfs: hfs})

	rootInfo := &hostInfo{
		hfs:      hfs,
		hostPath: hfs.source,
		mode:     uint32(st.Mode),
		fd:       -1,
	}

	root := dev.NewRoot("/", uint32(st.Mode), inodeHash(uint64(st.Dev), st.Ino), rootInfo)

	hfs.logger.Info("mounted host directory",
		"source", hfs.source,
		"dev", dev.ID(),
		"ino", root.Ino())

	return &emufs.Mount{Dev: dev, Root: root}, nil
}

// Source returns the canonical host source directory of the mount.
func (hfs *HostFS) Source() string {
	return hfs.source
}

// Features returns the set of features provided by the file system.
func (hfs *HostFS) Features() emufs.Features {
	return emufs.FeatReadOnly | emufs.FeatRealFS | emufs.FeatDirSeek
}

// HasFeature returns true if the file system provides a given feature.
func (hfs *HostFS) HasFeature(feature emufs.Features) bool {
	return hfs.Features().HasFeature(feature)
}

// Name returns the name of the file system.
func (hfs *HostFS) Name() string {
	return hfs.name
}

// Type returns the type of the file system.
func (*HostFS) Type() string {
	return "HostFS"
}
