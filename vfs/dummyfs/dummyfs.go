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

package dummyfs

import (
	"io/fs"

	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
)

// Lookup is not implemented.
func (dfs *DummyFS) Lookup(parent *emufs.Node, name string) (*emufs.Node, error) {
	const op = "lookup"

	return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrOpNotPermitted}
}

// Open is not implemented.
func (dfs *DummyFS) Open(parent *emufs.Node, name string, flag int, perm uint32) (*emufs.Node, error) {
	const op = "open"

	return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrOpNotPermitted}
}

// Access is not implemented.
func (dfs *DummyFS) Access(parent *emufs.Node, name string, mode uint32, flags int) error {
	const op = "access"

	return &fs.PathError{Op: op, Path: name, Err: emufs.ErrOpNotPermitted}
}

// Stat is not implemented.
func (dfs *DummyFS) Stat(parent *emufs.Node, name string, st *unix.Stat_t, flags int) error {
	const op = "stat"

	return &fs.PathError{Op: op, Path: name, Err: emufs.ErrOpNotPermitted}
}

// Fstat is not implemented.
func (dfs *DummyFS) Fstat(n *emufs.Node, st *unix.Stat_t) error {
	const op = "fstat"

	return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Close is not implemented.
func (dfs *DummyFS) Close(n *emufs.Node) error {
	const op = "close"

	return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Read is not implemented.
func (dfs *DummyFS) Read(n *emufs.Node, p []byte) (int, error) {
	const op = "read"

	return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Readv is not implemented.
func (dfs *DummyFS) Readv(n *emufs.Node, bufs [][]byte) (int, error) {
	const op = "readv"

	return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Pread is not implemented.
func (dfs *DummyFS) Pread(n *emufs.Node, p []byte, off int64) (int, error) {
	const op = "pread"

	return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Seek is not implemented.
func (dfs *DummyFS) Seek(n *emufs.Node, off int64, whence int) (int64, error) {
	const op = "seek"

	return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Opendir is not implemented.
func (dfs *DummyFS) Opendir(n *emufs.Node) (*emufs.Node, error) {
	const op = "opendir"

	return nil, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Readdir is not implemented.
func (dfs *DummyFS) Readdir(n *emufs.Node) (*emufs.Dirent, error) {
	const op = "readdir"

	return nil, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Rewinddir is not implemented.
func (dfs *DummyFS) Rewinddir(n *emufs.Node) error {
	const op = "rewinddir"

	return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Telldir is not implemented.
func (dfs *DummyFS) Telldir(n *emufs.Node) (int64, error) {
	const op = "telldir"

	return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Seekdir is not implemented.
func (dfs *DummyFS) Seekdir(n *emufs.Node, off int64) error {
	const op = "seekdir"

	return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Closedir is not implemented.
func (dfs *DummyFS) Closedir(n *emufs.Node) error {
	const op = "closedir"

	return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// Readlink is not implemented.
func (dfs *DummyFS) Readlink(n *emufs.Node) (string, error) {
	const op = "readlink"

	return "", &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrOpNotPermitted}
}

// nodeName names a possibly nil node in error wrappers.
func nodeName(n *emufs.Node) string {
	if n == nil {
		return ""
	}

	return n.Name()
}
