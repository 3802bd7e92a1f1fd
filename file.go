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

package emufs

import (
	"io"
	"io/fs"

	"golang.org/x/sys/unix"
)

// File is an open file handle over a node holding a descriptor. It adapts
// the raw byte-for-byte host semantics of the operation table to the
// io.Reader, io.ReaderAt and io.Seeker contracts.
type File struct {
	node *Node  // node is the open node, nil once the file is closed.
	name string // name is the virtual path given to Open.
}

// Name returns the virtual path of the file as presented to Open.
func (f *File) Name() string {
	return f.name
}

// Node returns the open node of the file, nil once closed.
func (f *File) Node() *Node {
	return f.node
}

// Read reads up to len(p) bytes from the file.
// It returns io.EOF at the end of the file.
func (f *File) Read(p []byte) (int, error) {
	const op = "read"

	if f.node == nil {
		return 0, &fs.PathError{Op: op, Path: f.name, Err: ErrBadFileDesc}
	}

	n, err := f.node.Device().Read(f.node, p)
	if err != nil {
		return n, err
	}

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

// ReadAt reads len(p) bytes from the file starting at byte offset off.
// It returns io.EOF with a partial count when the file ends before len(p)
// bytes could be read.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	const op = "read"

	if f.node == nil {
		return 0, &fs.PathError{Op: op, Path: f.name, Err: ErrBadFileDesc}
	}

	read := 0
	for read < len(p) {
		n, err := f.node.Device().Pread(f.node, p[read:], off+int64(read))
		if err != nil {
			return read, err
		}

		if n == 0 {
			return read, io.EOF
		}

		read += n
	}

	return read, nil
}

// Seek sets the offset for the next Read, interpreted according to whence.
func (f *File) Seek(off int64, whence int) (int64, error) {
	const op = "seek"

	if f.node == nil {
		return 0, &fs.PathError{Op: op, Path: f.name, Err: ErrBadFileDesc}
	}

	return f.node.Device().Seek(f.node, off, whence)
}

// Stat stats the open file. The returned stat carries the virtual device id
// and the synthetic inode of the file.
func (f *File) Stat() (unix.Stat_t, error) {
	const op = "stat"

	var st unix.Stat_t

	if f.node == nil {
		return st, &fs.PathError{Op: op, Path: f.name, Err: ErrBadFileDesc}
	}

	err := f.node.Device().Fstat(f.node, &st)

	return st, err
}

// Close closes the descriptor and drops the node reference owned by the
// handle. Closing an already closed file fails with ErrBadFileDesc.
func (f *File) Close() error {
	const op = "close"

	if f.node == nil {
		return &fs.PathError{Op: op, Path: f.name, Err: ErrBadFileDesc}
	}

	err := f.node.Device().Close(f.node)
	if errRel := f.node.Release(); errRel != nil && err == nil {
		err = errRel
	}

	f.node = nil

	return err
}
