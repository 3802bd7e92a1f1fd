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

// Package emufs defines the interfaces, node graph and error types shared by
// all file system implementations presented to an emulated process.
//
// A file system implementation registers an operation table (the FileSystem
// interface) on a Device at mount time. The framework owns the generic node
// graph: directory entries are Nodes carrying a reference count, a virtual
// (device, inode) identity and an implementation private payload. The
// implementation only ever asks the framework to extend or drop a node
// reference, it never manages node memory itself.
package emufs

import (
	"io"

	"golang.org/x/sys/unix"
)

// Dirent is a single directory entry as produced by directory iteration.
// All fields are host native values: iteration order, entry type and offsets
// are whatever the underlying directory stream yields.
type Dirent struct {
	Ino  uint64 // Ino is the inode number reported by the stream.
	Off  int64  // Off is the seekable position of the next entry.
	Type uint8  // Type is the entry type (unix.DT_REG, unix.DT_DIR, ...).
	Name string // Name is the entry name, without any path.
}

// IsDir returns true if the entry describes a directory.
func (d *Dirent) IsDir() bool {
	return d.Type == unix.DT_DIR
}

// NodeData is the file system private payload attached to a Node.
// Close releases every host resource still held by the payload (an open
// descriptor or directory stream) and must be idempotent : the framework
// calls it when the last node reference is dropped, whether or not the
// implementation closed the resources beforehand.
type NodeData interface {
	io.Closer
}

// FileSystem is the operation table registered by a file system
// implementation on its Device. It replaces a static table of function
// pointers : one value per mounted file system, dispatched by the Device.
//
// Every operation is synchronous and runs to completion on the calling
// goroutine. Concurrent calls on the same node must be serialized by the
// caller.
type FileSystem interface {
	// Name returns the name of the file system.
	Name() string

	// Type returns the type of the file system.
	Type() string

	// Features returns the set of features provided by the file system.
	Features() Features

	// Lookup resolves name in the directory parent and returns a new node
	// referencing parent, with mode and synthetic inode populated and no
	// open descriptor. The caller owns the returned reference.
	Lookup(parent *Node, name string) (*Node, error)

	// Open resolves name in the directory parent, opens it with flag and
	// perm, and returns a new node holding the open descriptor.
	Open(parent *Node, name string, flag int, perm uint32) (*Node, error)

	// Access checks accessibility of name in the directory parent for the
	// permission bits mode (unix.R_OK, unix.W_OK, unix.X_OK).
	Access(parent *Node, name string, mode uint32, flags int) error

	// Stat stats name in the directory parent into st. Implementations
	// rewrite st.Dev and st.Ino with the virtual identity of the entry.
	// Passing unix.AT_SYMLINK_NOFOLLOW in flags stats the link itself.
	Stat(parent *Node, name string, st *unix.Stat_t, flags int) error

	// Fstat stats the node itself into st, using its open descriptor when
	// one is held.
	Fstat(n *Node, st *unix.Stat_t) error

	// Close closes the open file descriptor of n.
	Close(n *Node) error

	// Read reads up to len(p) bytes from the open descriptor of n.
	Read(n *Node, p []byte) (int, error)

	// Readv reads into each buffer of bufs in order from the open
	// descriptor of n.
	Readv(n *Node, bufs [][]byte) (int, error)

	// Pread reads up to len(p) bytes from the open descriptor of n at
	// offset off, without moving the file offset.
	Pread(n *Node, p []byte, off int64) (int, error)

	// Seek sets the file offset of the open descriptor of n.
	Seek(n *Node, off int64, whence int) (int64, error)

	// Opendir starts a directory iteration on n and returns an additional
	// reference to n : the stream outlives the reference used to start it.
	Opendir(n *Node) (*Node, error)

	// Readdir returns the next entry of the directory stream of n, or
	// io.EOF at the end of the stream.
	Readdir(n *Node) (*Dirent, error)

	// Rewinddir resets the directory stream of n to its beginning.
	Rewinddir(n *Node) error

	// Telldir returns the current position of the directory stream of n.
	Telldir(n *Node) (int64, error)

	// Seekdir sets the position of the directory stream of n to a value
	// previously returned by Telldir.
	Seekdir(n *Node, off int64) error

	// Closedir ends the directory iteration on n and drops the reference
	// acquired by Opendir.
	Closedir(n *Node) error

	// Readlink returns the target of the symbolic link n.
	Readlink(n *Node) (string, error)
}

// WriteFS is the optional operation table for file systems supporting
// mutation. The Device dispatches mutating verbs through it; when a
// FileSystem does not implement WriteFS every mutating verb fails with
// ErrReadOnlyFS without the file system being called.
type WriteFS interface {
	// Create creates name in the directory parent and returns a new node
	// holding a descriptor open for writing.
	Create(parent *Node, name string, perm uint32) (*Node, error)

	// Write writes len(p) bytes to the open descriptor of n.
	Write(n *Node, p []byte) (int, error)

	// Pwrite writes len(p) bytes to the open descriptor of n at offset
	// off, without moving the file offset.
	Pwrite(n *Node, p []byte, off int64) (int, error)

	// Truncate changes the size of the file name in the directory parent.
	Truncate(parent *Node, name string, size int64) error

	// Mkdir creates the directory name in the directory parent.
	Mkdir(parent *Node, name string, perm uint32) error

	// Rmdir removes the empty directory name from the directory parent.
	Rmdir(parent *Node, name string) error

	// Unlink removes the file name from the directory parent.
	Unlink(parent *Node, name string) error

	// Rename moves oldName from oldParent to newName in newParent.
	Rename(oldParent *Node, oldName string, newParent *Node, newName string) error

	// Link creates newName in newParent as a hard link to oldName in
	// oldParent.
	Link(oldParent *Node, oldName string, newParent *Node, newName string) error

	// Symlink creates newName in parent as a symbolic link to target.
	Symlink(parent *Node, target, newName string) error

	// Chmod changes the mode of name in the directory parent.
	Chmod(parent *Node, name string, mode uint32) error

	// Chown changes the owner of name in the directory parent.
	Chown(parent *Node, name string, uid, gid int) error

	// Chtimes changes the access and modification times of name in the
	// directory parent, expressed in nanoseconds since the Unix epoch.
	Chtimes(parent *Node, name string, atime, mtime int64) error
}
