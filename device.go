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
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// nextDevID numbers devices across all mounts of the process.
var nextDevID atomic.Uint64

// Device is the framework side of one mounted file system : it carries the
// virtual device id, the registered operation table and an optional device
// private payload. Devices are reference counted the same way nodes are :
// every node of the mount holds one device reference, and the device payload
// is closed when the last one is dropped.
type Device struct {
	fsys FileSystem // fsys is the operation table registered at mount time.
	data io.Closer  // data is the file system private device payload.
	root *Node      // root is the root node of the mount (weak reference).
	id   uint64     // id is the virtual device id.
	refs int32      // refs is the reference count.
}

// NewDevice returns a new device with a fresh virtual device id, the
// operation table fsys registered on it, and one reference owned by the
// caller. data may be nil.
func NewDevice(fsys FileSystem, data io.Closer) *Device {
	return &Device{
		fsys: fsys,
		data: data,
		id:   nextDevID.Add(1),
		refs: 1,
	}
}

// ID returns the virtual device id of the mount.
func (d *Device) ID() uint64 {
	return d.id
}

// FS returns the operation table registered on the device.
func (d *Device) FS() FileSystem {
	return d.fsys
}

// Root returns the root node of the mount.
func (d *Device) Root() *Node {
	return d.root
}

// Refs returns the current reference count of the device.
func (d *Device) Refs() int {
	return int(d.refs)
}

// NewRoot builds the root node of the mount and registers it on the device.
// The root holds its own device reference; the caller owns the returned node
// reference.
func (d *Device) NewRoot(name string, mode uint32, ino uint64, data NodeData) *Node {
	root := &Node{
		device: d.Acquire(),
		data:   data,
		name:   name,
		dev:    d.id,
		ino:    ino,
		mode:   mode,
		refs:   1,
	}

	d.root = root

	return root
}

// Acquire adds a reference to the device and returns it.
func (d *Device) Acquire() *Device {
	if d.refs <= 0 {
		panic("emufs: Acquire on a released device")
	}

	d.refs++

	return d
}

// Release drops a reference to the device. When the last reference is
// dropped the device payload is closed. Release of a nil device is a no-op.
func (d *Device) Release() error {
	if d == nil {
		return nil
	}

	if d.refs <= 0 {
		panic("emufs: Release without a matching Acquire")
	}

	d.refs--
	if d.refs > 0 {
		return nil
	}

	d.root = nil

	if d.data != nil {
		data := d.data
		d.data = nil

		return data.Close()
	}

	return nil
}

// Read only verbs dispatch straight to the operation table.

// Lookup resolves name in the directory parent.
func (d *Device) Lookup(parent *Node, name string) (*Node, error) {
	return d.fsys.Lookup(parent, name)
}

// Open opens name in the directory parent.
func (d *Device) Open(parent *Node, name string, flag int, perm uint32) (*Node, error) {
	return d.fsys.Open(parent, name, flag, perm)
}

// Access checks accessibility of name in the directory parent.
func (d *Device) Access(parent *Node, name string, mode uint32, flags int) error {
	return d.fsys.Access(parent, name, mode, flags)
}

// Stat stats name in the directory parent into st.
func (d *Device) Stat(parent *Node, name string, st *unix.Stat_t, flags int) error {
	return d.fsys.Stat(parent, name, st, flags)
}

// Fstat stats the node n into st.
func (d *Device) Fstat(n *Node, st *unix.Stat_t) error {
	return d.fsys.Fstat(n, st)
}

// Close closes the open descriptor of n.
func (d *Device) Close(n *Node) error {
	return d.fsys.Close(n)
}

// Read reads from the open descriptor of n.
func (d *Device) Read(n *Node, p []byte) (int, error) {
	return d.fsys.Read(n, p)
}

// Readv reads into each buffer of bufs from the open descriptor of n.
func (d *Device) Readv(n *Node, bufs [][]byte) (int, error) {
	return d.fsys.Readv(n, bufs)
}

// Pread reads from the open descriptor of n at offset off.
func (d *Device) Pread(n *Node, p []byte, off int64) (int, error) {
	return d.fsys.Pread(n, p, off)
}

// Seek sets the file offset of the open descriptor of n.
func (d *Device) Seek(n *Node, off int64, whence int) (int64, error) {
	return d.fsys.Seek(n, off, whence)
}

// Opendir starts a directory iteration on n.
func (d *Device) Opendir(n *Node) (*Node, error) {
	return d.fsys.Opendir(n)
}

// Readdir returns the next entry of the directory stream of n.
func (d *Device) Readdir(n *Node) (*Dirent, error) {
	return d.fsys.Readdir(n)
}

// Rewinddir resets the directory stream of n.
func (d *Device) Rewinddir(n *Node) error {
	return d.fsys.Rewinddir(n)
}

// Telldir returns the position of the directory stream of n.
func (d *Device) Telldir(n *Node) (int64, error) {
	return d.fsys.Telldir(n)
}

// Seekdir sets the position of the directory stream of n.
func (d *Device) Seekdir(n *Node, off int64) error {
	return d.fsys.Seekdir(n, off)
}

// Closedir ends the directory iteration on n.
func (d *Device) Closedir(n *Node) error {
	return d.fsys.Closedir(n)
}

// Readlink returns the target of the symbolic link n.
func (d *Device) Readlink(n *Node) (string, error) {
	return d.fsys.Readlink(n)
}

// Mutating verbs dispatch through the optional WriteFS table. A file system
// that registers no write table never sees these calls : the framework
// reports ErrReadOnlyFS itself.

// Create creates name in the directory parent.
func (d *Device) Create(parent *Node, name string, perm uint32) (*Node, error) {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return nil, &fs.PathError{Op: "create", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Create(parent, name, perm)
}

// Write writes to the open descriptor of n.
func (d *Device) Write(n *Node, p []byte) (int, error) {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return 0, &fs.PathError{Op: "write", Path: nodeName(n), Err: ErrReadOnlyFS}
	}

	return w.Write(n, p)
}

// Pwrite writes to the open descriptor of n at offset off.
func (d *Device) Pwrite(n *Node, p []byte, off int64) (int, error) {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return 0, &fs.PathError{Op: "pwrite", Path: nodeName(n), Err: ErrReadOnlyFS}
	}

	return w.Pwrite(n, p, off)
}

// Truncate changes the size of name in the directory parent.
func (d *Device) Truncate(parent *Node, name string, size int64) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "truncate", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Truncate(parent, name, size)
}

// Mkdir creates the directory name in the directory parent.
func (d *Device) Mkdir(parent *Node, name string, perm uint32) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Mkdir(parent, name, perm)
}

// Rmdir removes the empty directory name from the directory parent.
func (d *Device) Rmdir(parent *Node, name string) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "rmdir", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Rmdir(parent, name)
}

// Unlink removes the file name from the directory parent.
func (d *Device) Unlink(parent *Node, name string) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "unlink", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Unlink(parent, name)
}

// Rename moves oldName from oldParent to newName in newParent.
func (d *Device) Rename(oldParent *Node, oldName string, newParent *Node, newName string) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldName, Err: ErrReadOnlyFS}
	}

	return w.Rename(oldParent, oldName, newParent, newName)
}

// Link creates newName in newParent as a hard link to oldName in oldParent.
func (d *Device) Link(oldParent *Node, oldName string, newParent *Node, newName string) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "link", Path: newName, Err: ErrReadOnlyFS}
	}

	return w.Link(oldParent, oldName, newParent, newName)
}

// Symlink creates newName in parent as a symbolic link to target.
func (d *Device) Symlink(parent *Node, target, newName string) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "symlink", Path: newName, Err: ErrReadOnlyFS}
	}

	return w.Symlink(parent, target, newName)
}

// Chmod changes the mode of name in the directory parent.
func (d *Device) Chmod(parent *Node, name string, mode uint32) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "chmod", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Chmod(parent, name, mode)
}

// Chown changes the owner of name in the directory parent.
func (d *Device) Chown(parent *Node, name string, uid, gid int) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "chown", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Chown(parent, name, uid, gid)
}

// Chtimes changes the access and modification times of name in the
// directory parent.
func (d *Device) Chtimes(parent *Node, name string, atime, mtime int64) error {
	w, ok := d.fsys.(WriteFS)
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: ErrReadOnlyFS}
	}

	return w.Chtimes(parent, name, atime, mtime)
}

// nodeName names a possibly nil node in error wrappers.
func nodeName(n *Node) string {
	if n == nil {
		return ""
	}

	return n.name
}
