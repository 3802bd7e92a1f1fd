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

package hostfs

import (
	"io"
	"io/fs"

	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
)

// hostData recovers the adapter private payload of a node. It reports
// false for a nil node, a nil payload or a payload owned by another file
// system kind.
func hostData(n *emufs.Node) (*hostInfo, bool) {
	if n == nil {
		return nil, false
	}

	hi, ok := n.Data().(*hostInfo)

	return hi, ok
}

// Lookup resolves name in the directory parent : the entry is statted on
// the host and a new node is returned in the discovered state, with the
// host mode bits and the synthetic inode populated and no open descriptor.
// A host stat failure passes through unchanged, most commonly "no such
// file or directory".
func (hfs *HostFS) Lookup(parent *emufs.Node, name string) (*emufs.Node, error) {
	const op = "lookup"

	pi, ok := hostData(parent)
	if !ok || name == "" {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrBadAddress}
	}

	if !parent.IsDir() {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrNotADirectory}
	}

	hostPath, err := pi.resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	var st unix.Stat_t

	err = unix.Stat(hostPath, &st)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	info := &hostInfo{
		hfs:      hfs,
		hostPath: hostPath,
		mode:     uint32(st.Mode),
		fd:       -1,
	}

	return emufs.NewNode(parent, name, uint32(st.Mode), inodeHash(uint64(st.Dev), st.Ino), info), nil
}

// Open resolves name in the directory parent and opens it on the host.
// The mount never mutates the host : any access mode other than read only,
// or any creation, truncation or append flag, fails with ErrPermDenied
// before a host call is made.
func (hfs *HostFS) Open(parent *emufs.Node, name string, flag int, perm uint32) (*emufs.Node, error) {
	const op = "open"

	pi, ok := hostData(parent)
	if !ok || name == "" {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrBadAddress}
	}

	if !parent.IsDir() {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrNotADirectory}
	}

	if flag&unix.O_ACCMODE != unix.O_RDONLY {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrPermDenied}
	}

	if flag&(unix.O_CREAT|unix.O_TRUNC|unix.O_APPEND) != 0 {
		return nil, &fs.PathError{Op: op, Path: name, Err: emufs.ErrPermDenied}
	}

	hostPath, err := pi.resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	fd, err := unix.Open(hostPath, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	var st unix.Stat_t

	err = unix.Fstat(fd, &st)
	if err != nil {
		_ = closeFd(fd)

		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	info := &hostInfo{
		hfs:      hfs,
		hostPath: hostPath,
		mode:     uint32(st.Mode),
		fd:       fd,
	}

	return emufs.NewNode(parent, name, uint32(st.Mode), inodeHash(uint64(st.Dev), st.Ino), info), nil
}

// Access checks accessibility of name in the directory parent. Write
// permission checks are always denied : the mount is read only by contract
// even when the underlying host path is writable. Other checks forward to
// the host.
func (hfs *HostFS) Access(parent *emufs.Node, name string, mode uint32, flags int) error {
	const op = "access"

	pi, ok := hostData(parent)
	if !ok || name == "" {
		return &fs.PathError{Op: op, Path: name, Err: emufs.ErrBadAddress}
	}

	if mode&unix.W_OK != 0 {
		return &fs.PathError{Op: op, Path: name, Err: emufs.ErrPermDenied}
	}

	hostPath, err := pi.resolve(name)
	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	err = unix.Faccessat(unix.AT_FDCWD, hostPath, mode, 0)
	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	return nil
}

// Stat stats name in the directory parent on the host, then overwrites the
// device id with the virtual device id of the mount and the inode with the
// synthesized value : callers never see host native identities. Passing
// unix.AT_SYMLINK_NOFOLLOW stats the link itself.
func (hfs *HostFS) Stat(parent *emufs.Node, name string, st *unix.Stat_t, flags int) error {
	const op = "stat"

	pi, ok := hostData(parent)
	if !ok || name == "" || st == nil {
		return &fs.PathError{Op: op, Path: name, Err: emufs.ErrBadAddress}
	}

	hostPath, err := pi.resolve(name)
	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	if flags&unix.AT_SYMLINK_NOFOLLOW != 0 {
		err = unix.Lstat(hostPath, st)
	} else {
		err = unix.Stat(hostPath, st)
	}

	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	st.Ino = inodeHash(uint64(st.Dev), st.Ino)
	st.Dev = parent.Dev()

	return nil
}

// Fstat stats the node itself, through its open descriptor when one is
// held, through its host path otherwise. The returned identity is virtual,
// as for Stat.
func (hfs *HostFS) Fstat(n *emufs.Node, st *unix.Stat_t) error {
	const op = "fstat"

	hi, ok := hostData(n)
	if !ok || st == nil {
		return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	var err error

	switch {
	case hi.fd != -1:
		err = unix.Fstat(hi.fd, st)
	case hi.hostPath != "":
		err = unix.Stat(hi.hostPath, st)
	default:
		return &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	if err != nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	st.Ino = inodeHash(uint64(st.Dev), st.Ino)
	st.Dev = n.Dev()

	return nil
}

// Close closes the open descriptor of n and clears it. Closing a node
// without an open descriptor fails with ErrBadFileDesc.
func (hfs *HostFS) Close(n *emufs.Node) error {
	const op = "close"

	hi, ok := hostData(n)
	if !ok {
		return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.fd == -1 {
		return &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	err := closeFd(hi.fd)
	hi.fd = -1

	if err != nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return nil
}

// Read reads up to len(p) bytes from the open descriptor of n. Counts and
// short read semantics are exactly the host's.
func (hfs *HostFS) Read(n *emufs.Node, p []byte) (int, error) {
	const op = "read"

	hi, ok := hostData(n)
	if !ok {
		return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.fd == -1 {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	read, err := unix.Read(hi.fd, p)
	if err != nil {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return read, nil
}

// Readv reads into each buffer of bufs in order from the open descriptor
// of n, in a single host call.
func (hfs *HostFS) Readv(n *emufs.Node, bufs [][]byte) (int, error) {
	const op = "readv"

	hi, ok := hostData(n)
	if !ok {
		return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.fd == -1 {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	read, err := unix.Readv(hi.fd, bufs)
	if err != nil {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return read, nil
}

// Pread reads up to len(p) bytes from the open descriptor of n at offset
// off, leaving the file offset unchanged.
func (hfs *HostFS) Pread(n *emufs.Node, p []byte, off int64) (int, error) {
	const op = "pread"

	hi, ok := hostData(n)
	if !ok {
		return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.fd == -1 {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	read, err := unix.Pread(hi.fd, p, off)
	if err != nil {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return read, nil
}

// Seek sets the file offset of the open descriptor of n.
func (hfs *HostFS) Seek(n *emufs.Node, off int64, whence int) (int64, error) {
	const op = "seek"

	hi, ok := hostData(n)
	if !ok {
		return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.fd == -1 {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	pos, err := unix.Seek(hi.fd, off, whence)
	if err != nil {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return pos, nil
}

// Opendir starts a directory iteration on n and returns an additional
// reference to the node, so the stream outlives the reference used to
// start it. A stream left open by a previous iteration is closed first.
func (hfs *HostFS) Opendir(n *emufs.Node) (*emufs.Node, error) {
	const op = "opendir"

	hi, ok := hostData(n)
	if !ok {
		return nil, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrNotADirectory}
	}

	if hi.hostPath == "" {
		return nil, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	if hi.dir != nil {
		_ = hi.dir.Close()
		hi.dir = nil
	}

	ds, err := openDirStream(hi.hostPath)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	hi.dir = ds

	return n.Acquire(), nil
}

// Readdir returns the next entry of the directory stream of n in host
// order, io.EOF at the end of the stream.
func (hfs *HostFS) Readdir(n *emufs.Node) (*emufs.Dirent, error) {
	const op = "readdir"

	hi, ok := hostData(n)
	if !ok {
		return nil, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.dir == nil {
		return nil, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	ent, err := hi.dir.next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return ent, nil
}

// Rewinddir resets the directory stream of n to the beginning of the
// directory.
func (hfs *HostFS) Rewinddir(n *emufs.Node) error {
	const op = "rewinddir"

	hi, ok := hostData(n)
	if !ok {
		return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.dir == nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	err := hi.dir.rewind()
	if err != nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return nil
}

// Telldir returns the current position of the directory stream of n.
func (hfs *HostFS) Telldir(n *emufs.Node) (int64, error) {
	const op = "telldir"

	hi, ok := hostData(n)
	if !ok {
		return 0, &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.dir == nil {
		return 0, &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	return hi.dir.tell(), nil
}

// Seekdir positions the directory stream of n at a value previously
// returned by Telldir on the same stream.
func (hfs *HostFS) Seekdir(n *emufs.Node, off int64) error {
	const op = "seekdir"

	hi, ok := hostData(n)
	if !ok {
		return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.dir == nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	err := hi.dir.seek(off)
	if err != nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return nil
}

// Closedir ends the directory iteration on n, clears the stream and drops
// the node reference acquired by Opendir.
func (hfs *HostFS) Closedir(n *emufs.Node) error {
	const op = "closedir"

	hi, ok := hostData(n)
	if !ok {
		return &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrBadAddress}
	}

	if hi.dir == nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: emufs.ErrBadFileDesc}
	}

	err := hi.dir.Close()
	hi.dir = nil

	if errRel := n.Release(); errRel != nil && err == nil {
		err = errRel
	}

	if err != nil {
		return &fs.PathError{Op: op, Path: n.Name(), Err: err}
	}

	return nil
}

// Readlink always fails with ErrInvalidArgument : the mount declares zero
// symbolic link support, whatever the host entry happens to be.
func (hfs *HostFS) Readlink(n *emufs.Node) (string, error) {
	const op = "readlink"

	return "", &fs.PathError{Op: op, Path: nodeName(n), Err: emufs.ErrInvalidArgument}
}

// nodeName names a possibly nil node in error wrappers.
func nodeName(n *emufs.Node) string {
	if n == nil {
		return ""
	}

	return n.Name()
}
