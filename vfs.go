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
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Mount is one mounted file system : the device carrying the operation
// table and the root node of the tree. File system packages build a Mount
// in their initializer and hand ownership to a VFS.
type Mount struct {
	Dev  *Device // Dev is the device of the mount.
	Root *Node   // Root is the root node of the mount.
}

// VFS is the mount table presented to the emulated process. Virtual paths
// are resolved component by component against the mounted trees; all other
// methods are conveniences layered on the per-node operation tables.
type VFS struct {
	mounts map[string]*Mount
	logger *slog.Logger
	mu     sync.RWMutex
}

// Option configures a VFS.
type Option func(*VFS)

// WithLogger sets the logger used for mount diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *VFS) {
		v.logger = logger
	}
}

// New returns a new empty mount table.
func New(opts ...Option) *VFS {
	v := &VFS{
		mounts: make(map[string]*Mount),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Mount mounts mnt on the virtual path mntPath. The VFS takes ownership of
// the mount references; they are dropped by Umount.
func (v *VFS) Mount(mntPath string, mnt *Mount) error {
	const op = "mount"

	if mnt == nil || mnt.Dev == nil || mnt.Root == nil {
		return &fs.PathError{Op: op, Path: mntPath, Err: ErrBadAddress}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	mntPath = cleanPath(mntPath)

	if _, ok := v.mounts[mntPath]; ok {
		return &fs.PathError{Op: op, Path: mntPath, Err: unix.EEXIST}
	}

	v.mounts[mntPath] = mnt

	v.logger.Info("mounted device",
		"path", mntPath,
		"type", mnt.Dev.FS().Type(),
		"name", mnt.Dev.FS().Name(),
		"dev", mnt.Dev.ID())

	return nil
}

// Umount unmounts the file system mounted on mntPath, dropping the root and
// device references owned by the mount table.
func (v *VFS) Umount(mntPath string) error {
	const op = "umount"

	v.mu.Lock()
	defer v.mu.Unlock()

	mntPath = cleanPath(mntPath)

	mnt, ok := v.mounts[mntPath]
	if !ok {
		return &fs.PathError{Op: op, Path: mntPath, Err: ErrNoSuchFileOrDir}
	}

	delete(v.mounts, mntPath)

	err := mnt.Root.Release()
	if errRel := mnt.Dev.Release(); errRel != nil && err == nil {
		err = errRel
	}

	v.logger.Info("unmounted device", "path", mntPath)

	return err
}

// pathToMount returns the mount owning the virtual path name and the path
// relative to the mount root. The longest mounted prefix wins.
func (v *VFS) pathToMount(name string) (*Mount, string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var (
		mnt     *Mount
		longest = -1
		rel     string
	)

	for mntPath, m := range v.mounts {
		if len(mntPath) <= longest {
			continue
		}

		if name == mntPath {
			mnt, longest, rel = m, len(mntPath), ""

			continue
		}

		prefix := mntPath
		if prefix != "/" {
			prefix += "/"
		}

		if strings.HasPrefix(name, prefix) {
			mnt, longest, rel = m, len(mntPath), name[len(prefix):]
		}
	}

	if mnt == nil {
		return nil, "", false
	}

	return mnt, rel, true
}

// isMountPath returns true if the virtual path name is itself a mount
// point.
func (v *VFS) isMountPath(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, ok := v.mounts[cleanPath(name)]

	return ok
}

// Resolve walks the virtual path name and returns the node it designates.
// The caller owns the returned reference and must Release it.
func (v *VFS) Resolve(name string) (*Node, error) {
	const op = "lookup"

	mnt, rel, ok := v.pathToMount(cleanPath(name))
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: ErrNoSuchFileOrDir}
	}

	node := mnt.Root.Acquire()

	pi := NewPathIterator(rel)
	for pi.Next() {
		child, err := node.Device().Lookup(node, pi.Part())

		_ = node.Release()

		if err != nil {
			return nil, err
		}

		node = child
	}

	return node, nil
}

// Open opens the virtual path name for reading and returns a File handle.
func (v *VFS) Open(name string) (*File, error) {
	return v.OpenFile(name, unix.O_RDONLY, 0)
}

// OpenFile is the generalized open call. The flag and perm values are
// forwarded to the operation table of the owning mount; a read only file
// system rejects any write intent with ErrPermDenied.
func (v *VFS) OpenFile(name string, flag int, perm uint32) (*File, error) {
	const op = "open"

	dir, base := splitPath(name)
	if base == "" || v.isMountPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: ErrIsADirectory}
	}

	parent, err := v.Resolve(dir)
	if err != nil {
		return nil, err
	}

	node, err := parent.Device().Open(parent, base, flag, perm)

	_ = parent.Release()

	if err != nil {
		return nil, err
	}

	return &File{node: node, name: name}, nil
}

// Stat stats the virtual path name. The returned stat carries the virtual
// device id and the synthetic inode of the entry, never the host ones.
func (v *VFS) Stat(name string) (unix.Stat_t, error) {
	return v.stat(name, 0)
}

// Lstat is like Stat but does not follow a trailing symbolic link.
func (v *VFS) Lstat(name string) (unix.Stat_t, error) {
	return v.stat(name, unix.AT_SYMLINK_NOFOLLOW)
}

func (v *VFS) stat(name string, flags int) (unix.Stat_t, error) {
	var st unix.Stat_t

	// A path landing on a mount point describes the mounted root, never
	// the entry it shadows in the outer mount.
	dir, base := splitPath(name)
	if base == "" || v.isMountPath(name) {
		root, err := v.Resolve(name)
		if err != nil {
			return st, err
		}

		err = root.Device().Fstat(root, &st)

		_ = root.Release()

		return st, err
	}

	parent, err := v.Resolve(dir)
	if err != nil {
		return st, err
	}

	err = parent.Device().Stat(parent, base, &st, flags)

	_ = parent.Release()

	return st, err
}

// Access checks accessibility of the virtual path name for the permission
// bits mode.
func (v *VFS) Access(name string, mode uint32) error {
	dir, base := splitPath(name)
	if base == "" || v.isMountPath(name) {
		root, err := v.Resolve(name)
		if err != nil {
			return err
		}

		err = root.Device().Access(root, ".", mode, 0)

		_ = root.Release()

		return err
	}

	parent, err := v.Resolve(dir)
	if err != nil {
		return err
	}

	err = parent.Device().Access(parent, base, mode, 0)

	_ = parent.Release()

	return err
}

// ReadDir reads the directory at the virtual path name and returns its
// entries in the order the underlying directory stream yields them.
func (v *VFS) ReadDir(name string) ([]Dirent, error) {
	node, err := v.Resolve(name)
	if err != nil {
		return nil, err
	}

	dev := node.Device()

	handle, err := dev.Opendir(node)
	if err != nil {
		_ = node.Release()

		return nil, err
	}

	var ents []Dirent

	for {
		ent, err := dev.Readdir(handle)
		if err != nil {
			if err == io.EOF {
				break
			}

			_ = dev.Closedir(handle)
			_ = node.Release()

			return ents, err
		}

		ents = append(ents, *ent)
	}

	err = dev.Closedir(handle)
	if errRel := node.Release(); errRel != nil && err == nil {
		err = errRel
	}

	return ents, err
}

// ReadFile reads the file at the virtual path name and returns its
// contents.
func (v *VFS) ReadFile(name string) ([]byte, error) {
	f, err := v.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)

	if errClose := f.Close(); errClose != nil && err == nil {
		err = errClose
	}

	return data, err
}

// Readlink returns the destination of the symbolic link at the virtual
// path name.
func (v *VFS) Readlink(name string) (string, error) {
	node, err := v.Resolve(name)
	if err != nil {
		return "", err
	}

	target, err := node.Device().Readlink(node)

	_ = node.Release()

	return target, err
}

// cleanPath normalizes a virtual path to an absolute clean slash path.
func cleanPath(name string) string {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}

	return path.Clean(name)
}

// splitPath splits a virtual path into its parent directory and base name.
// The base name is empty for the root path.
func splitPath(name string) (dir, base string) {
	name = cleanPath(name)
	if name == "/" {
		return "/", ""
	}

	dir, base = path.Split(name)

	return path.Clean(dir), base
}
