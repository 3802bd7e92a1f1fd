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
	"golang.org/x/sys/unix"
)

// Errors detected by the framework or by a file system implementation are
// one of the sentinels below, wrapped in a *fs.PathError carrying the verb
// name. Errors reported by the host file system are forwarded unchanged
// inside the wrapper : errors.Is reaches the original unix.Errno in both
// cases.
const (
	// ErrBadAddress is returned when a nil node or an empty name is passed
	// to an operation.
	ErrBadAddress = unix.EFAULT

	// ErrBadFileDesc is returned when an operation requires an open
	// descriptor or directory stream that the node does not hold.
	ErrBadFileDesc = unix.EBADF

	// ErrInvalidArgument is returned for operations a file system declares
	// unsupported categorically, such as Readlink on a file system without
	// symbolic links.
	ErrInvalidArgument = unix.EINVAL

	// ErrIsADirectory is returned when a file operation is applied to a
	// directory.
	ErrIsADirectory = unix.EISDIR

	// ErrNoSuchFileOrDir is returned when a path component does not exist.
	ErrNoSuchFileOrDir = unix.ENOENT

	// ErrNotADirectory is returned when an operation requiring a directory
	// is applied to another kind of node.
	ErrNotADirectory = unix.ENOTDIR

	// ErrOpNotPermitted is returned when an operation is not permitted.
	ErrOpNotPermitted = unix.EPERM

	// ErrPermDenied is returned for any write intent on a read only file
	// system : write access modes, creation, truncation, or append.
	ErrPermDenied = unix.EACCES

	// ErrReadOnlyFS is returned by the framework for every mutating verb
	// dispatched to a file system that registers no write operation table.
	ErrReadOnlyFS = unix.EROFS
)
