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
	"bytes"
	"io"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
)

// inodeHash derives the synthetic inode of an entry from its host
// (device, inode) pair : an sdbm hash seeded with the host device id,
// folding in the eight little-endian bytes of the host inode number.
// Identical inputs always yield the identical output within one run, so
// the same host file maps to the same virtual inode wherever it is
// reached from. Distinct host pairs can collide, with negligible
// probability; no disambiguation is attempted.
func inodeHash(dev, ino uint64) uint64 {
	h := dev

	for i := 0; i < 8; i++ {
		h = uint64(byte(ino>>(8*i))) + (h << 6) + (h << 16) - h
	}

	return h
}

// resolve builds the absolute host path of the entry name under the node
// owning hi. It fails only when the payload carries no host path, the
// degenerate state of a node whose resources were already released.
func (hi *hostInfo) resolve(name string) (string, error) {
	if hi.hostPath == "" {
		return "", emufs.ErrBadFileDesc
	}

	return hi.hostPath + "/" + name, nil
}

// closeFd closes a host file descriptor.
func closeFd(fd int) error {
	return unix.Close(fd)
}

// direntBufSize is the getdents buffer size, the only buffering performed
// on directory contents.
const direntBufSize = 8192

// direntNameOffset is the offset of the name bytes within a host dirent.
var direntNameOffset = int(unsafe.Offsetof(unix.Dirent{}.Name))

// dirStream is an open host directory stream : the directory descriptor
// and the current getdents window over it. Positions handed out by tell
// are host d_off cookies, valid for seek on the same stream.
type dirStream struct {
	buf  []byte
	fd   int
	bufp int   // bufp is the parse position within buf.
	size int   // size is the number of valid bytes in buf.
	pos  int64 // pos is the d_off cookie of the last consumed entry.
}

// openDirStream opens a directory stream on a host path.
func openDirStream(hostPath string) (*dirStream, error) {
	fd, err := unix.Open(hostPath, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	return &dirStream{
		buf: make([]byte, direntBufSize),
		fd:  fd,
	}, nil
}

// next returns the next directory entry in host order, io.EOF at the end
// of the stream. Entries deleted since the getdents call (inode 0) are
// skipped, "." and ".." are returned as the host yields them.
func (ds *dirStream) next() (*emufs.Dirent, error) {
	for {
		if ds.bufp >= ds.size {
			n, err := unix.Getdents(ds.fd, ds.buf)
			if err != nil {
				return nil, err
			}

			if n == 0 {
				return nil, io.EOF
			}

			ds.bufp = 0
			ds.size = n
		}

		dirent := (*unix.Dirent)(unsafe.Pointer(&ds.buf[ds.bufp]))

		nameBytes := ds.buf[ds.bufp+direntNameOffset : ds.bufp+int(dirent.Reclen)]
		if i := bytes.IndexByte(nameBytes, 0); i >= 0 {
			nameBytes = nameBytes[:i]
		}

		ds.bufp += int(dirent.Reclen)
		ds.pos = dirent.Off

		if dirent.Ino == 0 {
			continue
		}

		return &emufs.Dirent{
			Ino:  dirent.Ino,
			Off:  dirent.Off,
			Type: dirent.Type,
			Name: string(nameBytes),
		}, nil
	}
}

// rewind resets the stream to the beginning of the directory.
func (ds *dirStream) rewind() error {
	_, err := unix.Seek(ds.fd, 0, 0)
	if err != nil {
		return err
	}

	ds.bufp = 0
	ds.size = 0
	ds.pos = 0

	return nil
}

// tell returns the position of the stream : the d_off cookie after the
// last consumed entry, 0 at the beginning of the directory.
func (ds *dirStream) tell() int64 {
	return ds.pos
}

// seek positions the stream at a cookie previously returned by tell and
// discards the buffered window.
func (ds *dirStream) seek(pos int64) error {
	_, err := unix.Seek(ds.fd, pos, 0)
	if err != nil {
		return err
	}

	ds.bufp = 0
	ds.size = 0
	ds.pos = pos

	return nil
}

// Close closes the stream descriptor. It is idempotent.
func (ds *dirStream) Close() error {
	if ds.fd == -1 {
		return nil
	}

	err := unix.Close(ds.fd)
	ds.fd = -1

	return err
}
