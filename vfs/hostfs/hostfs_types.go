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
	"log/slog"
)

// HostFS is the read only host directory file system. It implements the
// emufs.FileSystem operation table and carries the canonical host source
// directory of the mount.
//
// HostFS registers no write operation table, so the framework fails every
// mutating verb with emufs.ErrReadOnlyFS without calling into the adapter.
type HostFS struct {
	logger *slog.Logger // logger receives mount and teardown diagnostics.
	source string       // source is the canonical host source directory, trailing slash stripped.
	name   string       // name of the mount, empty by default.
}

// hostDevice is the device payload of a mount. The framework closes it when
// the last device reference is dropped.
type hostDevice struct {
	hfs    *HostFS
	closed bool // closed is set once the payload has been released.
}

// Close releases the device payload. It is an idempotent no-op on an
// already released payload.
func (hd *hostDevice) Close() error {
	if hd.closed {
		return nil
	}

	hd.closed = true
	hd.hfs.logger.Debug("released host directory device", "source", hd.hfs.source)

	return nil
}

// hostInfo is the adapter private payload of one node : the host path the
// node resolves to, the mode bits copied from the host at discovery time,
// and the host resources held while the node is open. At most one of fd and
// dir is active at a time, matching the node kind.
type hostInfo struct {
	hfs      *HostFS    // hfs is the owning file system.
	dir      *dirStream // dir is the directory stream, nil unless a directory iteration is in progress.
	hostPath string     // hostPath is the resolved absolute host path, immutable after creation.
	mode     uint32     // mode is the host st_mode at discovery time.
	fd       int        // fd is the open host descriptor, -1 unless a regular file is open.
}

// Close force-closes any still open descriptor or directory stream and is
// an idempotent no-op afterwards. The framework calls it when the last node
// reference is dropped.
func (hi *hostInfo) Close() error {
	var err error

	if hi.dir != nil {
		err = hi.dir.Close()
		hi.dir = nil
	}

	if hi.fd != -1 {
		if errClose := closeFd(hi.fd); errClose != nil && err == nil {
			err = errClose
		}

		hi.fd = -1
	}

	return err
}
