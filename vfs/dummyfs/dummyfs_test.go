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

package dummyfs_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/emufs/emufs"
	"github.com/emufs/emufs/vfs/dummyfs"
)

var (
	// Tests that dummyfs.DummyFS struct implements emufs.FileSystem interface.
	_ emufs.FileSystem = &dummyfs.DummyFS{}

	// Tests that dummyfs.DummyFS struct implements emufs.Featurer interface.
	_ emufs.Featurer = &dummyfs.DummyFS{}
)

func TestDummyFSConfig(t *testing.T) {
	mnt, err := dummyfs.Mount(dummyfs.WithName("stub"))
	if err != nil {
		t.Fatalf("Mount : want error to be nil, got %v", err)
	}

	hfs := mnt.Dev.FS()

	if hfs.Name() != "stub" {
		t.Errorf("Name : want name to be stub, got %s", hfs.Name())
	}

	if hfs.Type() != "DummyFS" {
		t.Errorf("Type : want type to be DummyFS, got %s", hfs.Type())
	}

	if hfs.Features() != emufs.FeatReadOnly {
		t.Errorf("Features : want features to be %d, got %d", emufs.FeatReadOnly, hfs.Features())
	}

	if !mnt.Root.IsDir() {
		t.Errorf("Root : want root to be a directory")
	}

	if err = mnt.Root.Release(); err != nil {
		t.Errorf("Release root : want error to be nil, got %v", err)
	}

	if err = mnt.Dev.Release(); err != nil {
		t.Errorf("Release device : want error to be nil, got %v", err)
	}
}

func TestDummyFSOps(t *testing.T) {
	mnt, err := dummyfs.Mount()
	if err != nil {
		t.Fatalf("Mount : want error to be nil, got %v", err)
	}

	vfs := emufs.New(emufs.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	if err = vfs.Mount("/", mnt); err != nil {
		t.Fatalf("Mount / : want error to be nil, got %v", err)
	}

	defer func() {
		if err := vfs.Umount("/"); err != nil {
			t.Errorf("Umount / : want error to be nil, got %v", err)
		}
	}()

	_, err = vfs.Resolve("/a")
	if !errors.Is(err, emufs.ErrOpNotPermitted) {
		t.Errorf("Resolve /a : want error to be %v, got %v", emufs.ErrOpNotPermitted, err)
	}

	_, err = vfs.Open("/a")
	if !errors.Is(err, emufs.ErrOpNotPermitted) {
		t.Errorf("Open /a : want error to be %v, got %v", emufs.ErrOpNotPermitted, err)
	}

	_, err = vfs.ReadDir("/")
	if !errors.Is(err, emufs.ErrOpNotPermitted) {
		t.Errorf("ReadDir / : want error to be %v, got %v", emufs.ErrOpNotPermitted, err)
	}

	_, err = vfs.Readlink("/")
	if !errors.Is(err, emufs.ErrOpNotPermitted) {
		t.Errorf("Readlink / : want error to be %v, got %v", emufs.ErrOpNotPermitted, err)
	}

	// Mutating verbs never reach the file system : the framework reports
	// the read only error itself.
	err = mnt.Dev.Mkdir(mnt.Root, "a", 0o755)
	if !errors.Is(err, emufs.ErrReadOnlyFS) {
		t.Errorf("Mkdir : want error to be %v, got %v", emufs.ErrReadOnlyFS, err)
	}

	var st unix.Stat_t

	err = mnt.Dev.Fstat(mnt.Root, &st)
	if !errors.Is(err, emufs.ErrOpNotPermitted) {
		t.Errorf("Fstat : want error to be %v, got %v", emufs.ErrOpNotPermitted, err)
	}
}
