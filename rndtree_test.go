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

package emufs_test

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/emufs/emufs"
	"github.com/emufs/emufs/vfs/hostfs"
)

// TestRndTreeOutOfRange tests the parameter validation of NewRndTree.
func TestRndTreeOutOfRange(t *testing.T) {
	cases := []struct {
		params  emufs.RndTreeParams
		wantErr error
		name    string
	}{
		{name: "MinNameZero", params: emufs.RndTreeParams{MinName: 0, MaxName: 1}, wantErr: emufs.ErrNameOutOfRange},
		{name: "MaxNameSmall", params: emufs.RndTreeParams{MinName: 2, MaxName: 1}, wantErr: emufs.ErrNameOutOfRange},
		{name: "MinDirsNeg", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinDirs: -1}, wantErr: emufs.ErrDirsOutOfRange},
		{name: "MaxDirsSmall", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinDirs: 2, MaxDirs: 1}, wantErr: emufs.ErrDirsOutOfRange},
		{name: "MinFilesNeg", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinFiles: -1}, wantErr: emufs.ErrFilesOutOfRange},
		{name: "MaxFilesSmall", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinFiles: 2, MaxFiles: 1}, wantErr: emufs.ErrFilesOutOfRange},
		{name: "MinSizeNeg", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinFileSize: -1}, wantErr: emufs.ErrFileSizeOutOfRange},
		{name: "MaxSizeSmall", params: emufs.RndTreeParams{MinName: 1, MaxName: 1, MinFileSize: 2, MaxFileSize: 1}, wantErr: emufs.ErrFileSizeOutOfRange},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := emufs.NewRndTree(t.TempDir(), &c.params)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("NewRndTree : want error to be %v, got %v", c.wantErr, err)
			}
		})
	}
}

// TestRndTree tests the creation of a random tree on the host.
func TestRndTree(t *testing.T) {
	baseDir := t.TempDir()

	params := &emufs.RndTreeParams{
		MinName: 4, MaxName: 16,
		MinDirs: 5, MaxDirs: 10,
		MinFiles: 10, MaxFiles: 20,
		MinFileSize: 0, MaxFileSize: 512,
	}

	rt, err := emufs.NewRndTree(baseDir, params)
	if err != nil {
		t.Fatalf("NewRndTree : want error to be nil, got %v", err)
	}

	if len(rt.Dirs) < params.MinDirs || len(rt.Dirs) > params.MaxDirs {
		t.Errorf("Dirs : want count to be in [%d, %d], got %d", params.MinDirs, params.MaxDirs, len(rt.Dirs))
	}

	if len(rt.Files) < params.MinFiles || len(rt.Files) > params.MaxFiles {
		t.Errorf("Files : want count to be in [%d, %d], got %d", params.MinFiles, params.MaxFiles, len(rt.Files))
	}

	if err = rt.CreateTree(); err != nil {
		t.Fatalf("CreateTree : want error to be nil, got %v", err)
	}

	for _, file := range rt.Files {
		info, err := os.Stat(file)
		if err != nil {
			t.Fatalf("Stat %s : want error to be nil, got %v", file, err)
		}

		if info.Size() < int64(params.MinFileSize) || info.Size() > int64(params.MaxFileSize) {
			t.Errorf("Stat %s : want size to be in [%d, %d], got %d",
				file, params.MinFileSize, params.MaxFileSize, info.Size())
		}
	}

	for _, dir := range rt.Dirs {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Stat %s : want error to be nil, got %v", dir, err)
		}

		if !info.IsDir() {
			t.Errorf("Stat %s : want a directory", dir)
		}
	}
}

// TestRndTreeMounted creates a random tree on the host and reads it back
// through a mounted file system.
func TestRndTreeMounted(t *testing.T) {
	baseDir := t.TempDir()

	params := &emufs.RndTreeParams{
		MinName: 4, MaxName: 16,
		MinDirs: 3, MaxDirs: 6,
		MinFiles: 8, MaxFiles: 16,
		MinFileSize: 1, MaxFileSize: 256,
	}

	rt, err := emufs.NewRndTree(baseDir, params)
	if err != nil {
		t.Fatalf("NewRndTree : want error to be nil, got %v", err)
	}

	if err = rt.CreateTree(); err != nil {
		t.Fatalf("CreateTree : want error to be nil, got %v", err)
	}

	mnt, err := hostfs.Mount(hostfs.WithSource(baseDir), hostfs.WithLogger(newLogger()))
	if err != nil {
		t.Fatalf("Mount %s : want error to be nil, got %v", baseDir, err)
	}

	vfs := emufs.New(emufs.WithLogger(newLogger()))

	if err = vfs.Mount("/", mnt); err != nil {
		t.Fatalf("Mount / : want error to be nil, got %v", err)
	}

	defer func() {
		if err := vfs.Umount("/"); err != nil {
			t.Errorf("Umount / : want error to be nil, got %v", err)
		}
	}()

	var dirs, files int

	var walk func(name string)

	walk = func(name string) {
		ents, err := vfs.ReadDir(name)
		if err != nil {
			t.Fatalf("ReadDir %s : want error to be nil, got %v", name, err)
		}

		for _, ent := range ents {
			if ent.Name == "." || ent.Name == ".." {
				continue
			}

			if ent.IsDir() {
				dirs++

				walk(path.Join(name, ent.Name))

				continue
			}

			files++
		}
	}

	walk("/")

	if dirs != len(rt.Dirs) {
		t.Errorf("walk : want %d directories, got %d", len(rt.Dirs), dirs)
	}

	if files != len(rt.Files) {
		t.Errorf("walk : want %d files, got %d", len(rt.Files), files)
	}

	for _, file := range rt.Files {
		want, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("ReadFile %s : want error to be nil, got %v", file, err)
		}

		got, err := vfs.ReadFile(file[len(baseDir):])
		if err != nil {
			t.Fatalf("ReadFile %s : want error to be nil, got %v", file, err)
		}

		if string(got) != string(want) {
			t.Errorf("ReadFile %s : want contents to match the host", file)
		}
	}
}
