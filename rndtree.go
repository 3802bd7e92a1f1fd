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
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/fastrand"
)

// ErrRndTreeOutOfRange defines the generic error for out of range
// RndTreeParams parameters.
type ErrRndTreeOutOfRange string

// Error returns an ErrRndTreeOutOfRange error.
func (e ErrRndTreeOutOfRange) Error() string {
	return string(e) + " parameter out of range"
}

var (
	// ErrNameOutOfRange is the error when MinName or MaxName is out of range.
	ErrNameOutOfRange = ErrRndTreeOutOfRange("name")

	// ErrDirsOutOfRange is the error when MinDirs or MaxDirs is out of range.
	ErrDirsOutOfRange = ErrRndTreeOutOfRange("dirs")

	// ErrFilesOutOfRange is the error when MinFiles or MaxFiles is out of range.
	ErrFilesOutOfRange = ErrRndTreeOutOfRange("files")

	// ErrFileSizeOutOfRange is the error when MinFileSize or MaxFileSize is out of range.
	ErrFileSizeOutOfRange = ErrRndTreeOutOfRange("file size")
)

// RndTreeParams defines the parameters to generate a random tree of
// directories and files on the host file system.
type RndTreeParams struct {
	MinName     int  // MinName is the minimum length of a name (must be >= 1).
	MaxName     int  // MaxName is the maximum length of a name (must be >= MinName).
	MinDirs     int  // MinDirs is the minimum number of directories (must be >= 0).
	MaxDirs     int  // MaxDirs is the maximum number of directories (must be >= MinDirs).
	MinFiles    int  // MinFiles is the minimum number of files (must be >= 0).
	MaxFiles    int  // MaxFiles is the maximum number of files (must be >= MinFiles).
	MinFileSize int  // MinFileSize is minimum size of a file (must be >= 0).
	MaxFileSize int  // MaxFileSize is maximum size of a file (must be >= MinFileSize).
	OneLevel    bool // OneLevel keeps all entries in the base directory.
}

// RndTree generates a random tree of directories and files under a base
// directory of the host file system. It seeds the host side of adapter
// tests : the tree is written with the os package, then read back through a
// mounted file system.
type RndTree struct {
	baseDir       string   // baseDir is the base directory of the random tree.
	Dirs          []string // Dirs are all the directories.
	Files         []string // Files are all the files.
	rng           fastrand.RNG
	RndTreeParams // parameters of the tree.
}

// NewRndTree returns a new random tree generator.
func NewRndTree(baseDir string, p *RndTreeParams) (*RndTree, error) {
	if p.MinName < 1 || p.MinName > p.MaxName {
		return nil, ErrNameOutOfRange
	}

	if p.MinDirs < 0 || p.MinDirs > p.MaxDirs {
		return nil, ErrDirsOutOfRange
	}

	if p.MinFiles < 0 || p.MinFiles > p.MaxFiles {
		return nil, ErrFilesOutOfRange
	}

	if p.MinFileSize < 0 || p.MinFileSize > p.MaxFileSize {
		return nil, ErrFileSizeOutOfRange
	}

	rt := &RndTree{
		baseDir:       baseDir,
		RndTreeParams: *p,
	}

	rt.generateDirs()
	rt.generateFiles()

	return rt, nil
}

// generateDirs generates random directories.
func (rt *RndTree) generateDirs() {
	nbDirs := rt.randRange(rt.MinDirs, rt.MaxDirs)
	rt.Dirs = make([]string, nbDirs)

	for i := 0; i < nbDirs; i++ {
		parent := rt.randDir(i)
		rt.Dirs[i] = filepath.Join(parent, rt.randName())
	}
}

// generateFiles generates random files from existing directories.
func (rt *RndTree) generateFiles() {
	nbFiles := rt.randRange(rt.MinFiles, rt.MaxFiles)
	rt.Files = make([]string, nbFiles)

	for i := 0; i < nbFiles; i++ {
		parent := rt.randDir(len(rt.Dirs))
		rt.Files[i] = filepath.Join(parent, rt.randName())
	}
}

// CreateTree creates the random tree on the host file system.
func (rt *RndTree) CreateTree() error {
	err := rt.CreateDirs()
	if err != nil {
		return err
	}

	return rt.CreateFiles()
}

// CreateDirs creates the random directories.
func (rt *RndTree) CreateDirs() error {
	err := os.MkdirAll(rt.baseDir, 0o777)
	if err != nil {
		return err
	}

	for _, dirName := range rt.Dirs {
		err = os.Mkdir(dirName, 0o777)
		if err != nil {
			return err
		}
	}

	return nil
}

// CreateFiles creates the random files.
func (rt *RndTree) CreateFiles() error {
	buf := make([]byte, rt.MaxFileSize)
	for i := range buf {
		buf[i] = byte(rt.rng.Uint32n(256))
	}

	for _, fileName := range rt.Files {
		size := rt.randRange(rt.MinFileSize, rt.MaxFileSize)

		err := os.WriteFile(fileName, buf[:size], 0o666)
		if err != nil {
			return err
		}
	}

	return nil
}

// randDir returns a random directory.
func (rt *RndTree) randDir(max int) string {
	if rt.OneLevel || max <= 0 {
		return rt.baseDir
	}

	return rt.Dirs[rt.rng.Uint32n(uint32(max))]
}

// randName generates a random name using different sets of runes (ASCII,
// Cyrillic, Devanagari).
func (rt *RndTree) randName() string {
	nbRunes := rt.randRange(rt.MinName, rt.MaxName)

	var name strings.Builder

	for i, s, e := 0, 0, 0; i < nbRunes; i++ {
		switch rt.rng.Uint32n(4) {
		case 0: // ASCII Uppercase
			s = 65
			e = 90
		case 1: // ASCII Lowercase
			s = 97
			e = 122
		case 2: // Cyrillic
			s = 0x400
			e = 0x4ff
		case 3: // Devanagari
			s = 0x900
			e = 0x97f
		}

		r := rune(s + int(rt.rng.Uint32n(uint32(e-s))))

		name.WriteRune(r)
	}

	return name.String()
}

// randRange returns a random integer between min and max.
func (rt *RndTree) randRange(min, max int) int {
	val := min
	if min < max {
		val += int(rt.rng.Uint32n(uint32(max - min)))
	}

	return val
}
