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

// Features defines the set of features available on a file system.
type Features uint64

const (
	// FeatHardlink indicates that the file system supports hard links.
	FeatHardlink Features = 1 << iota

	// FeatReadOnly is set for read only file systems : every mutating verb
	// fails with ErrReadOnlyFS.
	FeatReadOnly

	// FeatRealFS indicates that the file system is backed by a real host
	// file system, not emulated in memory.
	FeatRealFS

	// FeatSymlink indicates that the file system supports symbolic links.
	FeatSymlink

	// FeatDirSeek indicates that directory streams support Telldir and
	// Seekdir.
	FeatDirSeek
)

// Featurer is the interface that wraps the Features and HasFeature methods.
type Featurer interface {
	// Features returns the set of features provided by the file system.
	Features() Features

	// HasFeature returns true if the file system provides a given feature.
	HasFeature(feature Features) bool
}

// HasFeature returns true if the feature set contains a given feature.
func (f Features) HasFeature(feature Features) bool {
	return f&feature == feature
}
