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

// PathIterator iterates through the components of a slash separated virtual
// path. It returns each part of the path in successive calls to Next.
//
// Sample code :
//
//	pi := emufs.NewPathIterator(path)
//	for pi.Next() {
//	  fmt.Println(pi.Part())
//	}
//
// The path below shows the different results of the PathIterator methods
// when thirdPart is the current Part :
//
//	/firstPart/secondPart/thirdPart/fourthPart/fifthPart
//	                     |- Part --|
//	                   Start      End
//	|------- Left -------|         |------ Right ------|
type PathIterator struct {
	path  string
	start int
	end   int
}

// NewPathIterator creates a new path iterator from a virtual path.
func NewPathIterator(path string) *PathIterator {
	pi := PathIterator{path: path}
	pi.Reset()

	return &pi
}

// End returns the end position of the current Part.
func (pi *PathIterator) End() int {
	return pi.end
}

// IsLast returns true if the current Part is the last one. Trailing
// separators do not count as a part.
func (pi *PathIterator) IsLast() bool {
	for i := pi.end; i < len(pi.path); i++ {
		if pi.path[i] != '/' {
			return false
		}
	}

	return true
}

// Left returns the path before the current Part.
func (pi *PathIterator) Left() string {
	return pi.path[:pi.start]
}

// Next iterates through the next Part of the path.
// It returns false when there are no more parts.
func (pi *PathIterator) Next() bool {
	pi.start = pi.end
	for pi.start < len(pi.path) && pi.path[pi.start] == '/' {
		pi.start++
	}

	if pi.start == len(pi.path) {
		pi.end = pi.start

		return false
	}

	pi.end = pi.start
	for pi.end < len(pi.path) && pi.path[pi.end] != '/' {
		pi.end++
	}

	return true
}

// Part returns the current Part.
func (pi *PathIterator) Part() string {
	return pi.path[pi.start:pi.end]
}

// Path returns the path of the iterator.
func (pi *PathIterator) Path() string {
	return pi.path
}

// Reset resets the iterator.
func (pi *PathIterator) Reset() {
	pi.start = 0
	pi.end = 0
}

// Right returns the path after the current Part.
func (pi *PathIterator) Right() string {
	return pi.path[pi.end:]
}

// Start returns the start position of the current Part.
func (pi *PathIterator) Start() int {
	return pi.start
}
