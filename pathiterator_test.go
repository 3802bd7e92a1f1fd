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
	"testing"

	"github.com/emufs/emufs"
)

// TestPathIterator tests PathIterator methods.
func TestPathIterator(t *testing.T) {
	cases := []struct {
		path  string
		parts []string
	}{
		{path: "", parts: nil},
		{path: "/", parts: nil},
		{path: "/a", parts: []string{"a"}},
		{path: "a", parts: []string{"a"}},
		{path: "/a/", parts: []string{"a"}},
		{path: "/b/c/d", parts: []string{"b", "c", "d"}},
		{path: "b/c/d", parts: []string{"b", "c", "d"}},
		{path: "//b///c/d//", parts: []string{"b", "c", "d"}},
		{path: "/नमस्ते/दुनिया", parts: []string{"नमस्ते", "दुनिया"}},
	}

	for _, c := range cases {
		pi := emufs.NewPathIterator(c.path)
		i := 0

		for ; pi.Next(); i++ {
			if i >= len(c.parts) {
				continue
			}

			if pi.Part() != c.parts[i] {
				t.Errorf("%s : want part %d to be %s, got %s", c.path, i, c.parts[i], pi.Part())
			}

			wantLeft := pi.Path()[:pi.Start()]
			if pi.Left() != wantLeft {
				t.Errorf("%s : want left %d to be %s, got %s", c.path, i, wantLeft, pi.Left())
			}

			wantRight := pi.Path()[pi.End():]
			if pi.Right() != wantRight {
				t.Errorf("%s : want right %d to be %s, got %s", c.path, i, wantRight, pi.Right())
			}

			wantIsLast := i == len(c.parts)-1
			if pi.IsLast() != wantIsLast {
				t.Errorf("%s : want IsLast %d to be %t, got %t", c.path, i, wantIsLast, pi.IsLast())
			}
		}

		if i != len(c.parts) {
			t.Errorf("%s : want %d parts, got %d", c.path, len(c.parts), i)
		}

		if pi.Path() != c.path {
			t.Errorf("%s : want path to be %s, got %s", c.path, c.path, pi.Path())
		}

		pi.Reset()

		if len(c.parts) > 0 {
			if !pi.Next() || pi.Part() != c.parts[0] {
				t.Errorf("%s : want part after Reset to be %s, got %s", c.path, c.parts[0], pi.Part())
			}
		}
	}
}
