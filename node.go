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

// Node is a virtual directory entry (file or directory) within a mounted
// tree. The framework owns the Node itself; the file system implementation
// owns only the private payload attached to it.
//
// Nodes are reference counted. A node holds a reference on its parent and on
// its device for its whole lifetime, so a live child keeps the path to the
// mount root alive. Dropping the last reference closes the payload, then
// releases the parent and the device. Reference counts are not synchronized :
// the caller serializes operations on a node, per the framework concurrency
// contract.
type Node struct {
	parent *Node    // parent is the directory entry this node was discovered under, nil for a mount root.
	device *Device  // device is the device the node belongs to.
	data   NodeData // data is the file system private payload.
	name   string   // name is the entry name within its parent.
	dev    uint64   // dev is the virtual device id of the mount.
	ino    uint64   // ino is the synthetic inode number of the entry.
	mode   uint32   // mode is the POSIX type and permission bits at discovery time.
	refs   int32    // refs is the reference count.
}

// NewNode returns a new node named name under parent, holding one reference
// owned by the caller. The node acquires its parent and the parent's device,
// and inherits the parent's virtual device id.
func NewNode(parent *Node, name string, mode uint32, ino uint64, data NodeData) *Node {
	if parent == nil {
		panic("emufs: NewNode called without a parent node")
	}

	return &Node{
		parent: parent.Acquire(),
		device: parent.device.Acquire(),
		data:   data,
		name:   name,
		dev:    parent.dev,
		ino:    ino,
		mode:   mode,
		refs:   1,
	}
}

// Name returns the entry name of the node within its parent.
func (n *Node) Name() string {
	return n.name
}

// Dev returns the virtual device id of the node.
func (n *Node) Dev() uint64 {
	return n.dev
}

// Ino returns the synthetic inode number of the node.
func (n *Node) Ino() uint64 {
	return n.ino
}

// Mode returns the POSIX type and permission bits copied from the host at
// discovery time.
func (n *Node) Mode() uint32 {
	return n.mode
}

// IsDir returns true if the node is a directory.
func (n *Node) IsDir() bool {
	return n.mode&unix.S_IFMT == unix.S_IFDIR
}

// IsRegular returns true if the node is a regular file.
func (n *Node) IsRegular() bool {
	return n.mode&unix.S_IFMT == unix.S_IFREG
}

// Parent returns the parent node, nil for a mount root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Device returns the device the node belongs to.
func (n *Node) Device() *Device {
	return n.device
}

// Data returns the file system private payload of the node.
func (n *Node) Data() NodeData {
	return n.data
}

// Refs returns the current reference count of the node.
func (n *Node) Refs() int {
	return int(n.refs)
}

// Acquire adds a reference to the node and returns it.
func (n *Node) Acquire() *Node {
	if n.refs <= 0 {
		panic("emufs: Acquire on a released node")
	}

	n.refs++

	return n
}

// Release drops a reference to the node. When the last reference is dropped
// the payload is closed, then the parent and the device are released.
// Release of a nil node is a no-op.
func (n *Node) Release() error {
	if n == nil {
		return nil
	}

	if n.refs <= 0 {
		panic("emufs: Release without a matching Acquire")
	}

	n.refs--
	if n.refs > 0 {
		return nil
	}

	var err error
	if n.data != nil {
		err = n.data.Close()
		n.data = nil
	}

	if errRel := n.parent.Release(); errRel != nil && err == nil {
		err = errRel
	}

	if errRel := n.device.Release(); errRel != nil && err == nil {
		err = errRel
	}

	return err
}
