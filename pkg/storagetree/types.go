package storagetree

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultStride is the width of the identifier block reserved per volume.
const DefaultStride = 100

// NodeType is the kind of a presentation node.
type NodeType string

const (
	NodeTypeDataset NodeType = "dataset"
	NodeTypeZVol    NodeType = "zvol"
)

// Volume is the storage pool being projected.
type Volume struct {
	ID         uint
	Name       string
	Status     string
	Decrypted  bool
	MountPoint *MountPoint
}

// MountPoint is where a volume is mounted, with its aggregate usage.
type MountPoint struct {
	ID     uint
	Path   string
	Status string
	Usage  Usage
}

// Dataset is a node of a volume's filesystem hierarchy. Children are owned
// by their parent and kept in listing order.
type Dataset struct {
	Name       string
	Path       string
	Mountpoint string
	Usage      Usage
	Children   []*Dataset
}

// ZVol is a fixed-size block volume carved out of a pool.
type ZVol struct {
	Name string
	Size uint64
}

// Datasets maps a top-level dataset name to the dataset, in insertion order.
type Datasets = orderedmap.OrderedMap[string, *Dataset]

// ZVols maps a zvol name to the zvol, in insertion order.
type ZVols = orderedmap.OrderedMap[string, *ZVol]

// NewDatasets returns an empty insertion-ordered dataset mapping.
func NewDatasets() *Datasets {
	return orderedmap.New[string, *Dataset]()
}

// NewZVols returns an empty insertion-ordered zvol mapping.
func NewZVols() *ZVols {
	return orderedmap.New[string, *ZVol]()
}

// Links holds the UI action URLs attached to a node. Only the links that
// apply to the node's type are set.
type Links struct {
	DatasetDeleteURL  string `json:"_dataset_delete_url,omitempty" yaml:"_dataset_delete_url,omitempty"`
	DatasetEditURL    string `json:"_dataset_edit_url,omitempty" yaml:"_dataset_edit_url,omitempty"`
	DatasetCreateURL  string `json:"_dataset_create_url,omitempty" yaml:"_dataset_create_url,omitempty"`
	PermissionsURL    string `json:"_permissions_url,omitempty" yaml:"_permissions_url,omitempty"`
	ZVolDeleteURL     string `json:"_zvol_delete_url,omitempty" yaml:"_zvol_delete_url,omitempty"`
	ManualSnapshotURL string `json:"_manual_snapshot_url,omitempty" yaml:"_manual_snapshot_url,omitempty"`
}

// LinkBuilder produces the action links for projected nodes.
type LinkBuilder interface {
	DatasetLinks(ds *Dataset) Links
	ZVolLinks(name string) Links
}

// Node is one entry of the presentation tree.
//
// Children is set only for datasets that have at least one child dataset;
// a childless dataset has no children field at all once serialized. Total
// is set only for zvols, where it is present even for a zero size.
type Node struct {
	ID         int      `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Type       NodeType `json:"type" yaml:"type"`
	Status     string   `json:"status" yaml:"status"`
	Mountpoint string   `json:"mountpoint,omitempty" yaml:"mountpoint,omitempty"`
	Path       string   `json:"path,omitempty" yaml:"path,omitempty"`
	Total      *uint64  `json:"total,omitempty" yaml:"total,omitempty"`
	TotalSI    string   `json:"total_si,omitempty" yaml:"total_si,omitempty"`
	AvailSI    string   `json:"avail_si,omitempty" yaml:"avail_si,omitempty"`
	UsedSI     string   `json:"used_si,omitempty" yaml:"used_si,omitempty"`
	UsedPct    string   `json:"used_pct,omitempty" yaml:"used_pct,omitempty"`
	Used       string   `json:"used,omitempty" yaml:"used,omitempty"`
	Links      `yaml:",inline"`
	Children   []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of nodes in the forest, descendants included.
func Count(nodes []*Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + Count(node.Children)
	}
	return n
}

// Walk visits every node in pre-order. Returning false from fn stops the walk.
func Walk(nodes []*Node, fn func(n *Node) bool) bool {
	for _, node := range nodes {
		if !fn(node) {
			return false
		}
		if !Walk(node.Children, fn) {
			return false
		}
	}
	return true
}
