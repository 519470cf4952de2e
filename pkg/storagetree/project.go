package storagetree

import (
	"fmt"
)

// Option configures a projection.
type Option func(*projector)

// WithStride sets the identifier block reserved per volume. Values below 1
// keep the default.
func WithStride(stride int) Option {
	return func(p *projector) {
		if stride > 0 {
			p.stride = stride
		}
	}
}

// WithLinks attaches action links to every node.
func WithLinks(lb LinkBuilder) Option {
	return func(p *projector) {
		p.links = lb
	}
}

// idAllocator hands out node identifiers in visit order. One allocator is
// owned by exactly one projection.
type idAllocator struct {
	next int
}

func (a *idAllocator) allocate() int {
	id := a.next
	a.next++
	return id
}

type projector struct {
	stride int
	links  LinkBuilder
	vol    *Volume
	seen   map[*Dataset]struct{}
}

// Project builds the presentation tree of a volume: every dataset subtree
// first, in mapping order and numbered in pre-order, then every zvol.
//
// Identifiers start at vol.ID*stride and increase by one per emitted node.
// Datasets take their status from the volume, zvols from its mount point.
// Malformed input yields ErrMalformedTree (or ErrNoMountPoint) and no nodes.
func Project(vol *Volume, datasets *Datasets, zvols *ZVols, opts ...Option) ([]*Node, error) {
	if vol == nil {
		return nil, fmt.Errorf("%w: nil volume", ErrMalformedTree)
	}
	if vol.MountPoint == nil {
		return nil, fmt.Errorf("volume %q: %w", vol.Name, ErrNoMountPoint)
	}

	p := &projector{stride: DefaultStride, vol: vol, seen: make(map[*Dataset]struct{})}
	for _, opt := range opts {
		opt(p)
	}

	ids := &idAllocator{next: int(vol.ID) * p.stride}

	var nodes []*Node
	if datasets != nil {
		top := make([]*Dataset, 0, datasets.Len())
		names := make([]string, 0, datasets.Len())
		for pair := datasets.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				return nil, fmt.Errorf("%w: dataset %q is nil", ErrMalformedTree, pair.Key)
			}
			names = append(names, pair.Key)
			top = append(top, pair.Value)
		}

		var err error
		nodes, err = p.datasets(names, top, ids)
		if err != nil {
			return nil, err
		}
	}

	if zvols != nil {
		for pair := zvols.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				return nil, fmt.Errorf("%w: zvol %q is nil", ErrMalformedTree, pair.Key)
			}
			nodes = append(nodes, p.zvol(pair.Key, pair.Value, ids))
		}
	}

	return nodes, nil
}

// datasets projects one level of siblings. names[i] is the display name of
// list[i].
func (p *projector) datasets(names []string, list []*Dataset, ids *idAllocator) ([]*Node, error) {
	nodes := make([]*Node, 0, len(list))
	for i, ds := range list {
		if _, again := p.seen[ds]; again {
			return nil, fmt.Errorf("%w: dataset %q appears more than once", ErrMalformedTree, names[i])
		}
		p.seen[ds] = struct{}{}

		node := &Node{
			ID:         ids.allocate(),
			Name:       names[i],
			Type:       NodeTypeDataset,
			Status:     p.vol.Status,
			Mountpoint: ds.Mountpoint,
			Path:       ds.Path,
			TotalSI:    ds.Usage.TotalSI(),
			AvailSI:    ds.Usage.AvailSI(),
			UsedSI:     ds.Usage.UsedSI(),
			UsedPct:    ds.Usage.UsedPct(),
		}
		node.Used = FormatUsed(node.UsedSI, node.UsedPct)
		if p.links != nil {
			node.Links = p.links.DatasetLinks(ds)
		}

		if len(ds.Children) > 0 {
			childNames, err := childNames(ds)
			if err != nil {
				return nil, err
			}
			children, err := p.datasets(childNames, ds.Children, ids)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}

		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *projector) zvol(name string, zv *ZVol, ids *idAllocator) *Node {
	size := zv.Size
	node := &Node{
		ID:      ids.allocate(),
		Name:    name,
		Type:    NodeTypeZVol,
		Status:  p.vol.MountPoint.Status,
		Total:   &size,
		TotalSI: humanizeSize(zv.Size),
	}
	if p.links != nil {
		node.Links = p.links.ZVolLinks(name)
	}
	return node
}

// childNames validates a dataset's children and returns their names in order.
func childNames(parent *Dataset) ([]string, error) {
	names := make([]string, 0, len(parent.Children))
	seen := make(map[string]struct{}, len(parent.Children))
	for i, child := range parent.Children {
		if child == nil {
			return nil, fmt.Errorf("%w: dataset %q has nil child at index %d", ErrMalformedTree, parent.Name, i)
		}
		if _, dup := seen[child.Name]; dup {
			return nil, fmt.Errorf("%w: dataset %q has duplicate child %q", ErrMalformedTree, parent.Name, child.Name)
		}
		seen[child.Name] = struct{}{}
		names = append(names, child.Name)
	}
	return names, nil
}
