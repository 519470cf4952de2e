package storagetree

import (
	"fmt"
	"strings"
)

// BuildHierarchy turns a flat dataset listing of one pool into the ordered
// top-level mapping consumed by Project.
//
// Dataset names are full slash-separated paths ("tank/data/sub"). The pool's
// root dataset, named after the volume, is the implicit root and is not
// emitted. Every other dataset must have its parent in the listing, or be
// a direct child of the pool. Listing order is kept at every level, and
// children may be listed before their parent.
//
// The input is not modified; the returned datasets are copies.
func BuildHierarchy(volName string, flat []Dataset) (*Datasets, error) {
	if volName == "" {
		return nil, fmt.Errorf("%w: empty volume name", ErrMalformedTree)
	}

	index := make(map[string]*Dataset, len(flat))
	order := make([]*Dataset, 0, len(flat))
	for i := range flat {
		name := strings.Trim(flat[i].Name, "/")
		if name == volName {
			continue
		}
		if !strings.HasPrefix(name, volName+"/") {
			return nil, fmt.Errorf("%w: dataset %q does not belong to pool %q", ErrMalformedTree, flat[i].Name, volName)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: dataset %q listed twice", ErrMalformedTree, name)
		}

		ds := flat[i]
		ds.Name = name
		ds.Children = nil
		if ds.Path == "" {
			ds.Path = name
		}
		index[name] = &ds
		order = append(order, &ds)
	}

	top := NewDatasets()
	for _, ds := range order {
		parent := parentPath(ds.Name)
		if parent == volName {
			top.Set(ds.Name, ds)
			continue
		}
		p, ok := index[parent]
		if !ok {
			return nil, fmt.Errorf("%w: dataset %q has no parent %q", ErrMalformedTree, ds.Name, parent)
		}
		p.Children = append(p.Children, ds)
	}

	return top, nil
}

// Flatten is the inverse of BuildHierarchy: it lists every dataset of the
// mapping in pre-order, without children.
func Flatten(datasets *Datasets) []Dataset {
	if datasets == nil {
		return nil
	}
	var out []Dataset
	var walk func(ds *Dataset)
	walk = func(ds *Dataset) {
		if ds == nil {
			return
		}
		flat := *ds
		flat.Children = nil
		out = append(out, flat)
		for _, c := range ds.Children {
			walk(c)
		}
	}
	for pair := datasets.Oldest(); pair != nil; pair = pair.Next() {
		walk(pair.Value)
	}
	return out
}

func parentPath(name string) string {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return ""
	}
	return name[:i]
}
