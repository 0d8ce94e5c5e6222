package dirconf

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/samber/oops"

	"github.com/land-surface/dirconf/codec"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

// MergePatch returns the JSON merge patch (RFC 7386) that turns before's
// tree into after's.
func MergePatch(before, after *Config) ([]byte, error) {
	a, err := json.Marshal(before.root)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding original tree")
	}
	b, err := json.Marshal(after.root)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding modified tree")
	}
	return jsonpatch.CreateMergePatch(a, b)
}

// ApplyMergePatch merges a JSON merge patch into the tree in place. A null
// deletes the key. Integral numbers replacing reals stay reals. Values of
// leaves whose codec implements codec.JSONDecoder are decoded by it, so
// byte payloads and tables keep their type.
func (c *Config) ApplyMergePatch(data []byte) error {
	patch := tree.NewMap()
	if err := json.Unmarshal(data, patch); err != nil {
		return oops.Wrapf(err, "decoding merge patch")
	}
	if err := decodeLeaves(c.schema, c.root, patch, tree.Address{}); err != nil {
		return err
	}
	keepReals(c.root, patch)
	work := c.root.Clone()
	tree.MergePatch(work, patch)
	if err := checkShape(c.schema, work, tree.Address{}); err != nil {
		return err
	}
	c.root = work
	return nil
}

// decodeLeaves replaces patch values bound for codec-typed leaves of n with
// the values their codec decodes. A partial object for a leaf is first
// merged into the JSON form of the current value. Undeclared keys are left
// for checkShape.
func decodeLeaves(n *schema.Node, dst, patch *tree.Map, at tree.Address) error {
	for k, pv := range patch.All() {
		cn := n.ChildNode(k)
		if cn == nil || pv == nil {
			continue
		}
		var dv any
		if dst != nil {
			dv, _ = dst.Get(k)
		}
		if cn.Kind == schema.GroupKind {
			if pm, ok := pv.(*tree.Map); ok {
				dm, _ := dv.(*tree.Map)
				if err := decodeLeaves(cn, dm, pm, at.Append(k)); err != nil {
					return err
				}
			}
			continue
		}
		dec, ok := cn.Codec.(codec.JSONDecoder)
		if !ok {
			continue
		}
		v, err := decodeLeaf(dec, dv, pv)
		if err != nil {
			return oops.With("position", at.Append(k).String()).
				Errorf("%w: %s: %w", ErrSchemaMismatch, at.Append(k), err)
		}
		patch.Set(k, v)
	}
	return nil
}

func decodeLeaf(dec codec.JSONDecoder, dv, pv any) (any, error) {
	data, err := json.Marshal(pv)
	if err != nil {
		return nil, err
	}
	if _, partial := pv.(*tree.Map); partial && dv != nil {
		base, err := json.Marshal(dv)
		if err != nil {
			return nil, err
		}
		if data, err = jsonpatch.MergePatch(base, data); err != nil {
			return nil, err
		}
	}
	return dec.DecodeJSON(data)
}

// keepReals converts integers in patch to float64 where they replace a
// float64 in dst, since JSON does not tell 2 from 2.0.
func keepReals(dst, patch *tree.Map) {
	for k, pv := range patch.All() {
		dv, ok := dst.Get(k)
		if !ok {
			continue
		}
		switch p := pv.(type) {
		case *tree.Map:
			if dm, ok := dv.(*tree.Map); ok {
				keepReals(dm, p)
			}
		case []any:
			if dl, ok := dv.([]any); ok {
				for i := range p {
					if i < len(dl) {
						p[i] = realIfReal(dl[i], p[i])
					}
				}
			}
		default:
			patch.Set(k, realIfReal(dv, pv))
		}
	}
}

func realIfReal(old, v any) any {
	if _, ok := old.(float64); !ok {
		return v
	}
	if i, ok := v.(int64); ok {
		return float64(i)
	}
	return v
}
