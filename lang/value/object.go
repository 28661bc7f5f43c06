package value

import "strings"

// Object is a runtime string-keyed map, the target of CallObjSet and
// CallObjMerge (§4.1). Insertion order is not significant (§3), so a plain Go
// map is enough; object literals themselves tend to be small (a handful of
// fields), which is also why they don't need the swiss-table treatment given
// to the collector's allocation registry and the Environment's variable map.
type Object struct {
	Header
	entries map[string]Value
}

var _ Heap = (*Object)(nil)

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{entries: make(map[string]Value)} }

func (*Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for k, v := range o.entries {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(k)
		b.WriteByte(' ')
		b.WriteString(v.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (o *Object) Children() []Value {
	if len(o.entries) == 0 {
		return nil
	}
	vs := make([]Value, 0, len(o.entries))
	for _, v := range o.entries {
		vs = append(vs, v)
	}
	return vs
}

// Get returns the value bound to key, and whether it was found.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.entries[key]
	return v, ok
}

// Set binds key to v, overwriting any previous binding (CallObjSet).
func (o *Object) Set(key string, v Value) { o.entries[key] = v }

// MergeFrom copies every entry of src into o, overwriting on key collision
// (CallObjMerge, the spread-merge operator).
func (o *Object) MergeFrom(src *Object) {
	for k, v := range src.entries {
		o.entries[k] = v
	}
}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.entries) }
