package tdbinstance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// CaptureCounter hands out successive per-submission capture variables
// ("v0", "v1", ...) for Instances flagged Capture=true (spec §3
// "capture=true triggers server-side capture-variable emission"). One
// counter is shared across every document encoded within a single batch
// submission.
type CaptureCounter struct{ n int64 }

// Next returns the next capture variable, e.g. "v0" on the first call.
func (c *CaptureCounter) Next() string {
	n := atomic.AddInt64(&c.n, 1) - 1
	return fmt.Sprintf("v%d", n)
}

// orderedObject accumulates key/value pairs and marshals them in
// insertion order — encoding/json's map marshaling would reorder keys
// alphabetically, which would violate invariant 5 (property order
// preserved for serialization determinism).
type orderedObject struct {
	keys []string
	vals []json.RawMessage
}

func (o *orderedObject) set(key string, val json.RawMessage) {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v := o.vals[i]
		if len(v) == 0 {
			v = json.RawMessage("null")
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeInstance renders i as a JSON-LD document per spec §4.2. counter
// supplies capture variables for any Capture=true node encountered
// (including nested instances reached through embedded relations).
func EncodeInstance(i Instance, counter *CaptureCounter) (json.RawMessage, error) {
	if err := i.CheckCaptureInvariant(); err != nil {
		return nil, err
	}
	obj := &orderedObject{}
	obj.set("@type", mustMarshal(i.ClassName()))
	switch {
	case i.Capture:
		obj.set("@capture", mustMarshal(counter.Next()))
	case i.ID != nil:
		obj.set("@id", mustMarshal(*i.ID))
	}

	var encErr error
	i.Properties.Range(func(name string, value InstanceProperty) bool {
		raw, omit, err := encodeProperty(value, counter)
		if err != nil {
			encErr = fmt.Errorf("tdbinstance: encode %s.%s: %w", i.ClassName(), name, err)
			return false
		}
		if omit {
			return true
		}
		obj.set(name, raw)
		return true
	})
	if encErr != nil {
		return nil, encErr
	}
	return json.Marshal(obj)
}

// encodeProperty renders a single property's value. omit is true when the
// property key should be dropped entirely (Null Optional, spec §4.2:
// "Null Optional serializes as absent (omitted key), not null").
func encodeProperty(value InstanceProperty, counter *CaptureCounter) (raw json.RawMessage, omit bool, err error) {
	switch v := value.(type) {
	case Primitive:
		if _, isNull := v.Value.(NullValue); isNull {
			return nil, true, nil
		}
		raw, err = v.Value.MarshalJSONLD()
		return raw, false, err
	case Primitives:
		parts := make([]json.RawMessage, len(v.Values))
		for idx, pv := range v.Values {
			r, err := pv.MarshalJSONLD()
			if err != nil {
				return nil, false, err
			}
			parts[idx] = r
		}
		raw, err = json.Marshal(parts)
		return raw, false, err
	case Relation:
		raw, err = encodeRelationValue(v.Value, counter)
		return raw, false, err
	case Relations:
		parts := make([]json.RawMessage, len(v.Values))
		for idx, rv := range v.Values {
			r, err := encodeRelationValue(rv, counter)
			if err != nil {
				return nil, false, err
			}
			parts[idx] = r
		}
		raw, err = json.Marshal(parts)
		return raw, false, err
	case Any:
		parts := make([]json.RawMessage, 0, len(v.Values))
		for _, inner := range v.Values {
			r, innerOmit, err := encodeProperty(inner, counter)
			if err != nil {
				return nil, false, err
			}
			if innerOmit {
				continue
			}
			parts = append(parts, r)
		}
		raw, err = json.Marshal(parts)
		return raw, false, err
	default:
		return nil, false, fmt.Errorf("tdbinstance: unknown InstanceProperty variant %T", value)
	}
}

func encodeRelationValue(rv RelationValue, counter *CaptureCounter) (json.RawMessage, error) {
	switch v := rv.(type) {
	case One:
		return EncodeInstance(v.Instance, counter)
	case More:
		parts := make([]json.RawMessage, len(v.Instances))
		for i, inst := range v.Instances {
			r, err := EncodeInstance(inst, counter)
			if err != nil {
				return nil, err
			}
			parts[i] = r
		}
		return json.Marshal(parts)
	case ExternalReference:
		return marshalRef(v.IRI)
	case ExternalReferences:
		parts := make([]json.RawMessage, len(v.IRIs))
		for i, iri := range v.IRIs {
			r, err := marshalRef(iri)
			if err != nil {
				return nil, err
			}
			parts[i] = r
		}
		return json.Marshal(parts)
	case TransactionRef:
		return marshalRef(v.CaptureVar)
	case TransactionRefs:
		parts := make([]json.RawMessage, len(v.CaptureVars))
		for i, cv := range v.CaptureVars {
			r, err := marshalRef(cv)
			if err != nil {
				return nil, err
			}
			parts[i] = r
		}
		return json.Marshal(parts)
	default:
		return nil, fmt.Errorf("tdbinstance: unknown RelationValue variant %T", rv)
	}
}

func marshalRef(target string) (json.RawMessage, error) {
	obj := &orderedObject{}
	obj.set("@ref", mustMarshal(target))
	return json.Marshal(obj)
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		// Marshaling a string/primitive cannot fail; keep the signature
		// simple for callers above rather than threading an error through
		// every @type/@id/@ref emission.
		panic(err)
	}
	return raw
}
