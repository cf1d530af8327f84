package tdbinstance

import "github.com/google/uuid"

// FlattenMode selects what an extracted, already-persisted nested
// instance is replaced with: a bare external IRI reference, or a
// transaction (capture-variable) reference when the extracted instance
// is itself part of the same batch submission (spec §4.2 "Flatten
// operation").
type FlattenMode int

const (
	// FlattenExternal replaces extracted nodes with ExternalReference(id).
	FlattenExternal FlattenMode = iota
	// FlattenTransactional replaces extracted nodes with TransactionRef,
	// used when the submit is transactional (spec §4.2).
	FlattenTransactional
)

// Flatten walks inst's Relation/Relations properties and, for every owned
// nested instance that already carries an ID (i.e. it was previously
// persisted and is being referenced inline rather than newly created),
// replaces it in place with a reference and appends the extracted
// Instance to the returned slice. Nested instances without an ID are left
// embedded — they are new and belong in the same document as inst.
//
// This is the pre-bulk-insert step named in spec §4.2: "used before bulk
// insert to avoid server-side duplicate handling of already-persisted
// nested entities."
func Flatten(inst *Instance, mode FlattenMode) []Instance {
	var extracted []Instance
	inst.Properties.Range(func(name string, value InstanceProperty) bool {
		switch v := value.(type) {
		case Relation:
			if rv, ok, ext := flattenRelationValue(v.Value, mode); ok {
				inst.Properties.Set(name, Relation{Value: rv})
				extracted = append(extracted, ext...)
			}
		case Relations:
			changed := false
			newVals := make([]RelationValue, len(v.Values))
			for i, rv := range v.Values {
				replaced, ok, ext := flattenRelationValue(rv, mode)
				if ok {
					newVals[i] = replaced
					extracted = append(extracted, ext...)
					changed = true
				} else {
					newVals[i] = rv
				}
			}
			if changed {
				inst.Properties.Set(name, Relations{Values: newVals})
			}
		}
		return true
	})
	return extracted
}

// flattenRelationValue returns the replacement value and true if rv was an
// owned nested instance (or list thereof) carrying an id, plus the
// recursively-flattened instances to extract.
func flattenRelationValue(rv RelationValue, mode FlattenMode) (replacement RelationValue, replaced bool, extracted []Instance) {
	switch v := rv.(type) {
	case One:
		if v.Instance.ID == nil {
			// Not yet persisted: recurse into its own relations so
			// deeply-nested already-persisted references are still
			// extracted, but leave this node embedded.
			extracted = append(extracted, Flatten(&v.Instance, mode)...)
			return One{Instance: v.Instance}, false, extracted
		}
		extracted = Flatten(&v.Instance, mode)
		extracted = append(extracted, v.Instance)
		return referenceFor(*v.Instance.ID, mode), true, extracted
	case More:
		anyReplaced := false
		newInstances := make([]Instance, 0, len(v.Instances))
		var refs []string
		for _, nested := range v.Instances {
			if nested.ID == nil {
				extracted = append(extracted, Flatten(&nested, mode)...)
				newInstances = append(newInstances, nested)
				continue
			}
			extracted = append(extracted, Flatten(&nested, mode)...)
			extracted = append(extracted, nested)
			refs = append(refs, *nested.ID)
			anyReplaced = true
		}
		if !anyReplaced {
			return More{Instances: newInstances}, false, extracted
		}
		// Mixed: some entries extracted to refs, others stay embedded.
		// RelationValue is a single variant per slot, so once any entry
		// is extracted the slot becomes a Relations list at the caller;
		// here we report the extracted refs and let the remaining
		// embedded instances travel as a sibling More.
		if len(newInstances) == 0 {
			return referencesFor(refs, mode), true, extracted
		}
		return More{Instances: newInstances}, true, extracted
	default:
		return rv, false, nil
	}
}

func referenceFor(id string, mode FlattenMode) RelationValue {
	if mode == FlattenTransactional {
		return TransactionRef{CaptureVar: id}
	}
	return ExternalReference{IRI: id}
}

func referencesFor(ids []string, mode FlattenMode) RelationValue {
	if mode == FlattenTransactional {
		return TransactionRefs{CaptureVars: ids}
	}
	return ExternalReferences{IRIs: ids}
}

// ApplyCapturePrefixes assigns a fresh random key prefix to inst and every
// nested instance flagged Capture=true, recursively. This resolves the
// open question in spec §9 ("the source mixes two code paths for
// inserting a single instance vs. a model batch; they differ in whether
// the capture-prefix randomization is applied") by always applying it in
// a transactional submit, regardless of whether the call is a single- or
// batch-instance insert.
func ApplyCapturePrefixes(inst *Instance) {
	if inst.Capture {
		inst.keyPrefix = uuid.NewString()
	}
	for _, name := range inst.Properties.Names() {
		value, _ := inst.Properties.Get(name)
		switch v := value.(type) {
		case Relation:
			inst.Properties.Set(name, Relation{Value: applyPrefixToRelation(v.Value)})
		case Relations:
			newVals := make([]RelationValue, len(v.Values))
			for i, rv := range v.Values {
				newVals[i] = applyPrefixToRelation(rv)
			}
			inst.Properties.Set(name, Relations{Values: newVals})
		}
	}
}

// applyPrefixToRelation recurses into owned nested instances, returning a
// RelationValue whose embedded Instance(s) carry the mutated key prefix
// (Instance is a value type, so the mutated copy must be threaded back out
// rather than discarded).
func applyPrefixToRelation(rv RelationValue) RelationValue {
	switch v := rv.(type) {
	case One:
		ApplyCapturePrefixes(&v.Instance)
		return One{Instance: v.Instance}
	case More:
		instances := make([]Instance, len(v.Instances))
		for i, nested := range v.Instances {
			ApplyCapturePrefixes(&nested)
			instances[i] = nested
		}
		return More{Instances: instances}
	default:
		return rv
	}
}

// KeyPrefix returns the random prefix assigned by ApplyCapturePrefixes, or
// the empty string if none was assigned (the instance is not a capture
// node, or prefixes were never applied).
func (i Instance) KeyPrefix() string { return i.keyPrefix }
