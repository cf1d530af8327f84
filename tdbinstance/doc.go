// Package tdbinstance implements the instance model: concrete values
// conforming to a tdbschema.Schema, their JSON-LD encoding and decoding,
// the flatten operation used before bulk/transactional submission, and
// schema-driven validation.
//
// A typical round trip:
//
//	inst := tdbinstance.NewInstance(personClass)
//	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
//
//	counter := &tdbinstance.CaptureCounter{}
//	raw, err := tdbinstance.EncodeInstance(inst, counter)
//
//	decoded, err := tdbinstance.DecodeInstance(personClass, raw, tdbinstance.DecodeOptions{
//		Resolve: resolver,
//	})
//
//	if errs := tdbinstance.ValidateInstance(decoded); !errs.OK() {
//		// inspect errs
//	}
package tdbinstance
