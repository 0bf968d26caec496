package activity

import (
	"strings"

	"github.com/tidwall/gjson"
)

// valueKind tags the decoded shape of a PATCH operation value
type valueKind int

const (
	valueAbsent valueKind = iota
	valueString
	valueBool
	valueNumber
	valueObject
	valueArray
)

// patchValue is a SCIM PATCH value decoded once per operation. Provider
// payloads vary wildly (array of objects, single object, bare scalar), so
// the diff logic matches on the kind instead of probing dynamically.
type patchValue struct {
	kind valueKind
	raw  gjson.Result
}

// patchOp is one {op, path, value} entry of a SCIM PATCH body
type patchOp struct {
	Op    string
	Path  string
	Value patchValue
}

// decodePatchOps extracts the Operations array from a parsed PATCH body.
// Anything that is not an array yields no operations.
func decodePatchOps(body gjson.Result) []patchOp {
	ops := body.Get("Operations")
	if !ops.Exists() {
		ops = body.Get("operations")
	}
	if !ops.IsArray() {
		return nil
	}

	var result []patchOp
	ops.ForEach(func(_, op gjson.Result) bool {
		result = append(result, patchOp{
			Op:    op.Get("op").String(),
			Path:  op.Get("path").String(),
			Value: decodeValue(op.Get("value")),
		})
		return true
	})
	return result
}

func decodeValue(v gjson.Result) patchValue {
	if !v.Exists() || v.Type == gjson.Null {
		return patchValue{kind: valueAbsent}
	}
	switch {
	case v.IsArray():
		return patchValue{kind: valueArray, raw: v}
	case v.IsObject():
		return patchValue{kind: valueObject, raw: v}
	case v.Type == gjson.String:
		return patchValue{kind: valueString, raw: v}
	case v.Type == gjson.True || v.Type == gjson.False:
		return patchValue{kind: valueBool, raw: v}
	case v.Type == gjson.Number:
		return patchValue{kind: valueNumber, raw: v}
	}
	return patchValue{kind: valueAbsent}
}

// boolEquivalent interprets literal booleans and the strings "true"/"false"
// (any case) as booleans.
func (v patchValue) boolEquivalent() (value, ok bool) {
	switch v.kind {
	case valueBool:
		return v.raw.Bool(), true
	case valueString:
		switch strings.ToLower(v.raw.String()) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// firstEmail extracts the first email address, tolerating an array of
// objects, a single object, or a raw string.
func (v patchValue) firstEmail() (string, bool) {
	switch v.kind {
	case valueArray:
		arr := v.raw.Array()
		if len(arr) == 0 {
			return "", false
		}
		first := arr[0]
		if first.IsObject() {
			if addr := first.Get("value"); addr.Exists() {
				return addr.String(), true
			}
			return "", false
		}
		return first.String(), true
	case valueObject:
		if addr := v.raw.Get("value"); addr.Exists() {
			return addr.String(), true
		}
		return "", false
	case valueString:
		return v.raw.String(), true
	}
	return "", false
}

// scalarRef extracts a single referenced id, tolerating a {value} object or
// a bare string. Used for manager references.
func (v patchValue) scalarRef() (string, bool) {
	switch v.kind {
	case valueObject:
		if ref := v.raw.Get("value"); ref.Exists() {
			return ref.String(), true
		}
		return "", false
	case valueString:
		return v.raw.String(), true
	}
	return "", false
}

// memberIDs extracts member ids, tolerating an array of {value} objects or
// bare strings, a single {value} object, or a bare string.
func (v patchValue) memberIDs() []string {
	switch v.kind {
	case valueArray:
		var ids []string
		v.raw.ForEach(func(_, item gjson.Result) bool {
			if item.IsObject() {
				if ref := item.Get("value"); ref.Exists() {
					ids = append(ids, ref.String())
				}
			} else if item.Type == gjson.String {
				ids = append(ids, item.String())
			}
			return true
		})
		return ids
	case valueObject:
		if ref := v.raw.Get("value"); ref.Exists() {
			return []string{ref.String()}
		}
	case valueString:
		return []string{v.raw.String()}
	}
	return nil
}

// display renders the value for the generic field diff
func (v patchValue) display() (string, bool) {
	switch v.kind {
	case valueAbsent:
		return "", false
	case valueString:
		return v.raw.String(), true
	default:
		return v.raw.Raw, true
	}
}
