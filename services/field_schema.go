package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dvircohen/repair-track/models"
)

// FieldKind tags how a repair field is compared and filtered. The registry
// below replaces runtime type sniffing: every field has exactly one kind,
// decided once from the schema.
type FieldKind int

const (
	KindPrimitive FieldKind = iota
	KindSet
	KindDate
	KindNested
	KindBool
	KindID
)

// FieldSpec binds a wire field name to its database column and kind.
type FieldSpec struct {
	Name   string
	Column string
	Kind   FieldKind
}

// repairSchema lists every wire field of models.Repair in declaration
// order. Diff output follows this order, so it must match the struct.
var repairSchema = []FieldSpec{
	{Name: "id", Column: "id", Kind: KindID},
	{Name: "hatakType", Column: "hatak_type", Kind: KindPrimitive},
	{Name: "serialNumber", Column: "serial_number", Kind: KindPrimitive},
	{Name: "status", Column: "status", Kind: KindPrimitive},
	{Name: "technician", Column: "technician", Kind: KindPrimitive},
	{Name: "description", Column: "description", Kind: KindPrimitive},
	{Name: "notes", Column: "notes", Kind: KindPrimitive},
	{Name: "reciveDate", Column: "recive_date", Kind: KindDate},
	{Name: "returnDate", Column: "return_date", Kind: KindDate},
	{Name: "faults", Column: "faults", Kind: KindSet},
	{Name: "accessories", Column: "accessories", Kind: KindSet},
	{Name: "createdBy", Column: "created_by", Kind: KindNested},
	{Name: "deleted", Column: "deleted", Kind: KindBool},
	{Name: "createdAt", Column: "created_at", Kind: KindDate},
	{Name: "updatedAt", Column: "updated_at", Kind: KindDate},
}

// bookkeepingFields are never diffed regardless of how they differ.
var bookkeepingFields = map[string]struct{}{
	"id":        {},
	"createdAt": {},
	"updatedAt": {},
}

var repairSchemaByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(repairSchema))
	for _, spec := range repairSchema {
		m[spec.Name] = spec
	}
	return m
}()

// FieldByName looks a wire field up in the repair schema.
func FieldByName(name string) (FieldSpec, bool) {
	spec, ok := repairSchemaByName[name]
	return spec, ok
}

// valuesEqual compares two field values under the field's kind. It never
// fails: values the kind cannot interpret drop to the primitive fallback.
func valuesEqual(kind FieldKind, oldVal, newVal any) bool {
	switch kind {
	case KindSet:
		oldSet, oldOK := toStrings(oldVal)
		newSet, newOK := toStrings(newVal)
		if oldOK && newOK {
			return equalSets(oldSet, newSet)
		}
	case KindDate:
		oldT, oldOK := toTime(oldVal)
		newT, newOK := toTime(newVal)
		if oldOK && newOK {
			return oldT.UnixMilli() == newT.UnixMilli()
		}
	case KindNested:
		oldJSON, oldErr := json.Marshal(oldVal)
		newJSON, newErr := json.Marshal(newVal)
		if oldErr == nil && newErr == nil {
			// encoding/json writes map keys in sorted order, so this
			// canonical form is deterministic.
			return bytes.Equal(oldJSON, newJSON)
		}
	}
	return stringify(oldVal) == stringify(newVal)
}

// equalSets treats both sides as unordered multisets: sorted stringified
// copies must match element for element, duplicates included.
func equalSets(oldSet, newSet []string) bool {
	if len(oldSet) != len(newSet) {
		return false
	}
	oldSorted := append([]string{}, oldSet...)
	newSorted := append([]string{}, newSet...)
	sort.Strings(oldSorted)
	sort.Strings(newSorted)
	for i := range oldSorted {
		if oldSorted[i] != newSorted[i] {
			return false
		}
	}
	return true
}

func toStrings(v any) ([]string, bool) {
	switch typed := v.(type) {
	case models.StringList:
		return typed, true
	case []string:
		return typed, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, stringify(item))
		}
		return out, true
	}
	return nil, false
}

func toTime(v any) (time.Time, bool) {
	switch typed := v.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed != nil {
			return *typed, true
		}
	case string:
		if t, ok := models.ParseDate(typed); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// stringify is the primitive fallback representation. nil and nil typed
// pointers normalize to the empty string instead of "nil" noise.
func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case *time.Time:
		if typed == nil {
			return ""
		}
		return typed.UTC().Format(time.RFC3339Nano)
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano)
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}
