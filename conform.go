package topicscan

import (
	"fmt"
	"reflect"
	"strings"
)

// Conform checks that the value pointed to by v can represent the parsed
// schema. If v is not a pointer to a struct, Conform returns an error.
//
// Conform uses struct tags to determine how to map schema field names to
// struct fields:
//   - `ros:"fieldname"` - maps schema field "fieldname" to this struct field
//   - `ros:"-"` - ignores this field
//
// Untagged exported fields match by lowercased field name. Every declared
// schema field must have a matching struct field of a compatible Go kind;
// nested record fields require a nested struct (or pointer to struct).
// Constants carry no per-message data and are not matched.
//
// Example:
//
//	type Twist struct {
//	    Linear  Vector3 `ros:"linear"`
//	    Angular Vector3 `ros:"angular"`
//	}
func Conform(schema Schema, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("conform target must be a non-nil pointer")
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("conform target must be a pointer to struct")
	}

	return conformStruct(schema, elem.Type())
}

// conformStruct checks one schema level against one struct type.
func conformStruct(schema Schema, t reflect.Type) error {
	byName := structFieldsByName(t)

	for _, field := range schema {
		if field.Kind == KindConstant {
			continue
		}

		sf, ok := byName[field.Name]
		if !ok {
			return fmt.Errorf("no struct field for schema field %q", field.Name)
		}

		if err := conformField(field, sf.Type); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

// conformField checks one schema field against one Go type.
func conformField(field *Field, t reflect.Type) error {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if elem, ok := arrayElemType(field.Type); ok {
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return fmt.Errorf("schema type %s needs a slice or array, have %s",
				field.Type, t.Kind())
		}
		inner := *field
		inner.Type = elem
		return conformField(&inner, t.Elem())
	}

	if field.Fields != nil {
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("nested record %s needs a struct, have %s",
				field.Type, t.Kind())
		}
		return conformStruct(field.Fields, t)
	}

	return conformPrimitive(field.Type, t)
}

// conformPrimitive checks a declared primitive type name against a Go kind.
func conformPrimitive(typeName string, t reflect.Type) error {
	kinds, ok := primitiveKinds[typeName]
	if !ok {
		// Compound type whose shape was not recovered; any struct will do.
		if t.Kind() == reflect.Struct {
			return nil
		}
		return fmt.Errorf("unresolved type %s needs a struct, have %s", typeName, t.Kind())
	}

	for _, k := range kinds {
		if t.Kind() == k {
			return nil
		}
	}
	return fmt.Errorf("schema type %s is not representable as %s", typeName, t.Kind())
}

// primitiveKinds maps declared primitive type names to acceptable Go kinds.
var primitiveKinds = map[string][]reflect.Kind{
	"bool":     {reflect.Bool},
	"byte":     {reflect.Uint8},
	"char":     {reflect.Uint8, reflect.Int8},
	"int8":     {reflect.Int8},
	"int16":    {reflect.Int16},
	"int32":    {reflect.Int32, reflect.Int},
	"int64":    {reflect.Int64, reflect.Int},
	"uint8":    {reflect.Uint8},
	"uint16":   {reflect.Uint16},
	"uint32":   {reflect.Uint32, reflect.Uint},
	"uint64":   {reflect.Uint64, reflect.Uint},
	"float32":  {reflect.Float32},
	"float64":  {reflect.Float64},
	"string":   {reflect.String},
	"time":     {reflect.Struct, reflect.Int64, reflect.Uint64},
	"duration": {reflect.Struct, reflect.Int64},
}

// arrayElemType reports the element type of a declared array type such as
// "float64[]" or "uint8[16]".
func arrayElemType(typeName string) (string, bool) {
	open := strings.IndexByte(typeName, '[')
	if open < 0 || !strings.HasSuffix(typeName, "]") {
		return "", false
	}
	return typeName[:open], true
}

// structFieldsByName indexes a struct's exported fields by their mapped
// schema name.
func structFieldsByName(t reflect.Type) map[string]reflect.StructField {
	byName := make(map[string]reflect.StructField)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}

		tag := sf.Tag.Get("ros")
		if tag == "-" {
			continue
		}

		tagName, _ := parseTag(tag)
		if tagName == "" {
			tagName = strings.ToLower(sf.Name)
		}
		byName[tagName] = sf
	}

	return byName
}

// parseTag splits a struct tag into its name and option parts.
func parseTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}
