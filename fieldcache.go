package jsonschema

import (
	"reflect"
	"strings"
	"sync"
)

// FieldCache stores the parsed JSON field layout of a struct type, so
// Unmarshal does not re-read struct tags on every call.
type FieldCache struct {
	FieldsByName map[string]FieldInfo
	FieldCount   int
}

// FieldInfo contains metadata for one exported struct field.
type FieldInfo struct {
	Index     int          // Field index in the struct
	JSONName  string       // JSON field name (after processing tags)
	Omitempty bool         // Whether the field has omitempty tag
	Type      reflect.Type // Field type
}

var fieldCacheMap sync.Map

// getFieldCache retrieves or creates cached field information for a struct type.
func getFieldCache(structType reflect.Type) *FieldCache {
	if cached, ok := fieldCacheMap.Load(structType); ok {
		return cached.(*FieldCache)
	}

	cache := parseStructType(structType)
	fieldCacheMap.Store(structType, cache)
	return cache
}

func parseStructType(structType reflect.Type) *FieldCache {
	cache := &FieldCache{
		FieldsByName: make(map[string]FieldInfo),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonName, omitempty := parseJSONTag(field.Tag.Get("json"), field.Name)
		if jsonName == "-" {
			continue
		}

		cache.FieldsByName[jsonName] = FieldInfo{
			Index:     i,
			JSONName:  jsonName,
			Omitempty: omitempty,
			Type:      field.Type,
		}
		cache.FieldCount++
	}

	return cache
}

// parseJSONTag returns the effective JSON name and omitempty flag of a
// struct tag, falling back to the Go field name when the tag names nothing.
func parseJSONTag(tag, defaultName string) (string, bool) {
	if tag == "" {
		return defaultName, false
	}

	if commaIdx := strings.IndexByte(tag, ','); commaIdx >= 0 {
		name := tag[:commaIdx]
		if name == "" {
			name = defaultName
		}
		return name, strings.Contains(tag[commaIdx:], "omitempty")
	}

	return tag, false
}
