package omitnilpointers

import (
	"reflect"
)

// OmitNilPointers drops nil values, nil pointers, nil slices and nil maps from
// fields and dereferences the remaining pointers. It is used to build partial
// updates where an absent key means "unchanged".
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				continue
			}
			omitted[key] = v.Elem().Interface()
		case reflect.Slice, reflect.Map:
			if v.IsNil() {
				continue
			}
			omitted[key] = value
		default:
			omitted[key] = value
		}
	}

	return omitted
}
