package utils

import (
	"reflect"
	"strings"
	"time"
)

// FormatEpoch renders stored epoch millis as RFC3339 in UTC.
func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// Sanitize trims every string reachable from the request struct o, including
// strings inside nested structs and slices of structs such as schedule time
// slots. Pointer fields are left alone.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}
	sanitizeStruct(v)
}

func sanitizeStruct(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		sanitizeValue(field)
	}
}

func sanitizeValue(field reflect.Value) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(strings.TrimSpace(field.String()))
	case reflect.Struct:
		sanitizeStruct(field)
	case reflect.Slice:
		for j := 0; j < field.Len(); j++ {
			sanitizeValue(field.Index(j))
		}
	}
}
