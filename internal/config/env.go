package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// applyEnv overrides the fields of the struct pointed to by s that carry an env
// tag. A tag may list several variable names; the first one present wins, so
// "APP_ENV,FLASK_ENV" prefers APP_ENV. Nested structs are walked recursively.
func applyEnv(s interface{}) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field, meta := val.Field(i), typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		tag := meta.Tag.Get("env")
		if tag == "" {
			continue
		}
		name, raw, ok := lookupEnv(strings.Split(tag, ","))
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// setField parses raw into the kinds the configuration uses
func setField(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}

func lookupEnv(names []string) (string, string, bool) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if v, ok := os.LookupEnv(name); ok {
			return name, v, true
		}
	}
	return "", "", false
}
