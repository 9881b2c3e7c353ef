package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
	// that embeds EnvConfig.
	ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

	// ErrVarNotSet is returned when a required environment variable is not set and has no default.
	ErrVarNotSet = errors.New("env var not set")

	// ErrUnsupportedVarType is returned when trying to parse an environment variable
	// into an unsupported Go type.
	ErrUnsupportedVarType = errors.New("unsupported env var type")
)

const secretMask = "***"

// LookupFunc resolves a variable name, like os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// EnvConfig is a base type that must be embedded in configuration structs
// to enable environment variable parsing.
type EnvConfig struct {
	namespace string
}

//nolint:gochecknoglobals
var (
	envConfigType = reflect.TypeOf(EnvConfig{}) //nolint:exhaustruct
	durationType  = reflect.TypeOf(time.Duration(0))
)

// Namespace returns the namespace the config was parsed with.
func (c *EnvConfig) Namespace() string {
	return c.namespace
}

//nolint:varnamelen
func getEnvConfig(cfg any) (*EnvConfig, error) {
	v := reflect.ValueOf(cfg)

	// Ensure cfg is a pointer to a struct
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		//nolint:forcetypeassert
		if field := t.Field(i); field.Anonymous && field.Type == envConfigType {
			return v.Field(i).Addr().Interface().(*EnvConfig), nil
		}
	}

	return nil, ErrInvalidConfig
}

// Parse loads configuration values from environment variables into the provided struct.
// The struct must embed EnvConfig and use `env` tags to specify variable names;
// nested structs add their `envPrefix` tag. The namespace is split on "_" and the most
// specific candidate wins: for namespace "APP_SVC" and name "KEY" the lookup order is
// APP_SVC_KEY, APP_KEY, KEY.
// Supports string, int, bool and time.Duration fields.
// Every missing or malformed variable is reported in the returned error.
func Parse(ctx context.Context, cfg any, namespace string) error {
	return ParseWithLookup(ctx, cfg, namespace, os.LookupEnv)
}

// ParseWithLookup is Parse resolving variables through lookup.
func ParseWithLookup(_ context.Context, cfg any, namespace string, lookup LookupFunc) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	var nsParts []string
	if namespace != "" {
		nsParts = strings.Split(namespace, "_")
	}

	p := parser{nsParts: nsParts, lookup: lookup}

	return p.parseStruct("", reflect.ValueOf(cfg).Elem())
}

type parser struct {
	nsParts []string
	lookup  LookupFunc
}

func (p parser) parseStruct(prefix string, v reflect.Value) error {
	var errs []error

	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		switch {
		case field.Type == envConfigType:
			continue
		case field.Type.Kind() == reflect.Struct:
			errs = append(errs, p.parseStruct(prefix+field.Tag.Get("envPrefix"), v.Field(i)))
		default:
			if err := p.parseField(prefix, field, v.Field(i)); err != nil {
				errs = append(errs, fmt.Errorf("parse field: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

// resolve returns the value of the most specific candidate name.
func (p parser) resolve(name string) (string, bool) {
	for i := len(p.nsParts); i >= 0; i-- {
		candidate := name
		if i > 0 {
			candidate = strings.Join(p.nsParts[:i], "_") + "_" + name
		}

		if value, ok := p.lookup(candidate); ok {
			return value, true
		}
	}

	return "", false
}

func (p parser) parseField(prefix string, field reflect.StructField, structField reflect.Value) error {
	envTag := field.Tag.Get("env")
	if envTag == "" {
		return nil // Skip field if no env tag is set
	}

	name := prefix + envTag

	envValue, ok := p.resolve(name)
	if !ok {
		defaultValue, hasDefault := field.Tag.Lookup("default")
		if !hasDefault {
			return fmt.Errorf("%w: %s", ErrVarNotSet, name)
		}

		envValue = defaultValue
	}

	if field.Type == durationType {
		duration, err := time.ParseDuration(envValue)
		if err != nil {
			return fmt.Errorf("invalid type for %s: %w", name, err)
		}

		structField.SetInt(int64(duration))

		return nil
	}

	//nolint:exhaustive
	switch field.Type.Kind() {
	case reflect.String:
		structField.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(envValue, 10, field.Type.Bits())
		if err != nil {
			return fmt.Errorf("invalid type for %s: %w", name, err)
		}

		structField.SetInt(intValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid type for %s: %w", name, err)
		}

		structField.SetBool(boolValue)
	default:
		return fmt.Errorf("%w: %s (%v)", ErrUnsupportedVarType, name, field.Type.Kind())
	}

	return nil
}

// Describe renders the env-tagged fields of cfg as a log group keyed by variable name,
// preceded by the namespace cfg was parsed with, if any.
// Non-empty fields tagged `secret:"true"` are masked.
func Describe(key string, cfg any) slog.Attr {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return slog.Attr{Key: key, Value: slog.GroupValue()}
	}

	var attrs []slog.Attr

	if envConfig, err := getEnvConfig(cfg); err == nil && envConfig.Namespace() != "" {
		attrs = append(attrs, slog.String("namespace", envConfig.Namespace()))
	}

	return slog.Attr{Key: key, Value: slog.GroupValue(append(attrs, describe("", v)...)...)}
}

func describe(prefix string, v reflect.Value) []slog.Attr {
	var attrs []slog.Attr

	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		switch {
		case field.Type == envConfigType:
			continue
		case field.Type.Kind() == reflect.Struct:
			attrs = append(attrs, describe(prefix+field.Tag.Get("envPrefix"), v.Field(i))...)

			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value := fmt.Sprint(v.Field(i).Interface())
		if field.Tag.Get("secret") == "true" && value != "" {
			value = secretMask
		}

		attrs = append(attrs, slog.String(prefix+envTag, value))
	}

	return attrs
}
