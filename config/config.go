// Package config loads configuration from the environment through Viper and
// feeds it into an unbox container, either as typed configuration structs or
// as individual string components.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/boan2010/unbox"
	"github.com/boan2010/unbox/fn"
	"github.com/boan2010/unbox/option"
	"github.com/boan2010/unbox/reflectutils"
	"github.com/boan2010/unbox/str"
	"github.com/spf13/viper"
)

type (
	// Options controls how environment variables are looked up.
	Options struct {
		prefix string
	}

	// WithDefault lets config structs fill in their own default values
	// after loading.
	WithDefault interface {
		ApplyDefault()
	}
)

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load builds a configuration struct of type T from the environment. Field
// names (or their mapstructure tags) map to SCREAMING_SNAKE_CASE variables,
// nested structs join segments with underscores. Nil struct pointers are
// allocated, nil slices initialized, and ApplyDefault hooks invoked.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	bindEnvs(v, options.prefix, reflect.New(reflect.TypeOf(vT)).Elem().Interface())

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	withDefaultValueType := reflect.TypeOf((*WithDefault)(nil)).Elem()
	callApplyDefault := func(val reflect.Value, typ reflect.Type, _ []string) {
		if typ.Implements(withDefaultValueType) {
			if val.IsValid() {
				val.Interface().(WithDefault).ApplyDefault()
			}
		}
	}
	reflectutils.WalkStruct(
		&vT,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
			reflectutils.CreateEmptyArrays,
			callApplyDefault,
		),
	)

	return &vT, nil
}

// Provider wraps Load as a registerable factory, so a container can build
// the configuration struct lazily:
//
//	c.Register(unbox.NameOf[*AppConfig](), config.Provider[AppConfig](config.WithEnvPrefix("app")), nil)
func Provider[T any](opts ...option.Option[Options]) func() (*T, error) {
	return func() (*T, error) {
		return Load[T](opts...)
	}
}

// Apply reads the given dotted keys from the environment and sets every one
// that is present as a direct string component on the container, under the
// key itself. A key "cache.path" with prefix "app" reads APP_CACHE_PATH.
func Apply(c *unbox.Container, prefix string, keys ...string) error {
	v := viper.New()
	for _, key := range keys {
		if err := v.BindEnv(key, envName(prefix, key)); err != nil {
			return fmt.Errorf("unable to bind key %s: %w", key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		if err := c.Set(key, v.GetString(key)); err != nil {
			return fmt.Errorf("unable to set component %s: %w", key, err)
		}
	}
	return nil
}

func bindEnvs(viperI *viper.Viper, envPrefix string, myStruct any, parts ...string) {
	ifv := reflect.ValueOf(myStruct)
	ift := reflect.TypeOf(myStruct)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = t.Name
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(viperI, envPrefix, v.Interface(), append(parts, tv)...)
		case reflect.Pointer:
			if t.Type.Elem().Kind() == reflect.Struct {
				bindEnvs(viperI, envPrefix, reflect.Zero(t.Type.Elem()).Interface(), append(parts, tv)...)
			}
		default:
			key := strings.Join(append(parts, tv), ".")
			_ = viperI.BindEnv(key, envName(envPrefix, key))
		}
	}
}

// envName derives the environment variable for a dotted key: segments are
// converted to screaming snake case and joined with underscores, behind the
// optional prefix.
func envName(prefix string, key string) string {
	segments := strings.Split(key, ".")
	for i, segment := range segments {
		segments[i] = str.ToScreamingSnakeCase(segment)
	}
	joined := strings.Join(segments, "_")
	if prefix != "" {
		return strings.ToUpper(prefix) + "_" + joined
	}
	return joined
}
