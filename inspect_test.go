package unbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host    string `inject:"server_host"`
	Port    int    `default:"8080"`
	Debug   bool   `default:"false"`
	Timeout float64
	ignored string
	Skipped string `inject:"-"`
}

func TestInspector(t *testing.T) {
	t.Run("it should describe a function from its reflected signature", func(t *testing.T) {
		// GIVEN
		inspector := NewInspector()
		callable, err := Func(func(path string, size int) *FileCache { return nil })
		require.NoError(t, err)

		// WHEN
		descs, err := inspector.Describe(callable)

		// THEN
		require.NoError(t, err)
		require.Len(t, descs, 2)
		assert.Equal(t, "", descs[0].Name, "reflection cannot recover parameter names")
		assert.Equal(t, "string", descs[0].DeclaredType)
		assert.Equal(t, "int", descs[1].DeclaredType)
	})

	t.Run("it should prefer declared descriptors over reflection", func(t *testing.T) {
		// GIVEN
		inspector := NewInspector()
		fn := func(path string, size int) *FileCache { return nil }
		err := inspector.Declare(fn,
			Param("path"),
			Param("size").Default(1024),
		)
		require.NoError(t, err)
		callable, err := Func(fn)
		require.NoError(t, err)

		// WHEN
		descs, err := inspector.Describe(callable)

		// THEN
		require.NoError(t, err)
		require.Len(t, descs, 2)
		assert.Equal(t, "path", descs[0].Name)
		assert.Equal(t, "string", descs[0].DeclaredType)
		assert.Equal(t, "size", descs[1].Name)
		assert.True(t, descs[1].HasDefault)
		assert.Equal(t, 1024, descs[1].DefaultValue)
	})

	t.Run("it should reject a declaration with the wrong descriptor count", func(t *testing.T) {
		// GIVEN
		inspector := NewInspector()
		fn := func(path string, size int) *FileCache { return nil }

		// WHEN
		err := inspector.Declare(fn, Param("path"))

		// THEN
		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Contains(t, err.Error(), "2 parameters, 1 descriptors")
	})

	t.Run("it should keep an explicit type key over the reflected one", func(t *testing.T) {
		// GIVEN
		inspector := NewInspector()
		fn := func(cache any) string { return "" }
		err := inspector.Declare(fn, Param("cache").OfType(NameOf[Cache]()))
		require.NoError(t, err)
		callable, err := Func(fn)
		require.NoError(t, err)

		// WHEN
		descs, err := inspector.Describe(callable)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, NameOf[Cache](), descs[0].DeclaredType)
	})

	t.Run("it should describe a constructor from its struct fields", func(t *testing.T) {
		// GIVEN
		inspector := NewInspector()
		callable, err := Constructor(serverConfig{})
		require.NoError(t, err)

		// WHEN
		descs, err := inspector.Describe(callable)

		// THEN
		require.NoError(t, err)
		require.Len(t, descs, 4, "unexported and opted-out fields are skipped")

		assert.Equal(t, "server_host", descs[0].Name, "inject tag overrides the field name")
		assert.Equal(t, "string", descs[0].DeclaredType)
		assert.False(t, descs[0].HasDefault)

		assert.Equal(t, "Port", descs[1].Name)
		assert.True(t, descs[1].HasDefault)
		assert.Equal(t, 8080, descs[1].DefaultValue)

		assert.Equal(t, "Debug", descs[2].Name)
		assert.Equal(t, false, descs[2].DefaultValue)

		assert.Equal(t, "Timeout", descs[3].Name)
		assert.False(t, descs[3].HasDefault)
	})

	t.Run("it should reject an invalid default tag", func(t *testing.T) {
		// GIVEN
		type broken struct {
			Port int `default:"not-a-number"`
		}
		inspector := NewInspector()
		callable, err := Constructor(broken{})
		require.NoError(t, err)

		// WHEN
		_, err = inspector.Describe(callable)

		// THEN
		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})
}

func TestContainer_StructRecipes(t *testing.T) {
	t.Run("it should build a struct recipe mixing lookups and defaults", func(t *testing.T) {
		// GIVEN
		c := New()
		require.NoError(t, c.Set("server_host", "localhost"))
		require.NoError(t, c.Set("Timeout", 1.5))

		// WHEN
		value, err := Resolve[*serverConfig](c.MustRegister("config", serverConfig{}, nil), "config")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "localhost", value.Host)
		assert.Equal(t, 8080, value.Port)
		assert.Equal(t, false, value.Debug)
		assert.Equal(t, 1.5, value.Timeout)
		assert.Empty(t, value.Skipped)
	})
}
