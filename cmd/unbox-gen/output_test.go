package main

import (
	"testing"

	"github.com/boan2010/unbox/set"
	"github.com/stretchr/testify/assert"
)

func Test_findSuitableAlias(t *testing.T) {
	t.Run("it should find an alias", func(t *testing.T) {
		// GIVEN
		pkg := "github.com/boan2010/unbox/fn"
		aliases := set.NewWithValues[string]()

		// WHEN
		alias := findSuitableAlias(pkg, aliases)

		// THEN
		assert.Equal(t, "fn", alias)
	})

	t.Run("it should use previous token if we have a collision", func(t *testing.T) {
		// GIVEN
		pkg := "github.com/boan2010/unbox/fn"
		aliases := set.NewWithValues[string]("fn")

		// WHEN
		alias := findSuitableAlias(pkg, aliases)

		// THEN
		assert.Equal(t, "ufn", alias)
	})

	t.Run("it should use previous previous token if we have a collision", func(t *testing.T) {
		// GIVEN
		pkg := "github.com/boan2010/unbox/fn"
		aliases := set.NewWithValues[string]("fn", "ufn")

		// WHEN
		alias := findSuitableAlias(pkg, aliases)

		// THEN
		assert.Equal(t, "bufn", alias)
	})

	t.Run("it should exhaust all tokens if we have a collision", func(t *testing.T) {
		// GIVEN
		pkg := "github.com/boan2010/unbox/fn"
		aliases := set.NewWithValues[string]("fn", "ufn", "bufn")

		// WHEN
		alias := findSuitableAlias(pkg, aliases)

		// THEN
		assert.Equal(t, "gbufn", alias)
	})

	t.Run("it should start incrementing when tokens are exhausted and we still have a collision", func(t *testing.T) {
		// GIVEN
		pkg := "github.com/boan2010/unbox/fn"
		aliases := set.NewWithValues[string]("fn", "ufn", "bufn", "gbufn", "gbufn0", "gbufn1")

		// WHEN
		alias := findSuitableAlias(pkg, aliases)

		// THEN
		assert.Equal(t, "gbufn2", alias)
	})
}

func Test_generateFQN(t *testing.T) {
	t.Run("it should return type name when import path is empty", func(t *testing.T) {
		// GIVEN
		importPath := ""
		typeName := "MyType"
		importWithAlias := map[string]string{}

		// WHEN
		result := generateFQN(importPath, typeName, importWithAlias)

		// THEN
		assert.Equal(t, "MyType", result)
	})

	t.Run("it should prepend alias for regular type", func(t *testing.T) {
		// GIVEN
		importPath := "github.com/example/pkg"
		typeName := "MyType"
		importWithAlias := map[string]string{
			"github.com/example/pkg": "pkg",
		}

		// WHEN
		result := generateFQN(importPath, typeName, importWithAlias)

		// THEN
		assert.Equal(t, "pkg.MyType", result)
	})

	t.Run("it should handle pointer types correctly", func(t *testing.T) {
		// GIVEN
		importPath := "github.com/example/pkg"
		typeName := "*MyType"
		importWithAlias := map[string]string{
			"github.com/example/pkg": "pkg",
		}

		// WHEN
		result := generateFQN(importPath, typeName, importWithAlias)

		// THEN
		assert.Equal(t, "*pkg.MyType", result)
	})
}

func Test_generateCode(t *testing.T) {
	t.Run("it should register a component from another package with an import alias", func(t *testing.T) {
		// GIVEN
		components := []ComponentDefinition{
			{
				Named:      "cache",
				FnName:     "NewFileCache",
				ImportPath: "github.com/example/app/cache",
				Params: []ParamDefinition{
					{Name: "cachePath"},
					{Name: "ttl", HasDefault: true, Default: "300"},
				},
			},
		}

		// WHEN
		code := generateCode("di", "github.com/example/app/di", components)

		// THEN
		assert.Contains(t, code, "package di")
		assert.Contains(t, code, `cache "github.com/example/app/cache"`)
		assert.Contains(t, code, `c.Register("cache", cache.NewFileCache, nil, unbox.Describe(`)
		assert.Contains(t, code, `unbox.Param("cachePath"),`)
		assert.Contains(t, code, `unbox.Param("ttl").Default(300),`)
	})

	t.Run("it should not import nor qualify components from the target package", func(t *testing.T) {
		// GIVEN
		components := []ComponentDefinition{
			{
				Named:      "mailer",
				FnName:     "NewMailer",
				ImportPath: "github.com/example/app/di",
			},
		}

		// WHEN
		code := generateCode("di", "github.com/example/app/di", components)

		// THEN
		assert.Contains(t, code, `c.Register("mailer", NewMailer, nil)`)
		assert.NotContains(t, code, `"github.com/example/app/di"`)
	})

	t.Run("it should quote string defaults and keep boolean and numeric defaults as literals", func(t *testing.T) {
		// GIVEN
		components := []ComponentDefinition{
			{
				Named:      "server",
				FnName:     "NewServer",
				ImportPath: "github.com/example/app/web",
				Params: []ParamDefinition{
					{Name: "host", HasDefault: true, Default: "localhost"},
					{Name: "port", HasDefault: true, Default: "8080"},
					{Name: "secure", HasDefault: true, Default: "true"},
				},
			},
		}

		// WHEN
		code := generateCode("di", "github.com/example/app/di", components)

		// THEN
		assert.Contains(t, code, `unbox.Param("host").Default("localhost"),`)
		assert.Contains(t, code, `unbox.Param("port").Default(8080),`)
		assert.Contains(t, code, `unbox.Param("secure").Default(true),`)
	})
}
