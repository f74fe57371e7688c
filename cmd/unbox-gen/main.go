package main

import (
	"go/ast"
	"go/format"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boan2010/unbox/slices"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

func findCommentForParam(fset *token.FileSet, file *ast.File, param *ast.Field) string {
	paramLine := fset.Position(param.Pos()).Line

	for _, commentGroup := range file.Comments {
		for _, comment := range commentGroup.List {
			commentLine := fset.Position(comment.Pos()).Line
			if commentLine == paramLine {
				return comment.Text
			}
		}
	}
	return ""
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func main() {
	dryRun := os.Getenv("DRY_RUN") == "true"

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	startScan := time.Now()

	// capture the target file/package, where the generator is invoked
	targetFile := os.Getenv("GOFILE")
	targetPackage := os.Getenv("GOPACKAGE")
	currentDir, _ := os.Getwd()
	targetFilePath := filepath.Join(currentDir, targetFile)

	// switch to the root of the module as we want to scan the whole module
	moduleRoot := findModuleRoot()
	err := os.Chdir(moduleRoot)
	if err != nil {
		log.Fatalf("Failed to change directory to module root: %v\n", err)
	}

	var (
		componentDefinitions []ComponentDefinition
		targetImportPath     string
	)

	cfg := &packages.Config{
		Mode: packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, _ := packages.Load(cfg, "./...")

	for _, pkg := range pkgs {
		logger := logger.With().Str("package", pkg.ID).Logger()
		logger.Debug().Msg("Scanning package")
		for _, file := range pkg.Syntax {
			filePath := pkg.Fset.Position(file.Pos()).Filename
			importPath := pkg.ID

			if filePath == targetFilePath {
				targetImportPath = importPath
			}

			// look for @component functions
			ast.Inspect(file, func(n ast.Node) bool {
				fn, ok := n.(*ast.FuncDecl)
				if !ok {
					return true
				}
				if fn.Recv != nil || fn.Doc == nil || !strings.Contains(fn.Doc.Text(), componentAnnotationTag) {
					return true
				}

				logger := logger.With().Str("component", fn.Name.Name).Logger()
				logger.Debug().Msg("=> Found component")

				annotation := parseComponentAnnotation(&logger, fn.Doc.Text())
				if unknown := annotation.UnknownProperties(); len(unknown) > 0 {
					logger.Warn().Msgf("Unknown properties on @component annotation: %s", strings.Join(unknown, ", "))
				}

				named := fn.Name.Name
				if n, found := annotation.Named(); found {
					named = n
				}

				var params []ParamDefinition
				if fn.Type.Params != nil {
					for _, param := range fn.Type.Params.List {
						defaultAnnotation := parseDefaultAnnotation(
							findCommentForParam(pkg.Fset, file, param),
						)
						for _, paramName := range param.Names {
							definition := ParamDefinition{Name: paramName.Name}
							if value, found := defaultAnnotation.Value(); found {
								definition.HasDefault = true
								definition.Default = value
							}
							params = append(params, definition)
						}
					}
				}

				componentDefinitions = append(componentDefinitions, ComponentDefinition{
					Named:      named,
					FnName:     fn.Name.Name,
					ImportPath: importPath,
					Params:     params,
				})
				return true
			})
		}
	}

	stopScan := time.Now()

	logger.Info().Msgf("🎯 %d components found in the module", len(componentDefinitions))
	definitionsLogs := slices.Map(componentDefinitions, ComponentDefinition.String)
	logger.Debug().Msgf("Components:\n%s", strings.Join(definitionsLogs, "\n----\n"))
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", stopScan.Sub(startScan))

	code := generateCode(targetPackage, targetImportPath, componentDefinitions)
	formatted, err := format.Source([]byte(code))
	if err != nil {
		logger.Error().Err(err).Msg("Generated code is not valid Go")
		os.Exit(1)
	}

	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if dryRun {
		outputPath = filepath.Join("/tmp", filepath.Base(outputPath))
	}

	if err := os.WriteFile(outputPath, formatted, 0644); err != nil {
		logger.Error().Err(err).Msgf("Failed to generate code in %s", outputPath)
		os.Exit(1)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
}
