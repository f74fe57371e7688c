package main

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const (
	componentAnnotationTag = "@component"
	defaultAnnotationTag   = "@default"
)

type ComponentAnnotation struct {
	description string
	properties  map[string]string
}

func (a ComponentAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	return named, found
}

var knownProperties = []string{"named"}

func (a ComponentAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range a.properties {
		if !contains(knownProperties, key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

type DefaultAnnotation struct {
	properties map[string]string
}

func (a DefaultAnnotation) Value() (value string, found bool) {
	value, found = a.properties["value"]
	return value, found
}

func parseComponentAnnotation(logger *zerolog.Logger, docText string) ComponentAnnotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var componentLine string

	// separate @component line from description
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, componentAnnotationTag) {
			componentLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	properties := parseProperties(componentLine, componentAnnotationTag)
	logger.Debug().Msgf("Parsed @component properties: %v", properties)

	return ComponentAnnotation{
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  properties,
	}
}

func parseDefaultAnnotation(comment string) DefaultAnnotation {
	content := strings.TrimPrefix(comment, "//")
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, defaultAnnotationTag) {
		return DefaultAnnotation{properties: make(map[string]string)}
	}

	return DefaultAnnotation{
		properties: parseProperties(content, defaultAnnotationTag),
	}
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	// regex to match key=value or key="value" patterns
	re := regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\S+))`)
	matches := re.FindAllStringSubmatch(content, -1)

	for _, match := range matches {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
