// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package prompts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Interpolate substitutes {{.name}} placeholders with sanitized values.
// Unknown placeholders are left intact so a missing variable is visible in
// the rendered prompt instead of silently disappearing.
func Interpolate(template string, vars map[string]interface{}) string {
	if vars == nil {
		return template
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{{."), "}}")
		value, ok := vars[name]
		if !ok {
			return match
		}
		return sanitizeValue(value)
	})
}

func sanitizeValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return sanitizeString(v)
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = sanitizeString(s)
		}
		return strings.Join(parts, ", ")
	default:
		return sanitizeString(fmt.Sprintf("%v", v))
	}
}

// sanitizeString neutralizes values that could manipulate prompt structure:
// control characters, role markers, and instruction delimiters. Narratives
// are caller-supplied text and must never be able to reframe the prompt.
func sanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	for _, nl := range []string{"\r\n", "\n", "\r", "\t"} {
		s = strings.ReplaceAll(s, nl, " ")
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != ' ' {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	for _, marker := range []string{
		"```", "###", "System:", "Assistant:", "Human:",
		"[INST]", "[/INST]", "<|im_start|>", "<|im_end|>",
	} {
		s = strings.ReplaceAll(s, marker, " ")
	}

	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
