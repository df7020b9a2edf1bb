// Copyright (c) 2026 FoDBot. All rights reserved.

// Package emoji canonicalises emoji strings so a reaction reported by the
// gateway matches the emoji written in a definition file.
//
// # Forms
//
// Unicode emoji arrive with or without the U+FE0F presentation selector and
// occasionally in decomposed form. Custom guild emoji appear as "<:name:id>",
// "<a:name:id>" (animated) or the API form "name:id".
package emoji

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// variationSelector16 requests emoji presentation; it carries no identity.
const variationSelector16 = '\uFE0F'

// Key returns the canonical lookup key for an emoji string.
//
// # Transformation Pipeline
//
// 1. Custom emoji are reduced to "name:id".
// 2. Unicode emoji are normalized to NFC.
// 3. U+FE0F selectors are removed.
func Key(s string) string {
	s = strings.TrimSpace(s)

	// 1. Custom emoji
	if custom, ok := customAPIName(s); ok {
		return custom
	}

	// 2 + 3. Normalize and drop presentation selectors
	t := transform.Chain(norm.NFC, transform.RemoveFunc(isVariationSelector))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return result
}

// APIName returns the form Discord's reaction endpoints expect: the raw
// character for unicode emoji and "name:id" for custom ones.
func APIName(s string) string {
	s = strings.TrimSpace(s)
	if custom, ok := customAPIName(s); ok {
		return custom
	}
	return s
}

// customAPIName recognises "<:name:id>" and "<a:name:id>" and returns "name:id".
// Bare "name:id" is returned unchanged.
func customAPIName(s string) (string, bool) {
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
		inner = strings.TrimPrefix(inner, "a:")
		inner = strings.TrimPrefix(inner, ":")
		return inner, strings.Count(inner, ":") == 1
	}

	if name, id, found := strings.Cut(s, ":"); found && name != "" && isDigits(id) {
		return s, true
	}

	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isVariationSelector(r rune) bool {
	return r == variationSelector16
}
