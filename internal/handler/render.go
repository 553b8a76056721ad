// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown converts news body Markdown to HTML. GFM gives tables and
// strikethrough, which editors use in announcements.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// htmlSanitizer strips dangerous elements from rendered HTML before it is
// served to the public site.
var htmlSanitizer = bluemonday.UGCPolicy()

// renderMarkdown converts Markdown source to sanitized HTML.
// On a conversion failure the raw source is never returned; the caller gets
// an empty string and the error is logged.
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		slog.Error("failed to render markdown", "error", err)
		return ""
	}
	return htmlSanitizer.Sanitize(buf.String())
}
