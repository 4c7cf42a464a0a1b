package web

import "embed"

// StaticFS holds the embedded static assets.
//
//go:embed static/*
var StaticFS embed.FS

// TemplateFS holds the embedded page templates.
//
//go:embed templates/*.html
var TemplateFS embed.FS
