// Package web embeds the HTML templates and the bundled sentiment artifact.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS

//go:embed static
var StaticFiles embed.FS

// ArtifactPath is the embedded sentiment artifact, relative to StaticFiles.
const ArtifactPath = "static/averageSentiment.json"
