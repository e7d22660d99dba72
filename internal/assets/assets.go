// Package assets provides embedded prompt templates.
//
// Templates are stored as text files under prompts/ and embedded at compile
// time, then rendered with text/template.
package assets

import (
	_ "embed"
)

// EnhancePromptTemplate asks the text model to tighten a user's request into
// a short architectural image-generation prompt.
//
//go:embed prompts/enhance.txt
var EnhancePromptTemplate string

// TransformReferenceTemplate re-skins the source using the style of a
// reference image.
//
//go:embed prompts/transform-reference.txt
var TransformReferenceTemplate string

//go:embed prompts/transform-edit.txt
var TransformEditTemplate string
