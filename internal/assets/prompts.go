package assets

import (
	"bytes"
	"strings"
	"text/template"
)

// DefaultReferenceInstruction replaces a blank user instruction when a style
// reference image is supplied.
const DefaultReferenceInstruction = "Apply the style from the reference image."

var (
	enhanceTmpl   = template.Must(template.New("enhance").Parse(EnhancePromptTemplate))
	referenceTmpl = template.Must(template.New("reference").Parse(TransformReferenceTemplate))
	editTmpl      = template.Must(template.New("edit").Parse(TransformEditTemplate))
)

// PromptData holds the dynamic data injected into prompt templates.
type PromptData struct {
	Input       string
	Instruction string
}

// RenderEnhancePrompt renders the enhancement request for input.
func RenderEnhancePrompt(input string) string {
	return renderTemplate(enhanceTmpl, PromptData{Input: input})
}

// RenderTransformPrompt picks the reference or edit template. With a
// reference, a blank instruction becomes DefaultReferenceInstruction. Without
// one, the instruction is embedded exactly as given.
func RenderTransformPrompt(instruction string, hasReference bool) string {
	if hasReference {
		if strings.TrimSpace(instruction) == "" {
			instruction = DefaultReferenceInstruction
		}
		return renderTemplate(referenceTmpl, PromptData{Instruction: instruction})
	}
	return renderTemplate(editTmpl, PromptData{Instruction: instruction})
}

func renderTemplate(tmpl *template.Template, data PromptData) string {
	var buf bytes.Buffer
	// Templates only reference string fields, so Execute cannot fail midway.
	_ = tmpl.Execute(&buf, data)
	return strings.TrimSpace(buf.String())
}
