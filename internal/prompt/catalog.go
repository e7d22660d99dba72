package prompt

// Shortcut is a named, fixed instruction the user can drop into the prompt.
type Shortcut struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Presets replace the whole prompt with a complete style description.
var Presets = []Shortcut{
	{ID: "modern-minimalist", Label: "Modern Minimalist", Prompt: "Modern minimalist style, white stucco facade, large black-frame windows, wood accents, soft daylight"},
	{ID: "industrial-loft", Label: "Industrial Loft", Prompt: "Industrial style, exposed red brick, steel beams, large factory windows, concrete details"},
	{ID: "cyberpunk", Label: "Cyberpunk", Prompt: "Cyberpunk aesthetic, neon lighting, rain-slicked surfaces, futuristic modifications, night time"},
	{ID: "cottage-core", Label: "Cottage Core", Prompt: "Cozy cottage style, stone walls, climbing ivy, warm lantern lighting, inviting atmosphere"},
}

// QuickEdits are targeted edits rather than full restyles.
var QuickEdits = []Shortcut{
	{ID: "remove-people-cars", Label: "Remove People/Cars", Prompt: "Remove all people and vehicles from the image, keeping the architecture clean"},
	{ID: "night-mode", Label: "Night Mode", Prompt: "Transform the scene to night time with warm interior lighting glowing through windows"},
}

// lookup matches on ID or on the display label.
func lookup(list []Shortcut, key string) (Shortcut, bool) {
	for _, s := range list {
		if s.ID == key || s.Label == key {
			return s, true
		}
	}
	return Shortcut{}, false
}
