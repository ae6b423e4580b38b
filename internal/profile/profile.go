package profile

import (
	"fmt"
	"sort"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Transform rewrites a result for one accessibility profile. Transforms
// never touch AnchoredID or Confidence and never add commands.
type Transform func(assist.Result) assist.Result

// Renderer formats a transformed result as profile-specific text.
type Renderer func(assist.Result) string

// Profile bundles the transform, renderer, and provenance method ID for
// one named profile.
type Profile struct {
	Name     string
	Apply    Transform
	Render   Renderer
	MethodID string
}

// The registry is closed: profiles are compiled in, never loaded at
// runtime, so the guard policy table always matches.
var registry = map[string]Profile{
	"lowvision": {
		Name:     "lowvision",
		Apply:    applyLowVision,
		Render:   renderLowVision,
		MethodID: assist.MethodProfileLowVision,
	},
	"cognitive-load": {
		Name:     "cognitive-load",
		Apply:    applyCognitiveLoad,
		Render:   renderCognitiveLoad,
		MethodID: assist.MethodProfileCognitiveLoad,
	},
	"screen-reader": {
		Name:     "screen-reader",
		Apply:    applyScreenReader,
		Render:   renderScreenReader,
		MethodID: assist.MethodProfileScreenReader,
	},
	"dyslexia": {
		Name:     "dyslexia",
		Apply:    applyDyslexia,
		Render:   renderDyslexia,
		MethodID: assist.MethodProfileDyslexia,
	},
	"plain-language": {
		Name:     "plain-language",
		Apply:    applyPlainLanguage,
		Render:   renderPlainLanguage,
		MethodID: assist.MethodProfilePlainLanguage,
	},
}

// Lookup returns the profile for name. Unknown names are an input error,
// reported with the list of valid names.
func Lookup(name string) (Profile, error) {
	p, ok := registry[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (valid: %v)", name, Names())
	}
	return p, nil
}

// Names returns all registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
