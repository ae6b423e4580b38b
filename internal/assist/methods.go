package assist

import "fmt"

// Method IDs recorded in Result.MethodsApplied for audit traceability.
const (
	MethodNormalizeCliError = "engine.normalize.from_cli_error_v0_1"
	MethodNormalizeRawText  = "engine.normalize.from_raw_text"

	MethodProfileLowVision     = "profile.lowvision.apply"
	MethodProfileCognitiveLoad = "profile.cognitive_load.apply"
	MethodProfileScreenReader  = "profile.screen_reader.apply"
	MethodProfileDyslexia      = "profile.dyslexia.apply"
	MethodProfilePlainLanguage = "profile.plain_language.apply"

	MethodGuardValidate = "guard.validate_profile_transform"
)

// EvidenceForPlan builds evidence anchors mapping plan[i] to sourcePrefix[i].
func EvidenceForPlan(plan []string, sourcePrefix string) []Evidence {
	out := make([]Evidence, 0, len(plan))
	for i := range plan {
		out = append(out, Evidence{
			Field:  fmt.Sprintf("plan[%d]", i),
			Source: fmt.Sprintf("%s[%d]", sourcePrefix, i),
		})
	}
	return out
}
