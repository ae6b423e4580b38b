package gate

import "strings"

// HelpInfo is actionable guidance for a known finding ID.
type HelpInfo struct {
	Title string
	Hint  string
	URL   string
}

const docsBaseURL = "https://github.com/microsoft/accessibility-suite/blob/main/docs/rules.md"

func makeURL(anchor string) string {
	return docsBaseURL + "#" + anchor
}

var helpRegistry = map[string]HelpInfo{
	"A11Y.IMG.ALT": {
		Title: "Missing Image Alt Text",
		Hint:  "Add an 'alt' attribute describing the image content, or alt='' if decorative.",
		URL:   makeURL("a11yimgalt"),
	},
	"A11Y.FORM.LABEL": {
		Title: "Missing Form Label",
		Hint:  "Ensure every input has a <label>, aria-label, or aria-labelledby.",
		URL:   makeURL("a11yformlabel"),
	},
	"A11Y.BTN.NAME": {
		Title: "Button Missing Name",
		Hint:  "Buttons must have text content or an aria-label.",
		URL:   makeURL("a11ybtnname"),
	},
	"A11Y.LINK.NAME": {
		Title: "Link Missing Name",
		Hint:  "Links must have text content or an aria-label to be navigable.",
		URL:   makeURL("a11ylinkname"),
	},
	"A11Y.COLOR.CONTRAST": {
		Title: "Low Color Contrast",
		Hint:  "Ensure text contrast ratio matches WCAG requirements (4.5:1 normal, 3:1 large).",
		URL:   makeURL("a11ycolorcontrast"),
	},
	"A11Y.DOC.TITLE": {
		Title: "Missing Document Title",
		Hint:  "The <title> element must be present and non-empty.",
		URL:   makeURL("a11ydoctitle"),
	},
	"CLI.COLOR.ONLY": {
		Title: "Color-Only Information",
		Hint:  "Do not rely solely on color to convey meaning; use text or icons too.",
		URL:   makeURL("clicoloronly"),
	},
}

// GetHelp looks up guidance for a finding ID, normalizing case.
func GetHelp(findingID string) (HelpInfo, bool) {
	key := strings.ToUpper(strings.TrimSpace(findingID))
	if key == "" {
		return HelpInfo{}, false
	}
	info, ok := helpRegistry[key]
	return info, ok
}
