package prompts

import (
	"fmt"
	"strings"

	"nazcraft_server/internal/catalog"
)

// Fixed parts of the site generation instruction. The framing takes the template
// id, the rules take the catalog string and the user's description, verbatim.
const (
	siteFraming = `Create a fully functional, responsive single-page HTML website for a %s template.
The result must be one self-contained HTML document.`

	siteRequirements = `Requirements:
- Use Tailwind CSS via CDN link in the head, or embed all CSS in <style> tags.
- All JS in <script> tags inside the document.
- Responsive/Mobile-friendly.`

	siteTemplateRules = `Template rules: %s`

	siteUserSpecifics = `User specifics: "%s"`

	siteClosing = `IMPORTANT: Provide ONLY the HTML code. No markdown code blocks, no intro text. Start with <!DOCTYPE html>.`
)

// GetSiteGenerationPrompt builds the single instruction sent to the model:
// framing, technical requirements, the template's catalog rules, the user's
// description and the raw-HTML closing instruction, in that order.
func GetSiteGenerationPrompt(template catalog.Template, userPrompt string) string {
	parts := []string{
		fmt.Sprintf(siteFraming, template),
		siteRequirements,
		fmt.Sprintf(siteTemplateRules, catalog.Instruction(template)),
		fmt.Sprintf(siteUserSpecifics, userPrompt),
		siteClosing,
	}
	return strings.Join(parts, "\n\n")
}

// SiteClosingInstruction is exposed so callers and tests can check the reply
// contract without duplicating the text.
func SiteClosingInstruction() string {
	return siteClosing
}
