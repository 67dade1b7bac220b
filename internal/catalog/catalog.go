package catalog

import (
	"fmt"
	"strings"
)

// Template is one of the fixed website archetypes a visitor can pick before generating.
type Template string

const (
	Business   Template = "business"
	Minimalist Template = "minimalist"
	Crypto     Template = "crypto"
	Ecommerce  Template = "ecommerce"
	Chat       Template = "chat"
)

// Entry is the catalog view of a template, as shown on the template picker.
type Entry struct {
	Template    Template `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Instruction string   `json:"instruction"`
}

// All returns every template in display order.
func All() []Template {
	return []Template{Business, Minimalist, Crypto, Ecommerce, Chat}
}

// Parse maps user input onto a Template. Matching is case-insensitive and
// "e-commerce" is accepted for ecommerce.
func Parse(s string) (Template, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "e-commerce" {
		v = string(Ecommerce)
	}
	t := Template(v)
	if !t.Valid() {
		return "", fmt.Errorf("unknown template %q", s)
	}
	return t, nil
}

// Valid reports whether t is part of the closed set.
func (t Template) Valid() bool {
	return Instruction(t) != ""
}

func (t Template) String() string {
	return string(t)
}

// Instruction returns the section and style rules embedded in the generation
// request for t. Every template in All() has an entry; adding a template
// means adding a case here.
func Instruction(t Template) string {
	switch t {
	case Business:
		return `Generate a high-end corporate business website. Include: Hero section with CTA, 'Our Services' grid, 'Our Team', 'Testimonials', and a detailed Footer. Style: Professional, blue/dark gray palette, sharp fonts. Return only HTML with internal <style> and <script> tags.`
	case Minimalist:
		return `Generate a minimalist design. If for a person, make it a sleek resume/portfolio. If for a business, make it an elegant "About Us" landing page. Include: Large typography, plenty of white space. Style: Monochrome, sans-serif fonts, very clean.`
	case Crypto:
		return `Generate a professional crypto platform. Include: Live-looking market tickers and a FULLY FUNCTIONAL JS CALCULATOR. The calculator MUST convert BTC, ETH, SOL, and USDT into USD, GBP (Pound), EUR (Euro), INR, and AED (UAE Dirham) and vice versa. Include sections for AML Policies and Privacy. Style: Dark mode, neon cyan/green accents.`
	case Ecommerce:
		return `Generate an e-commerce store with a marketplace-style layout. Include: Top search bar, category navigation menu, a 'Deals of the Day' section, and at least 8 product cards with 'Add to Cart' buttons. Include a 'User Admin' mock section where products could be managed. Style: Modern, clean, multi-colored accents.`
	case Chat:
		return `Generate a functional chat interface inspired by popular messaging apps. Include: Sidebar with 'Friend IDs', a main chat window with message bubbles, and a functional-looking input area. Use JS to make the chat feel interactive (adding bubbles when 'sending'). Include a 'Verify User' splash screen.`
	default:
		return ""
	}
}

// Describe returns the picker entry for t. The zero Entry is returned for
// templates outside the catalog.
func Describe(t Template) Entry {
	var name, desc string
	switch t {
	case Business:
		name, desc = "Business Website", "Corporate & professional sites."
	case Minimalist:
		name, desc = "Minimalist Design", "Clean, elegant personal sites."
	case Crypto:
		name, desc = "Crypto & Finance", "Charts, calculators & AML info."
	case Ecommerce:
		name, desc = "E-commerce Store", "Product grids & cart logic."
	case Chat:
		name, desc = "Social & Chat", "Interactive messaging UIs."
	default:
		return Entry{}
	}
	return Entry{Template: t, Name: name, Description: desc, Instruction: Instruction(t)}
}

// Entries returns Describe for every template, in display order.
func Entries() []Entry {
	all := All()
	out := make([]Entry, 0, len(all))
	for _, t := range all {
		out = append(out, Describe(t))
	}
	return out
}
