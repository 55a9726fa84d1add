package css_parser

import (
	"fmt"
	"strings"

	"github.com/evanw/css21/internal/css_ast"
	"github.com/evanw/css21/internal/css_lexer"
)

// Reference: https://www.w3.org/TR/CSS21/media.html#media-types
//
// A media list is a comma-separated list of identifiers. Leading and
// trailing whitespace must already be trimmed. An empty list means "all".
func (p *parser) parseMediaList(tokens []css_ast.Token) ([]string, bool) {
	if len(tokens) == 0 {
		return []string{"all"}, true
	}

	media := []string{}
	for {
		t := tokens[0]
		if t.Kind != css_lexer.TIdent {
			p.errorAt(t, fmt.Sprintf("expected a media type, got %s", t.Kind))
			return nil, false
		}
		media = append(media, strings.ToLower(t.Text))
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return media, true
		}

		// Allow whitespace before the comma
		if tokens[0].Kind == css_lexer.TWhitespace && len(tokens) > 1 && tokens[1].Kind == css_lexer.TComma {
			tokens = tokens[1:]
		}

		comma := tokens[0]
		if comma.Kind != css_lexer.TComma {
			p.errorAt(comma, fmt.Sprintf("expected a comma, got %s", comma.Kind))
			return nil, false
		}
		tokens = tokens[1:]

		if len(tokens) > 0 && tokens[0].Kind == css_lexer.TWhitespace {
			tokens = tokens[1:]
		}
		if len(tokens) == 0 {
			p.errorAt(comma, "expected a media type")
			return nil, false
		}
	}
}

// Reference: https://www.w3.org/TR/CSS21/media.html#media-groups
var mediaTypesForGroup = map[css_ast.MediaGroup]map[string]bool{
	css_ast.MediaGroupVisual: {"handheld": true, "print": true, "projection": true, "screen": true, "tty": true, "tv": true},
	css_ast.MediaGroupAural:  {"aural": true, "speech": true},
	css_ast.MediaGroupPaged:  {"embossed": true, "handheld": true, "print": true, "projection": true, "tv": true},
}

var knownMediaTypes = map[string]bool{
	"all": true, "aural": true, "braille": true, "embossed": true, "handheld": true, "print": true,
	"projection": true, "screen": true, "speech": true, "tty": true, "tv": true,
}

// Warns about properties in an "@media" block that none of its media types
// can use, such as "azimuth" inside "@media screen". Media lists with an
// unknown media type are left alone.
func (p *parser) maybeWarnAboutMediaGroups(media []string, rules []css_ast.Rule) {
	for _, m := range media {
		if m == "all" || !knownMediaTypes[m] {
			return
		}
	}

	for _, rule := range rules {
		ruleset, ok := rule.Data.(*css_ast.RRuleset)
		if !ok {
			continue
		}
		for _, decl := range ruleset.Declarations {
			info, ok := css_ast.KnownDeclarations[decl.Name]
			if !ok {
				continue
			}
			applies := false
			for _, m := range media {
				if mediaTypesForGroup[info.Group][m] {
					applies = true
					break
				}
			}
			if !applies {
				p.log.AddWarning(&p.source, decl.Loc,
					fmt.Sprintf("%q has no effect in \"@media %s\"", decl.Name, strings.Join(media, ", ")))
			}
		}
	}
}
