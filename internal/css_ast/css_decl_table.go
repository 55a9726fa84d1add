package css_ast

import (
	"sync"

	"github.com/evanw/css21/internal/helpers"
)

// The media groups a property applies to. Properties that apply to all
// visual media are not marked.
type MediaGroup uint8

const (
	MediaGroupVisual MediaGroup = iota
	MediaGroupAural
	MediaGroupPaged
)

type DeclarationInfo struct {
	Group MediaGroup
}

// The property index of CSS 2.1
var KnownDeclarations = map[string]DeclarationInfo{
	"azimuth":               {Group: MediaGroupAural},
	"background":            {},
	"background-attachment": {},
	"background-color":      {},
	"background-image":      {},
	"background-position":   {},
	"background-repeat":     {},
	"border":                {},
	"border-bottom":         {},
	"border-bottom-color":   {},
	"border-bottom-style":   {},
	"border-bottom-width":   {},
	"border-collapse":       {},
	"border-color":          {},
	"border-left":           {},
	"border-left-color":     {},
	"border-left-style":     {},
	"border-left-width":     {},
	"border-right":          {},
	"border-right-color":    {},
	"border-right-style":    {},
	"border-right-width":    {},
	"border-spacing":        {},
	"border-style":          {},
	"border-top":            {},
	"border-top-color":      {},
	"border-top-style":      {},
	"border-top-width":      {},
	"border-width":          {},
	"bottom":                {},
	"caption-side":          {},
	"clear":                 {},
	"clip":                  {},
	"color":                 {},
	"content":               {},
	"counter-increment":     {},
	"counter-reset":         {},
	"cue":                   {Group: MediaGroupAural},
	"cue-after":             {Group: MediaGroupAural},
	"cue-before":            {Group: MediaGroupAural},
	"cursor":                {},
	"direction":             {},
	"display":               {},
	"elevation":             {Group: MediaGroupAural},
	"empty-cells":           {},
	"float":                 {},
	"font":                  {},
	"font-family":           {},
	"font-size":             {},
	"font-style":            {},
	"font-variant":          {},
	"font-weight":           {},
	"height":                {},
	"left":                  {},
	"letter-spacing":        {},
	"line-height":           {},
	"list-style":            {},
	"list-style-image":      {},
	"list-style-position":   {},
	"list-style-type":       {},
	"margin":                {},
	"margin-bottom":         {},
	"margin-left":           {},
	"margin-right":          {},
	"margin-top":            {},
	"max-height":            {},
	"max-width":             {},
	"min-height":            {},
	"min-width":             {},
	"orphans":               {Group: MediaGroupPaged},
	"outline":               {},
	"outline-color":         {},
	"outline-style":         {},
	"outline-width":         {},
	"overflow":              {},
	"padding":               {},
	"padding-bottom":        {},
	"padding-left":          {},
	"padding-right":         {},
	"padding-top":           {},
	"page-break-after":      {Group: MediaGroupPaged},
	"page-break-before":     {Group: MediaGroupPaged},
	"page-break-inside":     {Group: MediaGroupPaged},
	"pause":                 {Group: MediaGroupAural},
	"pause-after":           {Group: MediaGroupAural},
	"pause-before":          {Group: MediaGroupAural},
	"pitch":                 {Group: MediaGroupAural},
	"pitch-range":           {Group: MediaGroupAural},
	"play-during":           {Group: MediaGroupAural},
	"position":              {},
	"quotes":                {},
	"richness":              {Group: MediaGroupAural},
	"right":                 {},
	"speak":                 {Group: MediaGroupAural},
	"speak-header":          {Group: MediaGroupAural},
	"speak-numeral":         {Group: MediaGroupAural},
	"speak-punctuation":     {Group: MediaGroupAural},
	"speech-rate":           {Group: MediaGroupAural},
	"stress":                {Group: MediaGroupAural},
	"table-layout":          {},
	"text-align":            {},
	"text-decoration":       {},
	"text-indent":           {},
	"text-transform":        {},
	"top":                   {},
	"unicode-bidi":          {},
	"vertical-align":        {},
	"visibility":            {},
	"voice-family":          {Group: MediaGroupAural},
	"volume":                {Group: MediaGroupAural},
	"white-space":           {},
	"widows":                {Group: MediaGroupPaged},
	"width":                 {},
	"word-spacing":          {},
	"z-index":               {},
}

var typoDetector *helpers.TypoDetector
var typoDetectorMutex sync.Mutex

func MaybeCorrectDeclarationTypo(text string) (string, bool) {
	typoDetectorMutex.Lock()
	defer typoDetectorMutex.Unlock()

	// Lazily-initialize the typo detector for speed when it's not needed
	if typoDetector == nil {
		valid := make([]string, 0, len(KnownDeclarations))
		for key := range KnownDeclarations {
			valid = append(valid, key)
		}
		detector := helpers.MakeTypoDetector(valid)
		typoDetector = &detector
	}

	return typoDetector.MaybeCorrectTypo(text)
}
