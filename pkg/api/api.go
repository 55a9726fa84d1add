// This package is the public interface to the parser. Every function here is
// pure: it reads nothing but its arguments, shares no state with other calls,
// and is safe to call from multiple goroutines at once.
//
// Results carry "json" and "yaml" struct tags so they can be dumped directly.
package api

// Settings shared by every entry point
type ParseOptions struct {
	// The maximum number of blocks that may be open at once. Zero means 256.
	MaxNestingDepth int

	// The name used for the file in warnings. Defaults to "<stdin>".
	Sourcefile string
}

type Message struct {
	Text   string `json:"message" yaml:"message"`
	Line   int    `json:"line" yaml:"line"`     // 1-based
	Column int    `json:"column" yaml:"column"` // 1-based, in code points
}

// Returns "Parse error at <line>:<column>, <message>"
func (msg Message) String() string {
	return messageString(msg)
}

// A "{", "(", "[", or function token has children. The closing token of a
// block is implicit.
type Token struct {
	// The name of the token kind in the CSS 2.1 core grammar, such as "IDENT",
	// "DIMENSION", or "{"
	Kind string `json:"kind" yaml:"kind"`

	// The decoded text. For functions this is the name without the "(". For
	// strings and URIs this is the contents without quotes.
	Value string `json:"value" yaml:"value"`

	// Only for numbers, integers, dimensions, and percentages
	Number *float64 `json:"number,omitempty" yaml:"number,omitempty"`

	// Only for dimensions and percentages
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`

	Children []Token `json:"children,omitempty" yaml:"children,omitempty"`
}

type Declaration struct {
	// Always lowercase
	Name string `json:"name" yaml:"name"`

	Value     []Token `json:"value" yaml:"value"`
	ValueText string  `json:"value_text" yaml:"value_text"`

	// Either "important" or empty
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`

	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

type RuleType string

const (
	RuleRuleset RuleType = "ruleset"
	RuleImport  RuleType = "@import"
	RuleMedia   RuleType = "@media"
	RulePage    RuleType = "@page"
)

// Which fields are set depends on the type
type Rule struct {
	Type   RuleType `json:"type" yaml:"type"`
	Line   int      `json:"line" yaml:"line"`
	Column int      `json:"column" yaml:"column"`

	// Rulesets
	Selector     []Token `json:"selector,omitempty" yaml:"selector,omitempty"`
	SelectorText string  `json:"selector_text,omitempty" yaml:"selector_text,omitempty"`

	// "@import"
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// "@import" and "@media"
	Media []string `json:"media,omitempty" yaml:"media,omitempty"`

	// "@page". The selector is "first", "left", "right", or empty.
	PageSelector string  `json:"page_selector,omitempty" yaml:"page_selector,omitempty"`
	Specificity  *[2]int `json:"specificity,omitempty" yaml:"specificity,omitempty"`

	// Rulesets and "@page"
	Declarations []Declaration `json:"declarations,omitempty" yaml:"declarations,omitempty"`

	// "@media"
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type Stylesheet struct {
	Charset  string    `json:"charset,omitempty" yaml:"charset,omitempty"`
	Rules    []Rule    `json:"rules" yaml:"rules"`
	Errors   []Message `json:"errors" yaml:"errors"`
	Warnings []Message `json:"warnings" yaml:"warnings"`
}

////////////////////////////////////////////////////////////////////////////////
// Parse API

func ParseStylesheet(text string, options ParseOptions) Stylesheet {
	return parseStylesheetImpl(text, options)
}

// Parses the contents of an HTML "style" attribute. At-rules are not allowed.
func ParseStyleAttr(text string, options ParseOptions) ([]Declaration, []Message) {
	return parseStyleAttrImpl(text, options)
}

// Returns the grouped token tree without interpreting it
func Tokenize(text string, options ParseOptions) ([]Token, []Message) {
	return tokenizeImpl(text, options)
}

////////////////////////////////////////////////////////////////////////////////
// Format API

type FormatOptions struct {
	ParseOptions

	MinifyWhitespace bool
	ASCIIOnly        bool
}

type FormatResult struct {
	Code     string
	Errors   []Message
	Warnings []Message
}

// Re-serializes a stylesheet. Comments and everything that had a parse error
// are not part of the output.
func Format(text string, options FormatOptions) FormatResult {
	return formatImpl(text, options)
}
