package codec

import "errors"

// SchemaVersion identifies the binary layout. It must be incremented
// whenever a tag value or the order of a frequency table changes.
const SchemaVersion = 1

// null terminates a node and stands for an empty slot in a child list.
const null byte = 0x00

// Node kind tags.
const (
	valueNode byte = iota + 1
	rawNode
	parameterListNode
	listItemNode
	listNode
	variableNode
	operatorNode
	parenthesisNode
	typeSelectorNode
	idSelectorNode
	classSelectorNode
	attributeSelectorNode
	pseudoClassSelectorNode
	selectorCombinatorNode
	complexSelectorNode
	selectorListNode
	modifierNode
	modifierListNode
	vendorSelectorNode
	preProcessorCommentNode
)

// Property tags. A frequent tag is followed by a one byte index into the
// frequency table of its context instead of a string.
const (
	startProp byte = iota + 1
	endProp
	valueProp
	frequentValueProp
	nameProp
	frequentNameProp
	operatorProp
	frequentOperatorProp
	flagProp
	typeProp
	separatorProp
	frequentSeparatorProp
	exceptionProp
	childrenProp
	leftProp
	rightProp
	expressionProp
	argumentProp
	selectorProp
	modifiersProp
	paramsProp
)

// Decoding errors.
var (
	ErrUnknownNodeKind      = errors.New("unknown node kind")
	ErrUnknownPropertyTag   = errors.New("unknown property tag")
	ErrUnexpectedEOF        = errors.New("unexpected end of data")
	ErrInvalidFrequentValue = errors.New("invalid frequent value")
	ErrTrailingData         = errors.New("trailing data after node")
)

// frequencyTable maps common strings of one context to one byte indexes.
type frequencyTable struct {
	values []string
	index  map[string]byte
}

func newFrequencyTable(values ...string) *frequencyTable {
	if len(values) > 256 {
		panic("codec: frequency table too large")
	}
	return &frequencyTable{values: values}
}

// build fills the reverse index.
func (t *frequencyTable) build() {
	t.index = make(map[string]byte, len(t.values))
	for i, v := range t.values {
		if _, ok := t.index[v]; ok {
			panic("codec: duplicate frequency table value " + v)
		}
		t.index[v] = byte(i)
	}
}

// lookup returns the index of s.
func (t *frequencyTable) lookup(s string) (byte, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[s]
	return i, ok
}

// value returns the string at index i.
func (t *frequencyTable) value(i byte) (string, bool) {
	if t == nil || int(i) >= len(t.values) {
		return "", false
	}
	return t.values[i], true
}

// Frequency tables. Append only; reordering requires a new SchemaVersion.
var (
	platforms = newFrequencyTable(
		"adguard",
		"adguard_app_windows",
		"adguard_app_mac",
		"adguard_app_android",
		"adguard_app_ios",
		"adguard_app_cli",
		"adguard_ext_safari",
		"adguard_ext_android_cb",
		"adguard_ext_chromium",
		"adguard_ext_chromium_mv3",
		"adguard_ext_firefox",
		"adguard_ext_edge",
		"adguard_ext_opera",
		"adguard_ext_content_blocker",
		"ext_abp",
		"ext_ublock",
		"ext_ubo",
		"env_chromium",
		"env_edge",
		"env_firefox",
		"env_mobile",
		"env_safari",
		"env_mv3",
		"cap_html_filtering",
		"cap_replace_modifier",
		"cap_user_stylesheet",
		"false",
		"true",
	)

	operators = newFrequencyTable("!", "&&", "||")

	directives = newFrequencyTable("if", "else", "endif", "include", "safari_cb_affinity")

	combinators = newFrequencyTable(" ", ">", "+", "~")

	attributeOperators = newFrequencyTable("=", "~=", "^=", "$=", "*=", "|=")

	pseudoClasses = newFrequencyTable(
		"not",
		"has",
		"is",
		"where",
		"contains",
		"has-text",
		"matches-css",
		"matches-css-before",
		"matches-css-after",
		"matches-attr",
		"matches-property",
		"xpath",
		"nth-ancestor",
		"upward",
		"remove",
		"watch-attr",
		"min-text-length",
		"if",
		"if-not",
		"-abp-has",
		"-abp-contains",
		"-abp-properties",
		"first-child",
		"last-child",
		"nth-child",
		"nth-of-type",
		"only-child",
		"empty",
		"hover",
		"visible",
		"others",
	)

	vendorModifiers = newFrequencyTable("style", "remove", "matches-path", "matches-media")

	networkModifiers = newFrequencyTable(
		"third-party",
		"3p",
		"first-party",
		"1p",
		"domain",
		"script",
		"image",
		"stylesheet",
		"xmlhttprequest",
		"xhr",
		"subdocument",
		"frame",
		"document",
		"doc",
		"popup",
		"websocket",
		"media",
		"font",
		"object",
		"other",
		"ping",
		"all",
		"important",
		"match-case",
		"badfilter",
		"redirect",
		"redirect-rule",
		"removeparam",
		"removeheader",
		"csp",
		"replace",
		"denyallow",
		"header",
		"method",
		"app",
		"stealth",
		"cookie",
		"elemhide",
		"ehide",
		"generichide",
		"ghide",
		"specifichide",
		"shide",
		"content",
		"jsinject",
		"urlblock",
		"genericblock",
		"network",
		"permissions",
		"to",
	)

	separators = newFrequencyTable(",", "|")
)

func init() {
	for _, t := range []*frequencyTable{
		platforms,
		operators,
		directives,
		combinators,
		attributeOperators,
		pseudoClasses,
		vendorModifiers,
		networkModifiers,
		separators,
	} {
		t.build()
	}
}
