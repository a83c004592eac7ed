package diag

// LexerGroup is the one diagnostic group this pipeline allocates codes in.
// Downstream passes (parser, semantic analysis) are out of scope for this
// module and never allocate codes here.
const LexerGroup = "rebuild-lexer"

// DriverGroup holds the ambient driver's operational diagnostics (timing
// summaries). Kept out of LexerGroup so a lexical-diagnostic-only sink
// (e.g. a SARIF export filtered to LexerGroup) can ignore them cleanly.
const DriverGroup = "rebuild-driver"

var (
	InvalidEncoding     = Code{LexerGroup, 1}
	UnexpectedCharacter = Code{LexerGroup, 2}
	MixedIndentation    = Code{LexerGroup, 3}

	StringUnterminated     = Code{LexerGroup, 10}
	StringUnknownEscape    = Code{LexerGroup, 11}
	StringInvalidControl   = Code{LexerGroup, 12}
	StringInvalidDecimal   = Code{LexerGroup, 13}
	StringInvalidHex       = Code{LexerGroup, 14}

	NumberMissingExponent = Code{LexerGroup, 20}
	NumberMissingValue    = Code{LexerGroup, 21}
	NumberMissingBoundary = Code{LexerGroup, 22}

	OperatorWrongClose      = Code{LexerGroup, 30}
	OperatorUnexpectedClose = Code{LexerGroup, 31}
	OperatorNotClosed       = Code{LexerGroup, 32}

	// DriverTimings carries a JSON timing payload through the same sink
	// as lexical diagnostics (§10.1), rather than a separate side channel.
	DriverTimings = Code{DriverGroup, 1}
)

var codeTitles = map[Code]string{
	InvalidEncoding:     "Invalid UTF8 Encoding",
	UnexpectedCharacter: "Unexpected characters",
	MixedIndentation:    "Mixed Indentation Characters",

	StringUnterminated:   "Unexpected end of input",
	StringUnknownEscape:  "Unknown escape sequence",
	StringInvalidControl: "Unknown control characters",
	StringInvalidDecimal: "Invalid decimal unicode",
	StringInvalidHex:     "Invalid hexadecimal unicode",

	NumberMissingExponent: "Missing exponent value",
	NumberMissingValue:    "Missing value",
	NumberMissingBoundary: "Missing boundary",

	OperatorWrongClose:      "Operator wrong close",
	OperatorUnexpectedClose: "Operator unexpected close",
	OperatorNotClosed:       "Operator not closed",

	DriverTimings: "Pipeline timings",
}

// Title returns the short title used as an Explanation's header; empty for
// an unrecognized code.
func (c Code) Title() string { return codeTitles[c] }
