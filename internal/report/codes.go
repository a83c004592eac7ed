package report

import (
	"rebuild/internal/diag"
	"rebuild/internal/token"
)

// explanationText names, for each ErrorKind the reporter groups
// markers by, the diagnostic code to emit and the title/body copy for
// a single occurrence and for two-or-more occurrences folded into the
// same excerpt.
type explanationText struct {
	code   diag.Code
	title  string
	single string
	plural string
}

var explanations = map[token.ErrorKind]explanationText{
	token.ErrDecodedErrorPosition: {
		code:   diag.InvalidEncoding,
		title:  "Invalid UTF-8 encoding",
		single: "The UTF-8 decoder encountered an invalid encoding.",
		plural: "The UTF-8 decoder encountered multiple invalid encodings.",
	},
	token.ErrStringInvalidEncoding: {
		code:   diag.InvalidEncoding,
		title:  "Invalid UTF-8 encoding",
		single: "The UTF-8 decoder encountered an invalid encoding inside this string literal.",
		plural: "The UTF-8 decoder encountered multiple invalid encodings inside this string literal.",
	},
	token.ErrMixedIndentCharacter: {
		code:   diag.MixedIndentation,
		title:  "Mixed indentation characters",
		single: "The indentation mixes tabs and spaces.",
		plural: "The indentation mixes tabs and spaces.",
	},
	token.ErrUnexpectedCharacter: {
		code:   diag.UnexpectedCharacter,
		title:  "Unexpected characters",
		single: "The tokenizer encountered a character that is not part of any Rebuild language token.",
		plural: "The tokenizer encountered characters that are not part of any Rebuild language token.",
	},
	token.ErrStringEndOfInput: {
		code:   diag.StringUnterminated,
		title:  "Unterminated string literal",
		single: "The string was not terminated before the end of the line.",
		plural: "The string was not terminated before the end of the line.",
	},
	token.ErrStringInvalidEscape: {
		code:   diag.StringUnknownEscape,
		title:  "Unknown escape sequence",
		single: "This escape sequence is unknown.",
		plural: "These escape sequences are unknown.",
	},
	token.ErrStringInvalidControl: {
		code:   diag.StringInvalidControl,
		title:  "Unescaped control character",
		single: "Use of an invalid control character. Use an escape sequence instead.",
		plural: "Use of invalid control characters. Use escape sequences instead.",
	},
	token.ErrStringInvalidDecimalUnicode: {
		code:   diag.StringInvalidDecimal,
		title:  "Invalid decimal unicode escape",
		single: "Use of an invalid decimal unicode value.",
		plural: "Use of invalid decimal unicode values.",
	},
	token.ErrStringInvalidHexUnicode: {
		code:   diag.StringInvalidHex,
		title:  "Invalid hexadecimal escape",
		single: "Use of an invalid hexadecimal value.",
		plural: "Use of invalid hexadecimal values.",
	},
	token.ErrNumberMissingExponent: {
		code:   diag.NumberMissingExponent,
		title:  "Missing exponent value",
		single: "After the exponent sign an actual value is expected.",
		plural: "After the exponent sign an actual value is expected.",
	},
	token.ErrNumberMissingValue: {
		code:   diag.NumberMissingValue,
		title:  "Missing value",
		single: "After the radix sign an actual value is expected.",
		plural: "After the radix sign an actual value is expected.",
	},
	token.ErrNumberMissingBoundary: {
		code:   diag.NumberMissingBoundary,
		title:  "Missing boundary",
		single: "The number literal ends with an unknown suffix.",
		plural: "The number literal ends with an unknown suffix.",
	},
	token.ErrOperatorWrongClose: {
		code:   diag.OperatorWrongClose,
		title:  "Wrong closing bracket",
		single: "The closing sign does not match the opening sign.",
		plural: "The closing signs do not match the opening signs.",
	},
	token.ErrOperatorUnexpectedClose: {
		code:   diag.OperatorUnexpectedClose,
		title:  "Unexpected closing bracket",
		single: "There was no opening sign before the closing sign.",
		plural: "There was no opening sign before the closing signs.",
	},
	token.ErrOperatorNotClosed: {
		code:   diag.OperatorNotClosed,
		title:  "Operator run not closed",
		single: "The operator ends before the closing sign was found.",
		plural: "The operators end before the closing signs were found.",
	},
}
