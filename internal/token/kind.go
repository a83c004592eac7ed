// Package token defines the flat token representation shared by the
// scanner, filter, and nesting stages of the lexical pipeline.
package token

// Kind tags the variant a Token represents. Unlike a keyword-heavy
// language, Rebuild's lexical surface carries no reserved words: the
// identifier "end" is ordinary at the Kind level and is only
// reinterpreted by the filter stage in block-terminating position.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	// Significant lexical tokens (scanner, survive the filter).
	Ident
	Number
	String
	Operator
	Colon
	Comma
	Semicolon
	SquareOpen
	SquareClose
	BracketOpen
	BracketClose

	// Insignificant lexical tokens (scanner; consumed or carried as
	// insignificants by later stages).
	Whitespace
	Newline
	Comment

	// Lexical error tokens.
	InvalidEncoding
	UnexpectedCharacter

	// Rewritten tokens introduced by the filter.
	BlockStartColon
	BlockEndIdentifier

	// Structural insignificants introduced by nesting.
	UnexpectedIndent
	UnexpectedTokensAfterEnd
	UnexpectedBlockEnd
	MissingBlockEnd
	MisIndentedBlockEnd

	// Structural container introduced by nesting.
	BlockLiteral
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case String:
		return "String"
	case Operator:
		return "Operator"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case Semicolon:
		return "Semicolon"
	case SquareOpen:
		return "SquareOpen"
	case SquareClose:
		return "SquareClose"
	case BracketOpen:
		return "BracketOpen"
	case BracketClose:
		return "BracketClose"
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Newline"
	case Comment:
		return "Comment"
	case InvalidEncoding:
		return "InvalidEncoding"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case BlockStartColon:
		return "BlockStartColon"
	case BlockEndIdentifier:
		return "BlockEndIdentifier"
	case UnexpectedIndent:
		return "UnexpectedIndent"
	case UnexpectedTokensAfterEnd:
		return "UnexpectedTokensAfterEnd"
	case UnexpectedBlockEnd:
		return "UnexpectedBlockEnd"
	case MissingBlockEnd:
		return "MissingBlockEnd"
	case MisIndentedBlockEnd:
		return "MisIndentedBlockEnd"
	case BlockLiteral:
		return "BlockLiteral"
	default:
		return "Unknown"
	}
}

// IsSignificant reports whether tokens of this kind belong in a
// BlockLine's Tokens slice rather than its Insignificants slice.
func (k Kind) IsSignificant() bool {
	switch k {
	case Ident, Number, String, Operator, Colon, Comma, Semicolon,
		SquareOpen, SquareClose, BracketOpen, BracketClose,
		BlockStartColon, BlockLiteral:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token carries a literal value.
func (k Kind) IsLiteral() bool {
	switch k {
	case Ident, Number, String:
		return true
	default:
		return false
	}
}

// ErrorKind enumerates every per-token error this pipeline can attach.
// It is intentionally flat (not nested per lexical category) so the
// reporter can group markers purely by ErrorKind regardless of which
// token variant carries them.
type ErrorKind uint8

const (
	ErrNone ErrorKind = iota

	// Byte-level.
	ErrDecodedErrorPosition
	ErrMixedIndentCharacter
	ErrUnexpectedCharacter

	// String literal errors.
	ErrStringEndOfInput
	ErrStringInvalidEncoding
	ErrStringInvalidEscape
	ErrStringInvalidControl
	ErrStringInvalidDecimalUnicode
	ErrStringInvalidHexUnicode

	// Number literal errors.
	ErrNumberMissingExponent
	ErrNumberMissingValue
	ErrNumberMissingBoundary

	// Operator run errors.
	ErrOperatorWrongClose
	ErrOperatorUnexpectedClose
	ErrOperatorNotClosed
)

func (e ErrorKind) String() string {
	switch e {
	case ErrNone:
		return "None"
	case ErrDecodedErrorPosition:
		return "DecodedErrorPosition"
	case ErrMixedIndentCharacter:
		return "MixedIndentCharacter"
	case ErrUnexpectedCharacter:
		return "UnexpectedCharacter"
	case ErrStringEndOfInput:
		return "EndOfInput"
	case ErrStringInvalidEncoding:
		return "InvalidEncoding"
	case ErrStringInvalidEscape:
		return "InvalidEscape"
	case ErrStringInvalidControl:
		return "InvalidControl"
	case ErrStringInvalidDecimalUnicode:
		return "InvalidDecimalUnicode"
	case ErrStringInvalidHexUnicode:
		return "InvalidHexUnicode"
	case ErrNumberMissingExponent:
		return "NumberMissingExponent"
	case ErrNumberMissingValue:
		return "NumberMissingValue"
	case ErrNumberMissingBoundary:
		return "NumberMissingBoundary"
	case ErrOperatorWrongClose:
		return "OperatorWrongClose"
	case ErrOperatorUnexpectedClose:
		return "OperatorUnexpectedClose"
	case ErrOperatorNotClosed:
		return "OperatorNotClosed"
	default:
		return "Unknown"
	}
}
