package engine

// TokenClass groups keypad tokens by the transition they trigger.
type TokenClass int

const (
	ClassUnknown TokenClass = iota
	ClassDigit
	ClassPoint
	ClassOperator
	ClassClear
	ClassPercent
	ClassSign
	ClassEquals
)

func (c TokenClass) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassPoint:
		return "point"
	case ClassOperator:
		return "operator"
	case ClassClear:
		return "clear"
	case ClassPercent:
		return "percent"
	case ClassSign:
		return "sign"
	case ClassEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Operator is the committed operator held between operands. The zero value
// means no operator has been pressed since start-up or the last clear.
type Operator string

const (
	OpNone     Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
	OpEquals   Operator = "="
)

// Binary reports whether o combines two operands.
func (o Operator) Binary() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

func (o Operator) valid() bool {
	return o == OpNone || o == OpEquals || o.Binary()
}

// Command tokens.
const (
	TokenPoint   = "."
	TokenClear   = "AC"
	TokenPercent = "%"
	TokenSign    = "+/-"
	TokenEquals  = "="
)

// keypad lists every recognised token in keypad layout order, row by row.
var keypad = []string{
	TokenClear, TokenSign, TokenPercent, "/",
	"7", "8", "9", "*",
	"4", "5", "6", "-",
	"1", "2", "3", "+",
	"0", TokenPoint, TokenEquals,
}

// Tokens returns the recognised token set in keypad layout order.
func Tokens() []string {
	out := make([]string, len(keypad))
	copy(out, keypad)
	return out
}

// Classify maps a raw token to its class. Anything outside the keypad is
// ClassUnknown.
func Classify(token string) TokenClass {
	switch token {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return ClassDigit
	case TokenPoint:
		return ClassPoint
	case string(OpAdd), string(OpSubtract), string(OpMultiply), string(OpDivide):
		return ClassOperator
	case TokenClear:
		return ClassClear
	case TokenPercent:
		return ClassPercent
	case TokenSign:
		return ClassSign
	case TokenEquals:
		return ClassEquals
	}
	return ClassUnknown
}
