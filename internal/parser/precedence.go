package parser

import "github.com/cwbudde/simple-lang/pkg/token"

// Precedence levels from spec.md §4.2, lowest to highest. Prefix unary
// operators are handled structurally; postfix call, index, member and
// ++/-- go through the infix table at precPostfix.
const (
	_ int = iota
	precLowest
	precAssign  // = += -= *= /= %= &= |= ^= <<= >>=  (right-assoc)
	precOrOr    // ||
	precAndAnd  // &&
	precBitOr   // |
	precBitXor  // ^
	precBitAnd  // &
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var precedences = map[token.Type]int{
	token.ASSIGN:       precAssign,
	token.PLUS_ASSIGN:  precAssign,
	token.MINUS_ASSIGN: precAssign,
	token.STAR_ASSIGN:  precAssign,
	token.SLASH_ASSIGN: precAssign,
	token.PCT_ASSIGN:   precAssign,
	token.AMP_ASSIGN:   precAssign,
	token.PIPE_ASSIGN:  precAssign,
	token.CARET_ASSIGN: precAssign,
	token.SHL_ASSIGN:   precAssign,
	token.SHR_ASSIGN:   precAssign,

	token.OR_OR:   precOrOr,
	token.AND_AND: precAndAnd,
	token.PIPE:    precBitOr,
	token.CARET:   precBitXor,
	token.AMP:     precBitAnd,

	token.EQ:  precEquality,
	token.NEQ: precEquality,

	token.LT: precRelational,
	token.LE: precRelational,
	token.GT: precRelational,
	token.GE: precRelational,

	token.SHL: precShift,
	token.SHR: precShift,

	token.PLUS:  precAdditive,
	token.MINUS: precAdditive,

	token.STAR:    precMultiplicative,
	token.SLASH:   precMultiplicative,
	token.PERCENT: precMultiplicative,

	token.LPAREN: precPostfix, // call
	token.LBRACK: precPostfix, // index
	token.DOT:    precPostfix, // member
	token.INC:    precPostfix, // postfix ++
	token.DEC:    precPostfix, // postfix --
}

// assignOps is the closed set of assignment-family operator spellings.
var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PCT_ASSIGN: true,
	token.AMP_ASSIGN: true, token.PIPE_ASSIGN: true, token.CARET_ASSIGN: true,
	token.SHL_ASSIGN: true, token.SHR_ASSIGN: true,
}

func peekPrecedence(t token.Type) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return precLowest
}
