package parser

import "strings"

// tokenKind enumerates lexical token kinds.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokColon
	tokSemi
	tokComma
	tokDot
	tokMinus
	tokGT
	tokLT
	tokGE
	tokLE
	tokEQ
	tokNE

	// Keywords. Matched case-insensitively against identifiers.
	tokPhenotype
	tokVersion
	tokDescription
	tokDataModel
	tokInclude
	tokCalled
	tokCodeSystem
	tokTermSet
	tokDocumentSet
	tokCohort
	tokContext
	tokDefine
	tokFinal
	tokWhere
	tokAnd
	tokOr
	tokNot
	tokTrue
	tokFalse
	tokDebug
	tokLimit
)

var keywords = map[string]tokenKind{
	"phenotype":   tokPhenotype,
	"version":     tokVersion,
	"description": tokDescription,
	"datamodel":   tokDataModel,
	"include":     tokInclude,
	"called":      tokCalled,
	"codesystem":  tokCodeSystem,
	"termset":     tokTermSet,
	"documentset": tokDocumentSet,
	"cohort":      tokCohort,
	"context":     tokContext,
	"define":      tokDefine,
	"final":       tokFinal,
	"where":       tokWhere,
	"and":         tokAnd,
	"or":          tokOr,
	"not":         tokNot,
	"true":        tokTrue,
	"false":       tokFalse,
	"debug":       tokDebug,
	"limit":       tokLimit,
}

// token is one lexical token with its source position.
type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// describe renders the token for error messages.
func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string " + t.text
	default:
		return "'" + t.text + "'"
	}
}

// keywordKind returns the keyword kind of an identifier, or tokIdent.
func keywordKind(text string) tokenKind {
	if k, ok := keywords[strings.ToLower(text)]; ok {
		return k
	}
	return tokIdent
}
