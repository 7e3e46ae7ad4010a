package parser

import (
	"go/scanner"
	"go/token"
)

// item is one lexical token of annotation text.
type item struct {
	tok token.Token
	lit string
	off int
}

func (it item) text() string {
	if it.lit != "" {
		return it.lit
	}
	return it.tok.String()
}

// lexError is the first scanner error inside annotation text.
type lexError struct {
	off int
	msg string
}

// lex splits src into Go tokens. Automatic semicolons are dropped and `>>`
// is split so nested generic arguments close one bracket at a time.
func lex(src string) ([]item, *lexError) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var first *lexError
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if first == nil {
			first = &lexError{off: pos.Offset, msg: msg}
		}
	}, 0)

	var items []item
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		off := file.Offset(pos)
		switch {
		case tok == token.SEMICOLON && lit == "\n":
			continue
		case tok == token.SHR:
			items = append(items, item{tok: token.GTR, off: off}, item{tok: token.GTR, off: off + 1})
			continue
		}
		items = append(items, item{tok: tok, lit: lit, off: off})
	}
	items = append(items, item{tok: token.EOF, off: len(src)})
	return items, first
}
