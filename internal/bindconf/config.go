/*
 * Config - statements of a named.conf file.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package bindconf

import "strings"

// Statement is a clause of the configuration: a keyword, its arguments and
// an optional block of nested statements.
type Statement struct {
	Keyword string
	Args    []string
	Block   []Statement
	// HasBlock distinguishes an empty block from no block at all.
	HasBlock bool
	Line     int
}

// Find returns the first nested statement with the given keyword.
func (s Statement) Find(keyword string) (Statement, bool) {
	for _, c := range s.Block {
		if strings.EqualFold(c.Keyword, keyword) {
			return c, true
		}
	}
	return Statement{}, false
}

// Value returns the first argument of the nested statement keyword.
func (s Statement) Value(keyword string) string {
	if c, ok := s.Find(keyword); ok && len(c.Args) > 0 {
		return c.Args[0]
	}
	return ""
}

// Parse reads the statements of a configuration file. include statements
// are returned as they are.
func Parse(text string) ([]Statement, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.statements(false)
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) lastLine() int {
	if len(p.toks) == 0 {
		return 1
	}
	return p.toks[len(p.toks)-1].line
}

// statements reads statements up to the end of the input, or up to the
// closing brace of the current block when nested.
func (p *parser) statements(nested bool) ([]Statement, error) {
	stmts := []Statement{}
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		switch t.kind {
		case tokenClose:
			if !nested {
				return nil, &SyntaxError{Line: t.line, Reason: "unexpected '}'"}
			}
			p.pos++
			return stmts, nil
		case tokenSemicolon:
			// empty statement
			p.pos++
			continue
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if nested {
		return nil, &SyntaxError{Line: p.lastLine(), Reason: "missing '}'"}
	}
	return stmts, nil
}

// statement reads one statement with its terminating semicolon.
func (p *parser) statement() (Statement, error) {
	first := p.toks[p.pos]
	if first.kind == tokenOpen {
		return Statement{}, &SyntaxError{Line: first.line, Reason: "unexpected '{'"}
	}
	s := Statement{Keyword: first.text, Line: first.line}
	p.pos++
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		switch t.kind {
		case tokenWord, tokenString:
			s.Args = append(s.Args, t.text)
			p.pos++
		case tokenOpen:
			p.pos++
			block, err := p.statements(true)
			if err != nil {
				return Statement{}, err
			}
			s.Block = append(s.Block, block...)
			s.HasBlock = true
		case tokenSemicolon:
			p.pos++
			return s, nil
		case tokenClose:
			return Statement{}, &SyntaxError{Line: t.line, Reason: "missing ';' before '}'"}
		}
	}
	return Statement{}, &SyntaxError{Line: p.lastLine(), Reason: "missing ';' at end of input"}
}
