/*
 * Lexer - tokens of the named.conf grammar.
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

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenString
	tokenOpen
	tokenClose
	tokenSemicolon
)

type token struct {
	kind tokenKind
	text string
	line int
}

// SyntaxError reports malformed configuration text.
type SyntaxError struct {
	File   string
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("syntax error in %s at line %d: %s", e.File, e.Line, e.Reason)
}

// lex splits text into tokens. Comments in the #, // and /* */ forms are
// dropped.
func lex(text string) ([]token, error) {
	var toks []token
	line := 1
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#' || (c == '/' && i+1 < len(text) && text[i+1] == '/'):
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return nil, &SyntaxError{Line: line, Reason: "unterminated comment"}
			}
			line += strings.Count(text[i:i+2+end], "\n")
			i += end + 4
		case c == '"':
			start := line
			var sb strings.Builder
			i++
			for ; i < len(text) && text[i] != '"'; i++ {
				if text[i] == '\\' && i+1 < len(text) {
					i++
				}
				if text[i] == '\n' {
					line++
				}
				sb.WriteByte(text[i])
			}
			if i >= len(text) {
				return nil, &SyntaxError{Line: start, Reason: "unterminated string"}
			}
			i++
			toks = append(toks, token{kind: tokenString, text: sb.String(), line: start})
		case c == '{':
			toks = append(toks, token{kind: tokenOpen, text: "{", line: line})
			i++
		case c == '}':
			toks = append(toks, token{kind: tokenClose, text: "}", line: line})
			i++
		case c == ';':
			toks = append(toks, token{kind: tokenSemicolon, text: ";", line: line})
			i++
		default:
			start := i
			for i < len(text) && !strings.ContainsRune(" \t\r\n{};\"#", rune(text[i])) {
				if text[i] == '/' && i+1 < len(text) && (text[i+1] == '/' || text[i+1] == '*') {
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokenWord, text: text[start:i], line: line})
		}
	}
	return toks, nil
}
