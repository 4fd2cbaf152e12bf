/*
 * Tokenizer - lexical scanning of zonefile entries.
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
package zonefile

import (
	"errors"
	"strings"
)

// token is a word of an entry. start and end are byte offsets inside the
// entry text; quoted tokens keep their quotes.
type token struct {
	text   string
	start  int
	end    int
	quoted bool
}

// rawEntry is a group of source lines forming one logical entry.
type rawEntry struct {
	text   string
	line   int
	tokens []token
	// the entry starts with blank space, so the owner is inherited
	indented bool
}

// lexLine scans one source line. base is the offset of the line inside its
// entry, depth the number of open parentheses before the line. It returns
// the tokens and the depth after the line.
func lexLine(line string, base, depth int) ([]token, int, error) {
	tokens := []token{}
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ';':
			return tokens, depth, nil
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, depth, errors.New("unbalanced ')'")
			}
			i++
		case c == '"':
			j := i + 1
			closed := false
			for j < len(line) {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == '"' {
					closed = true
					break
				}
				j++
			}
			if !closed {
				return nil, depth, errors.New("unterminated quoted string")
			}
			tokens = append(tokens, token{text: line[i : j+1], start: base + i, end: base + j + 1, quoted: true})
			i = j + 1
		default:
			j := i
			for j < len(line) {
				d := line[j]
				if d == '\\' {
					j += 2
					continue
				}
				if d == ' ' || d == '\t' || d == '\r' || d == ';' || d == '(' || d == ')' || d == '"' {
					break
				}
				j++
			}
			if j > len(line) {
				j = len(line)
			}
			tokens = append(tokens, token{text: line[i:j], start: base + i, end: base + j})
			i = j
		}
	}
	return tokens, depth, nil
}

// splitEntries groups the lines of text into entries, joining lines inside
// parentheses. The returned flag is true when text ends with a newline.
func splitEntries(text string) ([]rawEntry, bool, error) {
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}
	entries := []rawEntry{}
	if text == "" && !trailing {
		return entries, false, nil
	}
	lines := strings.Split(text, "\n")

	var cur *rawEntry
	depth := 0
	for n, line := range lines {
		if cur == nil {
			cur = &rawEntry{
				line:     n + 1,
				indented: len(line) > 0 && (line[0] == ' ' || line[0] == '\t'),
			}
		} else {
			cur.text += "\n"
		}
		base := len(cur.text)
		cur.text += line
		toks, d, err := lexLine(line, base, depth)
		if err != nil {
			return nil, trailing, &ParseError{Line: n + 1, Reason: err.Error()}
		}
		cur.tokens = append(cur.tokens, toks...)
		depth = d
		if depth == 0 {
			entries = append(entries, *cur)
			cur = nil
		}
	}
	if cur != nil {
		return nil, trailing, &ParseError{Line: cur.line, Reason: "unterminated '('"}
	}
	return entries, trailing, nil
}
