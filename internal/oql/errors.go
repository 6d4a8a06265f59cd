/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package oql

import (
	oqlerrors "oql/internal/errors"
)

// Position-enriched error helpers. Every error raised against a query
// source carries the fragment starting at the offending position.

func errInvalidCharacter(source string, pos int) error {
	return oqlerrors.InvalidCharacter(rune(source[pos])).AtPosition(source, pos)
}

func errUnterminatedString(source string, pos int) error {
	return oqlerrors.UnterminatedString().AtPosition(source, pos)
}

func errUnterminatedQuotedIdent(source string, pos int) error {
	return oqlerrors.UnterminatedQuotedIdent().AtPosition(source, pos)
}

func errEmptyQuotedIdent(source string, pos int) error {
	return oqlerrors.NewLexicalError("empty quoted identifier").AtPosition(source, pos)
}

func errMalformedNumber(source string, pos int) error {
	return oqlerrors.MalformedNumber().AtPosition(source, pos)
}

func errEmptyParameterName(source string, pos int) error {
	return oqlerrors.EmptyParameterName().AtPosition(source, pos)
}

func errSyntax(source string, pos int, message string) error {
	return oqlerrors.NewSyntaxError(message).AtPosition(source, pos)
}

func errUnexpectedToken(source string, tok *Token) error {
	return oqlerrors.UnexpectedToken(tok.Text).AtPosition(source, tok.Pos)
}
