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

/*
Package errors provides comprehensive error handling for the OQL engine.

The errors package implements a structured error system with:
  - Error categories (Lexical, Syntax, Bind, Schema, Statement)
  - Error codes for programmatic handling
  - User-friendly error messages
  - Source-position context pointing at the offending query fragment
  - Error wrapping for root cause analysis

Error Categories:
  - LexicalError: malformed tokens in the query source
  - SyntaxError: structural violations, including unknown entities,
    unknown properties, and clause-ordering mistakes
  - BindError: parameter-binding problems
  - SchemaError: schema registry misuse outside of a parse
  - StatementError: prepared-statement registry misuse

Position Context:
=================

Every error raised against a query source carries a fragment of the source
starting at the offending position:

	near `flags ?? 12` in query `FROM User WHERE flags ?? 12`

The fragment is attached with AtPosition and rendered as part of Error().
*/
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Lexical errors (1000-1999)
	ErrCodeLexical            ErrorCode = 1000
	ErrCodeInvalidCharacter   ErrorCode = 1001
	ErrCodeUnterminatedString ErrorCode = 1002
	ErrCodeUnterminatedIdent  ErrorCode = 1003
	ErrCodeMalformedNumber    ErrorCode = 1004
	ErrCodeEmptyParameter     ErrorCode = 1005

	// Syntax errors (2000-2999)
	ErrCodeSyntax            ErrorCode = 2000
	ErrCodeMissingClause     ErrorCode = 2001
	ErrCodeMisplacedClause   ErrorCode = 2002
	ErrCodeUnknownEntity     ErrorCode = 2003
	ErrCodeUnknownProperty   ErrorCode = 2004
	ErrCodeUnexpectedToken   ErrorCode = 2005
	ErrCodeOperandExpected   ErrorCode = 2006
	ErrCodeMismatchedBracket ErrorCode = 2007
	ErrCodeUnsupported       ErrorCode = 2008

	// Bind errors (3000-3999)
	ErrCodeBind             ErrorCode = 3000
	ErrCodeUnknownParameter ErrorCode = 3001
	ErrCodeUnboundParameter ErrorCode = 3002

	// Schema errors (4000-4999)
	ErrCodeSchema          ErrorCode = 4000
	ErrCodeDuplicateEntity ErrorCode = 4001

	// Statement registry errors (5000-5999)
	ErrCodeStatement         ErrorCode = 5000
	ErrCodeStatementExists   ErrorCode = 5001
	ErrCodeStatementNotFound ErrorCode = 5002
)

// Category represents the error category.
type Category string

const (
	CategoryLexical   Category = "LEXICAL"
	CategorySyntax    Category = "SYNTAX"
	CategoryBind      Category = "BIND"
	CategorySchema    Category = "SCHEMA"
	CategoryStatement Category = "STATEMENT"
)

// QueryError represents a structured error in the OQL engine.
type QueryError struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Pos      int
	Cause    error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message.
func (e *QueryError) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *QueryError) WithDetail(detail string) *QueryError {
	e.Detail = detail
	return e
}

// WithHint adds a hint to the error.
func (e *QueryError) WithHint(hint string) *QueryError {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *QueryError) WithCause(cause error) *QueryError {
	e.Cause = cause
	return e
}

// AtPosition attaches the source fragment starting at the offending
// position. The fragment replaces any previous detail.
func (e *QueryError) AtPosition(source string, pos int) *QueryError {
	if pos < 0 {
		pos = 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	e.Pos = pos
	e.Detail = fmt.Sprintf("near `%s` in query `%s`", source[pos:], source)
	return e
}

// ============================================================================
// Lexical Error Constructors
// ============================================================================

// NewLexicalError creates a new lexical error.
func NewLexicalError(message string) *QueryError {
	return &QueryError{
		Code:     ErrCodeLexical,
		Category: CategoryLexical,
		Message:  message,
	}
}

// InvalidCharacter creates an error for characters outside the lexical grammar.
func InvalidCharacter(ch rune) *QueryError {
	return &QueryError{
		Code:     ErrCodeInvalidCharacter,
		Category: CategoryLexical,
		Message:  fmt.Sprintf("invalid character %q in query", ch),
	}
}

// UnterminatedString creates an error for string literals missing the closing quote.
func UnterminatedString() *QueryError {
	return &QueryError{
		Code:     ErrCodeUnterminatedString,
		Category: CategoryLexical,
		Message:  "unterminated string literal",
		Hint:     "String literals are delimited by single quotes",
	}
}

// UnterminatedQuotedIdent creates an error for back-tick identifiers missing the closing tick.
func UnterminatedQuotedIdent() *QueryError {
	return &QueryError{
		Code:     ErrCodeUnterminatedIdent,
		Category: CategoryLexical,
		Message:  "unterminated quoted identifier",
		Hint:     "Quoted identifiers need both opening and closing back-ticks",
	}
}

// MalformedNumber creates an error for numeric literals that violate the grammar.
func MalformedNumber() *QueryError {
	return &QueryError{
		Code:     ErrCodeMalformedNumber,
		Category: CategoryLexical,
		Message:  "malformed numeric literal",
	}
}

// EmptyParameterName creates an error for a ':' not followed by a parameter name.
func EmptyParameterName() *QueryError {
	return &QueryError{
		Code:     ErrCodeEmptyParameter,
		Category: CategoryLexical,
		Message:  "empty parameter name after ':'",
		Hint:     "Parameter names start with a letter or underscore",
	}
}

// ============================================================================
// Syntax Error Constructors
// ============================================================================

// NewSyntaxError creates a new syntax error.
func NewSyntaxError(message string) *QueryError {
	return &QueryError{
		Code:     ErrCodeSyntax,
		Category: CategorySyntax,
		Message:  message,
	}
}

// MissingClause creates an error for a required clause that is absent.
func MissingClause(clause string) *QueryError {
	return &QueryError{
		Code:     ErrCodeMissingClause,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("missing %s clause", clause),
	}
}

// MisplacedClause creates an error for clauses in the wrong relative order.
func MisplacedClause(clause, constraint string) *QueryError {
	return &QueryError{
		Code:     ErrCodeMisplacedClause,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("%s clause %s", clause, constraint),
	}
}

// UnknownEntity creates an error for entity names absent from the schema.
func UnknownEntity(name string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnknownEntity,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("unknown entity: %s", name),
	}
}

// UnknownProperty creates an error for property names absent from an entity.
func UnknownProperty(property, entity string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnknownProperty,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("entity %s has no property %s", entity, property),
	}
}

// UnexpectedToken creates an error for tokens that do not fit the grammar.
func UnexpectedToken(got string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnexpectedToken,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("unexpected token: %s", got),
	}
}

// OperandExpected creates an error for operators missing an operand.
func OperandExpected(op string) *QueryError {
	return &QueryError{
		Code:     ErrCodeOperandExpected,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("operand expected for operator %s", op),
	}
}

// MismatchedBracket creates an error for unbalanced brackets.
func MismatchedBracket() *QueryError {
	return &QueryError{
		Code:     ErrCodeMismatchedBracket,
		Category: CategorySyntax,
		Message:  "mismatched brackets in expression",
	}
}

// Unsupported creates an error for recognized but unimplemented constructs.
func Unsupported(construct string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnsupported,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("%s is not supported", construct),
	}
}

// ============================================================================
// Bind Error Constructors
// ============================================================================

// NewBindError creates a new bind error.
func NewBindError(message string) *QueryError {
	return &QueryError{
		Code:     ErrCodeBind,
		Category: CategoryBind,
		Message:  message,
	}
}

// UnknownParameter creates an error for binding a name the query does not contain.
func UnknownParameter(name string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnknownParameter,
		Category: CategoryBind,
		Message:  fmt.Sprintf("query has no parameter :%s", name),
	}
}

// UnboundParameters creates an error listing parameters still missing values.
func UnboundParameters(names []string) *QueryError {
	return &QueryError{
		Code:     ErrCodeUnboundParameter,
		Category: CategoryBind,
		Message:  fmt.Sprintf("unbound parameters: %s", strings.Join(names, ", ")),
		Hint:     "Call Set for every named parameter before applying values",
	}
}

// ============================================================================
// Schema Error Constructors
// ============================================================================

// NewSchemaError creates a new schema error.
func NewSchemaError(message string) *QueryError {
	return &QueryError{
		Code:     ErrCodeSchema,
		Category: CategorySchema,
		Message:  message,
	}
}

// DuplicateEntity creates an error for registering the same entity twice.
func DuplicateEntity(name string) *QueryError {
	return &QueryError{
		Code:     ErrCodeDuplicateEntity,
		Category: CategorySchema,
		Message:  fmt.Sprintf("entity already registered: %s", name),
	}
}

// ============================================================================
// Statement Registry Error Constructors
// ============================================================================

// StatementAlreadyExists creates an error for duplicate prepared-statement names.
func StatementAlreadyExists(name string) *QueryError {
	return &QueryError{
		Code:     ErrCodeStatementExists,
		Category: CategoryStatement,
		Message:  fmt.Sprintf("prepared statement already exists: %s", name),
		Hint:     "Deallocate the statement before re-preparing it",
	}
}

// StatementNotFound creates an error for unknown prepared-statement names.
func StatementNotFound(name string) *QueryError {
	return &QueryError{
		Code:     ErrCodeStatementNotFound,
		Category: CategoryStatement,
		Message:  fmt.Sprintf("prepared statement not found: %s", name),
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// IsLexicalError checks if an error is a lexical error.
func IsLexicalError(err error) bool {
	if e, ok := err.(*QueryError); ok {
		return e.Category == CategoryLexical
	}
	return false
}

// IsSyntaxError checks if an error is a syntax error.
func IsSyntaxError(err error) bool {
	if e, ok := err.(*QueryError); ok {
		return e.Category == CategorySyntax
	}
	return false
}

// IsBindError checks if an error is a bind error.
func IsBindError(err error) bool {
	if e, ok := err.(*QueryError); ok {
		return e.Category == CategoryBind
	}
	return false
}

// IsSchemaError checks if an error is a schema error.
func IsSchemaError(err error) bool {
	if e, ok := err.(*QueryError); ok {
		return e.Category == CategorySchema
	}
	return false
}

// IsStatementError checks if an error is a statement registry error.
func IsStatementError(err error) bool {
	if e, ok := err.(*QueryError); ok {
		return e.Category == CategoryStatement
	}
	return false
}

// GetCode returns the error code if it's a QueryError, or 0 otherwise.
func GetCode(err error) ErrorCode {
	if e, ok := err.(*QueryError); ok {
		return e.Code
	}
	return 0
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	if e, ok := err.(*QueryError); ok {
		return e.UserMessage()
	}
	return fmt.Sprintf("ERROR: %v", err)
}
