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
Package main is the entry point for the interactive OQL shell.

OQL Shell Overview:
===================

The oql-shell is an interactive REPL (Read-Eval-Print Loop) for the OQL
translation engine. Every line of input is parsed against the built-in
demo schema and translated to SQL for the active dialect; the shell
prints the SQL and the bound-parameter plan.

Command Types:
==============

The shell supports two types of input:

 1. Local Commands (prefixed with \):
    - \q or \quit      : Exit the shell
    - \h or \help      : Display help information
    - \d [entity]      : Describe the schema or one entity
    - \dialect [name]  : Show or switch the active dialect
    - \tokens          : Toggle token dumps for each query
    - \copy            : Copy the last emitted SQL to the clipboard
    - \v or \version   : Show the engine version

 2. OQL Queries: anything else is translated, e.g.

      oql> FROM User AS u WHERE u.id = :Id
      SELECT _t1.id, _t1.name, _t1.flags FROM users AS _t1 WHERE _t1.id = ?
        :Id -> [1]

Usage Example:
==============

	oql-shell
	oql-shell -dialect ansi
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	logpkg "github.com/op/go-logging"
	"golang.org/x/term"

	"oql/internal/dialect"
	oqlerrors "oql/internal/errors"
	"oql/internal/logging"
	"oql/internal/oql"
	"oql/internal/schema"
	"oql/internal/version"
)

var log = logging.Setup("oql-shell", logpkg.NOTICE)

// shellState holds the toggleable options of the REPL session.
type shellState struct {
	dialect    dialect.Dialect  // Active emission dialect
	registry   *schema.Registry // Schema the queries resolve against
	showTokens bool             // Dump the token stream per query
	lastSQL    string           // Last successfully emitted SQL, for \copy
}

// oqlCompletions contains all completable commands and keywords for tab
// completion.
var oqlCompletions = []string{
	// Local commands
	"\\q", "\\quit", "\\h", "\\help", "\\d", "\\dialect", "\\tokens", "\\copy", "\\v", "\\version",
	// Clause keywords
	"SELECT", "FROM", "WHERE", "ORDER", "BY", "ASC", "DESC", "AS",
	// Operator keywords
	"AND", "OR", "NOT", "NULL", "IS", "IN", "LIKE", "BETWEEN", "DIV", "MOD",
}

// isTerminal returns true if stdin is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// getHistoryFilePath returns the path to the history file.
func getHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oql_history")
}

// createCompleter creates a readline completer for tab completion.
func createCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(oqlCompletions))
	for _, cmd := range oqlCompletions {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

// createReadlineInstance creates a configured readline instance.
func createReadlineInstance() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "oql> ",
		HistoryFile:     getHistoryFilePath(),
		AutoComplete:    createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "\\q",
	})
}

func main() {
	dialectName := flag.String("dialect", "default", "emission dialect (default, ansi, sqlite)")
	flag.Parse()

	d, err := dialect.ByName(*dialectName)
	if err != nil {
		fmt.Fprintln(os.Stderr, oqlerrors.FormatError(err))
		os.Exit(1)
	}

	state := &shellState{
		dialect:  d,
		registry: schema.Demo(),
	}

	rl, err := createReadlineInstance()
	if err != nil {
		log.Criticalf("cannot initialize terminal: %v", err)
		os.Exit(1)
	}
	defer rl.Close()

	if isTerminal() {
		fmt.Printf("OQL shell %s (dialect: %s). Type \\h for help.\n",
			version.Current, state.dialect.Name())
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Errorf("read error: %v", err)
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "\\") {
			if quit := runLocalCommand(state, input); quit {
				return
			}
			continue
		}
		translate(state, input)
	}
}

// runLocalCommand executes one backslash command. It returns true when
// the shell should exit.
func runLocalCommand(state *shellState, input string) bool {
	parts := strings.Fields(input)
	switch parts[0] {
	case "\\q", "\\quit":
		return true

	case "\\h", "\\help":
		printHelp()

	case "\\v", "\\version":
		fmt.Println(version.Current)

	case "\\d":
		if len(parts) > 1 {
			describeEntity(state, parts[1])
		} else {
			for _, name := range state.registry.EntityNames() {
				describeEntity(state, name)
			}
		}

	case "\\dialect":
		if len(parts) == 1 {
			fmt.Println(state.dialect.Name())
			break
		}
		d, err := dialect.ByName(parts[1])
		if err != nil {
			printError(err)
			break
		}
		state.dialect = d
		fmt.Printf("dialect set to %s\n", d.Name())

	case "\\tokens":
		state.showTokens = !state.showTokens
		fmt.Printf("token dump %v\n", onOff(state.showTokens))

	case "\\copy":
		if state.lastSQL == "" {
			fmt.Println("nothing to copy")
			break
		}
		if err := clipboard.WriteAll(state.lastSQL); err != nil {
			log.Warningf("clipboard unavailable: %v", err)
			break
		}
		fmt.Println("copied")

	default:
		fmt.Printf("unknown command %s, type \\h for help\n", parts[0])
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// translate parses one OQL query and prints the SQL and parameter plan.
func translate(state *shellState, input string) {
	if state.showTokens {
		tokens, err := oql.Tokenize(input)
		if err != nil {
			printError(err)
			return
		}
		for i, tok := range tokens {
			fmt.Printf("  %2d: %s\n", i, tok)
		}
	}

	stmt, err := oql.Parse(input, state.registry)
	if err != nil {
		printError(err)
		return
	}
	query, err := stmt.Emit(state.dialect)
	if err != nil {
		printError(err)
		return
	}

	state.lastSQL = query.SQL
	color.Cyan("%s", query.SQL)
	for _, name := range query.ParameterNames() {
		fmt.Printf("  :%s -> %v\n", name, query.ParameterIndexes(name))
	}
}

// describeEntity prints one entity's properties and column mapping.
func describeEntity(state *shellState, name string) {
	ent, err := state.registry.FindEntity(name)
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("%s (table %s)\n", ent.Name, ent.TableName)
	for i := 0; i < ent.PropertyCount(); i++ {
		prop := ent.PropertyAt(i)
		if prop.Embedded {
			fmt.Printf("  %-12s embedded %s\n", prop.PropertyName, prop.ReferencedEntity.Name)
		} else {
			fmt.Printf("  %-12s -> %s\n", prop.PropertyName, prop.ColumnName)
		}
	}
}

func printError(err error) {
	color.Red("%s", oqlerrors.FormatError(err))
}

func printHelp() {
	fmt.Print(`Local commands:
  \q, \quit        exit the shell
  \h, \help        show this help
  \d [entity]      describe the schema or one entity
  \dialect [name]  show or switch the dialect (default, ansi, sqlite)
  \tokens          toggle per-query token dumps
  \copy            copy the last emitted SQL to the clipboard
  \v, \version     show the engine version

Anything else is translated as an OQL query, e.g.

  SELECT u FROM User AS u WHERE u.flags = :f ORDER BY u.name
`)
}
