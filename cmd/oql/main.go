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
Package main is the entry point for the oql command-line translator.

The oql tool translates a single OQL query to SQL against the built-in
demo schema and prints the SQL and the bound-parameter plan. It is the
non-interactive counterpart of oql-shell.

Usage Examples:
===============

	oql translate "FROM User AS u WHERE u.id = :Id"
	oql translate -dialect ansi "SELECT name FROM User ORDER BY name DESC"
	oql tokens "a.flags BETWEEN 1 AND 10"
	oql version
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	logpkg "github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"oql/internal/dialect"
	oqlerrors "oql/internal/errors"
	"oql/internal/logging"
	"oql/internal/oql"
	"oql/internal/schema"
	"oql/internal/version"
)

var log = logging.Setup("oql", logpkg.NOTICE)

func main() {
	app := cli.NewApp()
	app.Name = "oql"
	app.Usage = "Translate OQL queries to SQL"
	app.Version = version.Current.String()
	app.Commands = []cli.Command{
		{
			Name:      "translate",
			Usage:     "Translate an OQL query and print the SQL and parameter plan",
			ArgsUsage: "<query>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dialect, d",
					Value: "default",
					Usage: "emission dialect (default, ansi, sqlite)",
				},
			},
			Action: translateCommand,
		},
		{
			Name:      "tokens",
			Usage:     "Print the token stream of an OQL query",
			ArgsUsage: "<query>",
			Action:    tokensCommand,
		},
		{
			Name:  "version",
			Usage: "Print the engine version",
			Action: func(c *cli.Context) error {
				fmt.Println(version.Current)
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// queryArg joins the positional arguments into one query string, so the
// query may be passed unquoted.
func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args(), " "))
	if query == "" {
		return "", errors.New("no query given")
	}
	return query, nil
}

// translateCommand parses and emits one query.
func translateCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	d, err := dialect.ByName(c.String("dialect"))
	if err != nil {
		return errors.Wrap(err, "bad dialect")
	}

	stmt, err := oql.Parse(query, schema.Demo())
	if err != nil {
		return cli.NewExitError(oqlerrors.FormatError(err), 1)
	}
	parsed, err := stmt.Emit(d)
	if err != nil {
		return cli.NewExitError(oqlerrors.FormatError(err), 1)
	}

	color.Cyan("%s", parsed.SQL)
	for _, name := range parsed.ParameterNames() {
		fmt.Printf("  :%s -> %v\n", name, parsed.ParameterIndexes(name))
	}
	return nil
}

// tokensCommand prints the lexer output for one query.
func tokensCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	tokens, err := oql.Tokenize(query)
	if err != nil {
		return cli.NewExitError(oqlerrors.FormatError(err), 1)
	}
	for i, tok := range tokens {
		fmt.Printf("%2d: pos=%-3d %s\n", i, tok.Pos, tok)
	}
	return nil
}
