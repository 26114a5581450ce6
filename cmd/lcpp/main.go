// Command lcpp is the CLI driver for the preprocessing pipeline in the
// root package. It is grounded on the teacher's cmd/sve-as/main.go (reading
// a source file, running the domain transform, writing the result) and on
// gitea's cmd/main.go NewMainApp/RunMainApp split, generalized from
// sve-as's flat os.Args parsing onto github.com/urfave/cli/v2.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gopherpp/lcpp"
	"github.com/gopherpp/lcpp/internal/applog"
	"github.com/gopherpp/lcpp/internal/config"
	"github.com/gopherpp/lcpp/internal/fsloader"
	"github.com/gopherpp/lcpp/macro"
	"github.com/gopherpp/lcpp/selftest"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lcpp"
	app.Usage = "run the C-preprocessor-subset pipeline over a source file"
	app.Flags = []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "define",
			Usage: "predefine NAME or NAME=VALUE, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "directory to search for #include targets, repeatable",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "config file of predefines (see internal/config)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "trace, debug, info, warn, or error",
		},
		&cli.BoolFlag{
			Name:  "self-test",
			Usage: "run the built-in scenario checks instead of compiling a file",
		},
	}
	app.Action = run
	return app
}

func run(c *cli.Context) error {
	logger := applog.New(c.String("log-level"))

	if c.Bool("self-test") {
		results := selftest.Run()
		ok := true
		for _, r := range results {
			if r.Err != nil {
				ok = false
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.Name, r.Err)
			} else {
				fmt.Fprintf(os.Stderr, "ok   %s\n", r.Name)
			}
		}
		if !ok {
			return cli.Exit("self-test failures", 1)
		}
		return nil
	}

	if c.NArg() != 1 {
		return cli.Exit("usage: lcpp [flags] <file>", 2)
	}
	path := c.Args().First()

	predefines, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if err := applyDefineFlags(predefines, c.StringSlice("define")); err != nil {
		return err
	}

	opts := lcpp.Options{
		FileLoader:  fsloader.New(c.StringSlice("include")...),
		IncludeDirs: c.StringSlice("include"),
		Env:         predefines,
		Logger:      logger,
	}

	out, _, err := lcpp.CompileFile(path, nil, opts)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// applyDefineFlags parses --define NAME or --define NAME=VALUE entries
// into table, the same literal classification a #define body gets.
func applyDefineFlags(table *macro.Table, defines []string) error {
	for _, d := range defines {
		name, value := macro.ParseAssignment(d)
		if err := table.Define(name, value, true); err != nil {
			return err
		}
	}
	return nil
}
