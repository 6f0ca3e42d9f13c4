// Command duskc compiles Dusk source files into an IL byte stream.
package main

import (
	"flag"
	"fmt"
	"os"

	"duskc/ast"
	"duskc/diag"
	"duskc/driver"
	"duskc/token"
)

func main() {
	os.Exit(int(run(os.Args[1:])))
}

func run(args []string) driver.ExitCode {
	fs := flag.NewFlagSet("duskc", flag.ContinueOnError)
	out := fs.String("o", "a.dil", "output IL file path")
	dumpAST := fs.Bool("dump-ast", false, "print the parsed AST for each file and exit")
	dumpTokens := fs.Bool("dump-tokens", false, "print the token stream for each file and exit")
	noColor := fs.Bool("no-color", false, "disable ANSI color in diagnostic output")

	if err := fs.Parse(args); err != nil {
		return driver.ExitIOFailure
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "duskc: no input files")
		return driver.ExitIOFailure
	}

	opts := driver.Options{}
	if *dumpTokens {
		opts.DumpTokens = func(filename string, toks []token.Token) {
			fmt.Printf("-- %s --\n", filename)
			for _, t := range toks {
				fmt.Println(t.String())
			}
		}
	}
	if *dumpAST {
		opts.DumpAST = func(f *ast.File) {
			fmt.Printf("-- %s --\n", f.Name)
			p := ast.NewDebugPrinter()
			p.Print(f)
			fmt.Print(p.String())
		}
	}

	res := driver.Compile(paths, opts)

	renderer := diag.NewRenderer(os.Stderr, *noColor)
	renderer.Render(res.Diags)

	if res.Code != driver.ExitOK {
		return res.Code
	}
	if *dumpTokens || *dumpAST {
		return driver.ExitOK
	}

	if err := driver.WriteIL(*out, res.IL); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return driver.ExitIOFailure
	}

	return driver.ExitOK
}
