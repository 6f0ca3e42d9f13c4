// Package driver sequences a Dusk compilation from source files on disk to
// an emitted IL byte stream, mirroring the orchestration koi.ParseFile does
// for a single file but extended across the whole queued file set semantic
// generation and analysis require.
package driver

import (
	"fmt"
	"os"

	"duskc/ast"
	"duskc/codegen"
	"duskc/diag"
	"duskc/lexer"
	"duskc/parser"
	"duskc/scope"
	"duskc/sema"
	"duskc/token"
)

// ExitCode mirrors the driver's process exit status: 0 for a clean
// compilation, 1 for diagnostics reported against valid input, 2 for I/O
// or usage failures that never reached a diagnostic phase.
type ExitCode int

const (
	ExitOK        ExitCode = 0
	ExitDiag      ExitCode = 1
	ExitIOFailure ExitCode = 2
)

// Result carries everything a caller (the CLI, or a test) needs after a
// compilation attempt.
type Result struct {
	IL    []byte
	Diags *diag.List
	Files []*ast.File
	Code  ExitCode
}

// Options configures a Compile run.
type Options struct {
	// DumpTokens, when set, is called with each file's token stream
	// instead of proceeding to parsing.
	DumpTokens func(filename string, toks []token.Token)
	// DumpAST, when set, is called with each parsed file instead of
	// proceeding to semantic generation.
	DumpAST func(f *ast.File)
}

// Compile reads, lexes, parses, and analyzes every named source file as one
// queued file set, then emits a single concatenated IL byte stream.
// Lexing and parsing run to completion for every file before generation
// begins; generation runs to completion across every file before analysis
// begins; analysis runs to completion before codegen, matching the phase
// ordering in the language's evaluation model.
func Compile(paths []string, opts Options) *Result {
	d := &diag.List{}
	res := &Result{Diags: d}

	files := make([]*ast.File, 0, len(paths))
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			d.Errorf(diag.IO, "ReadFailed", token.Pos{}, token.Pos{}, "reading %s: %s", path, err)
			res.Code = ExitIOFailure
			return res
		}

		tf := token.NewFile(path, src)
		toks, lexDiags := lexer.Lex(tf)
		d.Merge(lexDiags)
		if opts.DumpTokens != nil {
			opts.DumpTokens(path, toks)
			continue
		}

		astFile, parseDiags := parser.Parse(tf, toks)
		d.Merge(parseDiags)
		if astFile != nil {
			astFile.Name = path
			files = append(files, astFile)
		}
	}

	if opts.DumpTokens != nil {
		res.Code = codeFor(d)
		return res
	}

	res.Files = files
	if opts.DumpAST != nil {
		for _, f := range files {
			opts.DumpAST(f)
		}
		res.Code = codeFor(d)
		return res
	}

	if d.HasErrors() {
		res.Code = ExitDiag
		return res
	}

	sc := scope.NewContext()
	ctx := sema.NewContext(sc, d)
	registerNamespaces(ctx, files)

	sema.NewGenerator().Run(ctx, files)
	if d.HasErrors() {
		res.Code = ExitDiag
		return res
	}

	analyzer, types := sema.NewAnalyzer()
	analyzer.Run(ctx, files)
	if d.HasErrors() {
		res.Code = ExitDiag
		return res
	}

	il, err := codegen.NewEmitter(files, types).EmitModule(files)
	if err != nil {
		d.Errorf(diag.Structural, "CodegenFailed", token.Pos{}, token.Pos{}, "%s", err)
		res.Code = ExitDiag
		return res
	}

	res.IL = il
	res.Code = ExitOK
	return res
}

// registerNamespaces indexes every top-level Namespace declaration across
// the queued file set by name, so genUse can resolve `use` against a
// namespace opened in a different file than the one importing it.
func registerNamespaces(ctx *sema.Context, files []*ast.File) {
	for _, f := range files {
		for _, decl := range f.Decls {
			if ns, ok := decl.(*ast.Namespace); ok {
				ctx.Files[ns.Name] = f
			}
		}
	}
}

func codeFor(d *diag.List) ExitCode {
	if d.HasErrors() {
		return ExitDiag
	}
	return ExitOK
}

// WriteIL writes an emitted IL byte stream to path.
func WriteIL(path string, il []byte) error {
	if err := os.WriteFile(path, il, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
