// This is the main-driver for our compiler.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/codegen"
	"github.com/skx/cc64/diagnostics"
	"github.com/skx/cc64/lexer"
	"github.com/skx/cc64/parser"
)

var (
	outputPath string
	dumpAST    bool
	assembly   bool
)

func main() {
	root := &cobra.Command{
		Use:           "cc64 FILE",
		Short:         "Compile a small C subset to an x86-64 executable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().StringVarP(&outputPath, "output", "o", "", "where to write the result")
	root.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST and exit")
	root.Flags().BoolVarP(&assembly, "assembly", "S", false, "emit assembly text instead of an executable")

	diag := diagnostics.New(os.Stderr)
	if err := root.Execute(); err != nil {
		diag.Report(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	diag := diagnostics.New(os.Stderr)
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		diag.Errorf("cannot read %s: %s", path, err)
		os.Exit(1)
	}

	prog, err := parser.Parse(lexer.New(path, string(source)))
	if err != nil {
		diag.Report(err)
		os.Exit(1)
	}

	if dumpAST {
		fmt.Print(ast.Dump(prog))
		return nil
	}

	asm, err := codegen.Generate(prog)
	if err != nil {
		diag.Report(err)
		os.Exit(1)
	}

	if assembly {
		out := outputPath
		if out == "" {
			out = "a.s"
		}
		if err := writeFileAtomic(out, []byte(asm), 0644); err != nil {
			diag.Errorf("cannot write %s: %s", out, err)
			os.Exit(1)
		}
		return nil
	}

	out := outputPath
	if out == "" {
		out = "a.out"
	}
	if err := assembleAndLink(asm, out, diag); err != nil {
		os.Exit(1)
	}
	return nil
}

// assembleAndLink writes asm to a temp file and shells out to the
// system C compiler/linker to produce an executable at out, via the
// same "pipe assembly through cc" approach the teacher's main.go uses
// with gcc, adapted to use a real temp file (so --assembly can reuse
// the same generated text) rather than a stdin pipe.
func assembleAndLink(asm, out string, diag *diagnostics.Writer) error {
	asmFile, err := os.CreateTemp("", "cc64-*.s")
	if err != nil {
		diag.Errorf("cannot create temp file: %s", err)
		return err
	}
	defer os.Remove(asmFile.Name())

	if _, err := asmFile.WriteString(asm); err != nil {
		asmFile.Close()
		diag.Errorf("cannot write temp file: %s", err)
		return err
	}
	if err := asmFile.Close(); err != nil {
		diag.Errorf("cannot close temp file: %s", err)
		return err
	}

	outDir := filepath.Dir(out)
	if outDir == "" {
		outDir = "."
	}
	tmpOut, err := os.CreateTemp(outDir, ".cc64-out-*")
	if err != nil {
		diag.Errorf("cannot create temp output: %s", err)
		return err
	}
	tmpOutName := tmpOut.Name()
	tmpOut.Close()
	defer os.Remove(tmpOutName)

	cc := exec.Command("cc", asmFile.Name(), "-o", tmpOutName)
	cc.Stdout = os.Stdout
	cc.Stderr = os.Stderr
	if err := cc.Run(); err != nil {
		diag.Errorf("cc failed: %s", err)
		return err
	}

	if err := os.Chmod(tmpOutName, 0755); err != nil {
		diag.Errorf("cannot set executable permission: %s", err)
		return err
	}
	if err := os.Rename(tmpOutName, out); err != nil {
		diag.Errorf("cannot install %s: %s", out, err)
		return err
	}
	return nil
}

// writeFileAtomic writes data to path by writing to a sibling temp
// file and renaming over path only on success, so a failed write
// never leaves a partial or corrupt file at path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".cc64-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
