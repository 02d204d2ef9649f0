package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseExpression bool
	parseDumpAST    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Simple source code and display its AST",
	Long: `Parse Simple source code and display its Abstract Syntax Tree.

If no file is provided, reads from stdin.
Use -e to parse a single expression from the command line.
Use --dump-ast to show the full declaration/statement tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression from the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string

	if parseExpression {
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	} else if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		fmt.Fprintf(os.Stderr, "Parser errors:\n")
		for _, err := range p.Errors() {
			fmt.Fprintf(os.Stderr, "  %s\n", err.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	fmt.Println("Abstract Syntax Tree:")
	fmt.Println("=====================")
	dumpProgram(program)
	if parseDumpAST {
		for _, s := range program.Statements {
			dumpStmt(s, 1)
		}
	}

	return nil
}

func indent(n int) string { return strings.Repeat("  ", n) }

func dumpProgram(p *ast.Program) {
	fmt.Printf("Program (%d decls, %d top-level statements)\n", len(p.Decls), len(p.Statements))
	for _, d := range p.Decls {
		dumpDecl(d, 1)
	}
}

func dumpDecl(d ast.Decl, depth int) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl %s -> %s (%d params, %d stmts)\n",
			indent(depth), decl.Name, decl.ReturnType.String(), len(decl.Params), len(decl.Body))
	case *ast.ArtifactDecl:
		fmt.Printf("%sArtifactDecl %s (%d fields, %d methods)\n",
			indent(depth), decl.Name, len(decl.Fields), len(decl.Methods))
	case *ast.EnumDecl:
		fmt.Printf("%sEnumDecl %s (%d members)\n", indent(depth), decl.Name, len(decl.Members))
	case *ast.ModuleDecl:
		fmt.Printf("%sModuleDecl %s\n", indent(depth), decl.Name)
	case *ast.ImportDecl:
		fmt.Printf("%sImportDecl %q\n", indent(depth), decl.Path)
	case *ast.ExternDecl:
		fmt.Printf("%sExternDecl %s\n", indent(depth), decl.Name)
	case *ast.VariableDecl:
		fmt.Printf("%sVariableDecl %s : %s\n", indent(depth), decl.Name, decl.Type.String())
	default:
		fmt.Printf("%s%T\n", indent(depth), d)
	}
}

func dumpStmt(s ast.Stmt, depth int) {
	switch st := s.(type) {
	case *ast.VariableDecl:
		fmt.Printf("%sVariableDecl %s\n", indent(depth), st.Name)
	case *ast.AssignStmt:
		fmt.Printf("%sAssignStmt %s\n", indent(depth), st.Op)
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", indent(depth))
		dumpExpr(st.X, depth+1)
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", indent(depth))
	case *ast.IfStmt:
		fmt.Printf("%sIfStmt (%d then, %d else)\n", indent(depth), len(st.Then), len(st.Else))
	default:
		fmt.Printf("%s%T\n", indent(depth), s)
	}
}

func dumpExpr(e ast.Expr, depth int) {
	switch ex := e.(type) {
	case *ast.Literal:
		fmt.Printf("%sLiteral %q\n", indent(depth), ex.Text)
	case *ast.Ident:
		fmt.Printf("%sIdent %s\n", indent(depth), ex.Name)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr %s\n", indent(depth), ex.Op)
	default:
		fmt.Printf("%s%T\n", indent(depth), e)
	}
}
