package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/notify"
)

var (
	isTerminalFunc = term.IsTerminal     // mockable
	stdin          = io.Reader(os.Stdin) // mockable

	errHelp            = errors.New("help provided")
	errNotConfirmed    = errors.New("not confirmed")
	errConfirmRequired = errors.New("refusing to delete without a terminal; pass -yes")
	errFailed          = errors.New("command failed")
)

type commandLine struct {
	ctrl   *gradebook.Controller
	logger core.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  list   -kind KIND                  - print the students, subjects or scores")
	fmt.Fprintln(cli.out, "  export -kind KIND -out FILE.xlsx   - write a table to a spreadsheet")
	fmt.Fprintln(cli.out, "  import -kind KIND -in FILE.xlsx    - create the rows of a spreadsheet")
	fmt.Fprintln(cli.out, "  delete -kind KIND -id ID [-yes]    - delete one entity")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listKind := listCmd.String("kind", "", "student, subject or score")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportKind := exportCmd.String("kind", "", "student, subject or score")
	exportOut := exportCmd.String("out", "", "Spreadsheet to write.")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importKind := importCmd.String("kind", "", "student, subject or score")
	importIn := importCmd.String("in", "", "Spreadsheet to read. The first row names the columns.")

	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	deleteKind := deleteCmd.String("kind", "", "student, subject or score")
	deleteID := deleteCmd.Int("id", 0, "Identifier of the entity.")
	deleteYes := deleteCmd.Bool("yes", false, "Do not ask for confirmation.")

	ctx := context.Background()

	switch args[1] {
	case "list":
		kind, err := parseCmd(listCmd, args[2:], listKind)
		if err != nil {
			return err
		}
		return cli.finish(cli.list(ctx, kind))

	case "export":
		kind, err := parseCmd(exportCmd, args[2:], exportKind)
		if err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.finish(cli.export(ctx, kind, *exportOut))

	case "import":
		kind, err := parseCmd(importCmd, args[2:], importKind)
		if err != nil {
			return err
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.finish(cli.importFile(ctx, kind, *importIn))

	case "delete":
		kind, err := parseCmd(deleteCmd, args[2:], deleteKind)
		if err != nil {
			return err
		}
		if *deleteID <= 0 {
			deleteCmd.Usage()
			return errHelp
		}
		if !*deleteYes {
			if err := confirm(cli.out, fmt.Sprintf("Are you sure you want to delete %s %d? [y/N] ", kind, *deleteID)); err != nil {
				return err
			}
		}
		return cli.finish(cli.delete(ctx, kind, *deleteID))

	default:
		cli.printUsage()
		return errHelp
	}
}

func parseCmd(cmd *flag.FlagSet, args []string, kindFlag *string) (core.Kind, error) {
	if err := cmd.Parse(args); err != nil {
		return "", err
	}
	if *kindFlag == "" {
		cmd.Usage()
		return "", errHelp
	}
	return core.ParseKind(*kindFlag)
}

// confirm asks a yes/no question on the terminal.
func confirm(out io.Writer, question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errConfirmRequired
	}
	fmt.Fprint(out, question)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch core.CleanString(answer, true /* lower */) {
	case "y", "yes":
		return nil
	}
	return errNotConfirmed
}

// finish prints the notifications raised by the command. Any error notification fails it.
func (cli *commandLine) finish(err error) error {
	if err != nil {
		return err
	}
	failed := false
	for _, n := range cli.ctrl.Notifier().Active() {
		fmt.Fprintf(cli.out, "%s: %s\n", strings.ToUpper(string(n.Severity)), n.Message)
		if n.Severity == notify.SeverityError {
			failed = true
		}
	}
	cli.ctrl.Notifier().Clear()
	if failed {
		return errFailed
	}
	return nil
}
