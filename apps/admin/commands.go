package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	sheetsvc "github.com/trezcool/gradebook/services/spreadsheet"
)

func (cli *commandLine) list(ctx context.Context, kind core.Kind) error {
	if err := cli.ctrl.Refresh(ctx, kind); err != nil {
		return err
	}
	if !cli.ctrl.ViewModel().Loaded(kind) {
		return nil // reported by finish
	}
	records, err := cli.ctrl.ViewModel().Records(kind)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}

func (cli *commandLine) export(ctx context.Context, kind core.Kind, path string) error {
	if err := cli.ctrl.Refresh(ctx, kind); err != nil {
		return err
	}
	if !cli.ctrl.ViewModel().Loaded(kind) {
		return nil
	}
	records, err := cli.ctrl.ViewModel().Records(kind)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating spreadsheet")
	}
	if err := sheetsvc.Write(f, kind.Resource(), records, cli.logger); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing spreadsheet")
	}
	fmt.Fprintf(cli.out, "%d %s written to %s\n", len(records)-1, kind.Resource(), path)
	return nil
}

func (cli *commandLine) importFile(ctx context.Context, kind core.Kind, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening spreadsheet")
	}
	defer f.Close()

	records, err := sheetsvc.Read(f, cli.logger)
	if err != nil {
		return err
	}
	// existing ids are checked against the cache
	if err := cli.ctrl.Refresh(ctx, kind); err != nil {
		return err
	}
	report, err := cli.ctrl.Import(ctx, kind, records)
	if err != nil {
		return err
	}
	for line, msg := range report.Failures {
		fmt.Fprintf(cli.out, "row %d: %s\n", line, msg)
	}
	return nil
}

func (cli *commandLine) delete(ctx context.Context, kind core.Kind, id int) error {
	return cli.ctrl.Delete(ctx, kind, id)
}
