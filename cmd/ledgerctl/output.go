package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/export"
)

// Report formats.
const (
	formatAuto  = "auto"
	formatTable = "table"
	formatCSV   = "csv"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// resolveFormat turns auto into a table for terminals and CSV otherwise.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatAuto:
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatCSV, nil
	case formatTable, formatCSV, formatYAML, formatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, table, csv, yaml or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writePeriods(w io.Writer, format string, periods []aggregate.Period) error {
	format, err := resolveFormat(format, w)
	if err != nil {
		return err
	}
	switch format {
	case formatCSV:
		return export.WritePeriods(w, periods)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(periods); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(periods)
	default:
		return writePeriodTable(w, periods)
	}
}

func writePeriodTable(w io.Writer, periods []aggregate.Period) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tINCOME\tWITHHOLDING\tNET\tEXPENSES\tBALANCE\t")
	for _, p := range periods {
		label := p.Month
		if label == "" {
			label = strconv.Itoa(p.Year)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", label,
			export.Money(p.Income), export.Money(p.WithholdingAmount),
			export.Money(p.NetIncome), export.Money(p.Expenses), export.Money(p.Balance))
	}
	return tw.Flush()
}
