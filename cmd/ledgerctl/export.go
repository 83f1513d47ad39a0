package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"freelance-ledger/internal/export"
)

type exportFlags struct {
	subject string
	from    string
	to      string
	output  string
}

func (f *exportFlags) bind(cmd *cobra.Command, withRange bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.subject, "subject", "", "identity provider subject")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	if withRange {
		fs.StringVar(&f.from, "from", "", "first date, YYYY-MM-DD")
		fs.StringVar(&f.to, "to", "", "last date, YYYY-MM-DD")
	}
	_ = cmd.MarkFlagRequired("subject")
}

// writeTo runs write against the output file, or stdout when none is set.
func (f *exportFlags) writeTo(stdout io.Writer, write func(io.Writer) error) error {
	if f.output == "" {
		return write(stdout)
	}
	out, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.output, err)
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func newExportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as CSV",
	}
	cmd.AddCommand(newExportExpensesCmd(c), newExportIncomesCmd(c), newExportMonthlyCmd(c))
	return cmd
}

func newExportExpensesCmd(c *cli) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Expenses in a date range, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, err := c.app.Service.ExpensesBetween(cmd.Context(), identity(f.subject), f.from, f.to)
			if err != nil {
				return err
			}
			return f.writeTo(c.stdout, func(w io.Writer) error {
				return export.WriteExpenses(w, expenses)
			})
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newExportIncomesCmd(c *cli) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "incomes",
		Short: "Incomes in a date range, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			incomes, err := c.app.Service.IncomesBetween(cmd.Context(), identity(f.subject), f.from, f.to)
			if err != nil {
				return err
			}
			return f.writeTo(c.stdout, func(w io.Writer) error {
				return export.WriteIncomes(w, incomes)
			})
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newExportMonthlyCmd(c *cli) *cobra.Command {
	var (
		f    exportFlags
		year int
	)
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Monthly balances of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periods, err := c.app.Service.MonthlyBalances(cmd.Context(), identity(f.subject), year, 0)
			if err != nil {
				return err
			}
			return f.writeTo(c.stdout, func(w io.Writer) error {
				return export.WritePeriods(w, periods)
			})
		},
	}
	f.bind(cmd, false)
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current year)")
	return cmd
}
