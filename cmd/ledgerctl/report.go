package main

import (
	"github.com/spf13/cobra"
)

func newReportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print balance reports",
	}
	cmd.AddCommand(newMonthlyReportCmd(c), newYearlyReportCmd(c))
	return cmd
}

func newMonthlyReportCmd(c *cli) *cobra.Command {
	var (
		subject string
		format  string
		year    int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, withholding, expenses and balance per month of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periods, err := c.app.Service.MonthlyBalances(cmd.Context(), identity(subject), year, limit)
			if err != nil {
				return err
			}
			return writePeriods(c.stdout, format, periods)
		},
	}
	f := cmd.Flags()
	f.StringVar(&subject, "subject", "", "identity provider subject")
	f.StringVarP(&format, "format", "f", formatAuto, "output format: auto, table, csv, yaml or json")
	f.IntVar(&year, "year", 0, "calendar year (default: current year)")
	f.IntVar(&limit, "limit", 0, "only the first n months")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newYearlyReportCmd(c *cli) *cobra.Command {
	var (
		subject string
		format  string
		years   int
	)
	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Totals for the most recent years, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periods, err := c.app.Service.YearlyBalances(cmd.Context(), identity(subject), years)
			if err != nil {
				return err
			}
			return writePeriods(c.stdout, format, periods)
		},
	}
	f := cmd.Flags()
	f.StringVar(&subject, "subject", "", "identity provider subject")
	f.StringVarP(&format, "format", "f", formatAuto, "output format: auto, table, csv, yaml or json")
	f.IntVar(&years, "years", 0, "number of years (default: reports.years)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
