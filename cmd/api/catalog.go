package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagMetric   string
	flagGoalType string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the unit and template catalog",
}

var catalogUnitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List units, grouped by category",
	Long:  `List catalog units. With --metric (and optionally --goal-type) only eligible units are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(nil)
		if err != nil {
			return err
		}
		printUnits(cmd.OutOrStdout(), cat, goals.MetricType(flagMetric), goals.GoalType(flagGoalType))
		return nil
	},
}

var catalogTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List goal templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(nil)
		if err != nil {
			return err
		}
		printTemplates(cmd.OutOrStdout(), cat)
		return nil
	},
}

func init() {
	catalogUnitsCmd.Flags().StringVar(&flagMetric, "metric", "", "Metric type (amount, count, duration, custom)")
	catalogUnitsCmd.Flags().StringVar(&flagGoalType, "goal-type", "", "Goal type")
	catalogCmd.AddCommand(catalogUnitsCmd, catalogTemplatesCmd)
}

func printUnits(w io.Writer, cat *catalog.Catalog, metric goals.MetricType, goalType goals.GoalType) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	units := cat.Units()
	if metric != "" {
		units = cat.AvailableUnits(metric, goalType)
		def := catalog.SmartDefaultUnit(metric, goalType)
		fmt.Fprintf(w, "Default unit: %s\n\n", color.GreenString(valueOr(def, "(none)")))
	}
	if len(units) == 0 {
		fmt.Fprintln(w, gray("No units"))
		return
	}

	for _, group := range catalog.UnitsByCategory(units) {
		fmt.Fprintln(w, cyan(group.Category))
		for _, u := range group.Units {
			metrics := make([]string, 0, len(u.MetricTypes))
			for _, m := range u.MetricTypes {
				metrics = append(metrics, string(m))
			}
			fmt.Fprintf(w, "  %-10s %-12s %s\n", u.ID, u.Label, gray(strings.Join(metrics, ",")))
		}
	}
}

func printTemplates(w io.Writer, cat *catalog.Catalog) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, t := range cat.Templates() {
		fmt.Fprintf(w, "%s %s\n", cyan(t.ID), t.Title)
		detail := fmt.Sprintf("%s/%s", t.GoalType, t.MetricKind)
		if t.FinanceMode != "" {
			detail += "/" + string(t.FinanceMode)
		}
		if t.DefaultUnit != "" {
			detail += " in " + t.DefaultUnit
		}
		if t.TargetValue != nil {
			detail += fmt.Sprintf(", target %g", *t.TargetValue)
		}
		fmt.Fprintf(w, "  %s\n", yellow(detail))
		if s, ok := goals.ScenarioForTemplate(t.ID); ok {
			fmt.Fprintf(w, "  scenario: %s\n", s)
		}
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
