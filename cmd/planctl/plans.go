package main

import (
	"fmt"
	"strconv"

	"holiday-planner/internal/currency"
	"holiday-planner/internal/models"
	"holiday-planner/internal/planner"

	"github.com/spf13/cobra"
)

func (a *app) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.username == "" {
				return fmt.Errorf("--user is required")
			}
			password := a.password
			if password == "" {
				var err error
				if password, err = a.prompt("Choose Password: "); err != nil {
					return err
				}
				confirm, err := a.prompt("Confirm Password: ")
				if err != nil {
					return err
				}
				if confirm != password {
					return models.ErrPasswordMismatch
				}
			}
			if err := a.credentials().Register(a.username, password); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Registration successful!")
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		in         planner.NewPlan
		start, end string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holiday plan",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if in.StartDate, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if in.EndDate, err = parseDateFlag("end", end); err != nil {
				return err
			}

			session, err := a.login()
			if err != nil {
				return err
			}
			id, err := session.Add(in)
			if err != nil {
				return err
			}
			p, _ := session.Get(id)
			total, err := currency.Format(p.TotalCost, a.currency)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Holiday plan added successfully! %s, %d days, %s (id %s)\n", p.Name, p.Days(), total, id)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Holiday destination")
	f.StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	f.Float64Var(&in.TravelCost, "travel", 0, "Travel cost in "+currency.Base)
	f.Float64Var(&in.AccommodationCost, "accommodation", 0, "Accommodation cost in "+currency.Base)
	f.Float64Var(&in.ExperiencesCost, "experiences", 0, "Experiences cost in "+currency.Base)
	f.Float64Var(&in.MiscCost, "misc", 0, "Miscellaneous cost in "+currency.Base)
	return cmd
}

func parseDateFlag(name, value string) (models.Date, error) {
	if value == "" {
		return models.Date{}, &models.ValidationError{Problems: []string{"--" + name + " is required"}}
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, &models.ValidationError{Problems: []string{"--" + name + " must be a YYYY-MM-DD date"}}
	}
	return d, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your holiday plans",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := a.login()
			if err != nil {
				return err
			}
			plans := session.Plans()
			if len(plans) == 0 {
				fmt.Fprintln(a.stdout, "No holiday plans added yet. Start by adding your first holiday plan!")
				return nil
			}

			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				row := []string{p.Name, strconv.Itoa(p.Days()) + " days", p.StartDate.String(), p.EndDate.String()}
				for _, v := range []float64{p.TravelCost, p.AccommodationCost, p.ExperiencesCost, p.MiscCost, p.TotalCost} {
					s, err := currency.Format(v, a.currency)
					if err != nil {
						return err
					}
					row = append(row, s)
				}
				rows = append(rows, append(row, p.ID))
			}

			fmt.Fprintln(a.stdout, renderTitle("Your Holiday Plans"))
			fmt.Fprintln(a.stdout, renderTable(
				[]string{"Destination", "Duration", "Start Date", "End Date", "Travel", "Accommodation", "Experiences", "Miscellaneous", "Total", "ID"},
				rows,
			))
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a holiday plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			session, err := a.login()
			if err != nil {
				return err
			}
			p, ok := session.Get(args[0])
			if !ok {
				fmt.Fprintf(a.stdout, "No plan with id %s\n", args[0])
				return nil
			}
			if err := session.Remove(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed %s\n", p.Name)
			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show summary statistics and the budget breakdown",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := a.login()
			if err != nil {
				return err
			}
			if session.Len() == 0 {
				fmt.Fprintln(a.stdout, "No holiday plans added yet. Start by adding your first holiday plan!")
				return nil
			}
			return a.printSummary(session.Summary(), session.Breakdown())
		},
	}
}

func (a *app) printSummary(s planner.Summary, rows []planner.BreakdownRow) error {
	money := func(v float64) string {
		out, err := currency.Format(v, a.currency)
		if err != nil {
			return "?"
		}
		return out
	}

	stats := [][]string{
		{"Total Trips Planned", strconv.Itoa(s.Count)},
		{"Total Budget", money(s.Total)},
	}
	if avg, ok := s.Average(); ok {
		stats = append(stats, []string{"Average Cost per Trip", money(avg)})
	}
	fmt.Fprintln(a.stdout, renderTitle("Summary Statistics"))
	fmt.Fprintln(a.stdout, renderTable([]string{"Metric", "Value"}, stats))

	split := make([][]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		v := s.ByCategory(c)
		pct := 0.0
		if s.Total > 0 {
			pct = v / s.Total * 100
		}
		split = append(split, []string{string(c), money(v), fmt.Sprintf("%.1f%%", pct)})
	}
	fmt.Fprintln(a.stdout, renderTitle("Budget Breakdown"))
	fmt.Fprintln(a.stdout, renderTable([]string{"Category", "Amount", "Share"}, split))

	leaves := make([][]string, 0, len(rows))
	for _, r := range rows {
		leaves = append(leaves, []string{r.PlanName, string(r.Category), money(r.Cost)})
	}
	fmt.Fprintln(a.stdout, renderTitle("Holiday Expenses Breakdown"))
	fmt.Fprintln(a.stdout, renderTable([]string{"Holiday", "Category", "Cost"}, leaves))
	return nil
}
