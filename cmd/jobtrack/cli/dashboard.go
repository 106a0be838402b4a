package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard KPIs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := NewClient()
		if err != nil {
			return err
		}
		d, err := client.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return renderDashboard(cmd.OutOrStdout(), d)
	},
}

var seriesDays int

var seriesCmd = &cobra.Command{
	Use:     "timeseries",
	Aliases: []string{"series"},
	Short:   "Show applications per day",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := NewClient()
		if err != nil {
			return err
		}
		ts, err := client.TimeSeries(cmd.Context(), seriesDays)
		if err != nil {
			return err
		}
		return renderSeries(cmd.OutOrStdout(), ts)
	},
}

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Show the application funnel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := NewClient()
		if err != nil {
			return err
		}
		f, err := client.Flow(cmd.Context())
		if err != nil {
			return err
		}
		return renderFlow(cmd.OutOrStdout(), f)
	},
}

var upcomingLimit int

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show upcoming interviews and task deadlines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := NewClient()
		if err != nil {
			return err
		}
		items, err := client.Upcoming(cmd.Context(), upcomingLimit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing coming up.")
			return nil
		}
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{datetz.FormatDateOnly(it.Date), it.Kind, it.Title})
		}
		return renderTable(cmd.OutOrStdout(), []string{"Date", "Type", "Title"}, rows)
	},
}

func init() {
	seriesCmd.Flags().IntVar(&seriesDays, "days", stats.DefaultSeriesDays, "Number of days to show")
	upcomingCmd.Flags().IntVar(&upcomingLimit, "limit", stats.DefaultUpcoming, "Maximum number of items")
}

func renderDashboard(w io.Writer, d *stats.Dashboard) error {
	fmt.Fprintf(w, "%d applications, %d active, %d%% response rate\n",
		d.TotalApplications, d.ActivePipeline, d.ResponseRate)
	fmt.Fprintf(w, "%d pending tasks, %d upcoming interviews\n\n", d.PendingTasks, d.UpcomingInterviews)

	rows := make([][]string, 0, len(d.KPIs))
	for _, k := range d.KPIs {
		rows = append(rows, []string{k.Title, fmt.Sprint(k.Value), signedPct(k.ChangePct), k.Description})
	}
	return renderTable(w, []string{"KPI", "Value", "Change", "Detail"}, rows)
}

func renderSeries(w io.Writer, ts *stats.TimeSeries) error {
	rows := make([][]string, 0, len(ts.Series))
	for _, p := range ts.Series {
		rows = append(rows, []string{p.Date, strconv.Itoa(p.Count), strconv.Itoa(p.Cumulative)})
	}
	if err := renderTable(w, []string{"Date", "Applied", "Total"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nToday: %d\n", ts.TodayCount)
	return nil
}

func renderFlow(w io.Writer, f *stats.Flow) error {
	rows := [][]string{
		{"Applied", strconv.Itoa(f.Stages.Applied)},
		{"Interview scheduled", strconv.Itoa(f.Stages.InterviewScheduled)},
		{"Interview completed", strconv.Itoa(f.Stages.InterviewCompleted)},
		{"Offer received", strconv.Itoa(f.Stages.OfferReceived)},
		{"Rejected", strconv.Itoa(f.DropOffs.Rejected)},
		{"Rejected after interview", strconv.Itoa(f.DropOffs.RejectedAfterInterview)},
		{"Withdrawn", strconv.Itoa(f.DropOffs.Withdrawn)},
	}
	return renderTable(w, []string{"Stage", "Count"}, rows)
}

func signedPct(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}
