package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage job applications",
	Long: `List, add and update job applications.

Examples:
  jobtrack apps list
  jobtrack apps add --company Acme --position "Backend Engineer"
  jobtrack apps status 7c9e6679-7425-40de-944b-e07fc1f90ae7 "Interview Scheduled"
  jobtrack apps export -o applications.csv
  jobtrack apps import applications.csv`,
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAppsList,
}

var (
	addCompany  string
	addPosition string
	addDate     string
	addStatus   string
	addLocation string
	addSalary   string
	addNotes    string
)

var appsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new application",
	Long: `Log a new application. The date defaults to today and is read as a
calendar date (YYYY-MM-DD) with no time zone attached.`,
	Args: cobra.NoArgs,
	RunE: runAppsAdd,
}

var appsStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move an application to a new status",
	Args:  cobra.ExactArgs(2),
	RunE:  runAppsStatus,
}

var exportOutput string

var appsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications as CSV",
	Args:  cobra.NoArgs,
	RunE:  runAppsExport,
}

var appsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import applications from a CSV file",
	Long: `Import applications from a CSV file. The header row must name the columns
Company Name, Position Title, Application Date and Status. Nothing is
imported unless every row is valid.`,
	Args: cobra.ExactArgs(1),
	RunE: runAppsImport,
}

func init() {
	appsAddCmd.Flags().StringVar(&addCompany, "company", "", "Company name")
	appsAddCmd.Flags().StringVar(&addPosition, "position", "", "Position title")
	appsAddCmd.Flags().StringVar(&addDate, "date", "", "Application date (YYYY-MM-DD, default today)")
	appsAddCmd.Flags().StringVar(&addStatus, "status", domain.StatusApplied, "Application status")
	appsAddCmd.Flags().StringVar(&addLocation, "location", "", "Job location")
	appsAddCmd.Flags().StringVar(&addSalary, "salary", "", "Salary range")
	appsAddCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	appsAddCmd.MarkFlagRequired("company")
	appsAddCmd.MarkFlagRequired("position")

	appsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")

	appsCmd.AddCommand(appsListCmd)
	appsCmd.AddCommand(appsAddCmd)
	appsCmd.AddCommand(appsStatusCmd)
	appsCmd.AddCommand(appsExportCmd)
	appsCmd.AddCommand(appsImportCmd)
}

func runAppsList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}
	apps, err := client.ListApplications(cmd.Context())
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No applications yet.")
		return nil
	}
	return renderApplications(cmd.OutOrStdout(), apps)
}

func renderApplications(w io.Writer, apps []domain.Application) error {
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []string{
			a.ApplicationDate,
			a.CompanyName,
			a.PositionTitle,
			a.Status,
			a.Location,
			a.ID,
		})
	}
	return renderTable(w, []string{"Date", "Company", "Position", "Status", "Location", "ID"}, rows)
}

func runAppsAdd(cmd *cobra.Command, args []string) error {
	date := addDate
	if date == "" {
		date = time.Now().Format(datetz.KeyLayout)
	}
	key, ok := datetz.NormalizeKey(date)
	if !ok {
		return errors.Newf("invalid date %q, expected YYYY-MM-DD", date)
	}

	client, err := NewClient()
	if err != nil {
		return err
	}
	app, err := client.CreateApplication(cmd.Context(), ApplicationInput{
		CompanyName:     addCompany,
		PositionTitle:   addPosition,
		ApplicationDate: key,
		Status:          addStatus,
		Location:        addLocation,
		SalaryRange:     addSalary,
		Notes:           addNotes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s at %s on %s (%s)\n",
		app.PositionTitle, app.CompanyName, datetz.FormatDateOnly(app.ApplicationDate), app.ID)
	return nil
}

func runAppsStatus(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}
	app, err := client.UpdateStatus(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s at %s is now %s\n", app.PositionTitle, app.CompanyName, app.Status)
	return nil
}

func runAppsExport(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.OpenFile(exportOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return errors.Wrapf(err, "cannot create %s", exportOutput)
		}
		defer f.Close()
		out = f
	}
	if err := client.Export(cmd.Context(), out); err != nil {
		return err
	}
	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", exportOutput)
	}
	return nil
}

func runAppsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", args[0])
	}
	defer f.Close()

	client, err := NewClient()
	if err != nil {
		return err
	}
	n, err := client.Import(cmd.Context(), filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d applications\n", n)
	return nil
}
