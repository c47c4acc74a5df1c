package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/app"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

func newProcessCmd(open containerFactory) *cobra.Command {
	var req attendance.ProcessRequest
	var userID string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Recompute daily summaries for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.EndDate == "" {
				req.EndDate = req.StartDate
			}
			if userID != "" {
				req.UserID = &userID
			}
			if err := req.Validate(); err != nil {
				return err
			}

			return withContainer(cmd, open, func(c *app.Container) error {
				result, err := c.Attendance.ProcessRange(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "processed %s..%s: %d users, %d punches, %d summaries\n",
					result.StartDate, result.EndDate, result.UsersProcessed, result.PunchesRead, result.SummariesWritten)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.StartDate, "start", "", "First date to process (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "Last date to process (YYYY-MM-DD, default: --start)")
	cmd.Flags().StringVar(&userID, "user", "", "Process only this user id")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newImportCmd(open containerFactory) *cobra.Command {
	var file, format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import normalized punch records and reprocess the dates they touch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = punchFormatFromPath(file)
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}
				defer f.Close()
				in = f
			}

			req, err := attendance.DecodePunches(in, format)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			return withContainer(cmd, open, func(c *app.Container) error {
				result, err := c.Attendance.IngestPunches(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d punches: %d new, %d duplicates\n",
					result.Received, result.Inserted, result.Duplicates)
				if p := result.Processed; p != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "processed %s..%s: %d users, %d summaries\n",
						p.StartDate, p.EndDate, p.UsersProcessed, p.SummariesWritten)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Punch file to import (- for stdin)")
	cmd.Flags().StringVar(&format, "format", "", "File format: json or csv (default: from the file extension)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func punchFormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return attendance.PunchFormatCSV
	}
	return attendance.PunchFormatJSON
}

type reportFlags struct {
	department string
	users      string
	format     string
	out        string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.department, "department", "", "Restrict to one department id")
	cmd.Flags().StringVar(&f.users, "users", "", "Comma separated user ids")
	cmd.Flags().StringVar(&f.format, "format", report.FormatCSV, "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file or directory (default: generated name in the current directory, - for stdout)")
}

func (f *reportFlags) departmentID() *string {
	if f.department == "" {
		return nil
	}
	return &f.department
}

func newReportCmd(open containerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export attendance reports",
	}
	cmd.AddCommand(newWeeklyReportCmd(open), newMonthlyReportCmd(open))
	return cmd
}

func newWeeklyReportCmd(open containerFactory) *cobra.Command {
	var flags reportFlags
	var weekStart string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Export the Monday-to-Sunday report of one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := report.WeeklyReportRequest{
				WeekStart:    weekStart,
				DepartmentID: flags.departmentID(),
				UserIDs:      validator.SplitCSVParam(flags.users),
				Format:       strings.ToLower(flags.format),
			}
			return withContainer(cmd, open, func(c *app.Container) error {
				file, err := c.Report.ExportWeekly(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeExport(cmd.OutOrStdout(), flags.out, file)
			})
		},
	}

	cmd.Flags().StringVar(&weekStart, "week", "", "Any date in the week (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("week")
	flags.register(cmd)
	return cmd
}

func newMonthlyReportCmd(open containerFactory) *cobra.Command {
	var flags reportFlags
	var year, month int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Export the report of one calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := report.MonthlyReportRequest{
				Year:         year,
				Month:        month,
				DepartmentID: flags.departmentID(),
				UserIDs:      validator.SplitCSVParam(flags.users),
				Format:       strings.ToLower(flags.format),
			}
			return withContainer(cmd, open, func(c *app.Container) error {
				file, err := c.Report.ExportMonthly(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeExport(cmd.OutOrStdout(), flags.out, file)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Report year")
	cmd.Flags().IntVar(&month, "month", 0, "Report month (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	flags.register(cmd)
	return cmd
}

func newTokenCmd(issuer tokenIssuerFactory) *cobra.Command {
	var subject, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !user.Role(role).IsValid() {
				return fmt.Errorf("invalid role %q: want admin or viewer", role)
			}

			svc, err := issuer()
			if err != nil {
				return err
			}
			token, _, err := svc.GenerateAccessToken(subject, user.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (operator name or email)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleViewer), "Token role: admin or viewer")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// writeExport stores file at out. An empty out uses the generated filename, a
// directory receives the generated filename and "-" writes to stdout.
func writeExport(stdout io.Writer, out string, file report.ExportFile) error {
	if out == "-" {
		_, err := stdout.Write(file.Data)
		return err
	}

	path := out
	if path == "" {
		path = file.Filename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, file.Filename)
	}

	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes)\n", path, len(file.Data))
	return nil
}
