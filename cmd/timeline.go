package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
	"TimeCanvasGo/services"
	"TimeCanvasGo/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	timelineUser string
	timelineDate string
	timelineTZ   string
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print one day's timeline for a user",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().StringVar(&timelineUser, "user", "", "User ID")
	timelineCmd.Flags().StringVar(&timelineDate, "date", "", "Day in YYYY-MM-DD form (default today)")
	timelineCmd.Flags().StringVar(&timelineTZ, "tz", "", "IANA timezone (default APP_TIMEZONE, then local)")
	_ = timelineCmd.MarkFlagRequired("user")
}

var (
	timeStyle    = lipgloss.NewStyle().Bold(true)
	feelingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	taskStyle    = lipgloss.NewStyle().PaddingLeft(2)
	gapStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func runTimeline(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	loc, err := conf.Location()
	if err != nil {
		return err
	}
	if timelineTZ != "" {
		if loc, err = time.LoadLocation(timelineTZ); err != nil {
			return fmt.Errorf("invalid --tz %q: %w", timelineTZ, err)
		}
	}
	date := timelineDate
	if date == "" {
		date = time.Now().In(loc).Format(services.DateLayout)
	}

	db, err := config.OpenDB(conf)
	if err != nil {
		return fmt.Errorf("无法初始化数据库: %w", err)
	}
	s, err := store.New(db)
	if err != nil {
		return err
	}

	loader, err := services.NewDayLoader(s, timelineUser, date, loc)
	if err != nil {
		return err
	}
	loadErr := loader.Reload(cmd.Context())
	renderTimeline(cmd.OutOrStdout(), loader.Snapshot(), loc)
	return loadErr
}

// renderTimeline 按时间顺序输出时间块，并在其后标出空档
func renderTimeline(w io.Writer, snapshot models.DaySnapshot, loc *time.Location) {
	fmt.Fprintln(w, timeStyle.Render(snapshot.Date))
	if snapshot.Error != "" {
		fmt.Fprintln(w, errorStyle.Render(snapshot.Error))
	}

	items := services.BuildTimeline(snapshot)
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No time blocks for this day yet."))
		return
	}

	for _, item := range items {
		switch item.Kind {
		case models.TimelineKindBlock:
			b := item.Block
			span := fmt.Sprintf("%s–%s", b.StartTime.In(loc).Format("15:04"), b.EndTime.In(loc).Format("15:04"))
			length := fmt.Sprintf("%d min", int(b.Duration().Minutes()))
			fmt.Fprintf(w, "%s  %s  %s\n", timeStyle.Render(span), mutedStyle.Render(length), feelingStyle.Render(b.FeelingLabel))
			for _, o := range b.Occupations {
				fmt.Fprintln(w, taskStyle.Render("• "+strings.TrimSpace(o.Task)))
			}
		case models.TimelineKindGap:
			fmt.Fprintln(w, gapStyle.Render(item.Gap.Label))
		}
	}
}
