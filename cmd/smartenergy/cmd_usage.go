package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	var startDate, endDate string
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show daily energy usage and cost for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if endDate == "" {
				endDate = time.Now().Format("2006-01-02")
			}
			if startDate == "" {
				end, err := time.Parse("2006-01-02", endDate)
				if err != nil {
					return err
				}
				startDate = end.AddDate(0, 0, -6).Format("2006-01-02")
			}

			sess, _ := newSession()
			sess.RenderUsageDaily(cmd.Context(), startDate, endDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&startDate, "start", "", "start date YYYY-MM-DD (default: 6 days before end)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date YYYY-MM-DD (default: today)")
	return cmd
}
