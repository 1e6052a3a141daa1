package main

import (
	"github.com/spf13/cobra"
)

func newAddDeviceCmd() *cobra.Command {
	var (
		name     string
		devType  string
		location string
		ratedKW  float64
	)
	cmd := &cobra.Command{
		Use:   "add-device",
		Short: "Register a new device",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc := newSession()
			raw, err := svc.Devices.Add(cmd.Context(), map[string]any{
				"device_name": name,
				"device_type": devType,
				"location":    location,
				"rated_power": ratedKW,
			})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "device name")
	cmd.Flags().StringVar(&devType, "type", "light", "device type: air_conditioner|light")
	cmd.Flags().StringVar(&location, "location", "", "room or area")
	cmd.Flags().Float64Var(&ratedKW, "rated-power", 0, "rated power in kW")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAddUsageCmd() *cobra.Command {
	var (
		deviceID int
		date     string
		watts    float64
		hours    float64
		kwh      float64
	)
	cmd := &cobra.Command{
		Use:   "add-usage",
		Short: "Submit a manual usage record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kwh == 0 {
				kwh = watts * hours / 1000
			}
			_, svc := newSession()
			raw, err := svc.Usage.Add(cmd.Context(), map[string]any{
				"device_id":   deviceID,
				"date":        date,
				"power_watts": watts,
				"hours":       hours,
				"kwh":         kwh,
			})
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	cmd.Flags().IntVar(&deviceID, "device", 0, "device id")
	cmd.Flags().StringVar(&date, "date", "", "usage date YYYY-MM-DD")
	cmd.Flags().Float64Var(&watts, "watts", 0, "average power draw in watts")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours of operation")
	cmd.Flags().Float64Var(&kwh, "kwh", 0, "energy used in kWh (default: watts*hours/1000)")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
