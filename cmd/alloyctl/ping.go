package main

import (
	"github.com/spf13/cobra"

	"github.com/rhuss/alloyrpc/pkg/api"
)

func newPingCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check the service and list installed SAT backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.Ping(cmd.Context(), &api.PingRequest{Message: message})
			if err != nil {
				return err
			}
			return renderPing(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "message to echo back")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("alloyctl " + Version + "\n"))
			return err
		},
	}
}
