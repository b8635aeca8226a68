package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/tailored-agentic-units/statetree/inspect"
)

func newSnapshotCmd(root *rootFlags) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the current state of a running tree",
		Long:  `Fetch the latest snapshot from an inspection endpoint and print it as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Inspect.Addr
			}

			client := inspect.NewClient(&http.Client{Timeout: timeout}, baseURL(addr))
			msg, err := client.Raw(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch snapshot from %s: %w", addr, err)
			}

			out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
			if err != nil {
				return fmt.Errorf("format snapshot: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Inspection address, host:port or URL (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")
	return cmd
}

func baseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}
