package zest

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for the zest control plane.
// The returned command can be used standalone or added to a parent CLI's
// root command.
//
// Commands provided:
//   - pull <repo> [--revision <rev>]
//   - status
//   - stop
//   - path <repo>
//
// Global flags: --json
func NewCommand(cfg Config, opts ...ManagerOption) *cobra.Command {
	var jsonOutput bool

	// Manager will be created in PersistentPreRunE
	var mgr Manager

	cmd := &cobra.Command{
		Use:   "zest",
		Short: "P2P-accelerated model downloads",
		Long:  "Control the zest peer-to-peer transfer daemon: pull models, inspect status, and stop the daemon.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip manager creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			mgr, err = NewManager(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize manager: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(pullCmd(&mgr, &jsonOutput))
	cmd.AddCommand(statusCmd(&mgr, &jsonOutput))
	cmd.AddCommand(stopCmd(&mgr))
	cmd.AddCommand(pathCmd(&mgr))

	return cmd
}

func pullCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:   "pull <repo>",
		Short: "Download a model through the daemon",
		Long:  "Download a model via the zest daemon and print the local snapshot path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, err := (*mgr).Pull(ctx, args[0], WithRevision(revision))
			if err != nil {
				return err
			}

			if *jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{"repo": args[0], "path": path})
			}

			if path == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s (no snapshot path reported)\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&revision, "revision", DefaultRevision, "Git revision to pull")
	return cmd
}

func statusCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Long:  "Show the daemon's self-reported status. Fields are daemon-defined and printed as-is.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status, err := (*mgr).Status(ctx)
			if err != nil {
				return err
			}

			return outputStatus(cmd.OutOrStdout(), status, *jsonOutput)
		},
	}
}

func stopCmd(mgr *Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		Long:  "Ask the daemon to shut down. A daemon that is already gone is not an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := (*mgr).Stop(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped.")
			return nil
		},
	}
}

func pathCmd(mgr *Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "path <repo>",
		Short: "Print path to a downloaded model",
		Long:  "Print the filesystem path to the most recent local snapshot of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := (*mgr).Path(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// outputStatus prints an opaque status map, either as JSON or as sorted
// key-value rows.
func outputStatus(w io.Writer, status map[string]any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if len(status) == 0 {
		fmt.Fprintln(w, "No status reported")
		return nil
	}

	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, status[k])
	}
	return tw.Flush()
}
