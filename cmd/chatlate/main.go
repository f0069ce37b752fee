// Command chatlate translates chat messages the way the chat bridge does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/ZaguanLabs/chatlate/cache"
	"github.com/ZaguanLabs/chatlate/provider"
	"github.com/ZaguanLabs/chatlate/settings"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = chatlate.Version
	commit    = chatlate.GitCommit
	buildDate = chatlate.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(context.Background())
}

type options struct {
	settingsPath string
	redisURL     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           chatlate.Name,
		Short:         chatlate.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.settingsPath, "settings", "settings.json", "Settings file")
	root.PersistentFlags().StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared result cache (default: in-memory)")

	root.AddCommand(
		newTranslateCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newTranslateCmd(opts *options) *cobra.Command {
	var (
		direction string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a message from a file or stdin",
		Long: `Translate a message with the configured engine.

Direction "in" translates user text into English, "out" translates model
text into the configured language. Text between two special symbols is
kept as is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}

			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			store, err := settings.Open(opts.settingsPath, chatlate.NewLogger(cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}

			resultCache, closeCache, err := openCache(opts.redisURL)
			if err != nil {
				return err
			}
			defer closeCache()

			factory := provider.New
			if dryRun {
				mock := provider.NewMock()
				factory = func(chatlate.BackendConfig) (chatlate.Client, error) { return mock, nil }
			}

			bridge := chatlate.NewBridge(store, factory, resultCache, chatlate.WithLogOutput(cmd.ErrOrStderr()))

			var out string
			if dir == chatlate.Incoming {
				out = bridge.TranslateIncoming(cmd.Context(), input)
			} else {
				out = bridge.TranslateOutgoing(cmd.Context(), input)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "out", `Translation direction: "in" (to English) or "out" (to the user's language)`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use the offline mock engine instead of a real one")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print all settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Open(opts.settingsPath, chatlate.NewLogger(cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}
			raw, err := store.JSON()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Open(opts.settingsPath, chatlate.NewLogger(cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}
			value, err := store.Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long:  "Change one setting. Keys:\n  " + strings.Join(settings.Keys(), "\n  "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Open(opts.settingsPath, chatlate.NewLogger(cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}
			return store.Set(args[0], args[1])
		},
	}

	cmd.AddCommand(show, get, set)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", chatlate.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(w, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(w, "  built:   %s\n", buildDate)
			}
		},
	}
}

func parseDirection(s string) (chatlate.Direction, error) {
	switch strings.ToLower(s) {
	case "in", "input":
		return chatlate.Incoming, nil
	case "out", "output":
		return chatlate.Outgoing, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want \"in\" or \"out\")", s)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func openCache(redisURL string) (chatlate.ResultCache, func(), error) {
	if redisURL == "" {
		return cache.NewMemory(), func() {}, nil
	}

	c, err := cache.NewRedis(cache.RedisConfig{URL: redisURL})
	if err != nil {
		return nil, nil, err
	}
	return c, func() { c.Close() }, nil
}
