package cli

import (
	"fmt"

	"github.com/arthur-debert/modmerge/internal/version"
	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/core"
	"github.com/arthur-debert/modmerge/pkg/output"
	"github.com/arthur-debert/modmerge/pkg/packs"
	"github.com/arthur-debert/modmerge/pkg/session"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func (a *app) renderer(cmd *cobra.Command, format string) (*output.Renderer, error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	w := cmd.OutOrStdout()
	return output.NewRenderer(w, f, colorDisabled(w, a.noColor)), nil
}

// packageNamesCompletion completes the names of packages under --root that
// are not already on the command line
func (a *app) packageNamesCompletion(skip int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) < skip {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg := a.cfg
		if cfg == nil {
			cfg = config.Default()
		}
		root, _ := cmd.Flags().GetString("root")

		all, err := packs.NewLoader(a.fs, cfg).Load(root)
		if len(all) == 0 && err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := lo.Filter(packs.Names(all), func(name string, _ int) bool {
			return !lo.Contains(args[skip:], name)
		})
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func newConflictsCmd(a *app) *cobra.Command {
	var (
		root   string
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:     "conflicts [packages...]",
		Short:   MsgConflictsShort,
		Long:    MsgConflictsLong,
		Example: MsgConflictsExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd, format)
			if err != nil {
				return err
			}

			log.Info().Str("root", root).Strs("packages", args).Msg("Listing conflicts")

			report, err := core.ListConflicts(a.fs, a.cfg, core.ConflictsOptions{
				Root:         root,
				PackageNames: args,
				AllFiles:     all,
			})
			if err != nil {
				return err
			}
			return r.RenderConflicts(report)
		},
	}
	cmd.ValidArgsFunction = a.packageNamesCompletion(0)

	cmd.Flags().StringVarP(&root, "root", "r", ".", MsgFlagRoot)
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	cmd.Flags().BoolVarP(&all, "all", "a", false, MsgFlagAll)
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var (
		root              string
		out               string
		format            string
		strategy          string
		ejections         []string
		overwrite         bool
		dryRun            bool
		collapseIdentical bool
	)

	cmd := &cobra.Command{
		Use:     "merge NAME [packages...]",
		Short:   MsgMergeShort,
		Long:    MsgMergeLong,
		Example: MsgMergeExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd, format)
			if err != nil {
				return err
			}

			if strategy == "" {
				strategy = a.cfg.Merge.Strategy
			}
			s, err := session.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			opts := core.MergeOptions{
				Root:              root,
				Name:              args[0],
				PackageNames:      args[1:],
				OutDir:            out,
				Strategy:          s,
				CollapseIdentical: collapseIdentical,
				Overwrite:         overwrite,
				DryRun:            dryRun,
			}
			for _, raw := range ejections {
				e, err := core.ParseEjection(raw)
				if err != nil {
					return err
				}
				opts.Ejections = append(opts.Ejections, e)
			}

			log.Info().
				Str("root", root).
				Str("name", opts.Name).
				Strs("packages", opts.PackageNames).
				Str("strategy", s.String()).
				Bool("dryRun", dryRun).
				Msg("Merging packages")

			result, err := core.MergePackages(a.fs, a.cfg, opts)
			if err != nil {
				return err
			}

			if err := r.RenderMerge(result.Report); err != nil {
				return err
			}
			if dryRun && format == "text" {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), MsgDryRunNotice)
			}
			return err
		},
	}
	cmd.ValidArgsFunction = a.packageNamesCompletion(1)

	cmd.Flags().StringVarP(&root, "root", "r", ".", MsgFlagRoot)
	cmd.Flags().StringVarP(&out, "out", "o", "", MsgFlagOut)
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", MsgFlagStrategy)
	cmd.Flags().StringArrayVarP(&ejections, "eject", "e", nil, MsgFlagEject)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, MsgFlagOverwrite)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&collapseIdentical, "collapse-identical", false, MsgFlagCollapseIdentical)

	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{"none", "left", "right"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}
