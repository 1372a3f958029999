package cli

import (
	_ "embed"
	"strings"
)

// Short messages
const (
	MsgRootShort       = "Find and merge conflicting game content packages"
	MsgConflictsShort  = "List files that packages supply in common"
	MsgMergeShort      = "Merge packages into one consolidated package"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Write the man page to stdout"

	MsgFlagVerbose           = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig            = "Config file (default $XDG_CONFIG_HOME/modmerge/config.toml)"
	MsgFlagNoColor           = "Disable colored output"
	MsgFlagRoot              = "Directory holding the packages"
	MsgFlagFormat            = "Output format: text, yaml or json"
	MsgFlagAll               = "Include files without conflicts"
	MsgFlagOut               = "Output directory (default ROOT/<package id>)"
	MsgFlagStrategy          = "Conflict strategy: none, left or right (default merge.strategy)"
	MsgFlagOverwrite         = "Replace a non-empty output directory"
	MsgFlagDryRun            = "Merge without writing anything"
	MsgFlagEject             = "Keep package:path[:before|after] out of the merge (repeatable)"
	MsgFlagCollapseIdentical = "Copy colliding files whose variants are all identical"

	MsgVersionFormat = "modmerge version %s\n  commit: %s\n  built:  %s\n"
	MsgDryRunNotice  = "DRY RUN - nothing was written"

	MsgErrNoCommand = "no command specified"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/conflicts-long.txt
	msgConflictsLongRaw string
	MsgConflictsLong    = strings.TrimSpace(msgConflictsLongRaw)

	//go:embed msgs/conflicts-example.txt
	msgConflictsExampleRaw string
	MsgConflictsExample    = strings.TrimRight(msgConflictsExampleRaw, "\n")

	//go:embed msgs/merge-long.txt
	msgMergeLongRaw string
	MsgMergeLong    = strings.TrimSpace(msgMergeLongRaw)

	//go:embed msgs/merge-example.txt
	msgMergeExampleRaw string
	MsgMergeExample    = strings.TrimRight(msgMergeExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
