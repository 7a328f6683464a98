package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/habnabit/pip/pkg/req"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	parseOpts

	buildDir    string // where sources unpack
	downloadDir string // where distributions download
	noCache     bool   // bypass the response cache
	maxFiles    int    // candidate files shown per requirement
}

// resolveCommand creates the resolve command, which aggregates
// requirements into a set and finds distribution candidates on the
// index.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{parseOpts: parseOpts{pythonVersion: c.Config.PythonVersion}}

	cmd := &cobra.Command{
		Use:   "resolve [requirement...]",
		Short: "Resolve requirements against the package index",
		Long: `Resolve requirements: evaluate environment markers, merge duplicate
projects, claim build directories, and list the distribution candidates
the index offers for each requirement.

Examples:
  pip resolve requests "urllib3>=2.0"
  pip resolve -r requirements.txt
  pip resolve --python-version 3.10 "tomli; python_version < '3.11'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, args, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.requirementFiles, "requirement", "r", nil, "requirements file (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.editables, "editable", "e", nil, "editable requirement (repeatable)")
	cmd.Flags().StringVar(&opts.pythonVersion, "python-version", opts.pythonVersion, "target interpreter version")
	cmd.Flags().StringVarP(&opts.buildDir, "build", "b", c.Config.BuildDir, "directory to unpack sources into")
	cmd.Flags().StringVarP(&opts.downloadDir, "download", "d", "", "directory to download distributions into")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().IntVar(&opts.maxFiles, "max-files", 3, "candidate files shown per requirement")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, args []string, opts *resolveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	reqs, err := c.collectRequirements(args, &opts.parseOpts)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("no requirements given (positional, -e, or -r)")
	}

	rs := req.NewRequirementSet(opts.buildDir, "", opts.downloadDir,
		req.WithFinder(c.newFinder(opts.noCache)),
		req.WithEnvironment(opts.environment()))

	for _, r := range reqs {
		result, err := rs.AddRequirement(r, "")
		if err != nil {
			return err
		}
		if result == req.RejectedByMarker {
			logger.Debugf("Skipping %s: marker %q does not match", r, r.Markers)
		}
	}

	for _, r := range rs.Rejected() {
		printDetail("skipped %s (marker: %s)", r, r.Markers)
	}

	logger.Debugf("Resolving %d requirement(s) against the index", len(rs.Requirements()))
	found, err := rs.Prepare(ctx)
	if err != nil {
		return err
	}

	for _, r := range rs.Requirements() {
		printTitle(r.String())
		if parent := rs.Parent(r.Name); parent != "" {
			printKeyValue("required by", parent)
		}
		candidates := found[r.Name]
		if r.Link != nil {
			printKeyValue("source", r.Link.URL)
			continue
		}
		if len(candidates) == 0 {
			printWarning("no candidates found")
			continue
		}
		printKeyValue("latest", candidates[0].Version)
		for i, cand := range candidates {
			if i >= opts.maxFiles {
				printDetail("... and %d more files", len(candidates)-i)
				break
			}
			printFile(cand.Filename)
		}
	}

	prog.done(fmt.Sprintf("Resolved %d requirement(s)", len(rs.Requirements())))
	return nil
}
