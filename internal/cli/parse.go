package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/habnabit/pip/pkg/markers"
	"github.com/habnabit/pip/pkg/req"
	"github.com/habnabit/pip/pkg/wheel"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	requirementFiles []string // -r files to read
	editables        []string // -e editable arguments
	pythonVersion    string   // target interpreter version
}

// environment builds the marker environment for the target interpreter.
func (o *parseOpts) environment() markers.Environment {
	env := markers.DefaultEnvironment()
	if o.pythonVersion != "" {
		env["python_version"] = o.pythonVersion
		env["python_full_version"] = o.pythonVersion
	}
	return env
}

// parseOptions converts the flags into req.ParseOptions.
func (o *parseOpts) parseOptions() req.ParseOptions {
	opts := req.ParseOptions{}
	if o.pythonVersion != "" {
		opts.SupportedTags = wheel.SupportedTags(o.pythonVersion)
	}
	return opts
}

// parseCommand creates the parse command, which parses requirement
// lines, editables, and requirements files without touching the
// network.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{pythonVersion: c.Config.PythonVersion}

	cmd := &cobra.Command{
		Use:   "parse [requirement...]",
		Short: "Parse requirement specifications",
		Long: `Parse requirement lines, editable arguments, and requirements files,
showing how each line decomposes into name, extras, version specifier,
source URL, and environment marker.

Examples:
  pip parse "requests[security]>=2.0"
  pip parse "simple==0.1; python_version >= '3'"
  pip parse -r requirements.txt
  pip parse -e git+https://github.com/pypa/pip.git#egg=pip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.requirementFiles, "requirement", "r", nil, "requirements file to parse (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.editables, "editable", "e", nil, "editable requirement (repeatable)")
	cmd.Flags().StringVar(&opts.pythonVersion, "python-version", opts.pythonVersion, "target interpreter version for marker evaluation")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, args []string, opts *parseOpts) error {
	reqs, err := c.collectRequirements(args, opts)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		printInfo("Nothing to parse")
		return nil
	}

	env := opts.environment()
	for _, r := range reqs {
		printRequirement(r, env)
	}
	printSuccess("Parsed %d requirement(s)", len(reqs))
	return nil
}

// collectRequirements gathers requirements from positional arguments,
// -e editables, and -r files, in that order.
func (c *CLI) collectRequirements(args []string, opts *parseOpts) ([]*req.Requirement, error) {
	parseOpts := opts.parseOptions()

	var reqs []*req.Requirement
	for _, line := range args {
		r, err := req.FromLine(line, parseOpts)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	for _, arg := range opts.editables {
		r, err := req.FromEditable(arg, c.Config.DefaultVCS, nil, parseOpts)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	for _, path := range opts.requirementFiles {
		fromFile, err := req.ParseFile(path, parseOpts)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, fromFile...)
	}
	return reqs, nil
}

// printRequirement shows one requirement's decomposition.
func printRequirement(r *req.Requirement, env markers.Environment) {
	name := r.Name
	if name == "" {
		name = "(unnamed)"
	}
	printTitle(name)
	if len(r.Extras) > 0 {
		printKeyValue("extras", strings.Join(r.Extras, ", "))
	}
	if spec := r.Specifier.String(); spec != "" {
		printKeyValue("specifier", spec)
	}
	if r.Link != nil {
		printKeyValue("url", r.Link.URL)
	}
	if r.Editable {
		printKeyValue("editable", "yes")
	}
	if r.ComesFrom != "" {
		printKeyValue("via", r.ComesFrom)
	}
	if r.Markers != "" {
		printKeyValue("marker", r.Markers)
		match, err := r.MatchMarkers(env)
		switch {
		case err != nil:
			printWarning("marker does not evaluate: %v", err)
		case match:
			printDetail("marker matches this environment")
		default:
			printDetail("marker does not match this environment")
		}
	}
}
