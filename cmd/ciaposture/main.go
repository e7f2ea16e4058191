package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/ciaposture/internal/catalog"
	"github.com/dshills/ciaposture/internal/compliance"
	"github.com/dshills/ciaposture/internal/delta"
	"github.com/dshills/ciaposture/internal/input"
	"github.com/dshills/ciaposture/internal/level"
	"github.com/dshills/ciaposture/internal/posture"
	"github.com/dshills/ciaposture/internal/profile"
	"github.com/dshills/ciaposture/internal/render"
	"github.com/dshills/ciaposture/internal/schema"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// assessFlags holds the parsed flags for the assess command.
type assessFlags struct {
	availability    string
	integrity       string
	confidentiality string
	profileName     string
	inputFile       string
	format          string
	out             string
	failBelow       string
	verbose         bool
}

// compareFlags holds the parsed flags for the compare command.
type compareFlags struct {
	from    string
	to      string
	format  string
	verbose bool
}

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:     "ciaposture",
		Short:   "Derive security posture from CIA protection levels",
		Long:    "ciaposture maps availability, integrity and confidentiality levels to cost, ROI, compliance, business impact and risk.",
		Version: version,
	}

	var af assessFlags
	assessCmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess one CIA level triple",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(af, stdout)
		},
	}
	f := assessCmd.Flags()
	f.StringVarP(&af.availability, "availability", "a", "", "Availability level: none, low, moderate, high, very-high")
	f.StringVarP(&af.integrity, "integrity", "i", "", "Integrity level")
	f.StringVarP(&af.confidentiality, "confidentiality", "c", "", "Confidentiality level")
	f.StringVar(&af.profileName, "profile", "", "Start from a named profile (see 'ciaposture profiles')")
	f.StringVar(&af.inputFile, "input", "", "Read levels from a YAML or JSON request file")
	f.StringVar(&af.format, "format", "json", "Output format: json, md or yaml")
	f.StringVar(&af.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&af.failBelow, "fail-below", "", "Exit 2 if compliance status is below this level (none, basic, standard, full)")
	f.BoolVar(&af.verbose, "verbose", false, "Print processing steps to stderr")

	var cf compareFlags
	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Show what changes between two CIA level triples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cf, stdout)
		},
	}
	g := compareCmd.Flags()
	g.StringVar(&cf.from, "from", "", "Starting triple as availability/integrity/confidentiality")
	g.StringVar(&cf.to, "to", "", "Target triple as availability/integrity/confidentiality")
	g.StringVar(&cf.format, "format", "text", "Output format: text or json")
	g.BoolVar(&cf.verbose, "verbose", false, "Print processing steps to stderr")
	_ = compareCmd.MarkFlagRequired("from")
	_ = compareCmd.MarkFlagRequired("to")

	frameworksCmd := &cobra.Command{
		Use:   "frameworks",
		Short: "List compliance frameworks and their minimum levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFrameworks(stdout)
		},
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List built-in level profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listProfiles(stdout)
		},
	}

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "List security levels with per-dimension cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listLevels(stdout)
		},
	}

	root.AddCommand(assessCmd, compareCmd, frameworksCmd, profilesCmd, levelsCmd)
	return root
}

func runAssess(flags assessFlags, stdout io.Writer) error {
	// --- Step 1: Validate flags ---
	if err := validateAssessFlags(flags); err != nil {
		return codeError(3, "invalid flags: %s", err)
	}

	// --- Step 2: Gather the selection (request file, then flags on top) ---
	var in schema.Input
	var sel input.Selection
	if flags.inputFile != "" {
		logVerbose(flags.verbose, "Loading request: %s", flags.inputFile)
		req, err := input.Load(flags.inputFile)
		if err != nil {
			return codeError(3, "loading request: %s", err)
		}
		sel = req.Selection
		in.File = req.Path
		in.FileHash = req.Hash
	}
	sel = sel.Overlay(input.Selection{
		Profile:         flags.profileName,
		Availability:    flags.availability,
		Integrity:       flags.integrity,
		Confidentiality: flags.confidentiality,
	})
	in.Profile = sel.Profile

	// --- Step 3: Validate levels at the boundary ---
	triple, err := sel.Resolve()
	if err != nil {
		return codeError(3, "invalid levels: %s", err)
	}
	logVerbose(flags.verbose, "Assessing %s", triple)

	// --- Step 4: Assess once; every output below reads this posture ---
	p := posture.Assess(triple)
	report := schema.NewReport(version, in, p)

	// --- Step 5: Render output ---
	logVerbose(flags.verbose, "Rendering output (format: %s)", flags.format)
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(3, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(report)
	if err != nil {
		return codeError(3, "rendering output: %s", err)
	}

	// --- Step 6: Write output ---
	if err := writeOutput(flags.out, outputBytes, stdout); err != nil {
		return codeError(3, "%s", err)
	}

	// --- Step 7: Evaluate --fail-below ---
	if flags.failBelow != "" {
		threshold, _ := compliance.ParseStatus(flags.failBelow)
		if compliance.StatusOrdinal(p.ComplianceStatus) < compliance.StatusOrdinal(threshold) {
			return codeError(2, "compliance status %s is below --fail-below threshold %s", p.ComplianceStatus, threshold)
		}
	}

	return nil
}

func runCompare(flags compareFlags, stdout io.Writer) error {
	switch flags.format {
	case "text", "json":
	default:
		return codeError(3, "invalid flags: --format must be text or json, got %q", flags.format)
	}

	from, err := input.ParseCompact(flags.from)
	if err != nil {
		return codeError(3, "invalid --from: %s", err)
	}
	to, err := input.ParseCompact(flags.to)
	if err != nil {
		return codeError(3, "invalid --to: %s", err)
	}
	logVerbose(flags.verbose, "Comparing %s -> %s", from, to)

	pFrom, pTo := posture.Assess(from), posture.Assess(to)
	d := delta.Compare(pFrom, pTo)

	if flags.format == "json" {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return codeError(3, "rendering output: %s", err)
		}
		return writeOutput("", data, stdout)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s -> %s\n", from, to)
	if d.Empty() {
		sb.WriteString("No changes.\n")
		return writeOutput("", []byte(sb.String()), stdout)
	}
	for _, c := range d.Changes {
		fmt.Fprintf(&sb, "%-32s %s -> %s\n", c.Field, c.From, c.To)
	}

	md, err := render.NewRenderer("md")
	if err != nil {
		return codeError(3, "%s", err)
	}
	fromText, err := md.Render(schema.NewReport(version, schema.Input{}, pFrom))
	if err != nil {
		return codeError(3, "rendering output: %s", err)
	}
	toText, err := md.Render(schema.NewReport(version, schema.Input{}, pTo))
	if err != nil {
		return codeError(3, "rendering output: %s", err)
	}
	if patch := delta.Diff(string(fromText), string(toText)); patch != "" {
		sb.WriteString("\n# report diff (diff-match-patch)\n")
		sb.WriteString(patch)
	}
	return writeOutput("", []byte(sb.String()), stdout)
}

func listFrameworks(w io.Writer) error {
	for _, f := range catalog.Default().Frameworks() {
		reqs := make([]string, 0, len(f.Requirements))
		for _, d := range f.SortedRequirementDimensions() {
			reqs = append(reqs, fmt.Sprintf("%s>=%s", d, f.Requirements[d]))
		}
		if _, err := fmt.Fprintf(w, "%-18s %-30s %s\n", f.ID, f.Name, strings.Join(reqs, ", ")); err != nil {
			return codeError(3, "writing output: %s", err)
		}
	}
	return nil
}

func listProfiles(w io.Writer) error {
	for _, name := range profile.Names() {
		p, err := profile.Get(name)
		if err != nil {
			return codeError(3, "%s", err)
		}
		if _, err := fmt.Fprintln(w, p.Summary()); err != nil {
			return codeError(3, "writing output: %s", err)
		}
	}
	return nil
}

func listLevels(w io.Writer) error {
	cat := catalog.Default()
	for _, l := range level.All() {
		cols := make([]string, 0, len(level.Dimensions))
		for _, d := range level.Dimensions {
			rec := cat.Option(d, l)
			cols = append(cols, fmt.Sprintf("%s %g/%g", d, rec.Capex, rec.Opex))
		}
		if _, err := fmt.Fprintf(w, "%d %-10s risk %-9s capex/opex: %s\n", level.Rank(l), l, cat.Risk(l), strings.Join(cols, ", ")); err != nil {
			return codeError(3, "writing output: %s", err)
		}
	}
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		return nil
	}
	if _, err := stdout.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(stdout)
	}
	return nil
}

// validateAssessFlags returns an error if any flag value is invalid.
// Level values are checked later, once the request file is merged in.
func validateAssessFlags(flags assessFlags) error {
	switch flags.format {
	case "json", "md", "yaml":
	default:
		return fmt.Errorf("--format must be json, md or yaml, got %q", flags.format)
	}

	if flags.failBelow != "" {
		if _, err := compliance.ParseStatus(flags.failBelow); err != nil {
			return fmt.Errorf("--fail-below: %w", err)
		}
	}

	return nil
}

// logVerbose writes an informational message to stderr when verbose mode is enabled.
func logVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
	}
}
