package cli

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/roach88/gasunit/pkg/value"
)

// EqOptions holds flags for the eq command.
type EqOptions struct {
	*RootOptions
	Normalize bool
}

// EqResult is the JSON form of an eq comparison.
type EqResult struct {
	Equal     bool      `json:"equal"`
	Canonical [2]string `json:"canonical"`
	Literal   [2]string `json:"literal"`
	Diff      string    `json:"diff,omitempty"`
}

// NewEqCommand creates the eq command.
func NewEqCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EqOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eq <json-a> <json-b>",
		Short: "Compare two JSON values structurally",
		Long: `Compare two JSON documents the way toEqual does and print the
canonical encodings that were compared.

Object key order does not matter; array element order does.
With --verbose, a structural diff is printed when the values differ.

Exit codes:
  0 - Values are equal
  1 - Values differ
  2 - An argument is not valid JSON

Examples:
  gasunit eq '{"a":1,"b":2}' '{"b":2,"a":1}'
  gasunit eq '[1,2]' '[2,1]' --verbose`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEq(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Normalize, "nfc", false, "compare strings after NFC normalization")

	return cmd
}

func runEq(opts *EqOptions, a, b string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	va, err := value.ParseJSON([]byte(a))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, "first argument", err)
	}
	vb, err := value.ParseJSON([]byte(b))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, "second argument", err)
	}

	var copts []value.Option
	if opts.Normalize {
		copts = append(copts, value.WithNormalization())
	}
	c := value.NewComparer(copts...)

	result := EqResult{
		Equal:     c.Equal(va, vb),
		Canonical: [2]string{c.Canonical(va), c.Canonical(vb)},
		Literal:   [2]string{c.Literal(va), c.Literal(vb)},
	}
	if !result.Equal && opts.Verbose {
		result.Diff = cmp.Diff(value.Plain(va), value.Plain(vb))
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "a: %s\n", result.Canonical[0])
		fmt.Fprintf(w, "b: %s\n", result.Canonical[1])
		if result.Equal {
			fmt.Fprintln(w, "✓ equal")
		} else {
			fmt.Fprintln(w, "✗ not equal")
		}
		if result.Diff != "" {
			fmt.Fprintf(w, "Diff (-a +b):\n%s", result.Diff)
		}
	}

	if !result.Equal {
		return reported(NewExitError(ExitFailure, "values differ"))
	}
	return nil
}
