// Command ccfraud-config validates pipeline configuration files and prints
// their defaults.
//
//	ccfraud-config validate configs/lgbm.yaml
//	ccfraud-config defaults --name fraud-lgbm
//	ccfraud-config paths
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ccfraud"
	"github.com/YuminosukeSato/ccfraud/pkg/configfile"
	"github.com/YuminosukeSato/ccfraud/pkg/errors"
	"github.com/YuminosukeSato/ccfraud/pkg/log"
	"github.com/YuminosukeSato/ccfraud/schema"
)

func main() {
	err := errors.SafeExecute("ccfraud-config", newRootCmd(os.Stdout, os.Stderr).Execute)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel  string
	logFormat string
	envPrefix string
	noEnv     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ccfraud-config",
		Short:         "Validate credit card fraud pipeline configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(stderr, opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	flags.StringVar(&opts.envPrefix, "env-prefix", configfile.DefaultEnvPrefix, "prefix of override variables")
	flags.BoolVar(&opts.noEnv, "no-env", false, "ignore override variables")

	root.AddCommand(
		newValidateCmd(opts),
		newSelectionCmd(opts),
		newDefaultsCmd(),
		newPathsCmd(opts),
	)
	return root
}

// setupLogging installs the process logger and routes configuration warnings
// to it.
func setupLogging(w io.Writer, opts *rootOptions) error {
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	switch opts.logFormat {
	case "console":
		zl := log.NewConsoleLogger(w, level)
		log.SetLogger(zl)
		errors.SetZerologWarnFunc(zl.WarnFunc())
	case "json":
		log.SetupLoggerTo(w, opts.logLevel)
		log.SetLogger(nil)
		errors.SetZerologWarnFunc(nil)
		errors.SetWarningHandler(func(warning error) {
			log.GetLoggerWithName("cli").Warn("configuration warning", log.ErrAttrKey, warning)
		})
	default:
		return errors.Newf("unknown log format %q", opts.logFormat)
	}
	return nil
}

func (o *rootOptions) loaderOptions(extra ...configfile.Option) []configfile.Option {
	out := []configfile.Option{configfile.WithEnvPrefix(o.envPrefix)}
	if o.noEnv {
		out = append(out, configfile.WithoutEnv())
	}
	return append(out, extra...)
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	var (
		strict  bool
		seedMax bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a configuration file and print its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var schemaOpts []schema.Option
			if strict {
				schemaOpts = append(schemaOpts, schema.WithDisallowUnknownFields())
			}
			if seedMax {
				schemaOpts = append(schemaOpts, schema.WithRandomStateBound(ccfraud.MaxRandomState))
			}
			logger := log.GetLoggerWithName("cli").With(log.OperationKey, log.OperationValidate)
			cfg, err := configfile.Load(args[0], root.loaderOptions(
				configfile.WithLogger(logger),
				configfile.WithSchemaOptions(schemaOpts...),
			)...)
			if err != nil {
				printFieldErrors(cmd.ErrOrStderr(), err)
				return err
			}
			return render(cmd.OutOrStdout(), output, cfg.Params(), cfg.ToMap())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject keys that are not part of the schema")
	cmd.Flags().BoolVar(&seedMax, "seed-max", false, fmt.Sprintf("reject random_state above %d", ccfraud.MaxRandomState))
	cmd.Flags().StringVarP(&output, "output", "o", "params", "output: params, yaml or json")
	return cmd
}

func newSelectionCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "selection <file>",
		Short: "Validate a saved feature selection result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld := configfile.NewLoader(root.loaderOptions(configfile.WithLogger(log.GetLoggerWithName("cli")))...)
			fs, err := ld.LoadFeatureSelection(args[0])
			if err != nil {
				printFieldErrors(cmd.ErrOrStderr(), err)
				return err
			}
			if overlap := fs.Overlap(); len(overlap) > 0 {
				errors.Warn(errors.NewConfigWarning("selected_features", fmt.Sprintf("also dropped: %v", overlap)))
			}
			return render(cmd.OutOrStdout(), output, fs.Params(), fs.ToMap())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "params", "output: params, yaml or json")
	return cmd
}

func newDefaultsCmd() *cobra.Command {
	var (
		name   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default configuration for a model name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := schema.Build(name)
			if err != nil {
				printFieldErrors(cmd.ErrOrStderr(), err)
				return err
			}
			log.GetLoggerWithName("cli").Debug("defaults built",
				log.OperationKey, log.OperationDefaults,
				log.ModelNameKey, name,
				log.ExperimentKey, ccfraud.MLflowExperimentName,
				log.TrackingURIKey, ccfraud.MLflowTrackingURI,
				log.DatasetIDKey, ccfraud.OpenMLDatasetID,
			)
			return render(cmd.OutOrStdout(), output, cfg.Params(), cfg.ToMap())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "model name (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output: params, yaml or json")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPathsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List every configuration field and its override variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, path := range schema.Paths() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", path, configfile.EnvVar(root.envPrefix, path))
			}
			return nil
		},
	}
}

func printFieldErrors(w io.Writer, err error) {
	var verr *errors.ValidationErrors
	if !errors.As(err, &verr) {
		return
	}
	for _, fe := range verr.Fields {
		fmt.Fprintf(w, "%s\t%s\t%s\n", fe.Path, fe.Kind, fe.Reason)
	}
}

func render(w io.Writer, output string, params map[string]string, doc map[string]any) error {
	switch output {
	case "params":
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s=%s\n", k, params[k])
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return errors.Newf("unknown output %q", output)
}
