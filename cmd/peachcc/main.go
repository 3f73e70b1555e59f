package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/config"
	"github.com/raymyers/peachcc/pkg/lexer"
	"github.com/raymyers/peachcc/pkg/parser"
)

var version = "0.1.0"

// Debug flags for dumping intermediate results
var (
	dParse  bool
	dTokens bool
)

var (
	configPath string
	natives    []string
	verbose    bool
	format     string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dtokens"}

// normalizeFlags converts single-dash debug flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "peachcc [file]",
		Short: "peachcc parses a C subset and lays out its variables",
		Long: `peachcc is the front end of a small C compiler. It parses a
subset of C in a single pass, computes stack, argument and struct
member offsets, and can dump the resulting tree.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(errOut, "peachcc: %v\n", err)
				return err
			}
			log := newLogger(errOut, cfg)

			if dTokens {
				return doTokens(filename, out, errOut)
			}

			tree, err := parseFile(filename, cfg, log, errOut)
			if err != nil {
				return err
			}
			if dParse {
				return doParse(filename, tree, cfg.Dump, out, errOut)
			}

			log.WithField("nodes", tree.Len()).Debugf("parsed %s", filename)
			fmt.Fprintf(errOut, "peachcc: parsed %s\n", filename)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dTokens, "dtokens", "", false, "Dump the token stream")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.Flags().StringArrayVar(&natives, "native", nil, "Register a native function")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&format, "format", "", "Dump format (text or yaml)")

	return rootCmd
}

// loadConfig reads the configuration file, if any, and applies the flags on
// top of it
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	cfg.Natives = append(cfg.Natives, natives...)
	if format != "" {
		cfg.Dump = format
	}
	if verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to errOut, in colour only when errOut is a terminal
func newLogger(errOut io.Writer, cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(errOut)
	log.SetLevel(cfg.Level())
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !isTerminal(errOut),
		DisableTimestamp: true,
	})
	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readSource(filename string, errOut io.Writer) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "peachcc: error reading %s: %v\n", filename, err)
		return "", err
	}
	return string(content), nil
}

func tokenizeFile(filename string, errOut io.Writer) ([]lexer.Token, error) {
	content, err := readSource(filename, errOut)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.Tokenize(content, filename)
	if err != nil {
		fmt.Fprintf(errOut, "peachcc: %v\n", err)
		return nil, err
	}
	return tokens, nil
}

// parseFile reads, tokenizes and parses a C file
func parseFile(filename string, cfg *config.Config, log logrus.FieldLogger, errOut io.Writer) (*ast.Tree, error) {
	tokens, err := tokenizeFile(filename, errOut)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(tokens, parser.WithNatives(cfg.Natives...), parser.WithLogger(log))
	if err != nil {
		fmt.Fprintf(errOut, "peachcc: %v\n", err)
		return nil, err
	}
	return tree, nil
}

// doTokens prints every token, one per line
func doTokens(filename string, out, errOut io.Writer) error {
	tokens, err := tokenizeFile(filename, errOut)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if tok.Type == lexer.TokenNewline {
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", tok.Pos, tok.Type, tok.Text())
	}
	return nil
}

// doParse writes the tree to a .parsed.c (or .parsed.yaml) file next to the
// input and to out
func doParse(filename string, tree *ast.Tree, dump string, out, errOut io.Writer) error {
	var content []byte
	switch dump {
	case config.DumpYAML:
		data, err := ast.MarshalYAML(tree)
		if err != nil {
			fmt.Fprintf(errOut, "peachcc: %v\n", err)
			return err
		}
		content = data
	default:
		var sb strings.Builder
		ast.NewPrinter(&sb, tree).PrintTree()
		content = []byte(sb.String())
	}

	outputFilename := parsedOutputFilename(filename, dump)
	if err := os.WriteFile(outputFilename, content, 0644); err != nil {
		fmt.Fprintf(errOut, "peachcc: error creating %s: %v\n", outputFilename, err)
		return err
	}

	out.Write(content)
	return nil
}

// parsedOutputFilename returns the output filename for -dparse:
// input.c -> input.parsed.c, or input.parsed.yaml for YAML dumps
func parsedOutputFilename(filename, dump string) string {
	suffix := ".parsed.c"
	if dump == config.DumpYAML {
		suffix = ".parsed.yaml"
	}
	return strings.TrimSuffix(filename, ".c") + suffix
}
