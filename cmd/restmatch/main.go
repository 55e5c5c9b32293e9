package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/restmatch"
	"github.com/mcncl/restmatch/internal/config"
	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/generator"
	"github.com/mcncl/restmatch/internal/models"
	"github.com/mcncl/restmatch/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Pattern     string `help:"Pattern expression to match the input against." short:"p"`
	PatternFile string `help:"Path to a file holding the pattern expression." short:"P" type:"path"`
	Scaffold    bool   `help:"Emit a pattern scaffolded from the input instead of matching." short:"s"`
	JSON        bool   `help:"Print extracted bindings as a JSON object." short:"j"`
	Config      string `help:"Path to config file. Defaults to the nearest .restmatch.yaml." short:"c" type:"path"`
	Version     bool   `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("restmatch"),
		kong.Description("Match JSON bodies against declarative patterns and extract bindings"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("restmatch version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := parseInput()
	if err != nil {
		return err
	}

	if CLI.Scaffold {
		gen := generator.NewGenerator(cfg)
		src, err := gen.Scaffold(value)
		if err != nil {
			return errors.NewInputError("failed to scaffold pattern", err)
		}
		fmt.Println(src)
		return nil
	}

	src, err := patternSource()
	if err != nil {
		return err
	}

	// The CLI cannot supply destination pointers, so every binding in
	// a CLI pattern needs an `as` annotation.
	res, err := restmatch.MatchValue(value, src)
	if err != nil {
		return err
	}
	return printBindings(res)
}

func loadConfig() (*config.Config, error) {
	if CLI.Config != "" {
		cfg, err := config.LoadConfig(CLI.Config)
		if err != nil {
			return nil, errors.NewInputError("failed to load config", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, errors.NewInputError("failed to load config", err)
	}
	return cfg, nil
}

// parseInput reads the JSON body from file or stdin
func parseInput() (models.JSONValue, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseBytes(data)
}

func patternSource() (string, error) {
	switch {
	case CLI.Pattern != "" && CLI.PatternFile != "":
		return "", errors.NewInputError("specify either --pattern or --pattern-file, not both", nil)
	case CLI.Pattern != "":
		return CLI.Pattern, nil
	case CLI.PatternFile != "":
		data, err := os.ReadFile(CLI.PatternFile)
		if err != nil {
			return "", errors.NewInputError(
				fmt.Sprintf("failed to read pattern file '%s'", CLI.PatternFile), err)
		}
		return string(data), nil
	default:
		return "", errors.NewInputError("no pattern provided: use --pattern, --pattern-file or --scaffold", nil)
	}
}

func printBindings(res *restmatch.Result) error {
	if CLI.JSON {
		out := make(map[string]interface{}, res.Len())
		for _, name := range res.Names() {
			v, _ := res.Value(name)
			out[name] = v
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.NewConversionError("failed to encode bindings", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	for _, name := range res.Names() {
		v, _ := res.Value(name)
		fmt.Printf("%s = %v\n", name, v)
	}
	return nil
}
