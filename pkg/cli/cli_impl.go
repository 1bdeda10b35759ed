package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luabundle/luabundle/internal/exitcode"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/pkg/api"
)

const (
	envPrefix      = "LUABUNDLE"
	configFileName = "luabundle"
)

type settings struct {
	Root      string
	Input     string
	Output    string
	Minify    bool
	Beautify  bool
	LineLimit int
	LogLevel  string
	Metafile  string

	// The config file that was read, if any
	ConfigFile string
}

// NewRootCommand returns the "luabundle" command. Each call gets its own
// viper instance so commands can be built more than once in one process.
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "luabundle",
		Short: "Inline acquire() calls into a single Lua file",
		Long: `luabundle reads a Lua entry file and replaces every call of the form
acquire("path") with the contents of that file, wrapped in a function that is
called on the spot. Paths are relative to the root directory. The result is a
single file that runs without any module loader.`,
		Example: `  luabundle -r src -i main.lua -o bundled.lua
  luabundle --minify --metafile meta.json
  LUABUNDLE_BEAUTIFY=true luabundle`,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			return exitcode.Set(cobra.NoArgs(cmd, args), exitcode.Usage)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			return runBuild(cmd, s)
		},
	}

	flags := cmd.Flags()
	flags.StringP("root", "r", ".", "directory that the input, the output, and every acquire path are relative to")
	flags.StringP("input", "i", "main.lua", "entry file")
	flags.StringP("output", "o", "bundled.lua", "file the bundle is written to")
	flags.BoolP("minify", "m", false, "remove comments and unneeded whitespace")
	flags.BoolP("beautify", "b", false, "reformat the bundle with one statement per line")
	flags.Int("line-limit", 80, "maximum line length of minified output")
	flags.String("log-level", "info", "progress output (debug, info, warn, or error)")
	flags.String("metafile", "", "write a description of the bundle to this .json, .yaml, or .yml file")
	flags.String("config", "", "config file (default is luabundle.{toml,yaml,json} in the root directory)")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.Set(err, exitcode.Usage)
	})
	return cmd
}

// loadSettings merges flags, environment variables, and the config file.
// An explicitly set flag always wins.
func loadSettings(v *viper.Viper, cmd *cobra.Command) (settings, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The config file is looked up in the root directory unless one is named,
	// and only a named one has to exist
	configFile := v.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(v.GetString("root"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return settings{}, &api.ConfigurationError{Text: fmt.Sprintf("Could not load config file: %s", err.Error())}
		}
	}

	return settings{
		Root:      v.GetString("root"),
		Input:     v.GetString("input"),
		Output:    v.GetString("output"),
		Minify:    v.GetBool("minify"),
		Beautify:  v.GetBool("beautify"),
		LineLimit: v.GetInt("line-limit"),
		LogLevel:  v.GetString("log-level"),
		Metafile:  v.GetString("metafile"),

		ConfigFile: v.ConfigFileUsed(),
	}, nil
}

func runBuild(cmd *cobra.Command, s settings) error {
	console, err := logger.NewConsole(cmd.ErrOrStderr(), s.LogLevel)
	if err != nil {
		return &api.ConfigurationError{Text: err.Error()}
	}
	if s.ConfigFile != "" {
		console.Debug("Loaded config file", "path", s.ConfigFile)
	}

	result, err := api.Build(api.BuildOptions{
		Root:      s.Root,
		Input:     s.Input,
		Output:    s.Output,
		Minify:    s.Minify,
		Beautify:  s.Beautify,
		LineLimit: s.LineLimit,
		Metafile:  s.Metafile,
		Write:     true,
		Console:   console,
	})
	printMessages(logger.Warning, result.Warnings)
	printMessages(logger.Error, result.Errors)

	// Errors that came with diagnostics have already been printed
	if err != nil && len(result.Errors) > 0 {
		return reportedError{err}
	}
	return err
}

// An error whose diagnostics were printed with their source locations
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func printMessages(kind logger.MsgKind, messages []api.Message) {
	if len(messages) == 0 {
		return
	}
	msgs := make([]logger.Msg, 0, len(messages))
	for _, message := range messages {
		msg := logger.Msg{Kind: kind, Text: message.Text}
		if loc := message.Location; loc != nil {
			msg.Location = &logger.MsgLocation{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		msgs = append(msgs, msg)
	}
	logger.PrintMsgsToStderr(msgs)
}

func printError(err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	logger.PrintMsgsToStderr([]logger.Msg{{Kind: logger.Error, Text: err.Error()}})
}
