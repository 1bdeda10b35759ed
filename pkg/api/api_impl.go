package api

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/luabundle/luabundle/internal/bundler"
	"github.com/luabundle/luabundle/internal/cache"
	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_printer"
)

func validateStyle(options BuildOptions) (lua_printer.Style, error) {
	switch {
	case options.Minify && options.Beautify:
		return 0, &ConfigurationError{Text: "Cannot use both \"minify\" and \"beautify\""}
	case options.Minify:
		return lua_printer.StyleDense, nil
	case options.Beautify:
		return lua_printer.StyleReadable, nil
	default:
		return lua_printer.StyleDefault, nil
	}
}

func validateMetafile(metafile string) error {
	if metafile == "" {
		return nil
	}
	switch strings.ToLower(path.Ext(metafile)) {
	case ".json", ".yaml", ".yml":
		return nil
	}
	return &ConfigurationError{Text: fmt.Sprintf(
		"Unsupported metafile %q (expected a \".json\", \".yaml\", or \".yml\" file)", metafile)}
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if msg.Location != nil {
				loc := msg.Location
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

func buildImpl(options BuildOptions, fs fs.FS) (BuildResult, error) {
	start := time.Now()
	console := options.Console
	if console == nil {
		console = logger.DiscardConsole()
	}
	if options.Root == "" {
		options.Root = "."
	}

	// Convert and validate the options
	style, err := validateStyle(options)
	if err != nil {
		return BuildResult{}, err
	}
	if err := validateMetafile(options.Metafile); err != nil {
		return BuildResult{}, err
	}
	bundleOptions := bundler.Options{
		Root:    options.Root,
		Input:   options.Input,
		Output:  options.Output,
		Console: console,
	}
	if err := bundler.ValidateOptions(bundleOptions); err != nil {
		return BuildResult{}, err
	}
	console.Debug("Options", "root", options.Root, "input", options.Input, "output", options.Output, "style", style)

	// Bundle the entry file
	log := logger.NewDeferLog()
	bundle, err := bundler.Bundle(log, fs, cache.MakeCacheSet(), bundleOptions)
	msgs := log.Done()
	result := BuildResult{
		Errors:   messagesOfKind(logger.Error, msgs),
		Warnings: messagesOfKind(logger.Warning, msgs),
	}
	if err != nil {
		return result, err
	}

	// Format the bundle
	outputPath := bundler.ModulePath(options.Root, options.Output)
	contents := lua_printer.Print(bundle.AST, lua_printer.Options{
		Style:     style,
		LineLimit: options.LineLimit,
	})
	result.OutputFiles = []OutputFile{{Path: outputPath, Contents: contents}}
	result.Count = bundle.Count
	for _, module := range bundle.Modules {
		result.Modules = append(result.Modules, Module{Path: module.Path, Bytes: module.Bytes, Sites: module.Sites})
	}

	// The metafile path is used as given, not relative to the root
	if options.Metafile != "" {
		meta, err := generateMetafile(options.Metafile, outputPath, style, result)
		if err != nil {
			return result, err
		}
		result.OutputFiles = append(result.OutputFiles, OutputFile{Path: options.Metafile, Contents: meta})
	}

	if options.Write {
		for _, outputFile := range result.OutputFiles {
			console.Info("Writing", "path", outputFile.Path)
			if err := fs.WriteFile(outputFile.Path, outputFile.Contents); err != nil {
				return result, &IOError{Op: "write", Path: outputFile.Path, Err: err}
			}
		}
	}

	console.Info(fmt.Sprintf("Bundled %d files with %d acquire calls", len(result.Modules), result.Count),
		"size", humanize.Bytes(uint64(len(contents))),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

type metafileInput struct {
	Path  string `json:"path" yaml:"path"`
	Bytes int    `json:"bytes" yaml:"bytes"`
	Size  string `json:"size" yaml:"size"`
	Sites int    `json:"sites" yaml:"sites"`
}

type metafileOutput struct {
	Path     string `json:"path" yaml:"path"`
	Bytes    int    `json:"bytes" yaml:"bytes"`
	Size     string `json:"size" yaml:"size"`
	Style    string `json:"style" yaml:"style"`
	Acquires int    `json:"acquires" yaml:"acquires"`
}

type metafile struct {
	Inputs []metafileInput `json:"inputs" yaml:"inputs"`
	Output metafileOutput  `json:"output" yaml:"output"`
}

func generateMetafile(metafilePath string, outputPath string, style lua_printer.Style, result BuildResult) ([]byte, error) {
	contents := result.OutputFiles[0].Contents
	meta := metafile{
		Inputs: []metafileInput{},
		Output: metafileOutput{
			Path:     outputPath,
			Bytes:    len(contents),
			Size:     humanize.Bytes(uint64(len(contents))),
			Style:    style.String(),
			Acquires: result.Count,
		},
	}
	for _, module := range result.Modules {
		meta.Inputs = append(meta.Inputs, metafileInput{
			Path:  module.Path,
			Bytes: module.Bytes,
			Size:  humanize.Bytes(uint64(module.Bytes)),
			Sites: module.Sites,
		})
	}

	switch strings.ToLower(path.Ext(metafilePath)) {
	case ".yaml", ".yml":
		return yaml.Marshal(&meta)
	default:
		buffer, err := json.MarshalIndent(&meta, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(buffer, '\n'), nil
	}
}
