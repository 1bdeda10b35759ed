package api

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/test"
)

var testFiles = map[string]string{
	"./test/main.lua":      "acquire('test_file.lua')",
	"./test/test_file.lua": "local x = 42",
}

func testOptions() BuildOptions {
	return BuildOptions{Root: "./test", Input: "main.lua", Output: "bundled.lua", Write: true}
}

func expectBuilt(t *testing.T, options BuildOptions, expected string) *fs.MockFileSystem {
	t.Helper()
	mock := fs.MockFS(testFiles)
	result, err := buildImpl(options, mock)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, result.Count, 1)
	test.AssertEqualWithDiff(t, string(result.OutputFiles[0].Contents), expected)

	written, ok := mock.Contents("./test/bundled.lua")
	test.AssertEqual(t, ok, true)
	test.AssertEqualWithDiff(t, written, expected)
	return mock
}

func TestBuildDefault(t *testing.T) {
	expectBuilt(t, testOptions(), "-- ./test/test_file.lua\n(function(...) local x = 42 end)();\n")
}

func TestBuildMinify(t *testing.T) {
	options := testOptions()
	options.Minify = true
	expectBuilt(t, options, "(function(...)local x=42 end)()")
}

func TestBuildBeautify(t *testing.T) {
	options := testOptions()
	options.Beautify = true
	expectBuilt(t, options, "(function(...)\n    local x = 42\nend)()\n")
}

func TestBuildWithoutWrite(t *testing.T) {
	mock := fs.MockFS(testFiles)
	options := testOptions()
	options.Write = false
	result, err := buildImpl(options, mock)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, len(result.OutputFiles), 1)
	test.AssertEqual(t, result.OutputFiles[0].Path, "./test/bundled.lua")

	_, ok := mock.Contents("./test/bundled.lua")
	test.AssertEqual(t, ok, false)
}

func TestBuildConfigurationErrors(t *testing.T) {
	expectConfigurationError := func(options BuildOptions) {
		t.Helper()
		mock := fs.MockFS(testFiles)
		_, err := buildImpl(options, mock)
		var configError *ConfigurationError
		if !errors.As(err, &configError) {
			t.Fatalf("Expected a configuration error but got %v", err)
		}
		test.AssertEqual(t, mock.ReadCount("./test/main.lua"), 0)
	}

	options := testOptions()
	options.Minify = true
	options.Beautify = true
	expectConfigurationError(options)

	options = testOptions()
	options.Output = "./main.lua"
	expectConfigurationError(options)

	options = testOptions()
	options.Metafile = "meta.txt"
	expectConfigurationError(options)
}

func TestBuildMalformedAcquire(t *testing.T) {
	mock := fs.MockFS(map[string]string{
		"./test/main.lua": "local m = acquire(name)",
	})
	result, err := buildImpl(testOptions(), mock)

	var malformed *MalformedAcquireError
	test.AssertEqual(t, errors.As(err, &malformed), true)
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Location.File, "./test/main.lua")
	test.AssertEqual(t, result.Errors[0].Location.Column, 10)
	test.AssertEqual(t, result.Errors[0].Location.Length, 13)
	test.AssertEqual(t, len(result.OutputFiles), 0)

	// Nothing is written when the build fails
	_, ok := mock.Contents("./test/bundled.lua")
	test.AssertEqual(t, ok, false)
}

func TestBuildParseError(t *testing.T) {
	mock := fs.MockFS(map[string]string{
		"./test/main.lua":   "acquire('broken.lua')",
		"./test/broken.lua": "if x then",
	})
	result, err := buildImpl(testOptions(), mock)

	var parseError *ParseError
	test.AssertEqual(t, errors.As(err, &parseError), true)
	test.AssertEqual(t, parseError.Path, "./test/broken.lua")
	test.AssertEqual(t, len(result.Errors) > 0, true)
	test.AssertEqual(t, result.Errors[0].Location.File, "./test/broken.lua")

	_, ok := mock.Contents("./test/bundled.lua")
	test.AssertEqual(t, ok, false)
}

func TestBuildMissingInput(t *testing.T) {
	_, err := buildImpl(testOptions(), fs.MockFS(map[string]string{}))

	var ioError *IOError
	test.AssertEqual(t, errors.As(err, &ioError), true)
	test.AssertEqual(t, ioError.Op, "read")
}

type readOnlyFS struct {
	*fs.MockFileSystem
}

func (readOnlyFS) WriteFile(path string, contents []byte) error {
	return errors.New("read-only file system")
}

func TestBuildWriteError(t *testing.T) {
	_, err := buildImpl(testOptions(), readOnlyFS{fs.MockFS(testFiles)})

	var ioError *IOError
	test.AssertEqual(t, errors.As(err, &ioError), true)
	test.AssertEqual(t, ioError.Op, "write")
	test.AssertEqual(t, ioError.Path, "./test/bundled.lua")
	test.AssertEqual(t, err.Error(), "Could not write \"./test/bundled.lua\": read-only file system")
}

func TestBuildMetafileJSON(t *testing.T) {
	mock := fs.MockFS(testFiles)
	options := testOptions()
	options.Metafile = "out/meta.json"
	result, err := buildImpl(options, mock)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, len(result.OutputFiles), 2)

	written, ok := mock.Contents("out/meta.json")
	test.AssertEqual(t, ok, true)

	var meta metafile
	if err := json.Unmarshal([]byte(written), &meta); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, len(meta.Inputs), 1)
	test.AssertEqual(t, meta.Inputs[0], metafileInput{Path: "./test/test_file.lua", Bytes: 12, Size: "12 B", Sites: 1})
	test.AssertEqual(t, meta.Output, metafileOutput{Path: "./test/bundled.lua", Bytes: 60, Size: "60 B", Style: "default", Acquires: 1})
}

func TestBuildMetafileYAML(t *testing.T) {
	mock := fs.MockFS(testFiles)
	options := testOptions()
	options.Minify = true
	options.Metafile = "meta.yml"
	_, err := buildImpl(options, mock)
	test.AssertEqual(t, err, nil)

	written, ok := mock.Contents("meta.yml")
	test.AssertEqual(t, ok, true)

	var meta metafile
	if err := yaml.Unmarshal([]byte(written), &meta); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, meta.Output.Style, "dense")
	test.AssertEqual(t, meta.Output.Bytes, len("(function(...)local x=42 end)()"))
	test.AssertEqual(t, meta.Inputs[0].Path, "./test/test_file.lua")
}
