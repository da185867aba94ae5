package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = `<h1>{{ greeting }}, {{ user }}</h1>{% each items as i %}{{ i }}{% endeach %}`
	testDataJSON        = `{"greeting": "Hello", "user": "Alice", "items": [1, 2]}`
	testExpectedOutput  = "<h1>Hello, Alice</h1>12"
	testDataYAML        = "greeting: Hi\nuser: Bob\nitems:\n  - 3\n  - 4\n"
	testDataHCL         = "greeting = \"Hey\"\nuser = \"Cy\"\nitems = [5, 6]\n"
)

// setupTestRoot creates a template root with a page, a partial and data files.
func setupTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"page.html":           testTemplateContent,
		"nested/wrap.html":    `[{% include "partials/inner" %}]`,
		"partials/inner.html": `{{ user }}`,
		"broken.html":         `{{ missing }}`,
		"data.json":           testDataJSON,
		"data.yaml":           testDataYAML,
		"data.hcl":            testDataHCL,
		"data.txt":            "x",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	}
	return root
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameRender)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "unknown")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

// ==================== Help command tests ====================

func TestHelp_Commands(t *testing.T) {
	tests := []struct {
		cmd      string
		expected string
	}{
		{CmdNameRender, HelpRenderUsage},
		{CmdNameCompile, HelpCompileUsage},
		{CmdNameVersion, HelpVersionUsage},
		{CmdNameHelp, HelpHelpUsage},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			code := runHelp([]string{tt.cmd}, stdout)

			assert.Equal(t, ExitCodeSuccess, code)
			assert.Contains(t, stdout.String(), tt.expected)
		})
	}
}

// ==================== Render command tests ====================

func TestRender_DataSources(t *testing.T) {
	root := setupTestRoot(t)
	cache := filepath.Join(t.TempDir(), "cache")

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"inline json", "", []string{"-d", testDataJSON}, testExpectedOutput},
		{"json file", "", []string{"-f", filepath.Join(root, "data.json")}, testExpectedOutput},
		{"json stdin", testDataJSON, []string{"--data-file", "-"}, testExpectedOutput},
		{"yaml file", "", []string{"-f", filepath.Join(root, "data.yaml")}, "<h1>Hi, Bob</h1>34"},
		{"hcl file", "", []string{"-f", filepath.Join(root, "data.hcl")}, "<h1>Hey, Cy</h1>56"},
		{"no cache", "", []string{"-d", testDataJSON, "--no-cache"}, testExpectedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{CmdNameRender, "-r", root, "-c", cache, "-n", "page.html"}, tt.args...)
			code, stdout, stderr := runCLI(t, tt.stdin, args...)

			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRender_SuffixAndIncludes(t *testing.T) {
	root := setupTestRoot(t)

	code, stdout, stderr := runCLI(t, "",
		CmdNameRender, "--root", root, "--cache", t.TempDir(),
		"--suffix", ".html", "--name", "nested/wrap", "--data", `{"user": "z"}`)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "[z]", stdout)
}

func TestRender_MaxDepth(t *testing.T) {
	root := setupTestRoot(t)

	code, _, stderr := runCLI(t, "",
		CmdNameRender, "-r", root, "-c", t.TempDir(), "--suffix", ".html", "-n", "nested/wrap", "--max-depth", "0", "-d", `{"user": "z"}`)

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, ErrMsgRenderFailed)
}

func TestRender_OutputFile(t *testing.T) {
	root := setupTestRoot(t)
	out := filepath.Join(t.TempDir(), "site", "pages", "out.html")

	code, stdout, stderr := runCLI(t, "",
		CmdNameRender, "-r", root, "-c", t.TempDir(), "-n", "page.html", "-d", testDataJSON, "-o", out)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(written))
}

func TestReadInput_NoStdin(t *testing.T) {
	_, err := readInput(InputSourceStdin, nil)
	require.Error(t, err)
	assert.Equal(t, ErrMsgNoStdin, err.Error())

	raw, err := readInput(InputSourceStdin, strings.NewReader(testDataJSON))
	require.NoError(t, err)
	assert.Equal(t, testDataJSON, string(raw))
}

func TestRender_Errors(t *testing.T) {
	root := setupTestRoot(t)
	cache := t.TempDir()
	base := []string{CmdNameRender, "-r", root, "-c", cache}

	tests := []struct {
		name     string
		args     []string
		exitCode int
		stderr   string
	}{
		{"missing name", []string{CmdNameRender}, ExitCodeUsageError, ErrMsgMissingName},
		{"unknown flag", []string{CmdNameRender, "--bogus"}, ExitCodeUsageError, ErrMsgInvalidFlags},
		{"invalid json", append(base, "-n", "page.html", "-d", "{nope"), ExitCodeInputError, ErrMsgInvalidData},
		{"json array", append(base, "-n", "page.html", "-d", "[1]"), ExitCodeInputError, ErrMsgDataNotObject},
		{"unsupported data file", append(base, "-n", "page.html", "-f", filepath.Join(root, "data.txt")), ExitCodeInputError, ErrMsgUnsupportedData},
		{"template not found", append(base, "-n", "nope.html"), ExitCodeNotFound, ErrMsgTemplateNotFound + ": " + filepath.Join(root, "nope.html")},
		{"undefined variable", append(base, "-n", "broken.html"), ExitCodeError, "undefined variable"},
		{"missing config file", append(base, "-n", "page.html", "--config", filepath.Join(root, "none.yaml")), ExitCodeUsageError, ErrMsgConfigFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)

			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestRender_Verbose(t *testing.T) {
	root := setupTestRoot(t)

	code, stdout, stderr := runCLI(t, "",
		CmdNameRender, "-r", root, "-c", t.TempDir(), "-n", "page.html", "-d", testDataJSON, "-v")

	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, testExpectedOutput, stdout)
	assert.Contains(t, stderr, "compiling template")
}

// ==================== Config file tests ====================

func TestRender_ConfigFile(t *testing.T) {
	root := setupTestRoot(t)
	cache := filepath.Join(t.TempDir(), "cfg-cache")
	config := filepath.Join(t.TempDir(), "templator.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"template_dir: "+root+"\ncache_dir: "+cache+"\nsuffix: .html\nmax_depth: 3\n"), FilePermissions))

	code, stdout, stderr := runCLI(t, "",
		CmdNameRender, "--config", config, "-n", "page", "-d", testDataJSON)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApplyConfigFile_FlagsWin(t *testing.T) {
	config := filepath.Join(t.TempDir(), "templator.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"template_dir: from-file\nsuffix: .tpl\nmax_depth: 2\npostgres:\n  dsn: postgres://file\n  table_prefix: app_\n  auto_migrate: true\n"), FilePermissions))

	cfg, err := parseCompileFlags([]string{"-n", "x", "--config", config, "-r", "from-flag", "--max-depth", "7"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.root)
	assert.Equal(t, 7, cfg.maxDepth)
	assert.Equal(t, ".tpl", cfg.suffix)
	assert.Equal(t, "postgres://file", cfg.dsn)
	assert.Equal(t, "app_", cfg.tablePrefix)
	assert.True(t, cfg.autoMigrate)
	assert.Equal(t, FlagDefaultCache, cfg.cache)
}

// ==================== Compile command tests ====================

func TestCompile(t *testing.T) {
	root := setupTestRoot(t)
	cache := t.TempDir()

	code, stdout, stderr := runCLI(t, "", CmdNameCompile, "-r", root, "-c", cache, "-n", "partials/inner.html")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, `<?go $.Echo "user" ?>`, stdout)

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	code, _, _ = runCLI(t, "", CmdNameCompile, "-r", root, "-c", cache, "-n", "missing.html")
	assert.Equal(t, ExitCodeNotFound, code)

	code, _, _ = runCLI(t, "", CmdNameCompile)
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== Data loading tests ====================

func TestLoadData_Numbers(t *testing.T) {
	data, err := loadData(`{"i": 3, "f": 1.5, "nested": {"list": [2]}}`, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, data["i"])
	assert.Equal(t, 1.5, data["f"])
	assert.Equal(t, []any{2}, data["nested"].(map[string]any)["list"])

	empty, err := loadData("", "", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoadData_HCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
name  = "taylor"
age   = 17
ratio = 0.5
admin = true
tags  = ["a", "b"]
user  = { city = "Lisbon", zip = 1000 }
none  = null
`), FilePermissions))

	data, err := loadData("", path, nil)
	require.NoError(t, err)

	assert.Equal(t, "taylor", data["name"])
	assert.Equal(t, 17, data["age"])
	assert.Equal(t, 0.5, data["ratio"])
	assert.Equal(t, true, data["admin"])
	assert.Equal(t, []any{"a", "b"}, data["tags"])
	assert.Equal(t, map[string]any{"city": "Lisbon", "zip": 1000}, data["user"])
	assert.Nil(t, data["none"])

	bad := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte("x = "), FilePermissions))
	_, err = loadData("", bad, nil)
	assert.ErrorContains(t, err, ErrMsgHCLParseFailed)

	block := filepath.Join(t.TempDir(), "block.hcl")
	require.NoError(t, os.WriteFile(block, []byte("user {\n  name = \"x\"\n}\n"), FilePermissions))
	_, err = loadData("", block, nil)
	assert.ErrorContains(t, err, ErrMsgHCLParseFailed)
}

func TestLoadData_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, nil, FilePermissions))

	data, err := loadData("", path, nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	list := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(list, []byte("- 1\n"), FilePermissions))
	_, err = loadData("", list, nil)
	assert.ErrorContains(t, err, ErrMsgDataNotObject)
}

// ==================== Version command tests ====================

func TestVersion_Text(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "go-templator version")
}

func TestVersion_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersion_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "", CmdNameVersion, "--format", "xml")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

func TestCurrentVersion_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project:\n  version: 9.9.9\ngit:\n  commit: abc\n"), FilePermissions))

	info := currentVersion([]string{filepath.Join(t.TempDir(), "missing.yaml"), path})
	assert.Equal(t, "9.9.9", info.Version)
	assert.Equal(t, "abc", info.Commit)
	assert.Equal(t, VersionUnknown, info.Branch)

	fallback := currentVersion(nil)
	assert.Equal(t, VersionUnknown, fallback.Version)
}
