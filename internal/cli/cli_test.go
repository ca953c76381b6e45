package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
)

// run executes the command tree with a config file pointing the library at
// a temp directory.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "library:\n  path: " + filepath.Join(dir, "library.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return runWithConfig(t, cfgPath, args...)
}

func runWithConfig(t *testing.T, cfgPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, interchange.WriteFile(path, model.Template()))
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"validate", "search", "fmt", "template", "library", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"file", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %q", flag)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootCmd_WatchRequiresFile(t *testing.T) {
	_, _, err := run(t, "--watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires --file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		strict  bool
		wantErr string
		wantOut string
	}{
		{
			name:    "lenient empty rules",
			content: `{"rules": []}`,
			wantOut: "0 rules, 0 points (lenient)",
		},
		{
			name:    "lenient missing rules",
			content: `{"meta": {}}`,
			wantErr: "Invalid format: missing 'rules' array",
		},
		{
			name:    "strict missing meta",
			content: `{"rules": []}`,
			strict:  true,
			wantErr: "Missing 'meta' object",
		},
		{
			name:    "malformed",
			content: `{"rules": [`,
			wantErr: "Failed to parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"validate", writeFile(t, tt.content)}
			if tt.strict {
				args = append(args, "--strict")
			}

			stdout, stderr, err := run(t, args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, stderr, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.wantOut)
		})
	}
}

func TestValidate_StrictTemplate(t *testing.T) {
	stdout, _, err := run(t, "validate", "--strict", writeTemplate(t))

	require.NoError(t, err)
	assert.Contains(t, stdout, "2 rules, 4 points (strict)")
}

func TestSearch(t *testing.T) {
	stdout, _, err := run(t, "search", writeTemplate(t), "SLEEP")

	require.NoError(t, err)
	assert.Equal(t, "Health\n  - Sleep 7–8 hours nightly\n", stdout)
}

func TestSearch_NoMatch(t *testing.T) {
	stdout, _, err := run(t, "search", writeTemplate(t), "zzz")

	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFmt(t *testing.T) {
	path := writeFile(t, `{"rules":[{"id":"a","title":"A"}]}`)

	stdout, _, err := run(t, "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"points\": []")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"rules":[{"id":"a","title":"A"}]}`, string(raw))

	_, _, err = run(t, "fmt", "-w", path)
	require.NoError(t, err)
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(raw))
}

func TestTemplate(t *testing.T) {
	stdout, _, err := run(t, "template")
	require.NoError(t, err)

	doc, err := interchange.Parse([]byte(stdout), interchange.Strict)
	require.NoError(t, err)
	assert.Equal(t, model.Template(), doc)
}

func TestTemplate_OutputRefusesOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "starter.json")

	_, _, err := run(t, "template", "-o", out)
	require.NoError(t, err)
	_, err = os.Stat(out)
	require.NoError(t, err)

	_, _, err = run(t, "template", "-o", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "template", "-o", out, "--force")
	assert.NoError(t, err)
}

func TestLibrary_AddListShowRm(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "library:\n  path: " + filepath.Join(dir, "nested", "library.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := runWithConfig(t, cfgPath, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No exports saved.")

	stdout, _, err = runWithConfig(t, cfgPath, "library", "add", writeTemplate(t))
	require.NoError(t, err)
	id := strings.TrimSpace(stdout)
	require.NotEmpty(t, id)

	stdout, _, err = runWithConfig(t, cfgPath, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, id)
	assert.Contains(t, stdout, "My Rule Book")

	stdout, _, err = runWithConfig(t, cfgPath, "library", "show", id)
	require.NoError(t, err)
	doc, err := interchange.Parse([]byte(stdout), interchange.Strict)
	require.NoError(t, err)
	assert.Equal(t, model.Template(), doc)

	_, _, err = runWithConfig(t, cfgPath, "library", "rm", id)
	require.NoError(t, err)

	_, _, err = runWithConfig(t, cfgPath, "library", "rm", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no export with id")
}

func TestLibrary_AddRejectsInvalid(t *testing.T) {
	_, _, err := run(t, "library", "add", writeFile(t, `{"meta": {}}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'rules' array")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "rulebook dev\n", stdout)
}
