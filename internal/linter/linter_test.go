package linter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richhaase/aifix/internal/parser"
)

func TestDefaultCommands(t *testing.T) {
	assert.Equal(t, Command{Name: "ruff", Args: []string{"check", "--output-format=json"}}, DefaultCommand("ruff"))
	assert.Equal(t, Command{Name: "npx", Args: []string{"eslint", "--format=json"}}, DefaultCommand("eslint"))
	assert.Equal(t, Command{Name: "npx", Args: []string{"tsc", "--noEmit"}}, DefaultCommand("tsc"))
}

func TestRunParsesToolOutput(t *testing.T) {
	r := NewRunner(nil, time.Second, 0, nil)
	r.execute = func(_ context.Context, cmd Command, files []string) ([]byte, error) {
		assert.Equal(t, "ruff", cmd.Name)
		assert.Equal(t, []string{"app.py"}, files)
		return []byte(`[{"code": "F401", "message": "unused", "filename": "app.py",
			"location": {"row": 1, "column": 1}, "fix": null}]`), nil
	}

	errs, err := r.Run(context.Background(), "ruff", []string{"app.py"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "F401", errs[0].Code)
}

func TestRunUnknownToolErrors(t *testing.T) {
	r := NewRunner(nil, time.Second, 0, nil)
	_, err := r.Run(context.Background(), "clippy", nil)
	assert.Error(t, err)
}

func TestRunCommandOverride(t *testing.T) {
	r := NewRunner(map[string]Command{
		"ruff": {Name: "my-ruff", Args: []string{"--json"}},
	}, time.Second, 0, nil)

	var seen Command
	r.execute = func(_ context.Context, cmd Command, _ []string) ([]byte, error) {
		seen = cmd
		return nil, nil
	}

	_, err := r.Run(context.Background(), "ruff", nil)
	require.NoError(t, err)
	assert.Equal(t, "my-ruff", seen.Name)
}

func TestCollectDedupesSortsAndTruncates(t *testing.T) {
	r := NewRunner(nil, time.Second, 2, nil)
	r.execute = func(_ context.Context, cmd Command, _ []string) ([]byte, error) {
		switch cmd.Name {
		case "ruff":
			return []byte(`[
				{"code": "E501", "message": "long line", "filename": "a.py", "location": {"row": 3, "column": 1}, "fix": null},
				{"code": "S608", "message": "sql injection", "filename": "a.py", "location": {"row": 9, "column": 2}, "fix": null}
			]`), nil
		case "pylint":
			return []byte(`[
				{"path": "a.py", "line": 3, "column": 1, "message-id": "C0301", "message": "line too long", "type": "convention"},
				{"path": "b.py", "line": 1, "column": 0, "message-id": "W0611", "message": "unused import", "type": "warning"}
			]`), nil
		}
		return nil, nil
	}

	errs, diags := r.Collect(context.Background(), []string{"ruff", "pylint"}, nil)
	assert.Empty(t, diags)
	require.Len(t, errs, 2)

	// Security first, the duplicate at a.py:3:1 merged, then truncation.
	assert.Equal(t, "S608", errs[0].Code)
	assert.Equal(t, "E501", errs[1].Code)
	assert.Equal(t, []string{"C0301"}, errs[1].MergedCodes)
}

func TestCollectRecordsParseFailuresAndContinues(t *testing.T) {
	r := NewRunner(nil, time.Second, 0, nil)
	r.execute = func(_ context.Context, cmd Command, _ []string) ([]byte, error) {
		if cmd.Name == "ruff" {
			return []byte("garbage"), nil
		}
		return []byte(`[{"path": "a.py", "line": 1, "column": 0, "message-id": "W0611",
			"message": "unused import", "type": "warning"}]`), nil
	}

	errs, diags := r.Collect(context.Background(), []string{"ruff", "pylint"}, nil)
	require.Len(t, diags, 1)
	var parseErr *parser.ParseError
	assert.ErrorAs(t, diags[0], &parseErr)
	require.Len(t, errs, 1)
	assert.Equal(t, "W0611", errs[0].Code)
}

func TestRunTimeoutIsNonFatal(t *testing.T) {
	r := NewRunner(nil, time.Second, 0, nil)
	r.execute = func(ctx context.Context, _ Command, _ []string) ([]byte, error) {
		return nil, context.DeadlineExceeded
	}

	errs, err := r.Run(context.Background(), "ruff", nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestDetectPythonProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[tool.ruff]\n"), 0644))

	// Detection depends on installed binaries; it must not report JS
	// linters for a Python-only tree either way.
	detected := Detect(dir)
	assert.NotContains(t, detected, "eslint")
	assert.NotContains(t, detected, "tsc")
}

func TestDetectTypeScriptProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte("{}"), 0644))

	detected := Detect(dir)
	assert.Contains(t, detected, "tsc")
	assert.NotContains(t, detected, "ruff")
}

func TestDetectEmptyProject(t *testing.T) {
	assert.Empty(t, Detect(t.TempDir()))
}
