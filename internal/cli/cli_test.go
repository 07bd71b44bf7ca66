package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/specbook/internal/sqlite"
)

// workspace is a config and data directory pair for one test.
type workspace struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	return &workspace{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes one command line against the workspace.
func (w *workspace) run(args ...string) (stdout, stderr string, code int) {
	w.t.Helper()
	var out, errOut bytes.Buffer
	full := append(args, "--config-dir", w.configDir, "--data-dir", w.dataDir)
	code = Run(full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// ok runs a command line and fails the test unless it exits 0.
func (w *workspace) ok(args ...string) string {
	w.t.Helper()
	out, errOut, code := w.run(args...)
	require.Equal(w.t, exitSuccess, code, "specbook %s\nstderr: %s", strings.Join(args, " "), errOut)
	return out
}

func TestVersion(t *testing.T) {
	w := newWorkspace(t)
	out := w.ok("version")
	assert.Contains(t, out, "specbook v"+Version)
	assert.NoDirExists(t, w.configDir, "version must not create the config directory")
}

func TestInit(t *testing.T) {
	w := newWorkspace(t)

	out := w.ok("init")
	assert.Contains(t, out, "json backend")
	data, err := os.ReadFile(filepath.Join(w.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: json")
	assert.Contains(t, string(data), "baseline_variant: Default Value")
	assert.DirExists(t, w.dataDir)

	out = w.ok("init", "--backend", "sqlite")
	assert.Contains(t, out, "Keeping existing config.yaml")
	assert.Contains(t, out, "json backend")
}

func TestInitSQLite(t *testing.T) {
	w := newWorkspace(t)
	w.ok("init", "--backend", "sqlite")
	assert.FileExists(t, filepath.Join(w.dataDir, sqlite.DBFile))

	w.ok("param", "add", "Devices", "Router1")
	out := w.ok("param", "list", "Devices")
	assert.Equal(t, "Router1\n", out)
}

func TestInitUnknownBackend(t *testing.T) {
	w := newWorkspace(t)
	_, _, code := w.run("init", "--backend", "paper")
	assert.Equal(t, exitUserError, code)
	assert.NoFileExists(t, filepath.Join(w.configDir, configFileExt))
}

func TestAuthoringWorkflow(t *testing.T) {
	w := newWorkspace(t)
	w.ok("param", "add", "Devices", "Router1")
	w.ok("param", "set", "Devices", "Router1", "Default Value", "10.0.0.1")
	w.ok("command", "add", "Ping", "--action", "Ping {Devices}", "--expected", "{Devices} replies")
	w.ok("test", "add", "Login", "--precondition", "Device powered")

	out := w.ok("test", "step", "compose", "Login", "Ping", "Devices=Router1")
	assert.Contains(t, out, "Action: Ping Router1")
	assert.Contains(t, out, "Devices = Router1")

	var v testView
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "Login", "--json")), &v))
	assert.Equal(t, []stepView{{Action: "Ping Router1", Expected: "Router1 replies"}}, v.Steps)
	assert.Equal(t, []string{"Default Value:", "Router1 = 10.0.0.1", ""}, v.TestDataDescription)
	assert.Equal(t, []string{
		"PRECONDITION:",
		"1. Device powered",
		"",
		"ACTION:",
		"1. Ping 'Router1' 'Router1' replies",
	}, v.DescriptionTCG)

	// A value edit refreshes the stored derived fields straight away.
	w.ok("param", "set", "Devices", "Router1", "Default Value", "10.0.0.2")
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "Login", "--json")), &v))
	assert.Equal(t, []string{"Default Value:", "Router1 = 10.0.0.2", ""}, v.TestDataDescription)
	assert.Equal(t, "Login: up to date\n", w.ok("test", "refresh", "Login"))
}

func TestComposeDryRunSavesNothing(t *testing.T) {
	w := newWorkspace(t)
	w.ok("param", "add", "Devices", "Router1")
	w.ok("command", "add", "Ping", "--action", "Ping {Devices}")
	w.ok("test", "add", "Login")

	_, errOut, code := w.run("test", "step", "compose", "Login", "Ping", "--dry-run")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, errOut, "unfilled placeholders: Devices")

	var v testView
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "Login", "--json")), &v))
	assert.Empty(t, v.Steps)
}

func TestExitCodes(t *testing.T) {
	w := newWorkspace(t)
	w.ok("test", "add", "Login")
	w.ok("test", "step", "add", "Login", "Open page")
	w.ok("command", "add", "Ping", "--action", "Ping {Devices}")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown parameter", args: []string{"param", "delete", "Devices", "Nope"}},
		{name: "name collision", args: []string{"test", "add", "Login"}},
		{name: "bad direction", args: []string{"test", "step", "move", "Login", "1", "sideways"}},
		{name: "step out of range", args: []string{"test", "step", "delete", "Login", "5"}},
		{name: "step number not a number", args: []string{"test", "step", "delete", "Login", "first"}},
		{name: "missing arguments", args: []string{"param", "add", "Devices"}},
		{name: "unknown flag", args: []string{"test", "list", "--colour"}},
		{name: "incomplete selection", args: []string{"test", "step", "compose", "Login", "Ping"}},
		{name: "unsupported table format", args: []string{"test", "export", "out.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := w.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, errOut, "Error:")
		})
	}
}

func TestStepCommands(t *testing.T) {
	w := newWorkspace(t)
	w.ok("test", "add", "A")
	w.ok("test", "add", "B")
	w.ok("test", "step", "add", "A", "first", "one")
	w.ok("test", "step", "add", "A", "second")
	w.ok("test", "step", "insert", "A", "1", "zeroth")
	w.ok("test", "step", "move", "A", "3", "up")

	assert.Equal(t, "step 1 is already at the top\n", w.ok("test", "step", "move", "A", "1", "up"))

	var a testView
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "A", "--json")), &a))
	assert.Equal(t, []stepView{
		{Action: "zeroth"},
		{Action: "second"},
		{Action: "first", Expected: "one"},
	}, a.Steps)

	assert.Equal(t, "pasted as step 1 of B\n", w.ok("test", "step", "copy-to", "A", "3", "B"))
	assert.Equal(t, "pasted as step 1 of B\n", w.ok("test", "step", "copy-to", "A", "1", "B", "--after", "0"))
	assert.Equal(t, "pasted as step 3 of B\n", w.ok("test", "step", "copy-to", "A", "2", "B"))

	var b testView
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "B", "--json")), &b))
	assert.Equal(t, []stepView{
		{Action: "zeroth"},
		{Action: "first", Expected: "one"},
		{Action: "second"},
	}, b.Steps)

	w.ok("test", "step", "delete", "B", "1")
	require.NoError(t, json.Unmarshal([]byte(w.ok("test", "show", "B", "--json")), &b))
	assert.Len(t, b.Steps, 2)
}

func TestDuplicateCommands(t *testing.T) {
	w := newWorkspace(t)
	w.ok("param", "add", "Devices", "Router1")
	w.ok("param", "add", "Devices", "Switch1")
	assert.Equal(t, "Router1_1\n", w.ok("param", "duplicate", "Devices", "Router1"))
	assert.Equal(t, "Router1\nRouter1_1\nSwitch1\n", w.ok("param", "list", "Devices"))
	assert.Equal(t, "Router1\nRouter1_1\n", w.ok("param", "list", "Devices", "--filter", "router"))

	_, _, code := w.run("param", "copy-to", "Devices", "Router1", "Lab")
	assert.Equal(t, exitUserError, code, "target category must exist")
	w.ok("param", "category", "add", "Lab")
	assert.Equal(t, "Router1\n", w.ok("param", "copy-to", "Devices", "Router1", "Lab"))
	assert.Equal(t, "Router1_Copy\n", w.ok("param", "copy-to", "Devices", "Router1", "Lab"))
	assert.Equal(t, "Devices\nLab\n", w.ok("param", "list", "--find", "Router1"))

	w.ok("test", "add", "Login")
	assert.Equal(t, "Login_1\n", w.ok("test", "duplicate", "Login"))
	assert.Equal(t, "Login\nLogin_1\n", w.ok("test", "list"))
}

func TestVariantAndCommandCommands(t *testing.T) {
	w := newWorkspace(t)
	w.ok("param", "add", "Devices", "Router1")
	w.ok("param", "variant", "add", "Devices", "Lab")
	w.ok("param", "set", "Devices", "Router1", "Lab", "192.168.0.1")
	assert.Equal(t, "Default Value: \nLab: 192.168.0.1\n", w.ok("param", "get", "Devices", "Router1"))
	assert.Equal(t, "192.168.0.1\n", w.ok("param", "get", "Devices", "Router1", "Lab"))

	_, _, code := w.run("param", "variant", "delete", "Devices", "Default Value")
	assert.Equal(t, exitUserError, code)

	w.ok("command", "add", "Link", "--action", "Connect {Devices} to {Ports}")
	assert.Equal(t, "Devices\nPorts\n", w.ok("command", "placeholders", "Link"))
	w.ok("command", "update", "Link", "--expected", "{Ports} is up")
	w.ok("command", "rename", "Link", "Connect")

	var v commandView
	require.NoError(t, json.Unmarshal([]byte(w.ok("command", "show", "Connect", "--json")), &v))
	assert.Equal(t, "Connect {Devices} to {Ports}", v.Action)
	assert.Equal(t, "{Ports} is up", v.Expected)

	w.ok("command", "delete", "Connect")
	assert.Equal(t, "[]\n", w.ok("command", "list", "--json"))
}

func TestTableRoundTrip(t *testing.T) {
	src := newWorkspace(t)
	src.ok("param", "add", "Devices", "Router1")
	src.ok("param", "set", "Devices", "Router1", "Default Value", "10.0.0.1")
	src.ok("test", "add", "Login", "--description", "Sign in")
	src.ok("test", "step", "add", "Login", "Ping Router1", "Router1 replies")

	dir := t.TempDir()
	paramsFile := filepath.Join(dir, "Devices.csv")
	testsFile := filepath.Join(dir, "tests.xlsx")
	src.ok("param", "export", "Devices", paramsFile)
	src.ok("test", "export", testsFile)

	dst := newWorkspace(t)
	assert.Equal(t, "Imported category Devices (1 parameters)\n", dst.ok("param", "import", paramsFile))
	assert.Equal(t, "Replaced category Devices (1 parameters)\n", dst.ok("param", "import", paramsFile))
	assert.Equal(t, "Imported 1 test cases, skipped 0\n", dst.ok("test", "import", testsFile))
	assert.Equal(t, "Imported 0 test cases, skipped 1\n", dst.ok("test", "import", testsFile))

	var v testView
	require.NoError(t, json.Unmarshal([]byte(dst.ok("test", "show", "Login", "--json")), &v))
	assert.Equal(t, "Sign in", v.Description)
	assert.Equal(t, []stepView{{Action: "Ping Router1", Expected: "Router1 replies"}}, v.Steps)
	assert.Equal(t, []string{"Default Value:", "Router1 = 10.0.0.1", ""}, v.TestDataDescription)
}

func TestHistory(t *testing.T) {
	t.Run("json backend has no history", func(t *testing.T) {
		w := newWorkspace(t)
		_, errOut, code := w.run("history")
		assert.Equal(t, exitUserError, code)
		assert.Contains(t, errOut, "sqlite")
	})

	t.Run("sqlite backend lists revisions", func(t *testing.T) {
		w := newWorkspace(t)
		w.ok("init", "--backend", "sqlite")
		w.ok("param", "add", "Devices", "Router1")
		w.ok("param", "add", "Devices", "Switch1")

		var rows []revisionView
		require.NoError(t, json.Unmarshal([]byte(w.ok("history", "parameters", "--json")), &rows))
		require.Len(t, rows, 2)
		assert.NotEqual(t, rows[0].ID, rows[1].ID)
		for _, r := range rows {
			assert.Equal(t, "parameters", string(r.Document))
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		w := newWorkspace(t)
		_, _, code := w.run("history", "recipes")
		assert.Equal(t, exitUserError, code)
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(usagef("bad")))
	assert.Equal(t, exitSysError, exitCode(os.ErrPermission))
}
