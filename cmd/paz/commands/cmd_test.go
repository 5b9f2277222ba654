package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pazhealth/paz/cmd/paz/internal/config"
)

// setupTestEnv points the CLI at an empty config directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvDir, dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	return dir
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	verbose = false
	contextName = ""
	formatOutput = "yaml"
	outputFile = ""
	queryExpr = ""

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(rOut)
	errBuf.ReadFrom(rErr)

	stdout = outBuf.String()
	stderr = errBuf.String()
	if err != nil {
		exitCode = 1
		stderr += err.Error()
	}

	resetFlags(rootCmd)
	return
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
			return
		}
		f.Value.Set(f.DefValue)
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// mustRun runs a command that is expected to succeed.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := runCmd(t, args...)
	if code != 0 {
		t.Fatalf("paz %s: exit %d: %s", strings.Join(args, " "), code, stderr)
	}
	return stdout
}

// runJSON runs a command with -o json and decodes its output into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out := mustRun(t, append(args, "-o", "json")...)
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("paz %s: invalid JSON %q: %v", strings.Join(args, " "), out, err)
	}
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "version")
	if !strings.HasPrefix(stdout, "paz ") {
		t.Fatalf("expected 'paz', got: %s", stdout)
	}

	var info map[string]string
	runJSON(t, &info, "version")
	if info["version"] == "" || info["go"] == "" {
		t.Fatalf("version info = %v", info)
	}
}

func TestConfigContexts(t *testing.T) {
	dir := setupTestEnv(t)

	stdout := mustRun(t, "config", "list")
	if !strings.Contains(stdout, "No contexts") {
		t.Fatalf("expected 'No contexts', got: %s", stdout)
	}

	mustRun(t, "config", "add-context", "home")
	_, stderr, code := runCmd(t, "config", "add-context", "home")
	if code == 0 || !strings.Contains(stderr, "already exists") {
		t.Fatalf("duplicate add: exit %d, %s", code, stderr)
	}
	if _, stderr, code := runCmd(t, "config", "add-context", "../etc"); code == 0 {
		t.Fatalf("path context accepted: %s", stderr)
	}

	mustRun(t, "config", "use-context", "home")
	if got := mustRun(t, "config", "current-context"); strings.TrimSpace(got) != "home" {
		t.Fatalf("current-context = %q", got)
	}

	stdout = mustRun(t, "config", "set", "home", "gemini", "api_key", "AIzaSecretKey1234")
	if strings.Contains(stdout, "SecretKey") || !strings.Contains(stdout, "AIza****1234") {
		t.Fatalf("set did not mask the key: %s", stdout)
	}
	if got := mustRun(t, "config", "get", "home", "gemini", "api_key"); strings.TrimSpace(got) != "AIzaSecretKey1234" {
		t.Fatalf("get = %q", got)
	}
	var shown map[string]any
	runJSON(t, &shown, "config", "show", "home", "gemini")
	if shown["api_key"] != "AIza****1234" {
		t.Fatalf("show = %v", shown)
	}

	mustRun(t, "config", "set", "home", "sounds", "volume", "0.4")
	sc, err := config.LoadService[config.SoundsConfig](filepath.Join(dir, "contexts", "home"), config.ServiceSounds)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Volume == nil || *sc.Volume != 0.4 {
		t.Fatalf("volume = %v", sc.Volume)
	}

	stdout = mustRun(t, "config", "list")
	if !strings.Contains(stdout, "*") || !strings.Contains(stdout, "gemini, sounds") {
		t.Fatalf("list = %s", stdout)
	}

	if _, _, code := runCmd(t, "config", "get", "home", "gemini", "model"); code == 0 {
		t.Fatal("missing key should fail")
	}
	if _, _, code := runCmd(t, "config", "set", "work", "gemini", "api_key", "x"); code == 0 {
		t.Fatal("unknown context should fail")
	}

	mustRun(t, "config", "delete-context", "home")
	if got := mustRun(t, "config", "current-context"); !strings.Contains(got, "No current context") {
		t.Fatalf("current-context after delete = %q", got)
	}
}

func TestUnknownContextFlag(t *testing.T) {
	setupTestEnv(t)
	_, stderr, code := runCmd(t, "mood", "list", "--context", "nowhere")
	if code == 0 || !strings.Contains(stderr, `context "nowhere" not found`) {
		t.Fatalf("exit %d: %s", code, stderr)
	}
}

func TestBadFormat(t *testing.T) {
	setupTestEnv(t)
	if _, stderr, code := runCmd(t, "mood", "list", "-o", "xml"); code == 0 {
		t.Fatalf("xml accepted: %s", stderr)
	}
}

func TestOpenSink(t *testing.T) {
	for _, sink := range []string{"speaker", "", "discard", "wav:out.wav"} {
		if _, err := openSink(sink); err != nil {
			t.Errorf("openSink(%q) = %v", sink, err)
		}
	}
	for _, sink := range []string{"wav:", "alsa"} {
		if _, err := openSink(sink); err == nil {
			t.Errorf("openSink(%q) accepted", sink)
		}
	}
}
