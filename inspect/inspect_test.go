package inspect

import (
	"bytes"
	"context"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"mvstyle/config"
	"mvstyle/state"
)

func prepareEnv(t *testing.T, adjust func(*config.Config)) context.Context {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if adjust != nil {
		adjust(cfg)
	}
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	if err := env.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return ctx
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return runWith(t, nil, input, args...)
}

func runWith(t *testing.T, adjust func(*config.Config), input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	propertyFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "property", Aliases: []string{"p"}, Required: true},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}},
			&cli.FloatFlag{Name: "scroll"},
		}
	}
	app := &cli.Command{
		Name:   "test",
		Writer: &out,
		Reader: strings.NewReader(input),
		Commands: []*cli.Command{
			{Name: "parse", Action: Parse, Flags: []cli.Flag{&cli.StringFlag{Name: "property", Aliases: []string{"p"}}}},
			{Name: "eval", Action: Eval, Flags: propertyFlags()},
			{Name: "watch", Action: Watch, Flags: propertyFlags()},
			{Name: "list", Action: List},
		},
	}
	err := app.Run(prepareEnv(t, adjust), append([]string{"test"}, args...))
	return out.String(), err
}

func TestParse(t *testing.T) {
	out, err := run(t, "", "parse", "calc(1m", "+", "2m)", "auto")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	for _, want := range []string{"calc(1m + 2m) auto", "function: calc", "ident"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	out, err = run(t, "", "parse", "-p", "camera-orbit", "90deg", "auto", "2m")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, "camera-orbit: [1.570796") || !strings.HasSuffix(out, " 2]\n") {
		t.Errorf("unexpected values in output:\n%s", out)
	}

	if _, err := run(t, "", "parse"); err == nil {
		t.Error("expected error without value")
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"explicit value", []string{"eval", "--property", "scale", "2 3 4"}, "scale: 2 3 4\n"},
		{"default value", []string{"eval", "-p", "field-of-view", "--format", `{{ index .Values 0 | printf "%.4f" }}`}, "0.5236\n"},
		{"scroll", []string{"eval", "-p", "scale", "--scroll", "500", "calc(1 + env(window-scroll-y)) 1 1"}, "scale: 1.5 1 1\n"},
		{"constant flag", []string{"eval", "-p", "scale", "-f", "{{ .Constant }}", "1 env(window-scroll-y) 1"}, "false\n"},
		{"sprig functions", []string{"eval", "-p", "scale", "-f", `{{ .Name | upper }} {{ len .Values }}`, "1"}, "SCALE 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("eval error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEval_Errors(t *testing.T) {
	if _, err := run(t, "", "eval", "-p", "exposure", "1"); err == nil {
		t.Error("expected error for unknown property")
	}
	if _, err := run(t, "", "eval", "-p", "scale", "-f", "{{ .Broken", "1"); err == nil {
		t.Error("expected error for broken template")
	}
}

func TestWatch(t *testing.T) {
	out, err := run(t, "500\n\nnot-a-number\n1000\n", "watch", "-p", "scale", "calc(1 + env(window-scroll-y)) 1 1")
	if err != nil {
		t.Fatalf("watch error = %v", err)
	}
	want := "scale: 1 1 1\nscale: 1.5 1 1\nscale: 2 1 1\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestWatch_ConstantValue(t *testing.T) {
	out, err := run(t, "500\n1000\n", "watch", "-p", "scale", "2 2 2")
	if err != nil {
		t.Fatalf("watch error = %v", err)
	}
	if out != "scale: 2 2 2\n" {
		t.Errorf("output = %q", out)
	}
}

func TestWatch_ObservationDisabled(t *testing.T) {
	disable := func(cfg *config.Config) { cfg.Engine.ObserveEffects = false }
	out, err := runWith(t, disable, "500\n1000\n", "watch", "-p", "scale", "calc(1 + env(window-scroll-y)) 1 1")
	if err != nil {
		t.Fatalf("watch error = %v", err)
	}
	if out != "scale: 1 1 1\n" {
		t.Errorf("output = %q, want only the initial value", out)
	}
}

func TestList(t *testing.T) {
	out, err := run(t, "", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want header and 9 properties:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "camera-orbit") || !strings.Contains(lines[1], "0deg 75deg 105%") {
		t.Errorf("unexpected first property line %q", lines[1])
	}
	if !strings.HasPrefix(lines[9], "scale") {
		t.Errorf("unexpected last property line %q", lines[9])
	}
}

func TestRender(t *testing.T) {
	tmpl, err := NewTemplate("{{ .Input }}")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, tmpl, Result{Input: "1m\n"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1m\n" {
		t.Errorf("Render() = %q, want a single trailing new line", buf.String())
	}
}
