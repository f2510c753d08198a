// Package inspect implements command line actions for examining how property
// values are parsed and evaluated.
package inspect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mvstyle/expr"
	"mvstyle/presets"
	"mvstyle/property"
	"mvstyle/state"
	"mvstyle/style"
	"mvstyle/utils/debug"
)

// Result is the data available to output templates.
type Result struct {
	Name     string
	Input    string
	Values   []float64
	Constant bool
}

// NewTemplate compiles an output template with sprig functions available.
func NewTemplate(text string) (*template.Template, error) {
	t, err := template.New("output").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse output template: %w", err)
	}
	return t, nil
}

// Render executes t for r and terminates the output with a new line.
func Render(w io.Writer, t *template.Template, r Result) error {
	var sb strings.Builder
	if err := t.Execute(&sb, r); err != nil {
		return fmt.Errorf("unable to render output template: %w", err)
	}
	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func outputTemplate(cmd *cli.Command, env *state.LocalEnv) (*template.Template, error) {
	text := env.Cfg.Output.Template
	if cmd.IsSet("format") {
		text = cmd.String("format")
	}
	return NewTemplate(text)
}

// lookup returns the preset for the property requested on the command line
// and the value to evaluate, which defaults to the preset's default.
func lookup(cmd *cli.Command, env *state.LocalEnv) (presets.Preset, string, error) {
	name := cmd.String("property")
	p, ok := env.Presets.Lookup(name)
	if !ok {
		return presets.Preset{}, "", fmt.Errorf("unknown property %q, known properties: %s", name, strings.Join(env.Presets.Names(), ", "))
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many values", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	input := p.Default
	if cmd.Args().Len() > 0 {
		input = cmd.Args().Get(0)
	}
	return p, input, nil
}

// Parse prints the expression tree of its argument and, when a property is
// named, the tuple it evaluates to.
func Parse(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no value has been specified")
	}
	input := strings.Join(cmd.Args().Slice(), " ")
	exprs := env.Engine.Parse(input)

	tree := expr.Dump(exprs)
	if cmd.IsSet("property") {
		name := cmd.String("property")
		p, ok := env.Presets.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown property %q", name)
		}
		tw := debug.NewTreeWriter()
		tw.Values(0, name, style.NewEvaluator(exprs, p.Intrinsics(), env.Window, env.Log).Evaluate())
		tree += tw.String()
	}

	if _, err := fmt.Fprintf(cmd.Root().Writer, "%s\n%s", expr.Serialize(exprs), tree); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}

// Eval evaluates a value of a property once.
func Eval(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	p, input, err := lookup(cmd, env)
	if err != nil {
		return err
	}
	tmpl, err := outputTemplate(cmd, env)
	if err != nil {
		return err
	}
	if cmd.IsSet("scroll") {
		env.Window.ScrollTo(cmd.Float("scroll"))
	}

	b := env.Engine.Bind(p.Name, property.Config{Intrinsics: p.Intrinsics})
	defer b.Detach()
	b.Update(input)

	return Render(cmd.Root().Writer, tmpl, Result{Name: p.Name, Input: input, Values: b.Evaluate(), Constant: b.Constant()})
}

// Watch evaluates a value of a property and then reads scroll offsets, one
// per line, re-printing the value every time it changes.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")

	p, input, err := lookup(cmd, env)
	if err != nil {
		return err
	}
	tmpl, err := outputTemplate(cmd, env)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	var renderErr error
	b := env.Engine.Bind(p.Name, property.Config{
		Intrinsics: p.Intrinsics,
		UpdateHandler: func(values []float64) {
			if err := Render(out, tmpl, Result{Name: p.Name, Input: input, Values: values}); err != nil && renderErr == nil {
				renderErr = err
			}
		},
	})
	defer b.Detach()
	b.Update(input)

	switch {
	case b.Constant():
		log.Info("Value does not depend on scroll position", zap.String("value", input))
	case !b.Observing():
		log.Warn("Effects observation is disabled by configuration, scrolling will not update value")
	}
	return scrollLoop(ctx, cmd.Root().Reader, func(y float64) error {
		env.Window.ScrollTo(y)
		return renderErr
	}, log)
}

func scrollLoop(ctx context.Context, r io.Reader, scroll func(float64) error, log *zap.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		y, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.Warn("Ignoring input, not a scroll offset", zap.String("line", line))
			continue
		}
		if err := scroll(y); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("unable to read scroll offsets: %w", err)
	}
	return nil
}

// List prints known properties in natural order.
func List(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSLOTS\tDEFAULT")
	for _, name := range env.Presets.Names() {
		p, _ := env.Presets.Lookup(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.Name, p.Intrinsics().Len(), p.Default)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}
