package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/tasker/internal/domain"
)

// enumFlag is a pflag.Value that validates through a domain parser.
type enumFlag[T ~string] struct {
	target   *T
	typeName string
	parse    func(string) (T, error)
}

func newEnumFlag[T ~string](target *T, typeName string, parse func(string) (T, error)) *enumFlag[T] {
	return &enumFlag[T]{target: target, typeName: typeName, parse: parse}
}

func (f *enumFlag[T]) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f *enumFlag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	*f.target = v
	return nil
}

func (f *enumFlag[T]) Type() string { return f.typeName }

// dateFlag parses YYYY-MM-DD into a UTC date.
type dateFlag struct {
	target **time.Time
}

func (f dateFlag) String() string {
	if f.target == nil || *f.target == nil {
		return ""
	}
	return (*f.target).Format(time.DateOnly)
}

func (f dateFlag) Set(s string) error {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	*f.target = &d
	return nil
}

func (f dateFlag) Type() string { return "date" }

var (
	_ pflag.Value = (*enumFlag[domain.Priority])(nil)
	_ pflag.Value = dateFlag{}
)

func taskTypeFlag(fs *pflag.FlagSet, target *domain.TaskType) {
	fs.Var(newEnumFlag(target, "type", domain.ParseTaskType), "type", "task, project or list")
}

func priorityFlag(fs *pflag.FlagSet, target *domain.Priority) {
	fs.Var(newEnumFlag(target, "priority", domain.ParsePriority), "priority", "high, medium or low")
}

func timeframeFlag(fs *pflag.FlagSet, target *domain.Timeframe) {
	fs.Var(newEnumFlag(target, "timeframe", domain.ParseTimeframe), "timeframe", "daily, weekly, monthly or yearly")
}

func sectionFlag(fs *pflag.FlagSet, target *domain.Section) {
	fs.Var(newEnumFlag(target, "section", domain.ParseSection), "section", "target or todo")
}

// resolveID expands an ID prefix, as printed by list commands, against ids.
// Full matches win over prefixes; an ambiguous prefix is an error.
func resolveID(kind, input string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no %s matching %q", domain.ErrNotFound, kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s prefix %q is ambiguous (%d matches)", domain.ErrInvalidInput, kind, input, len(matches))
	}
}

func resolveTaskID(ctx context.Context, app *App, owner, input string) (string, error) {
	tasks, err := app.Tasks.List(ctx, owner, domain.TaskFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", input, ids)
}

func resolveTaskIDs(ctx context.Context, app *App, owner string, inputs []string) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		id, err := resolveTaskID(ctx, app, owner, in)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func resolveCategoryID(ctx context.Context, app *App, owner, input string) (string, error) {
	cats, err := app.Categories.List(ctx, owner)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(cats))
	for i, c := range cats {
		if strings.EqualFold(c.Name, input) {
			return c.ID, nil
		}
		ids[i] = c.ID
	}
	return resolveID("category", input, ids)
}

func resolveCommitmentID(ctx context.Context, app *App, owner, input string) (string, error) {
	cs, err := app.Commitments.List(ctx, owner, domain.CommitmentFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return resolveID("commitment", input, ids)
}
