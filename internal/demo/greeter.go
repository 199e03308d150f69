package demo

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"iocc/pkg/injector"
	"iocc/pkg/key"
)

// OutputKey names the writer console output goes to.
var OutputKey = key.Named[io.Writer]("output")

// AppNameKey names the application name used as the log prefix.
var AppNameKey = key.Named[string]("app_name")

type Logger interface {
	Log(message string)
}

// ConsoleLogger writes "[app] message" lines.
type ConsoleLogger struct {
	appName string
	out     io.Writer
}

func (l *ConsoleLogger) Construct(ctx context.Context, inj injector.Injector) error {
	var err error
	if l.appName, err = injector.Get(ctx, inj, AppNameKey); err != nil {
		return err
	}
	l.out, err = injector.Get(ctx, inj, OutputKey)
	return err
}

func (l *ConsoleLogger) Log(message string) {
	fmt.Fprintf(l.out, "[%s] %s\n", l.appName, message)
}

// GreeterKind is the language of a greeter.
type GreeterKind string

const (
	English GreeterKind = "en"
	Chinese GreeterKind = "zh"
)

// Kinds lists the supported languages.
func Kinds() []GreeterKind { return []GreeterKind{English, Chinese} }

// ParseKinds parses a list of BCP 47 language tags into greeter kinds.
// Regions and scripts are ignored, so "zh-Hans-CN" selects Chinese. Blanks
// and duplicates are dropped.
func ParseKinds(codes []string) ([]GreeterKind, error) {
	seen := make(map[GreeterKind]bool)
	var kinds []GreeterKind
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", code, err)
		}
		base, _ := tag.Base()
		k := GreeterKind(base.String())
		if !slices.Contains(Kinds(), k) {
			return nil, fmt.Errorf("unsupported language %q", code)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

type Greeter interface {
	Greeting() string
	Greet()
}

type EnglishGreeter struct {
	logger Logger
}

// NewEnglishGreeter is bound as a closure; its logger is resolved by type.
func NewEnglishGreeter(logger Logger) *EnglishGreeter {
	return &EnglishGreeter{logger: logger}
}

func (g *EnglishGreeter) Greeting() string { return "Hello World!" }
func (g *EnglishGreeter) Greet()           { g.logger.Log(g.Greeting()) }

type ChineseGreeter struct {
	logger Logger
}

func (g *ChineseGreeter) Construct(ctx context.Context, inj injector.Injector) error {
	var err error
	g.logger, err = injector.Get(ctx, inj, key.Of[Logger]())
	return err
}

func (g *ChineseGreeter) Greeting() string { return "你好世界!" }
func (g *ChineseGreeter) Greet()           { g.logger.Log(g.Greeting()) }

// App greets in every configured language.
type App struct {
	Logger   Logger                  `inject:""`
	Greeters map[GreeterKind]Greeter `inject:"collect"`
	kinds    []GreeterKind
}

func (a *App) PostConstruct(context.Context) error {
	a.kinds = a.kinds[:0]
	for k := range a.Greeters {
		a.kinds = append(a.kinds, k)
	}
	slices.Sort(a.kinds)
	return nil
}

// Languages returns the greeter languages in order.
func (a *App) Languages() []GreeterKind {
	return append([]GreeterKind(nil), a.kinds...)
}

// Greetings maps each language to its greeting.
func (a *App) Greetings() map[GreeterKind]string {
	out := make(map[GreeterKind]string, len(a.Greeters))
	for k, g := range a.Greeters {
		out[k] = g.Greeting()
	}
	return out
}

func (a *App) Run() {
	a.Logger.Log("Greeting from IOCC managed objects:")
	for _, k := range a.kinds {
		a.Greeters[k].Greet()
	}
}
