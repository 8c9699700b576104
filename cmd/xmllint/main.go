package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/ryanhair/zxml/event"
	"github.com/ryanhair/zxml/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmllint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("verbose", false, "log each top-level element as it is parsed")
	mmapPath := fs.Bool("mmap", false, "memory-map the input file instead of reading it whole")
	cpuProfilePath := fs.String("cpuprofile", "", "write CPU profile to file")
	memProfilePath := fs.String("memprofile", "", "write memory profile to file")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [--verbose] [--mmap] <document.xml>\n\n", os.Args[0]),
			writeln(stderr, "Parses an XML document and reports whether it is well-formed."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		if err := writeln(stderr, "error: exactly one XML file argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}
	xmlPath := remaining[0]

	if *cpuProfilePath != "" {
		stopCPUProfile, err := startCPUProfile(*cpuProfilePath)
		if err != nil {
			if writeErr := writef(stderr, "error starting CPU profile: %v\n", err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer func() {
			if err := stopCPUProfile(); err != nil {
				_ = writef(stderr, "error stopping CPU profile: %v\n", err)
			}
		}()
	}

	if *memProfilePath != "" {
		defer func() {
			if err := writeMemProfile(*memProfilePath); err != nil {
				_ = writef(stderr, "error writing memory profile: %v\n", err)
			}
		}()
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		if writeErr := writef(stderr, "error building logger: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	defer func() { _ = logger.Sync() }()

	elements, err := lint(xmlPath, *mmapPath, logger)
	if err != nil {
		if writeErr := writeln(stderr, errorColor(stderr).Sprintf("error: %v", err)); writeErr != nil {
			return 1
		}
		return 1
	}

	if err := writef(stdout, "%s is well-formed (%d elements)\n", xmlPath, elements); err != nil {
		return 1
	}
	return 0
}

// lint walks the full event stream of the file at path, returning the
// number of start_element events observed. It does not bind the
// stream against any schema; that requires a Go type known at compile
// time, so the CLI only checks well-formedness.
func lint(path string, useMmap bool, logger *zap.Logger) (int, error) {
	if useMmap {
		m, err := source.OpenMmap(path)
		if err != nil {
			return 0, fmt.Errorf("mmap %s: %w", path, err)
		}
		defer m.Close()
		return walk(m, logger)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return walk(source.NewSlice(data), logger)
}

func walk(src source.Source, logger *zap.Logger) (int, error) {
	p := event.New(src)
	elements := 0
	depth := 0
	for {
		ev, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return elements, nil
			}
			return elements, err
		}
		switch ev.Kind {
		case event.StartElement:
			elements++
			if depth == 0 {
				logger.Debug("element", zap.String("name", ev.Name.String()), zap.Int("line", ev.Line), zap.Int("column", ev.Column))
			}
			depth++
		case event.EndElement:
			depth--
		case event.DocumentEnd:
			return elements, nil
		}
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func errorColor(w io.Writer) *color.Color {
	c := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		c.DisableColor()
	}
	return c
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}
