package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	mclj "github.com/arrdem/metacircular-clj"
)

const (
	appName     = "mclj"
	historyFile = ".mclj_history"
	promptMain  = "=> "
	promptCont  = "... "
)

var (
	banner   = fmt.Sprintf("mclj %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", mclj.Version)
	helpText = `
REPL commands:
  :quit    Exit the REPL
  :help    Show this help
`
)

var useColor = liner.TerminalSupported() && os.Getenv("NO_COLOR") == ""

func red(s string) string {
	if !useColor {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !useColor {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "expand":
		os.Exit(cmdExpand(os.Args[2:]))
	case "version":
		fmt.Println(mclj.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`mclj %s (built %s)

Usage:
  %s run <file.clj>      Evaluate a file.
  %s expand [form]       Print the macroexpansion of a form (stdin when absent).
  %s repl                Start the REPL (the default with no arguments).
  %s version             Print the compiled version

`, mclj.Version, mclj.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.clj>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip, rtErr := mclj.NewRuntime()
	if rtErr != nil {
		fmt.Fprintln(os.Stderr, red(rtErr.Error()))
		return 1
	}

	if _, err := ip.EvalString(string(src)); err != nil {
		err = mclj.WrapErrorWithName(err, file, string(src))
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// expand
// -----------------------------------------------------------------------------

func cmdExpand(args []string) int {
	var src string
	if len(args) > 0 {
		src = strings.Join(args, " ")
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
			return 1
		}
		src = string(b)
	}

	ip, rtErr := mclj.NewRuntime()
	if rtErr != nil {
		fmt.Fprintln(os.Stderr, red(rtErr.Error()))
		return 1
	}

	forms, err := ip.ExpandString(src)
	if err != nil {
		err = mclj.WrapErrorWithSource(err, src)
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	for _, f := range forms {
		fmt.Println(mclj.FormatValue(f))
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func historyPath() string {
	if p := os.Getenv("MCLJ_HISTORY"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, historyFile)
}

func cmdRepl(_ []string) (ret int) {
	fmt.Println(banner)

	histPath := historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip, rtErr := mclj.NewRuntime()
	if rtErr != nil {
		fmt.Fprintln(os.Stderr, red(rtErr.Error()))
		return 1
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			case ":help":
				fmt.Print(helpText)
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		v, err := ip.EvalString(code)
		if err != nil {
			err = mclj.WrapErrorWithName(err, "repl", code)
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(mclj.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe collects lines until the accumulated text reads as one or
// more complete forms. The reader's Incomplete signal distinguishes "more
// input coming" from a genuine syntax error, which is returned to the caller
// for reporting.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := mclj.ReadString(src)
		if perr == nil {
			return src, true
		}
		if mclj.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
