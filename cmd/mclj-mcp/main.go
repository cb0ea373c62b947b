package main

import (
	"context"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	mclj "github.com/arrdem/metacircular-clj"
)

// One interpreter per process. Definitions made through mclj_eval persist for
// the lifetime of the server, so a client can build up state across calls.
var ip *mclj.Interp

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := ip.EvalString(expr)
	if err != nil {
		err = mclj.WrapErrorWithSource(err, expr)
		log.Warnf("eval %q: %v", expr, err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := mclj.FormatValue(v)
	log.Infof("eval %q => %s", expr, out)
	return mcp.NewToolResultText(out), nil
}

func handleExpand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	forms, err := ip.ExpandString(expr)
	if err != nil {
		err = mclj.WrapErrorWithSource(err, expr)
		log.Warnf("expand %q: %v", expr, err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, 0, len(forms))
	for _, f := range forms {
		lines = append(lines, mclj.FormatValue(f))
	}
	out := strings.Join(lines, "\n")
	log.Infof("expand %q => %s", expr, out)
	return mcp.NewToolResultText(out), nil
}

func handleNames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seen := map[string]bool{}
	var names []string
	for _, n := range append(ip.Core.Names(), ip.Global.Names()...) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	log.Infof("names => %d bound", len(names))
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func main() {
	var err error
	ip, err = mclj.NewRuntime()
	if err != nil {
		log.Fatalf("runtime: %v", err)
	}
	log.Infof("mclj %s interpreter ready", mclj.Version)

	s := server.NewMCPServer(
		"mclj",
		mclj.Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("mclj_eval",
			mcp.WithDescription("Evaluate mclj forms. Returns the printed value of the last form. Definitions persist across calls."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source text to evaluate, e.g. (map inc [1 2 3])"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("mclj_expand",
			mcp.WithDescription("Macroexpand mclj forms to a fixed point without evaluating them. Returns one printed form per line."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source text to expand, e.g. (-> 5 (+ 3) (* 2))"),
			),
		),
		handleExpand,
	)

	s.AddTool(
		mcp.NewTool("mclj_names",
			mcp.WithDescription("List every bound name in the interpreter, builtins and user definitions, sorted."),
		),
		handleNames,
	)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
