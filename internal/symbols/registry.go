package symbols

import (
	"strings"

	"extlint/internal/ast"
)

// group is a slice of registry entries that only activates when the file
// imports the owning namespace. A name in a dormant group never resolves,
// which keeps unrelated code with look-alike member names out of reports.
type group struct {
	namespace string // "" means always active
	entries   map[string]Tag
}

// builtins is the fixed host-framework registry. Entries with a dot are
// matched against path suffixes, bare entries against member names.
var builtins = []group{
	{
		// Task plumbing is ubiquitous enough to stay always on.
		namespace: "",
		entries: map[string]Tag{
			"Task.Wait":    BlockingWait,
			"Task.Result":  BlockingWait,
			"Task.WaitAll": BlockingWait,
			"Task.WaitAny": BlockingWait,
			"Wait":         BlockingWait,
			"Result":       BlockingWait,
			"GetResult":    BlockingWait,
			"Thread.Sleep": BlockingWait,
			"Sleep":        BlockingWait,
			"Thread.Join":  BlockingWait,
			"Task.Run":     AsyncEntryPoint,
			"Task.Delay":   AsyncEntryPoint,
			"WhenAll":      AsyncEntryPoint,
			"WhenAny":      AsyncEntryPoint,
			"ContinueWith": AsyncEntryPoint,
		},
	},
	{
		namespace: "Microsoft.VisualStudio.Shell",
		entries: map[string]Tag{
			"SwitchToMainThreadAsync":           UiThreadSwitch | AsyncEntryPoint,
			"JoinableTaskFactory.Run":           BlockingWait,
			"JoinableTaskFactory.Join":          BlockingWait,
			"RunAsync":                          AsyncEntryPoint,
			"InitializeAsync":                   AsyncEntryPoint,
			"AsyncPackage":                      AsyncEntryPoint,
			"GetService":                        ServiceLocator,
			"QueryService":                      ServiceLocator,
			"GetServiceAsync":                   ServiceLocator | AsyncEntryPoint,
			"GetGlobalServiceAsync":             ServiceLocator | AsyncEntryPoint,
			"FindToolWindow":                    ServiceLocator,
			"OleMenuCommand":                    CommandHandler,
			"MenuCommand":                       CommandHandler,
			"MenuItemCallback":                  CommandHandler,
			"Execute":                           CommandHandler,
			"BeforeQueryStatus":                 CommandHandler,
			"ThreadHelper.ThrowIfNotOnUIThread": UiThreadSwitch,
		},
	},
	{
		namespace: "Microsoft.VisualStudio.ComponentModelHost",
		entries: map[string]Tag{
			"GetService":     ServiceLocator,
			"ComponentModel": ServiceLocator,
		},
	},
	{
		namespace: "System.ComponentModel.Composition",
		entries: map[string]Tag{
			"Export":          MefExport,
			"InheritedExport": MefExport,
		},
	},
	{
		namespace: "Microsoft.VisualStudio.PlatformUI",
		entries: map[string]Tag{
			"Background":  ThemeToken,
			"Foreground":  ThemeToken,
			"BorderBrush": ThemeToken,
		},
	},
	{
		namespace: "System.Windows.Forms",
		entries: map[string]Tag{
			"BackColor":   ThemeToken,
			"ForeColor":   ThemeToken,
			"LinkColor":   ThemeToken,
			"Click":       CommandHandler,
			"DoubleClick": CommandHandler,
		},
	},
	{
		namespace: "System.Drawing",
		entries: map[string]Tag{
			"BackColor": ThemeToken,
			"ForeColor": ThemeToken,
		},
	},
}

// Build assembles the lookup table for one parsed file: the always-on core,
// every builtin group whose namespace the file imports, and any extra
// project-registered names. Extra names win by union, never by replacement.
func Build(root *ast.Node, extra map[string]Tag) *Table {
	table := newTable()
	used := usingPaths(root)
	for _, g := range builtins {
		if g.namespace != "" && !importsNamespace(used, g.namespace) {
			continue
		}
		for name, tags := range g.entries {
			table.Register(name, tags)
		}
	}
	for name, tags := range extra {
		table.Register(name, tags)
	}
	return table
}

func usingPaths(root *ast.Node) []string {
	if root == nil {
		return nil
	}
	var paths []string
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.UsingDecl:
			paths = append(paths, n.Text)
			return false
		case ast.File, ast.NamespaceDecl:
			return true
		default:
			return false
		}
	})
	return paths
}

func importsNamespace(used []string, namespace string) bool {
	for _, u := range used {
		if u == namespace || strings.HasPrefix(u, namespace+".") {
			return true
		}
	}
	return false
}
