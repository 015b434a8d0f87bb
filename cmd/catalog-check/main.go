// Command catalog-check validates a recipe catalog file before it is shipped
// with the CLI or passed through MATCHECK_CATALOG_PATH.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"matcheck/internal/catalog"
	"matcheck/internal/core"
	"matcheck/pkg/domain"
)

var exitFunc = os.Exit

// main runs the command-line interface and exits with its status code.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalog-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var recipesPath string
	fs.StringVar(&recipesPath, "recipes", "", "path to recipes yaml (default: embedded catalog)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	summary, err := run(recipesPath)
	if err != nil {
		if _, writeErr := fmt.Fprintf(stderr, "Catalog validation failed: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	if _, writeErr := fmt.Fprintf(stdout, "Catalog validation passed: %d operators, %d goals.\n", summary.operators, summary.goals); writeErr != nil {
		return 1
	}
	return 0
}

type summary struct {
	operators int
	goals     int
}

// validatePath keeps recipe paths relative to the working tree.
func validatePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths not allowed: %s", p)
	}
	clean := filepath.Clean(p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("path traversal not allowed: %s", p)
	}
	return clean, nil
}

// run loads the catalog and checks that every operator offers goals the
// checklist would accept.
func run(recipesPath string) (summary, error) {
	safePath, err := validatePath(recipesPath)
	if err != nil {
		return summary{}, err
	}
	cat, err := catalog.Load(safePath)
	if err != nil {
		return summary{}, err
	}
	names := cat.OperatorNames()
	if len(names) == 0 {
		return summary{}, errors.New("catalog lists no operators")
	}
	var out summary
	for _, name := range names {
		goals, _ := cat.Goals(name)
		if len(goals) == 0 {
			return summary{}, fmt.Errorf("operator %s offers no goals", name)
		}
		for _, goal := range goals {
			if !goal.Category.Valid() {
				return summary{}, fmt.Errorf("operator %s: goal %q has unknown category %d", name, goal.Name, int(goal.Category))
			}
			if res := core.Validate(domain.NewOperatorGoal(name, goal)); res.HasBlocking() {
				return summary{}, fmt.Errorf("operator %s: goal %q: %s", name, goal.Name, res.Violations[0].Message)
			}
		}
		out.operators++
		out.goals += len(goals)
	}
	return out, nil
}
