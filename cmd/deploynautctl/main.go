// Command deploynautctl drives the deployment approval policy engine
// from local fixture files: a YAML policy document, a JSON context
// snapshot, and an optional JSON roster fixture standing in for a
// hosting provider's organization/team membership API.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/absurd-party/deploynaut/internal/config"
	"github.com/absurd-party/deploynaut/internal/engine"
	"github.com/absurd-party/deploynaut/internal/fixtureroster"
	"github.com/absurd-party/deploynaut/internal/ziplog"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: deploynautctl <evaluate|init> [flags]")
	}

	switch os.Args[1] {
	case "evaluate":
		runEvaluate(os.Args[2:])
	case "init":
		runInit(os.Args[2:])
	default:
		fatal("unknown command %q; usage: deploynautctl <evaluate|init> [flags]", os.Args[1])
	}
}

func runEvaluate(args []string) {
	fs := newFlagSet("evaluate")
	policyPath := fs.String("policy", "policy.yml", "path to the policy YAML document")
	contextPath := fs.String("context", "context.json", "path to the policy context JSON snapshot")
	rosterPath := fs.String("rosters", "", "path to a roster fixture JSON file (optional)")
	parseOrFatal(fs, args)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		fatal("cannot initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := ziplog.New(zapLogger)

	cfg, err := config.LoadPolicy(*policyPath)
	if err != nil {
		fatal("cannot load policy: %v", err)
	}

	snapshot, err := config.LoadContext(*contextPath)
	if err != nil {
		fatal("cannot load context: %v", err)
	}

	roster, err := fixtureroster.Load(*rosterPath)
	if err != nil {
		fatal("cannot load roster fixture: %v", err)
	}

	eng := engine.New(cfg, roster, logger)
	allowed, err := eng.Evaluate(context.Background(), *snapshot)
	if err != nil {
		fatal("evaluation failed: %v", err)
	}

	if allowed {
		allow()
		return
	}
	deny("policy did not approve this deployment")
}

func allow() {
	fmt.Println("allow")
	os.Exit(0)
}

func deny(reason string) {
	fmt.Fprintln(os.Stderr, reason)
	fmt.Println("deny")
	os.Exit(1)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
