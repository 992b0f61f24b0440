package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// runInit scaffolds a starter policy.yml and context.json pair so a new
// user has something to run `deploynautctl evaluate` against
// immediately. Refuses to overwrite an existing file and reports where
// it wrote to.
func runInit(args []string) {
	fs := newFlagSet("init")
	dir := fs.String("dir", ".", "directory to write policy.yml and context.json into")
	parseOrFatal(fs, args)

	policyPath := *dir + "/policy.yml"
	contextPath := *dir + "/context.json"

	if err := writeIfAbsent(policyPath, defaultPolicy); err != nil {
		fatal("cannot write policy.yml: %v", err)
	}
	if err := writeIfAbsent(contextPath, sampleContext()); err != nil {
		fatal("cannot write context.json: %v", err)
	}
}

func writeIfAbsent(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("already exists, leaving untouched: %s\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

const defaultPolicy = `policy:
  approval:
    - require_two_reviewers

approval_rules:
  - name: require_two_reviewers
    requires:
      count: 2
      users:
        - alice
        - bob
        - carol
    methods:
      github_review: true
`

// sampleContext generates a starter context.json with a fresh UUID
// standing in for a real hosting provider's commit SHA, so the sample
// fixture is immediately distinguishable from a copy-pasted one.
func sampleContext() string {
	sha := uuid.NewString()
	return fmt.Sprintf(`{
  "commits": [
    {"sha": %q, "author": {"id": 1, "login": "mallory"}, "committer": {"id": 1, "login": "mallory"}}
  ],
  "reviews": [],
  "environment": {"name": "production"}
}
`, sha)
}
