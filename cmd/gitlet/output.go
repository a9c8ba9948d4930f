// cmd/gitlet/output.go
package main

import (
	"fmt"

	"gitlet/internal/repository"
	"gitlet/shared/types"

	"github.com/fatih/color"
)

var (
	header = color.New(color.FgCyan)
	ident  = color.New(color.FgYellow)
	active = color.New(color.FgGreen)
)

func (a *app) printLog(entries []shared.LogEntry) {
	for _, e := range entries {
		header.Fprintln(a.out, "===")
		ident.Fprintf(a.out, "commit %s\n", e.ID)
		fmt.Fprintf(a.out, "Date: %s\n", e.Timestamp)
		fmt.Fprintln(a.out, e.Message)
		fmt.Fprintln(a.out)
	}
}

func (a *app) printStatus(r *repository.Repository) {
	status := r.Status()

	header.Fprintln(a.out, "=== Branches ===")
	for _, b := range status.Branches {
		if b == status.CurrentBranch {
			active.Fprintf(a.out, "*%s\n", b)
			continue
		}
		fmt.Fprintln(a.out, b)
	}
	fmt.Fprintln(a.out)

	sections := []struct {
		title string
		files []string
	}{
		{"Staged Files", status.Staged},
		{"Removed Files", status.Removed},
		{"Modifications Not Staged For Commit", status.Modified},
		{"Untracked Files", status.Untracked},
	}
	for _, s := range sections {
		header.Fprintf(a.out, "=== %s ===\n", s.title)
		for _, f := range s.files {
			fmt.Fprintln(a.out, f)
		}
		fmt.Fprintln(a.out)
	}
}
