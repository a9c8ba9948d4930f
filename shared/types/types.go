// Status represents the state of a repository as reported by `gitlet status`
package shared

// Status is the report rendered by the status command. Modified and Untracked
// are always empty: change detection against the working tree is not performed.
type Status struct {
	CurrentBranch string   `json:"current_branch"`
	Branches      []string `json:"branches"`
	Staged        []string `json:"staged"`
	Removed       []string `json:"removed"`
	Modified      []string `json:"modified"`
	Untracked     []string `json:"untracked"`
}

// LogEntry is one rendered block of log or global-log output.
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
