package errors

import (
	stderrors "errors"
)

type ErrorType string

const (
	ErrorTypeUsage  ErrorType = "USAGE"
	ErrorTypeState  ErrorType = "STATE"
	ErrorTypeNoOp   ErrorType = "NOOP"
	ErrorTypeSafety ErrorType = "SAFETY"
)

// Error is a user-facing diagnostic. Message is printed verbatim by the CLI.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
}

func (e *Error) Error() string {
	return e.Message
}

func Usage(message string) *Error {
	return &Error{Type: ErrorTypeUsage, Message: message, Code: 1}
}

func State(message string) *Error {
	return &Error{Type: ErrorTypeState, Message: message, Code: 1}
}

// NoOp reports a request that left the repository unchanged. Exit status stays 0.
func NoOp(message string) *Error {
	return &Error{Type: ErrorTypeNoOp, Message: message, Code: 0}
}

func Safety(message string) *Error {
	return &Error{Type: ErrorTypeSafety, Message: message, Code: 1}
}

// As unwraps err to a diagnostic, if it carries one.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the diagnostic type carried by err, or "" for
// infrastructure failures.
func KindOf(err error) ErrorType {
	if e, ok := As(err); ok {
		return e.Type
	}
	return ""
}

// Diagnostics shared by the repository and the CLI.
const (
	MsgNoCommand        = "Please enter a command."
	MsgUnknownCommand   = "No command with that name exists."
	MsgIncorrectOperand = "Incorrect operands."
	MsgNotInitialized   = "Not in an initialized Gitlet directory."
	MsgAlreadyExists    = "A Gitlet version-control system already exists in the current directory."

	MsgFileDoesNotExist   = "File does not exist."
	MsgNoCommitMessage    = "Please enter a commit message."
	MsgNoChanges          = "No changes added to the commit."
	MsgNoReasonToRemove   = "No reason to remove the file."
	MsgNoCommitFound      = "Found no commit with that message."
	MsgFileNotInCommit    = "File does not exist in that commit."
	MsgNoSuchCommit       = "No commit with that id exists."
	MsgAmbiguousCommit    = "Commit id is ambiguous."
	MsgNoSuchBranch       = "No such branch exists."
	MsgCurrentBranch      = "No need to checkout the current branch."
	MsgUntrackedInTheWay  = "There is an untracked file in the way; delete it, or add and commit it first."
	MsgBranchExists       = "A branch with that name already exists."
	MsgBranchMissing      = "A branch with that name does not exist."
	MsgRemoveCurrent      = "Cannot remove the current branch."
	MsgUncommitted        = "You have uncommitted changes."
	MsgMergeWithSelf      = "Cannot merge a branch with itself."
)
