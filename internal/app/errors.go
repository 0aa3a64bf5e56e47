package app

import (
	"fmt"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// SubmitChecklist is appended to errors raised while loading a repository
const SubmitChecklist = "Please ensure:\n" +
	"1. The repository URL is correct and accessible.\n" +
	"2. You have the necessary permissions to access the repository.\n" +
	"3. If it's a private repository, you've provided a valid access token.\n" +
	"4. The specified branch/tag and path (if any) exist in the repository."

// ExportChecklist is appended to errors raised while exporting files
const ExportChecklist = "Please ensure:\n" +
	"1. You have selected at least one file from the directory structure.\n" +
	"2. Your access token (if provided) is valid and has the necessary permissions.\n" +
	"3. You have a stable internet connection.\n" +
	"4. The GitHub API is accessible and functioning normally."

// OperationError decorates a pipeline failure with the user-facing checklist
type OperationError struct {
	Action    string
	Checklist string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("Error %s: %v\n\n%s", e.Action, e.Err, e.Checklist)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func submitError(err error) error {
	return &OperationError{Action: "fetching repository contents", Checklist: SubmitChecklist, Err: err}
}

func exportError(format domain.ExportFormat, err error) error {
	action := "generating text file"
	if format == domain.FormatZip {
		action = "generating zip file"
	}
	return &OperationError{Action: action, Checklist: ExportChecklist, Err: err}
}
