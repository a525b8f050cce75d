package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchCollection Phase = iota
	RefreshSnippet
	ExportSnippet
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchCollection:
		return "fetch_collection"
	case RefreshSnippet:
		return "refresh_snippet"
	case ExportSnippet:
		return "export_snippet"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingCollectionUpdate(scope string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollection,
		Step:    0,
		Total:   0,
		Message: fmt.Sprintf("Fetching %s snippets...", scope),
	}
}

func refreshingSnippetUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshSnippet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Refreshing %q...", title),
	}
}

func exportCompletedUpdate(step, total int, title string, fileCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSnippet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %q (%d files)", title, fileCount),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSnippet,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %q: %v", title, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
