package domain

// Flow is the per-administrator conversation state. NoFlow is the zero state.
type Flow interface {
	FlowName() string
}

type NoFlow struct{}

func (NoFlow) FlowName() string { return "none" }

// CreateFlow waits for the name of a new category under ParentID.
type CreateFlow struct {
	ParentID        *string
	PromptMessageID int
}

func (CreateFlow) FlowName() string { return "category_create" }

// RenameFlow waits for a new name for CategoryID.
type RenameFlow struct {
	CategoryID      string
	ParentID        *string
	PromptMessageID int
}

func (RenameFlow) FlowName() string { return "category_rename" }

type PendingUpload struct {
	TargetCategoryID string
	ParentCategoryID *string
	PromptMessageID  int
	CorrelationID    string
}

// UploadFlow waits for content for the target category.
type UploadFlow struct {
	PendingUpload
}

func (UploadFlow) FlowName() string { return "category_content_upload" }
