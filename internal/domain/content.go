package domain

type ContentType int

const (
	ContentMedia ContentType = iota
	ContentCaption
)

// Content is an incoming message or batch after classification. Downstream
// code switches on Type and Kind only.
type Content struct {
	Type    ContentType
	Kind    MediaKind
	Refs    []string
	Batch   bool
	Caption string

	// MessageIDs are the platform messages the content arrived in.
	MessageIDs []int
}
