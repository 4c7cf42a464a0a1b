package model

// NoticeKind classifies a transient notification banner.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient success/error/info banner shown once and discarded.
type Notice struct {
	Kind    NoticeKind
	Message string
}
