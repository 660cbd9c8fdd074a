package engine

import (
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
)

// NoticeKind classifies a user-facing message.
type NoticeKind string

const (
	NoticeIncompatibleTypes  NoticeKind = "incompatible_types"
	NoticeConnectionRejected NoticeKind = "connection_rejected"
	NoticeConfirmSever       NoticeKind = "confirm_sever"
	NoticeResolutionFailed   NoticeKind = "resolution_failed"
	NoticeInvalidSelection   NoticeKind = "invalid_selection"
	NoticeInvalidProperty    NoticeKind = "invalid_property"
	NoticeNodeBusy           NoticeKind = "node_busy"
)

// Notice is a message for the user. Confirm-sever notices carry the
// proposal the user must answer.
type Notice struct {
	Kind       NoticeKind     `json:"kind"`
	Message    string         `json:"message"`
	NodeID     nodeid.ID      `json:"node_id,omitempty"`
	ModuleID   string         `json:"module_id,omitempty"`
	ProposalID string         `json:"proposal_id,omitempty"`
	Affected   []graph.Edge   `json:"affected,omitempty"`
	SourceType model.DataType `json:"source_type,omitempty"`
	TargetType model.DataType `json:"target_type,omitempty"`
}
