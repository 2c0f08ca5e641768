package domain

import (
	"time"
)

// AuditEntityType identifies the kind of entity an audit event refers to.
type AuditEntityType string

// Possible audit entity types.
const (
	AuditEntityTenant     AuditEntityType = "tenant"
	AuditEntityNote       AuditEntityType = "note"
	AuditEntityTask       AuditEntityType = "task"
	AuditEntityMembership AuditEntityType = "membership"
)

// WorkerActorID is the actor recorded for audit events written by the
// background worker rather than a human caller.
const WorkerActorID = "worker"

// AuditEvent is an immutable, append-only record of a state-changing
// action, kept for traceability. The core only ever writes these; it
// never queries them.
type AuditEvent struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenantId"`
	ActorUserID string            `json:"actorUserId"`
	Action      string            `json:"action"`
	EntityType  AuditEntityType   `json:"entityType"`
	EntityID    string            `json:"entityId"`
	Details     map[string]string `json:"details,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
