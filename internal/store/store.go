package store

import (
	"context"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
)

// TenantSummary pairs a tenant with the caller's role in it.
type TenantSummary struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// TenantMember is the member-listing projection of a membership joined
// with its user.
type TenantMember struct {
	UserID      string      `json:"userId"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
}

// CreateTenantParams carries the input for CreateTenantWithAdmin.
type CreateTenantParams struct {
	Name               string
	CreatorUserID      string
	CreatorEmail       string
	CreatorDisplayName string
}

// CreateNoteParams carries the input for CreateNote.
type CreateNoteParams struct {
	TenantID  string
	Title     string
	RawText   string
	CreatedBy string
}

// UpdateTaskParams is the patch applied by UpdateTaskForTenant. Status
// is mandatory on every update; there is no status-preserving update.
// Empty optional fields retain the task's previous values.
type UpdateTaskParams struct {
	Status  domain.TaskStatus
	Title   string
	Owner   string
	DueDate string
}

// SuggestedTask is one extracted candidate handed to
// ReplaceSuggestedTasksForJob.
type SuggestedTask struct {
	Title      string
	Owner      string
	DueDate    string
	Confidence float64
}

// ReplaceSuggestedTasksParams identifies the job whose suggested set is
// being replaced and the new candidates.
type ReplaceSuggestedTasksParams struct {
	TenantID string
	NoteID   string
	JobID    string
	Tasks    []SuggestedTask
}

// AuditEntry is the caller-supplied portion of an audit event; the
// store assigns the ID and timestamp.
type AuditEntry struct {
	TenantID    string
	ActorUserID string
	Action      string
	EntityType  domain.AuditEntityType
	EntityID    string
	Details     map[string]string
}

// Snapshot is a full copy of the persisted state, used by diagnostics
// and tests, never by production control flow other than audit
// introspection.
type Snapshot struct {
	Tenants     []domain.Tenant     `json:"tenants"`
	Users       []domain.User       `json:"users"`
	Memberships []domain.Membership `json:"memberships"`
	Notes       []domain.Note       `json:"notes"`
	Tasks       []domain.Task       `json:"tasks"`
	Jobs        []domain.Job        `json:"jobs"`
	AuditEvents []domain.AuditEvent `json:"auditEvents"`
}

// TenantStore manages tenants and their summaries.
type TenantStore interface {
	// CreateTenantWithAdmin upserts the creator as a user, creates a new
	// tenant and grants the creator the admin membership, all in one
	// logical unit. A tenant is never left without an admin.
	CreateTenantWithAdmin(ctx context.Context, params CreateTenantParams) (*domain.Tenant, error)

	// UpsertTenant inserts or replaces a tenant by ID.
	UpsertTenant(ctx context.Context, tenant *domain.Tenant) error

	// ListTenantsForUser returns the tenants the user belongs to, with
	// the user's role in each.
	ListTenantsForUser(ctx context.Context, userID string) ([]TenantSummary, error)
}

// UserStore manages users.
type UserStore interface {
	// UpsertUser inserts or updates a user, matching by ID or
	// case-insensitive email. The stored creation timestamp wins on
	// update. Returns the stored user.
	UpsertUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetUserByID returns the user or ErrUserNotFound.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail returns the user matched case-insensitively by
	// email, or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// MembershipStore manages tenant memberships.
type MembershipStore interface {
	// AddMembership inserts a membership and fails with
	// ErrMembershipExists if one already exists for the tenant and user.
	AddMembership(ctx context.Context, membership *domain.Membership) error

	// UpsertMembership inserts or silently overwrites the role of an
	// existing membership.
	UpsertMembership(ctx context.Context, membership *domain.Membership) error

	// GetMembership returns the membership or ErrMembershipNotFound.
	GetMembership(ctx context.Context, tenantID, userID string) (*domain.Membership, error)

	// UpsertMemberByEmail finds or creates a user by email
	// (case-insensitive), then upserts the membership for
	// (tenantID, user) to the given role. Serves both invite-new and
	// role-change-existing. Returns ErrTenantNotFound for an unknown
	// tenant.
	UpsertMemberByEmail(ctx context.Context, tenantID, email string, role domain.Role) (*TenantMember, error)

	// ListMembersByTenant returns the members of a tenant joined with
	// their users.
	ListMembersByTenant(ctx context.Context, tenantID string) ([]TenantMember, error)
}

// NoteStore manages notes, all operations tenant-scoped.
type NoteStore interface {
	// CreateNote creates a submitted note and atomically enqueues
	// exactly one queued job against it, in a single write.
	CreateNote(ctx context.Context, params CreateNoteParams) (*domain.Note, *domain.Job, error)

	// UpsertNote inserts or replaces a note by ID.
	UpsertNote(ctx context.Context, note *domain.Note) error

	// ListNotesByTenant returns the tenant's notes in storage order.
	// limit <= 0 means no limit; offset < 0 is treated as 0.
	ListNotesByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Note, error)

	// GetNoteByIDForTenant returns the note or ErrNoteNotFound. A note
	// belonging to another tenant is ErrNoteNotFound too.
	GetNoteByIDForTenant(ctx context.Context, tenantID, noteID string) (*domain.Note, error)

	// DeleteNoteForTenant removes the note and cascades deletion of all
	// its tasks and jobs, scoped to the tenant. Returns ErrNoteNotFound
	// if no matching note exists.
	DeleteNoteForTenant(ctx context.Context, tenantID, noteID string) error

	// SetNoteStatus updates the note's status and returns the updated
	// note, or ErrNoteNotFound.
	SetNoteStatus(ctx context.Context, tenantID, noteID string, status domain.NoteStatus) (*domain.Note, error)
}

// TaskStore manages tasks, all operations tenant-scoped.
type TaskStore interface {
	// UpsertTask inserts or replaces a task by ID.
	UpsertTask(ctx context.Context, task *domain.Task) error

	// ListTasksByNote returns the tasks attached to one note.
	ListTasksByNote(ctx context.Context, tenantID, noteID string) ([]domain.Task, error)

	// ListTasksByTenant returns the tenant's tasks, filtered by status
	// when status is non-empty.
	ListTasksByTenant(ctx context.Context, tenantID string, status domain.TaskStatus) ([]domain.Task, error)

	// GetTaskByIDForTenant returns the task or ErrTaskNotFound.
	GetTaskByIDForTenant(ctx context.Context, tenantID, taskID string) (*domain.Task, error)

	// UpdateTaskForTenant applies the patch and returns the updated
	// task, or ErrTaskNotFound.
	UpdateTaskForTenant(ctx context.Context, tenantID, taskID string, params UpdateTaskParams) (*domain.Task, error)

	// ReplaceSuggestedTasksForJob removes exactly the prior suggested
	// tasks produced by the given job, then inserts the new set under
	// deterministic IDs of the form "{jobID}:suggested:NNN" so a re-run
	// of the same job replaces the same rows. Approved and rejected
	// tasks are never touched.
	ReplaceSuggestedTasksForJob(ctx context.Context, params ReplaceSuggestedTasksParams) ([]domain.Task, error)
}

// JobStore manages the durable job queue.
type JobStore interface {
	// EnqueueJob creates a queued job for the note with zero attempts.
	EnqueueJob(ctx context.Context, tenantID, noteID string) (*domain.Job, error)

	// UpsertJob inserts or replaces a job by ID.
	UpsertJob(ctx context.Context, job *domain.Job) error

	// GetJobByID returns the job or ErrJobNotFound.
	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// LockNextJob locks and returns the oldest eligible job in enqueue
	// order, optionally filtered by tenant (empty tenantID means any).
	// Eligible means queued and unlocked, or processing with a lock
	// older than the implementation's lease TTL (a crashed worker's
	// lock is reclaimed). Sets LockedAt and status processing in the
	// same write. Returns ErrNoJobAvailable when the queue is empty.
	LockNextJob(ctx context.Context, tenantID string) (*domain.Job, error)

	// MarkJobCompleted marks the job done, clears the lock and last
	// error and stamps CompletedAt. Returns ErrJobNotFound if the job
	// vanished.
	MarkJobCompleted(ctx context.Context, jobID string) (*domain.Job, error)

	// MarkJobAttemptFailed increments the attempt counter and clears
	// the lock. At attempts >= maxAttempts the job becomes failed
	// (terminal); otherwise it is requeued. LastError is always
	// overwritten with the latest message.
	MarkJobAttemptFailed(ctx context.Context, jobID, errorMessage string, maxAttempts int) (*domain.Job, error)

	// CompleteJobForNote marks the job done and its note ready in a
	// single write, so completion and readiness become visible
	// together. Returns the updated job and note.
	CompleteJobForNote(ctx context.Context, jobID string) (*domain.Job, *domain.Note, error)
}

// AuditStore appends audit events.
type AuditStore interface {
	// AddAuditEvent appends an immutable audit event, assigning its ID
	// and timestamp.
	AddAuditEvent(ctx context.Context, entry AuditEntry) (*domain.AuditEvent, error)
}

// Store is the full persistence surface consumed by the API layer and
// the worker.
type Store interface {
	TenantStore
	UserStore
	MembershipStore
	NoteStore
	TaskStore
	JobStore
	AuditStore

	// GetSnapshot returns a copy of the entire persisted state.
	GetSnapshot(ctx context.Context) (*Snapshot, error)
}
