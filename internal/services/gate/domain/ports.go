package domain

import "context"

// ServicePort is the gate's service surface
type ServicePort interface {
	Check(ctx context.Context, in CheckInput) (CheckOutput, error)
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error)
	Blocklist(ctx context.Context) ([]BlockedSender, error)
	Unblock(ctx context.Context, senderID string) error
	RecentVerdicts(ctx context.Context, q RecentQuery) ([]VerdictRecord, error)
}

// StoragePort persists verdicts and the block list
type StoragePort interface {
	InsertVerdict(ctx context.Context, v VerdictRecord) error
	UpsertBlocked(ctx context.Context, b BlockedSender) error
	IsBlocked(ctx context.Context, senderID string) (bool, error)
	ListBlocked(ctx context.Context) ([]BlockedSender, error)
	DeleteBlocked(ctx context.Context, senderID string) (bool, error)
	RecentVerdicts(ctx context.Context, limit int) ([]VerdictRecord, error)
}
