// Package service contains the gate workflows: the check pipeline order,
// verdict persistence and the block list surface
package service

import (
	"context"
	"time"

	"cargogate/internal/core/detector"
	"cargogate/internal/core/filter"
	"cargogate/internal/platform/logger"
	"cargogate/internal/services/gate/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port. The filter decides, the detector
// annotates, storage remembers
type Svc struct {
	filter  *filter.Filter
	det     *detector.Detector
	storage domain.StoragePort
	now     func() time.Time
}

// Options control service behavior
type Options struct {
	// Filter is required
	Filter *filter.Filter

	// Detector is required
	Detector *detector.Detector

	// Storage is required
	Storage domain.StoragePort

	// Now overrides the clock, for tests
	Now func() time.Time
}

// New constructs the service
func New(opt Options) *Svc {
	if opt.Filter == nil {
		panic("gate.Service requires a non nil Filter")
	}
	if opt.Detector == nil {
		panic("gate.Service requires a non nil Detector")
	}
	if opt.Storage == nil {
		panic("gate.Service requires a non nil StoragePort")
	}
	now := opt.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Svc{
		filter:  opt.Filter,
		det:     opt.Detector,
		storage: opt.Storage,
		now:     now,
	}
}

// Check runs the gate on one message. Senders already on the persistent
// block list are rejected before any rule runs; allowed messages are
// additionally scored and their logistics fields extracted for the
// forwarding pipeline. The verdict is written to the audit log and, on an
// auto-block verdict, the sender joins the block list; persistence failures
// are logged and never flip the decision
func (s *Svc) Check(ctx context.Context, in domain.CheckInput) (domain.CheckOutput, error) {
	log := logger.C(ctx)

	blocked, err := s.storage.IsBlocked(ctx, in.SenderID)
	if err != nil {
		log.Warn().Err(err).Str("sender_id", in.SenderID).Msg("blocklist lookup failed, continuing")
	}
	if blocked {
		out := domain.CheckOutput{Allowed: false, Reason: "sender_blocked"}
		s.record(ctx, in, out)
		return out, nil
	}

	v := s.filter.Check(filter.Message{
		Text:     in.Text,
		SenderID: in.SenderID,
		Username: in.Username,
		FullName: in.FullName,
		GroupID:  in.GroupID,
	})

	out := domain.CheckOutput{
		Allowed:      !v.Blocked,
		Reason:       string(v.Reason),
		Term:         v.Term,
		IsDispatcher: v.IsDispatcher,
		AutoBlocked:  v.AutoBlock,
	}
	if out.Allowed {
		det := mapDetection(s.det.Analyze(in.Text))
		lg := mapLogistics(s.det.ExtractLogistics(in.Text))
		out.Detection = &det
		out.Logistics = &lg
		out.IsDispatcher = det.IsDispatcher
	}
	s.record(ctx, in, out)

	if v.AutoBlock {
		err := s.storage.UpsertBlocked(ctx, domain.BlockedSender{
			SenderID:  in.SenderID,
			Reason:    string(v.Reason),
			Term:      v.Term,
			BlockedAt: s.now(),
		})
		if err != nil {
			log.Error().Err(err).
				Str("sender_id", in.SenderID).
				Str("reason", string(v.Reason)).
				Msg("auto-block persist failed")
		} else {
			log.Info().
				Str("sender_id", in.SenderID).
				Str("group_id", in.GroupID).
				Str("reason", string(v.Reason)).
				Msg("sender auto-blocked")
		}
	}
	return out, nil
}

// record writes the audit row, logging failures instead of returning them
func (s *Svc) record(ctx context.Context, in domain.CheckInput, out domain.CheckOutput) {
	err := s.storage.InsertVerdict(ctx, domain.VerdictRecord{
		CheckedAt:    s.now(),
		SenderID:     in.SenderID,
		GroupID:      in.GroupID,
		Blocked:      !out.Allowed,
		Reason:       out.Reason,
		Term:         out.Term,
		IsDispatcher: out.IsDispatcher,
		AutoBlock:    out.AutoBlocked,
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).
			Str("sender_id", in.SenderID).
			Msg("verdict persist failed")
	}
}

// Analyze runs the soft scorer and the logistics extractor on text without
// touching any tracker state
func (s *Svc) Analyze(_ context.Context, in domain.AnalyzeInput) (domain.AnalyzeOutput, error) {
	return domain.AnalyzeOutput{
		Detection: mapDetection(s.det.Analyze(in.Text)),
		Logistics: mapLogistics(s.det.ExtractLogistics(in.Text)),
	}, nil
}

func mapDetection(res detector.Result) domain.Detection {
	return domain.Detection{
		IsDispatcher:    res.IsDispatcher,
		Confidence:      res.Confidence,
		DispatcherScore: res.DispatcherScore,
		OwnerScore:      res.OwnerScore,
		Reasons:         res.Reasons,
		PhoneCount:      res.PhoneCount,
		EmojiCount:      res.EmojiCount,
		LineCount:       res.LineCount,
	}
}

func mapLogistics(lg detector.Logistics) domain.Logistics {
	return domain.Logistics{
		RouteFrom:    lg.RouteFrom,
		RouteTo:      lg.RouteTo,
		CargoType:    lg.CargoType,
		Weight:       lg.Weight,
		VehicleType:  lg.VehicleType,
		ContactPhone: lg.ContactPhone,
		Price:        lg.Price,
	}
}

// Blocklist returns the persistent block list
func (s *Svc) Blocklist(ctx context.Context) ([]domain.BlockedSender, error) {
	return s.storage.ListBlocked(ctx)
}

// Unblock removes a sender from the block list. Unblocking an unknown
// sender is not an error
func (s *Svc) Unblock(ctx context.Context, senderID string) error {
	removed, err := s.storage.DeleteBlocked(ctx, senderID)
	if err != nil {
		return err
	}
	if removed {
		logger.C(ctx).Info().Str("sender_id", senderID).Msg("sender unblocked")
	}
	return nil
}

// RecentVerdicts lists the newest audit rows
func (s *Svc) RecentVerdicts(ctx context.Context, q domain.RecentQuery) ([]domain.VerdictRecord, error) {
	return s.storage.RecentVerdicts(ctx, q.Limit)
}
