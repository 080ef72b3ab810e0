package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/utils/actiontype"
)

const dateLayout = "2006-01-02"

type Servicer interface {
	SubmitJournalEntry(ctx context.Context, e JournalEntry) (bool, error)
	SubmitPrayerRequest(ctx context.Context, p PrayerRequest) (bool, error)
	SubmitCheckin(ctx context.Context, c Checkin) (bool, error)
	DispatchAction(ctx context.Context, actionType, key string, payload json.RawMessage) (string, bool, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "submission_service"),
		now:  time.Now,
	}
}

func (s *Service) SubmitJournalEntry(ctx context.Context, e JournalEntry) (bool, error) {
	if strings.TrimSpace(e.ID) == "" {
		return false, fmt.Errorf("%w: journal entry id is required", ErrInvalidSubmission)
	}
	return s.store(ctx, KindJournalEntry, e.ID, "", e)
}

func (s *Service) SubmitPrayerRequest(ctx context.Context, p PrayerRequest) (bool, error) {
	if strings.TrimSpace(p.ID) == "" {
		return false, fmt.Errorf("%w: prayer request id is required", ErrInvalidSubmission)
	}
	return s.store(ctx, KindPrayerRequest, p.ID, "", p)
}

func (s *Service) SubmitCheckin(ctx context.Context, c Checkin) (bool, error) {
	if strings.TrimSpace(c.ID) == "" {
		return false, fmt.Errorf("%w: checkin id is required", ErrInvalidSubmission)
	}
	if _, err := time.Parse(dateLayout, c.Date); err != nil {
		return false, fmt.Errorf("%w: checkin date %q is not YYYY-MM-DD", ErrInvalidSubmission, c.Date)
	}
	return s.store(ctx, KindCheckin, c.ID, "", c)
}

// DispatchAction принимает действие исходящей очереди. key - ключ
// идемпотентности клиента; без него действию назначается новый id.
func (s *Service) DispatchAction(ctx context.Context, actionType, key string, payload json.RawMessage) (string, bool, error) {
	if !actiontype.Valid(actionType) {
		return "", false, fmt.Errorf("%w: action type %q", ErrInvalidSubmission, actionType)
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if !json.Valid(payload) {
		return "", false, fmt.Errorf("%w: action payload is not valid JSON", ErrInvalidSubmission)
	}

	id := strings.TrimSpace(key)
	if id == "" {
		id = uuid.NewString()
	}

	created, err := s.save(ctx, &Submission{
		ID:         id,
		Kind:       KindAction,
		ActionType: actionType,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	})
	return id, created, err
}

func (s *Service) store(ctx context.Context, kind Kind, id, actionType string, body interface{}) (bool, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	return s.save(ctx, &Submission{
		ID:         id,
		Kind:       kind,
		ActionType: actionType,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	})
}

func (s *Service) save(ctx context.Context, sub *Submission) (bool, error) {
	created, err := s.repo.Upsert(ctx, sub)
	if err != nil {
		s.log.Error("failed to store submission", "kind", sub.Kind, "id", sub.ID, "error", err)
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.log.Info("submission stored", "kind", sub.Kind, "id", sub.ID, "created", created)
	return created, nil
}
