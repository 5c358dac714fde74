package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/live"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/till"
	"github.com/Jotadose/palelu-app/internal/worker"
)

var (
	ErrNoActiveSession    = errors.New("no active cash session")
	ErrSessionAlreadyOpen = errors.New("a cash session is already open")
)

type TillService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error)
	AddExpense(ctx context.Context, userID uuid.UUID, req dto.AddExpenseRequest) (*dto.ExpenseResponse, error)
	Close(ctx context.Context, userID uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error)
	Active(ctx context.Context) (*dto.SessionReportResponse, error)
	Report(ctx context.Context, sessionID uuid.UUID) (*dto.SessionReportResponse, error)
	History(ctx context.Context, page, limit int) ([]dto.SessionReportResponse, error)
	// OpenSessionID is used by SaleService to tag orders with the active session.
	OpenSessionID(ctx context.Context) *uuid.UUID
}

type tillService struct {
	repo       repository.CashRepository
	orders     repository.OrderRepository
	feed       *live.Feed
	dispatcher *worker.Dispatcher
}

func NewTillService(repo repository.CashRepository, orders repository.OrderRepository, feed *live.Feed, dispatcher *worker.Dispatcher) TillService {
	return &tillService{repo: repo, orders: orders, feed: feed, dispatcher: dispatcher}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *tillService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error) {
	// Pre-flight guard for a friendly error. The partial unique index on open
	// sessions is the real arbiter: if two devices race past this check, the
	// second INSERT fails instead of leaving two open sessions.
	if existing, err := s.repo.FindOpenSession(ctx); err == nil && existing != nil {
		return nil, ErrSessionAlreadyOpen
	}

	session := &model.CashSession{
		OpenedBy:    userID,
		InitialCash: req.InitialCash,
		Status:      model.SessionOpen,
		OpenedAt:    time.Now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, live.TopicSessions)
	return s.buildReport(ctx, session)
}

// ── AddExpense ───────────────────────────────────────────────────────────────
// Movements are immutable — there is no update or delete.

func (s *tillService) AddExpense(ctx context.Context, userID uuid.UUID, req dto.AddExpenseRequest) (*dto.ExpenseResponse, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	mov := &model.CashMovement{
		SessionID:   session.ID,
		Type:        model.MovementExpense,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		AddedBy:     userID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}

	s.publish(ctx, live.TopicMovements)
	return &dto.ExpenseResponse{
		ID:          mov.ID.String(),
		SessionID:   mov.SessionID.String(),
		Type:        mov.Type,
		Amount:      mov.Amount,
		Description: mov.Description,
		Category:    mov.Category,
		AddedBy:     mov.AddedBy.String(),
		CreatedAt:   mov.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// Terminal transition: a closed session is never reopened.

func (s *tillService) Close(ctx context.Context, userID uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	orders, err := s.orders.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	totals := till.Compute(orders, movements, session.InitialCash)
	difference := req.ActualCash.Sub(totals.ExpectedCash)

	now := time.Now()
	actualCash := req.ActualCash
	expectedCash := totals.ExpectedCash
	session.Status = model.SessionClosed
	session.ClosedBy = &userID
	session.ClosedAt = &now
	session.ActualCash = &actualCash
	session.ExpectedCash = &expectedCash
	session.Difference = &difference
	if req.Notes != "" {
		notes := req.Notes
		session.Notes = &notes
	}
	session.FinalCashTotal = &totals.CashTotal
	session.FinalTransferTotal = &totals.TransferTotal
	session.FinalCardTotal = &totals.CardTotal
	session.FinalTotalSales = &totals.TotalSales
	session.FinalTotalExpenses = &totals.TotalExpenses

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, live.TopicSessions)

	// Best-effort: the closing report email must never fail the close itself.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueTillReport(ctx, worker.TillReportPayload{SessionID: session.ID.String()})
	}

	return &dto.CloseSessionResponse{
		SessionID:    session.ID.String(),
		Status:       session.Status,
		Totals:       totals,
		ActualCash:   req.ActualCash,
		ExpectedCash: totals.ExpectedCash,
		Difference:   difference,
	}, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

// Active returns the open session's live report, or (nil, nil) when the till
// is closed.
func (s *tillService) Active(ctx context.Context) (*dto.SessionReportResponse, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.buildReport(ctx, session)
}

func (s *tillService) Report(ctx context.Context, sessionID uuid.UUID) (*dto.SessionReportResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("cash session not found")
	}
	return s.buildReport(ctx, session)
}

func (s *tillService) History(ctx context.Context, page, limit int) ([]dto.SessionReportResponse, error) {
	sessions, err := s.repo.ListClosedSessions(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	reports := make([]dto.SessionReportResponse, 0, len(sessions))
	for i := range sessions {
		r, err := s.buildReport(ctx, &sessions[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

func (s *tillService) OpenSessionID(ctx context.Context) *uuid.UUID {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		return nil
	}
	id := session.ID
	return &id
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// buildReport derives totals from the ledgers regardless of session status:
// for an open session this is the live dashboard, for a closed one it matches
// the frozen snapshot written at close.
func (s *tillService) buildReport(ctx context.Context, session *model.CashSession) (*dto.SessionReportResponse, error) {
	orders, err := s.orders.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	totals := till.Compute(orders, movements, session.InitialCash)

	report := &dto.SessionReportResponse{
		SessionID:   session.ID.String(),
		Status:      session.Status,
		OpenedBy:    session.OpenedBy.String(),
		OpenedAt:    session.OpenedAt.Format(time.RFC3339),
		InitialCash: session.InitialCash,
		Totals:      totals,
		OrderCount:  len(orders),
	}

	if session.ClosedBy != nil {
		closedBy := session.ClosedBy.String()
		report.ClosedBy = &closedBy
	}
	if session.ClosedAt != nil {
		closedAt := session.ClosedAt.Format(time.RFC3339)
		report.ClosedAt = &closedAt
	}
	report.ActualCash = session.ActualCash
	report.Difference = session.Difference
	report.Notes = session.Notes

	return report, nil
}

func (s *tillService) publish(ctx context.Context, topic string) {
	if s.feed != nil {
		s.feed.Publish(ctx, topic)
	}
}
