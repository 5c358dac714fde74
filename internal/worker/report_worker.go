package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jotadose/palelu-app/internal/infra"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/till"
)

// TillReportPayload identifies the closed session to report on.
type TillReportPayload struct {
	SessionID string `json:"session_id"`
}

// TillReportWorker renders the closing PDF for a till session and mails it to
// the configured report address. Best-effort end to end: a failed render or
// send is logged and the job dropped — the session close itself has already
// committed and the report can be regenerated from the ledgers at any time.
type TillReportWorker struct {
	cashRepo    repository.CashRepository
	orderRepo   repository.OrderRepository
	mailer      *infra.Mailer
	reportEmail string
	storagePath string
}

func NewTillReportWorker(
	cashRepo repository.CashRepository,
	orderRepo repository.OrderRepository,
	mailer *infra.Mailer,
	reportEmail string,
	storagePath string,
) *TillReportWorker {
	return &TillReportWorker{
		cashRepo:    cashRepo,
		orderRepo:   orderRepo,
		mailer:      mailer,
		reportEmail: reportEmail,
		storagePath: storagePath,
	}
}

// Process handles one till_report job.
func (w *TillReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TillReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("till report: bad payload")
		return
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		log.Error().Str("session_id", payload.SessionID).Msg("till report: invalid session id")
		return
	}

	session, err := w.cashRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID).Msg("till report: session not found")
		return
	}

	orders, err := w.orderRepo.ListBySession(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("till report: load orders")
		return
	}
	movements, err := w.cashRepo.ListMovements(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("till report: load movements")
		return
	}

	totals := till.Compute(orders, movements, session.InitialCash)

	pdfPath, err := infra.GenerateSessionReportPDF(session, movements, totals, w.storagePath)
	if err != nil {
		log.Error().Err(err).Msg("till report: render PDF")
		return
	}

	if w.reportEmail == "" {
		log.Info().Str("pdf", pdfPath).Msg("till report rendered (no report email configured)")
		return
	}

	subject := fmt.Sprintf("Cierre de caja %s", session.OpenedAt.Format("02/01/2006"))
	body := fmt.Sprintf(
		"Ventas: $%s\nGastos: $%s\nEfectivo esperado: $%s\n",
		totals.TotalSales.StringFixed(2), totals.TotalExpenses.StringFixed(2), totals.ExpectedCash.StringFixed(2))
	if session.Difference != nil {
		body += fmt.Sprintf("Diferencia: $%s\n", session.Difference.StringFixed(2))
	}

	if err := w.mailer.SendReport(w.reportEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Msg("till report: send email")
		return
	}
	log.Info().Str("session_id", payload.SessionID).Msg("till report sent")
}
