package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/welltechai/thinksync-service/internal/metrics"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/summary"
)

// NotesService handles therapy session records. It runs strictly behind the
// authorization gate; authorization is not re-checked here.
type NotesService struct {
	sessions SessionStore
	audits   AuditStore
	now      func() time.Time
}

// SessionResult is a created session record together with its generated document
type SessionResult struct {
	Session  models.TherapySession `json:"session"`
	Document summary.Document      `json:"document"`
}

// NewNotesService creates the therapy notes service
func NewNotesService(sessions SessionStore, audits AuditStore) *NotesService {
	return &NotesService{
		sessions: sessions,
		audits:   audits,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession generates the canned summary for a submitted session and
// persists the record
func (s *NotesService) CreateSession(ctx context.Context, userID uuid.UUID, req models.SessionRequest, origin models.Origin) (*SessionResult, error) {
	if req.ClientName == "" {
		return nil, Validationf("missing required field: client_name")
	}
	if req.TherapyType == "" {
		req.TherapyType = "CBT"
	}
	if req.SummaryFormat == "" {
		req.SummaryFormat = "SOAP"
	}

	doc := summary.Generate(req.ClientName, req.TherapyType, req.SummaryFormat, s.now())

	sentiment, err := json.Marshal(doc.Sentiment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sentiment block: %w", err)
	}

	session := &models.TherapySession{
		UserID:          userID,
		ClientName:      req.ClientName,
		TherapyType:     req.TherapyType,
		SummaryFormat:   req.SummaryFormat,
		Analysis:        doc.Analysis,
		SentimentJSON:   string(sentiment),
		Validation:      doc.Validation,
		ConfidenceScore: doc.ConfidenceScore,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsCreated.Inc()
	s.auditSession(ctx, userID, session.ID, origin)
	return &SessionResult{Session: *session, Document: doc}, nil
}

// ListSessions returns the caller's session records, newest first
func (s *NotesService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.TherapySession, error) {
	return s.sessions.ListByUserID(ctx, userID)
}

func (s *NotesService) auditSession(ctx context.Context, userID, sessionID uuid.UUID, origin models.Origin) {
	entry := &models.AuditEntry{
		UserID:    &userID,
		Action:    models.ActionSessionCreated,
		Details:   fmt.Sprintf("therapy session %s created", sessionID),
		IPAddress: origin.IPAddress,
		UserAgent: origin.UserAgent,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", models.ActionSessionCreated).Msg("Failed to write audit entry")
	}
}
