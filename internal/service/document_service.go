package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doctransform/internal/dto"
	"doctransform/internal/extract"
	"doctransform/internal/models"
	"doctransform/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DocumentService struct {
	docRepo      *repository.DocumentRepository
	chatRepo     *repository.ChatRepository
	jobRepo      *repository.JobRepository
	extractPool  *extract.Pool
	queryService *QueryService
	uploadDir    string
	logger       *zap.Logger
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	chatRepo *repository.ChatRepository,
	jobRepo *repository.JobRepository,
	extractPool *extract.Pool,
	queryService *QueryService,
	uploadDir string,
	logger *zap.Logger,
) *DocumentService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &DocumentService{
		docRepo:      docRepo,
		chatRepo:     chatRepo,
		jobRepo:      jobRepo,
		extractPool:  extractPool,
		queryService: queryService,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// Upload extracts text from the file bytes and, only if extraction
// succeeded, stores the file and persists the document record. A document is
// never persisted in a failed-extraction state; the typed extraction error
// is returned to the handler so it can report the kind to the user.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, content []byte, fileName, mimeType string) (*dto.DocumentResponse, error) {
	extension := strings.TrimPrefix(filepath.Ext(fileName), ".")

	text, err := s.extractPool.Extract(ctx, content, extension)
	if err != nil {
		return nil, err
	}

	docID := uuid.New()
	storedName := docID.String() + "_" + filepath.Base(fileName)
	storedPath := filepath.Join(s.uploadDir, storedName)

	if err := os.WriteFile(storedPath, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &models.Document{
		ID:               docID,
		UserID:           userID,
		OriginalFilename: fileName,
		StoredPath:       "/uploads/" + storedName,
		Extension:        strings.ToLower(extension),
		FileSize:         int64(len(content)),
		MimeType:         mimeType,
		ExtractedText:    text,
		UploadedAt:       time.Now(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", docID.String()),
		zap.String("extension", doc.Extension),
		zap.Int("text_length", len(text)),
	)

	return documentToResponse(doc, true), nil
}

// getOwnedDocument loads a document and enforces ownership. A missing row
// maps to ErrDocumentNotFound; a database fault stays a distinct error so
// callers do not report an outage as a missing document.
func (s *DocumentService) getOwnedDocument(ctx context.Context, userID, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc.UserID != userID {
		return nil, ErrAccessDenied
	}
	return doc, nil
}

// Query runs the structured query processor against a document's persisted
// extracted text and records the run as a processing job plus a pair of
// chat messages. ErrModelUnavailable is the only error surfaced from the
// processor; the job is still recorded as failed in that case.
func (s *DocumentService) Query(ctx context.Context, userID, documentID uuid.UUID, query string) (*dto.QueryResponse, error) {
	doc, err := s.getOwnedDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	job := &models.ProcessingJob{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Query:      query,
		Status:     models.JobStatusPending,
		StartedAt:  time.Now(),
	}

	outcome, err := s.queryService.Process(ctx, query, doc.ExtractedText)

	job.CompletedAt = time.Now()
	job.DurationMs = job.CompletedAt.Sub(job.StartedAt).Milliseconds()

	if err != nil {
		job.Status = models.JobStatusFailed
		job.ErrorMessage = err.Error()
		if jobErr := s.jobRepo.Create(ctx, job); jobErr != nil {
			s.logger.Warn("Failed to record failed job", zap.Error(jobErr))
		}
		return nil, err
	}

	job.Status = models.JobStatusCompleted
	job.RawCompletion = outcome.Raw
	job.ParseTier = string(outcome.Tier)
	if jobErr := s.jobRepo.Create(ctx, job); jobErr != nil {
		s.logger.Warn("Failed to record job", zap.Error(jobErr))
	}

	s.recordChat(ctx, userID, documentID, query, outcome.Result.Answer)

	return &dto.QueryResponse{
		Success:       true,
		Result:        outcome.Result,
		RawCompletion: outcome.Raw,
		JobID:         job.ID.String(),
	}, nil
}

func (s *DocumentService) recordChat(ctx context.Context, userID, documentID uuid.UUID, query, answer string) {
	now := time.Now()
	pair := []*models.ChatMessage{
		{
			ID:         uuid.New(),
			UserID:     userID,
			DocumentID: documentID,
			Type:       models.MessageTypeUser,
			Content:    query,
			CreatedAt:  now,
		},
		{
			ID:         uuid.New(),
			UserID:     userID,
			DocumentID: documentID,
			Type:       models.MessageTypeAssistant,
			Content:    answer,
			CreatedAt:  now.Add(time.Millisecond),
		},
	}
	for _, msg := range pair {
		if err := s.chatRepo.Create(ctx, msg); err != nil {
			s.logger.Warn("Failed to record chat message", zap.Error(err))
			return
		}
	}
}

// GetDocument returns a user's document including its extracted text.
func (s *DocumentService) GetDocument(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.getOwnedDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	return documentToResponse(doc, true), nil
}

// ListDocuments lists a user's documents without their extracted text.
func (s *DocumentService) ListDocuments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.DocumentResponse, error) {
	docs, err := s.docRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = documentToResponse(doc, false)
	}
	return responses, nil
}

// ChatHistory returns a document's query/answer history oldest first.
func (s *DocumentService) ChatHistory(ctx context.Context, userID, documentID uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	if _, err := s.getOwnedDocument(ctx, userID, documentID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatMessageResponse, len(messages))
	for i, msg := range messages {
		responses[i] = &dto.ChatMessageResponse{
			ID:        msg.ID.String(),
			Type:      string(msg.Type),
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		}
	}
	return responses, nil
}

// AddChatMessage appends a message to a document's chat history.
func (s *DocumentService) AddChatMessage(ctx context.Context, userID, documentID uuid.UUID, msgType, content string) (*dto.ChatMessageResponse, error) {
	if _, err := s.getOwnedDocument(ctx, userID, documentID); err != nil {
		return nil, err
	}

	mt := models.MessageType(msgType)
	if mt != models.MessageTypeUser && mt != models.MessageTypeAssistant {
		mt = models.MessageTypeUser
	}

	msg := &models.ChatMessage{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Type:       mt,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return &dto.ChatMessageResponse{
		ID:        msg.ID.String(),
		Type:      string(msg.Type),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListJobs lists a user's processing jobs newest first.
func (s *DocumentService) ListJobs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = jobToResponse(job, false)
	}
	return responses, nil
}

// GetJob returns one processing job including its raw completion.
func (s *DocumentService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (*dto.JobResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job.UserID != userID {
		return nil, ErrAccessDenied
	}
	return jobToResponse(job, true), nil
}

// Stats aggregates document and job counts for the stats endpoint.
func (s *DocumentService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	totalDocs, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalJobs, err := s.jobRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.jobRepo.CountByStatus(ctx, models.JobStatusCompleted)
	if err != nil {
		return nil, err
	}
	failed, err := s.jobRepo.CountByStatus(ctx, models.JobStatusFailed)
	if err != nil {
		return nil, err
	}

	var successRate float64
	if totalJobs > 0 {
		successRate = float64(completed) / float64(totalJobs) * 100
	}

	return &dto.StatsResponse{
		TotalDocuments: totalDocs,
		TotalJobs:      totalJobs,
		CompletedJobs:  completed,
		FailedJobs:     failed,
		SuccessRate:    successRate,
	}, nil
}

func jobToResponse(job *models.ProcessingJob, includeRaw bool) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:           job.ID.String(),
		DocumentID:   job.DocumentID.String(),
		Query:        job.Query,
		ParseTier:    job.ParseTier,
		Status:       string(job.Status),
		ErrorMessage: job.ErrorMessage,
		StartedAt:    job.StartedAt.Format(time.RFC3339),
		DurationMs:   job.DurationMs,
	}
	if !job.CompletedAt.IsZero() {
		resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	if includeRaw {
		resp.RawCompletion = job.RawCompletion
	}
	return resp
}

func documentToResponse(doc *models.Document, includeText bool) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:               doc.ID.String(),
		OriginalFilename: doc.OriginalFilename,
		Extension:        doc.Extension,
		FileSize:         doc.FileSize,
		FileURL:          doc.StoredPath,
		UploadedAt:       doc.UploadedAt.Format(time.RFC3339),
	}
	if includeText {
		resp.ExtractedText = doc.ExtractedText
	}
	return resp
}
