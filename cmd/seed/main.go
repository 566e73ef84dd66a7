package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doctransform/internal/extract"
	"doctransform/internal/models"
	"doctransform/internal/repository"
	"doctransform/pkg/auth"
	"doctransform/pkg/config"
	"doctransform/pkg/logger"
	"doctransform/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@doctransform.local"
	demoPassword = "demo1234"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	demoUser, err := seedDemoUser(ctx, userRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	// Seed sample documents from files dropped into cmd/seed
	seedDir := filepath.Join("cmd", "seed")
	cacheFile := filepath.Join(seedDir, ".seed_cache.json")
	pool := extract.NewPool(cfg.Upload.Workers, appLogger)
	if err := seedDocuments(ctx, seedDir, cacheFile, cfg.Upload.Dir, demoUser.ID, docRepo, pool, appLogger); err != nil {
		appLogger.Fatal("Failed to seed documents", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

func seedDemoUser(ctx context.Context, repo *repository.UserRepository, logger *zap.Logger) (*models.User, error) {
	if existing, err := repo.GetByEmail(ctx, demoEmail); err == nil && existing != nil {
		logger.Info("Demo user already exists", zap.String("email", demoEmail))
		return existing, nil
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Created demo user", zap.String("email", demoEmail))
	return user, nil
}

// ProcessedFile represents a processed seed file in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about processed files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

// loadCache loads the cache of processed files
func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}

	return cache, nil
}

// saveCache saves the cache of processed files
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// seedDocuments extracts text from every recognized file in seedDir and
// creates a document record for the demo user. Already-processed files are
// skipped via an md5 hash cache so reruns are cheap.
func seedDocuments(
	ctx context.Context,
	seedDir string,
	cacheFile string,
	uploadDir string,
	userID uuid.UUID,
	repo *repository.DocumentRepository,
	pool *extract.Pool,
	logger *zap.Logger,
) error {
	entries, err := os.ReadDir(seedDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Seed directory not found, skipping document seeding", zap.String("dir", seedDir))
			return nil
		}
		return err
	}

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		extension := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if !extract.Recognized(extension) {
			continue
		}

		path := filepath.Join(seedDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read seed file, skipping", zap.String("path", path), zap.Error(err))
			continue
		}

		fileHash := fmt.Sprintf("%x", md5.Sum(content))
		if cached, exists := cache.ProcessedFiles[path]; exists && cached.FileHash == fileHash {
			logger.Info("Seed file already processed, skipping",
				zap.String("path", path),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			continue
		}

		logger.Info("Processing seed file", zap.String("path", path))

		text, err := pool.Extract(ctx, content, extension)
		if err != nil {
			logger.Error("Failed to extract text from seed file", zap.String("path", path), zap.Error(err))
			continue
		}

		docID := uuid.New()
		storedName := docID.String() + "_" + entry.Name()
		if err := os.WriteFile(filepath.Join(uploadDir, storedName), content, 0644); err != nil {
			logger.Error("Failed to store seed file", zap.String("path", path), zap.Error(err))
			continue
		}

		doc := &models.Document{
			ID:               docID,
			UserID:           userID,
			OriginalFilename: entry.Name(),
			StoredPath:       "/uploads/" + storedName,
			Extension:        strings.ToLower(extension),
			FileSize:         int64(len(content)),
			MimeType:         "",
			ExtractedText:    text,
			UploadedAt:       now,
		}
		if err := repo.Create(ctx, doc); err != nil {
			logger.Error("Failed to create seed document record", zap.String("path", path), zap.Error(err))
			continue
		}

		logger.Info("Created seed document",
			zap.String("file", entry.Name()),
			zap.Int("text_length", len(text)),
		)

		cache.ProcessedFiles[path] = ProcessedFile{
			FilePath:    path,
			FileHash:    fileHash,
			ProcessedAt: now,
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}

	return nil
}
