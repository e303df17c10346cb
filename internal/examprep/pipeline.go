package examprep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
	"studyhub-backend/internal/services"
	"studyhub-backend/internal/storage"
)

const (
	// Inline PDFs above this size fall back to local text extraction
	// instead of being sent as raw bytes.
	maxInlinePDFBytes = 18 << 20

	moduleLockTTL = 10 * time.Minute
)

// Pipeline runs one module's exam-prep generation end to end: input
// resolution, content extraction, generation with retry, normalization and
// full-replace persistence.
type Pipeline struct {
	store     *storage.LocalStore
	extract   *services.FileExtractService
	gen       Generator
	subjects  *repository.SubjectRepo
	modules   *repository.ModuleRepo
	generated *repository.GeneratedRepo
	redis     *redis.Client
}

func NewPipeline(
	store *storage.LocalStore,
	extract *services.FileExtractService,
	gen Generator,
	subjects *repository.SubjectRepo,
	modules *repository.ModuleRepo,
	generated *repository.GeneratedRepo,
	redisClient *redis.Client,
) *Pipeline {
	return &Pipeline{
		store:     store,
		extract:   extract,
		gen:       gen,
		subjects:  subjects,
		modules:   modules,
		generated: generated,
		redis:     redisClient,
	}
}

type sourceFile struct {
	Key  string
	Name string
}

// Process regenerates the module's questions, flashcards and summary from its
// source files. Errors come back wrapped in *StageError so the handler can
// attach the checkpoint breadcrumb.
func (p *Pipeline) Process(ctx context.Context, userID, moduleID uuid.UUID, filePaths []string) error {
	module, err := p.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &StageError{Stage: "db.modules", Err: &services.NotFoundError{Message: "Module not found"}}
		}
		return &StageError{Stage: "db.modules", Err: err}
	}
	if module.UserID != userID {
		return &StageError{Stage: "db.modules", Err: &services.NotFoundError{Message: "Module not found"}}
	}

	// Advisory lock: two concurrent runs would race on the delete+insert
	// persistence step.
	lockKey := fmt.Sprintf("module_lock:%s", moduleID)
	locked, err := p.redis.SetNX(ctx, lockKey, "1", moduleLockTTL).Result()
	if err != nil {
		return &StageError{Stage: "lock.module", Err: err}
	}
	if !locked {
		return &StageError{Stage: "lock.module", Err: &ModuleBusyError{}}
	}
	defer p.redis.Del(context.Background(), lockKey)

	subject, err := p.subjects.GetByID(ctx, module.SubjectID)
	if err != nil {
		return &StageError{Stage: "db.subjects", Err: err}
	}

	p.modules.UpdateStatus(ctx, moduleID, models.ModuleStatusProcessing)
	p.publishStatus(ctx, userID, moduleID, models.ModuleStatusProcessing, "", false)

	if err := p.run(ctx, userID, subject, module, filePaths); err != nil {
		// Best-effort status write; its own failure must never mask the
		// pipeline error.
		if markErr := p.modules.UpdateStatus(context.Background(), moduleID, models.ModuleStatusError); markErr != nil {
			log.Printf("exam-prep: failed to mark module %s errored: %v", moduleID, markErr)
		}
		p.publishStatus(ctx, userID, moduleID, models.ModuleStatusError, stageOf(err), false)
		return err
	}

	return nil
}

func (p *Pipeline) run(ctx context.Context, userID uuid.UUID, subject *models.Subject, module *models.Module, filePaths []string) error {
	sources, err := p.resolveSources(ctx, module.ID, filePaths)
	if err != nil {
		return &StageError{Stage: "db.module_files", Err: err}
	}

	targets := TargetsFor(subject, module)

	parts, skipped := p.buildParts(targets, sources)
	if len(parts) <= 1 {
		// Only the instruction part survived: nothing to generate from.
		return &StageError{Stage: "extract.content", Err: &UnsupportedContentError{Skipped: skipped}}
	}
	for _, skip := range skipped {
		log.Printf("exam-prep: skipping %s: %s", skip.FilePath, skip.Reason)
	}

	result, err := Generate(ctx, p.gen, parts, targets)
	if err != nil {
		return &StageError{Stage: "gemini.generateJSON", Err: err}
	}
	if !result.Compliant {
		log.Printf("exam-prep: module %s degraded after %d attempts (%d questions, %d flashcards)",
			module.ID, result.Attempts, len(result.Payload.Questions), len(result.Payload.Flashcards))
	}

	questions := make([]models.GeneratedQuestion, len(result.Payload.Questions))
	for i, q := range result.Payload.Questions {
		questions[i] = models.GeneratedQuestion{
			ModuleID:     module.ID,
			Question:     q.Question,
			Answer:       q.Answer,
			IsMostLikely: q.IsMostLikely,
		}
	}
	flashcards := make([]models.GeneratedFlashcard, len(result.Payload.Flashcards))
	for i, c := range result.Payload.Flashcards {
		flashcards[i] = models.GeneratedFlashcard{
			ModuleID: module.ID,
			Front:    c.Front,
			Back:     c.Back,
		}
	}

	err = p.generated.ReplaceForModule(ctx, module.ID, questions, flashcards, result.Payload.Summary, !result.Compliant)
	if err != nil {
		return &StageError{Stage: "db.replace_generated", Err: err}
	}

	p.publishStatus(ctx, userID, module.ID, models.ModuleStatusReady, "", !result.Compliant)
	return nil
}

// resolveSources maps the request's explicit paths, or every file recorded
// for the module in creation order, to canonical storage keys.
func (p *Pipeline) resolveSources(ctx context.Context, moduleID uuid.UUID, filePaths []string) ([]sourceFile, error) {
	if len(filePaths) > 0 {
		sources := make([]sourceFile, 0, len(filePaths))
		for _, raw := range filePaths {
			key := p.store.Normalize(raw)
			if key == "" {
				continue
			}
			sources = append(sources, sourceFile{Key: key, Name: path.Base(key)})
		}
		return sources, nil
	}

	files, err := p.modules.ListFiles(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	sources := make([]sourceFile, 0, len(files))
	for _, f := range files {
		sources = append(sources, sourceFile{Key: p.store.Normalize(f.FilePath), Name: f.OriginalName})
	}
	return sources, nil
}

// buildParts converts each source file into a model-consumable part:
// instruction first, then one part per usable file. Failures are isolated per
// file and recorded as skip reasons; a failed download never aborts the batch.
func (p *Pipeline) buildParts(targets Targets, sources []sourceFile) ([]genai.Part, []SkipRecord) {
	parts := []genai.Part{genai.Text(BuildPrompt(targets))}
	var skipped []SkipRecord

	for _, src := range sources {
		data, err := p.store.Fetch(src.Key)
		if err != nil {
			skipped = append(skipped, SkipRecord{FilePath: src.Key, Reason: fmt.Sprintf("download failed: %v", err)})
			continue
		}

		if strings.EqualFold(path.Ext(src.Name), ".pdf") && len(data) <= maxInlinePDFBytes {
			parts = append(parts, genai.Blob{MIMEType: "application/pdf", Data: data})
			continue
		}

		text, err := p.extract.ExtractText(data, src.Name)
		if err != nil || strings.TrimSpace(text) == "" {
			skipped = append(skipped, SkipRecord{FilePath: src.Key, Reason: "unsupported or no extractable text"})
			continue
		}
		parts = append(parts, genai.Text(fmt.Sprintf("[File: %s]\n%s", src.Name, text)))
	}

	return parts, skipped
}

func (p *Pipeline) publishStatus(ctx context.Context, userID, moduleID uuid.UUID, status, stage string, degraded bool) {
	msg := models.WSMessage{
		Type: "module_status",
		Payload: models.ModuleStatusUpdate{
			ModuleID: moduleID,
			Status:   status,
			Stage:    stage,
			Degraded: degraded,
		},
	}
	data, _ := json.Marshal(msg)
	p.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID), string(data))
}

// stageOf extracts the checkpoint breadcrumb from a pipeline error.
func stageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
