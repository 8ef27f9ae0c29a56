package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/pkg/export"
	"github.com/storyforge/collab-api/pkg/storage"
)

type presentationCompiler interface {
	Compile(ctx context.Context, sessionID string, req CompilePresentationRequest) (*models.PresentationPackage, error)
}

type assessor interface {
	Assess(ctx context.Context, sessionID, assessmentType string) (*models.AssessmentResult, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type storyPDFRenderer interface {
	RenderStory(title string, sections []export.StorySection) ([]byte, error)
}

// ExportConfig tunes export generation.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Kind         models.ExportKind
	ExpiresAt    time.Time
}

// ExportService renders session artifacts to files and signs download URLs.
type ExportService struct {
	compiler presentationCompiler
	assessor assessor
	storage  fileStorage
	csv      csvRenderer
	pdf      storyPDFRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(compiler presentationCompiler, assessor assessor, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf storyPDFRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		compiler: compiler,
		assessor: assessor,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate renders the artifact for the job and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	var payload []byte
	var err error
	switch job.Kind {
	case models.ExportPresentationPDF:
		payload, err = s.renderPresentationPDF(ctx, job.SessionID)
	case models.ExportAssessmentCSV:
		payload, err = s.renderAssessmentCSV(ctx, job.SessionID)
	default:
		err = fmt.Errorf("unsupported export kind %s", job.Kind)
	}
	if err != nil {
		return nil, err
	}

	filename := buildExportFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/downloads/%s", prefix, token),
		Kind:         job.Kind,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *ExportService) renderPresentationPDF(ctx context.Context, sessionID string) ([]byte, error) {
	pkg, err := s.compiler.Compile(ctx, sessionID, CompilePresentationRequest{Format: "print"})
	if err != nil {
		return nil, err
	}

	sections := []export.StorySection{
		{Heading: "The Story", Body: pkg.FullStory},
	}

	var roles strings.Builder
	for _, assignment := range pkg.RoleAssignments {
		name := assignment.DisplayName
		if name == "" {
			name = assignment.StudentID
		}
		fmt.Fprintf(&roles, "%s - %s (%d min)\n\n", name, assignment.Role, assignment.DurationMinutes)
	}
	sections = append(sections, export.StorySection{Heading: "Presentation Roles", Body: roles.String()})

	var guide strings.Builder
	for _, guideline := range pkg.Guidelines {
		fmt.Fprintf(&guide, "- %s\n\n", guideline)
	}
	sections = append(sections, export.StorySection{Heading: "Guidelines", Body: guide.String()})

	return s.pdf.RenderStory(pkg.Title, sections)
}

func (s *ExportService) renderAssessmentCSV(ctx context.Context, sessionID string) ([]byte, error) {
	result, _, err := s.assessor.Assess(ctx, sessionID, "COMPREHENSIVE")
	if err != nil {
		return nil, err
	}

	headers := []string{"Student ID", "Collaboration", "Content", "Objectives", "Overall"}
	rows := make([]map[string]string, 0, len(result.IndividualResults))
	for _, individual := range result.IndividualResults {
		rows = append(rows, map[string]string{
			"Student ID":    individual.StudentID,
			"Collaboration": fmt.Sprintf("%.2f", individual.Scores.Collaboration),
			"Content":       fmt.Sprintf("%.2f", individual.Scores.ContentContribution),
			"Objectives":    fmt.Sprintf("%.2f", individual.Scores.LearningObjectives),
			"Overall":       fmt.Sprintf("%.2f", individual.Scores.Overall),
		})
	}
	return s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildExportFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	ext := "pdf"
	if job.Kind == models.ExportAssessmentCSV {
		ext = "csv"
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Kind)), job.SessionID, timestamp, ext)
}
