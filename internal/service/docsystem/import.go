package docsystem

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	"folio/internal/config"
	"folio/internal/domain"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/service/docsystem/converter"
)

type importService struct {
	folders    docsysSvc.FolderService
	docs       docsysSvc.DocumentService
	validator  *ResourceValidator
	converters *converter.Registry
	logger     *slog.Logger
}

// NewImportService creates an import service that stores through the
// folder and document services, so every hierarchy rule still applies
func NewImportService(
	folders docsysSvc.FolderService,
	docs docsysSvc.DocumentService,
	validator *ResourceValidator,
	converters *converter.Registry,
	logger *slog.Logger,
) docsysSvc.ImportService {
	return &importService{
		folders:    folders,
		docs:       docs,
		validator:  validator,
		converters: converters,
		logger:     logger,
	}
}

// ImportFS walks fsys in lexical order. Hidden entries are ignored.
func (s *importService) ImportFS(ctx context.Context, fsys fs.FS, req *docsysSvc.ImportRequest) (*docsysSvc.ImportResult, error) {
	parentID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	result := newImportResult()
	folderIDs := map[string]string{".": parentID}

	walkErr := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == "." {
			return nil
		}
		if skipEntry(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent := folderIDs[path.Dir(p)]

		if d.IsDir() {
			folder, err := s.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{
				Name:     truncateName(d.Name(), config.MaxFolderNameLength),
				FolderID: &parent,
			})
			if err != nil {
				return fmt.Errorf("create folder %s: %w", p, err)
			}
			folderIDs[p] = folder.ID
			result.Summary.Folders++
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		content, err := readEntry(fsys, p, config.MaxImportEntrySize)
		if err != nil {
			result.Summary.TotalFiles++
			s.fail(result, p, err)
			return nil
		}
		s.importDocument(ctx, p, content, parent, req.OwnerID, result)
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}

	s.logger.Info("import complete",
		"parent_id", parentID,
		"folders", result.Summary.Folders,
		"created", result.Summary.Created,
		"skipped", result.Summary.Skipped,
		"failed", result.Summary.Failed,
		"total_files", result.Summary.TotalFiles,
	)
	return result, nil
}

// ImportFile reads at most config.MaxImportSize bytes of content
func (s *importService) ImportFile(ctx context.Context, filename string, content io.Reader, req *docsysSvc.ImportRequest) (*docsysSvc.ImportResult, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, &domain.ValidationError{Message: "no file selected"}
	}

	data, err := io.ReadAll(io.LimitReader(content, config.MaxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if len(data) > config.MaxImportSize {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("import file exceeds %d bytes", config.MaxImportSize)}
	}

	if strings.EqualFold(path.Ext(name), ".zip") {
		archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid zip archive: %v", err)}
		}
		return s.ImportFS(ctx, archive, req)
	}

	if !s.converters.Supports(name) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unsupported file type %q (allowed: .zip, %s)", path.Ext(name), strings.Join(s.converters.Extensions(), ", "))}
	}

	parentID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}
	doc, err := s.createDocument(ctx, name, data, parentID, req.OwnerID)
	if err != nil {
		return nil, err
	}

	result := newImportResult()
	result.Summary.TotalFiles = 1
	result.Summary.Created = 1
	result.Documents = append(result.Documents, *doc)
	s.logger.Info("file imported", "file", name, "id", doc.ID, "parent_id", parentID)
	return result, nil
}

// resolveTarget checks the caller and returns the folder the import lands in
func (s *importService) resolveTarget(ctx context.Context, req *docsysSvc.ImportRequest) (string, error) {
	if req == nil || req.OwnerID == "" {
		return "", domain.ErrUnauthorized
	}
	if id := normalizeID(req.ParentID); id != nil {
		if err := s.validator.ValidateFolder(ctx, *id); err != nil {
			return "", err
		}
		return *id, nil
	}
	root, err := s.folders.EnsureRoot(ctx)
	if err != nil {
		return "", err
	}
	return root.ID, nil
}

// importDocument records the outcome of one file in result
func (s *importService) importDocument(ctx context.Context, p string, content []byte, parentID, ownerID string, result *docsysSvc.ImportResult) {
	result.Summary.TotalFiles++

	if !s.converters.Supports(p) {
		s.logger.Debug("skipping unsupported file", "file", p)
		result.Summary.Skipped++
		return
	}

	doc, err := s.createDocument(ctx, p, content, parentID, ownerID)
	if err != nil {
		s.fail(result, p, err)
		return
	}
	result.Summary.Created++
	result.Documents = append(result.Documents, *doc)
}

func (s *importService) createDocument(ctx context.Context, p string, content []byte, parentID, ownerID string) (*docsysSvc.ImportDocument, error) {
	converted, err := s.converters.Convert(ctx, p, content)
	if err != nil {
		return nil, err
	}

	title := converted.Title
	doc, err := s.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		OwnerID:  ownerID,
		Title:    &title,
		Content:  converted.Content,
		FolderID: &parentID,
	})
	if err != nil {
		return nil, err
	}

	return &docsysSvc.ImportDocument{
		ID:       doc.ID,
		Path:     p,
		Title:    doc.Title,
		ParentID: doc.ParentID,
	}, nil
}

func (s *importService) fail(result *docsysSvc.ImportResult, file string, err error) {
	s.logger.Warn("import file failed", "file", file, "error", err)
	result.Summary.Failed++
	result.Errors = append(result.Errors, docsysSvc.ImportError{File: file, Error: errorMessage(err)})
}

func newImportResult() *docsysSvc.ImportResult {
	return &docsysSvc.ImportResult{
		Errors:    []docsysSvc.ImportError{},
		Documents: []docsysSvc.ImportDocument{},
	}
}

// readEntry reads one file, refusing more than limit bytes. Archive headers
// can understate the decompressed size, so the read itself is bounded.
func readEntry(fsys fs.FS, name string, limit int64) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tooLarge := &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", limit)}
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, tooLarge
	}
	return data, nil
}

// skipEntry ignores dotfiles and archive tool metadata
func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__MACOSX"
}

func truncateName(name string, max int) string {
	if utf8.RuneCountInString(name) <= max {
		return name
	}
	return string([]rune(name)[:max])
}

// errorMessage hides internal failures from import reports
func errorMessage(err error) string {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err.Error()
	}
	return "internal error"
}
