package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
)

type documentService struct {
	docs repository.DocumentRepo
}

func NewDocumentService(docs repository.DocumentRepo) DocumentService {
	return &documentService{docs: docs}
}

func (s *documentService) Create(ctx context.Context, d *domain.Document) error {
	d.Number = strings.TrimSpace(d.Number)
	d.Owner = strings.TrimSpace(d.Owner)
	d.ProjectManager = domain.BlankToNil(d.ProjectManager)
	if err := validateStruct(documentInput{Number: d.Number, Owner: d.Owner}); err != nil {
		return err
	}
	return s.docs.Create(ctx, d)
}

func (s *documentService) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	return s.docs.GetByID(ctx, id)
}
