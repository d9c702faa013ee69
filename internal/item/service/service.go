package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crudapp/crudapp/internal/item"
	"github.com/crudapp/crudapp/internal/item/repository"
	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/crudapp/crudapp/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/crudapp/crudapp/internal/item/service")

var (
	ErrNotFound = errors.New("not found")
)

// FileRemover deletes a stored image by its server-relative path.
type FileRemover interface {
	Remove(ctx context.Context, rel string) error
}

// Service defines the item operations used by the handler layer.
// Ids are the 24-character hex form; a malformed id is reported as ErrNotFound.
type Service interface {
	List(ctx context.Context) ([]*item.Item, error)
	Create(ctx context.Context, in item.CreateInput) (*item.Item, error)
	Get(ctx context.Context, id string) (*item.Item, error)
	Update(ctx context.Context, id string, in item.UpdateInput) (*item.Item, error)
	Delete(ctx context.Context, id string) error
}

// New returns a Service over repo. files removes images when an item is deleted.
func New(repo repository.Repository, files FileRemover) Service {
	return &itemService{repo: repo, files: files}
}

type itemService struct {
	repo  repository.Repository
	files FileRemover
}

func (s *itemService) List(ctx context.Context) ([]*item.Item, error) {
	ctx, span := tracer.Start(ctx, "item.list")
	defer span.End()

	list, err := s.repo.List(ctx)
	record(span, "list", err)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

func (s *itemService) Create(ctx context.Context, in item.CreateInput) (*item.Item, error) {
	ctx, span := tracer.Start(ctx, "item.create", trace.WithAttributes(attribute.Bool("item.has_image", in.Image != "")))
	defer span.End()

	it := &item.Item{Name: in.Name, Description: in.Description, Image: in.Image}
	err := s.repo.Create(ctx, it)
	record(span, "create", err)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

func (s *itemService) Get(ctx context.Context, id string) (*item.Item, error) {
	ctx, span := startWithID(ctx, "item.get", id)
	defer span.End()

	it, err := s.get(ctx, id)
	record(span, "get", err)
	return it, err
}

func (s *itemService) get(ctx context.Context, id string) (*item.Item, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, mapErr("get item", err)
	}
	return it, nil
}

func (s *itemService) Update(ctx context.Context, id string, in item.UpdateInput) (*item.Item, error) {
	ctx, span := startWithID(ctx, "item.update", id)
	defer span.End()

	oid, err := parseID(id)
	if err != nil {
		record(span, "update", err)
		return nil, err
	}
	it, err := s.repo.Update(ctx, oid, in)
	err = mapErr("update item", err)
	record(span, "update", err)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes the stored image first; if that fails the record is left in place.
func (s *itemService) Delete(ctx context.Context, id string) error {
	ctx, span := startWithID(ctx, "item.delete", id)
	defer span.End()

	err := s.delete(ctx, id)
	record(span, "delete", err)
	return err
}

func (s *itemService) delete(ctx context.Context, id string) error {
	it, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if it.HasImage() && s.files != nil {
		if err := s.files.Remove(ctx, it.Image); err != nil {
			return fmt.Errorf("delete item %s: %w", id, err)
		}
	}
	return mapErr("delete item", s.repo.Delete(ctx, it.ID))
}

func startWithID(ctx context.Context, name, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("item.id", id)))
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func record(span trace.Span, op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	default:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Errorf("item %s failed: %v", op, err)
	}
	span.SetAttributes(attribute.String("item.result", result))
	metrics.ItemOperations.WithLabelValues(op, result).Inc()
}
