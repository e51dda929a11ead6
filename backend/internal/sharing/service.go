// Package sharing manages share links: tokens that let invited viewers read
// a tree without an account.
package sharing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/apperrors"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateLink mints a short opaque token for a tree.
func (s *Service) CreateLink(ctx context.Context, treeID string) (*model.ShareLink, error) {
	link := model.ShareLink{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		TreeID:    treeID,
		CreatedAt: model.Now(),
	}
	if err := s.store.CreateShareLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create share link: %w", err)
	}
	return &link, nil
}

func (s *Service) GetLink(ctx context.Context, token string) (*model.ShareLink, error) {
	link, err := s.store.GetShareLink(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get share link: %w", err)
	}
	if link == nil {
		return nil, apperrors.NotFound("share link not found")
	}
	return link, nil
}

func (s *Service) ListLinks(ctx context.Context, treeID string) ([]model.ShareLink, error) {
	return s.store.ListShareLinks(ctx, treeID)
}

func (s *Service) DeleteLink(ctx context.Context, token string) error {
	if _, err := s.GetLink(ctx, token); err != nil {
		return err
	}
	return s.store.DeleteShareLink(ctx, token)
}

// AddViewer grants an email address access through a link. Idempotent for
// an already-invited viewer.
func (s *Service) AddViewer(ctx context.Context, token, email, name string) (*model.Viewer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	if _, err := s.GetLink(ctx, token); err != nil {
		return nil, err
	}
	v, err := s.store.AddViewer(ctx, token, email, name)
	if err != nil {
		return nil, fmt.Errorf("add viewer: %w", err)
	}
	return v, nil
}

func (s *Service) RemoveViewer(ctx context.Context, token, viewerID string) error {
	return s.store.RemoveViewer(ctx, token, viewerID)
}

func (s *Service) ListViewers(ctx context.Context, token string) ([]model.Viewer, error) {
	if _, err := s.GetLink(ctx, token); err != nil {
		return nil, err
	}
	return s.store.ListViewers(ctx, token)
}

// CheckAccess returns the viewer record when the email may read through the
// link, recording the access, or a not-found error otherwise.
func (s *Service) CheckAccess(ctx context.Context, token, email, ip string) (*model.Viewer, error) {
	v, err := s.store.CheckViewerAccess(ctx, token, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("check viewer access: %w", err)
	}
	if v == nil {
		return nil, apperrors.NotFound("no access to this share link")
	}
	// Access logging is best-effort.
	_ = s.store.LogShareAccess(ctx, token, v.ID, ip, model.Now())
	return v, nil
}

func (s *Service) AccessLog(ctx context.Context, token string) ([]model.ShareAccess, error) {
	if _, err := s.GetLink(ctx, token); err != nil {
		return nil, err
	}
	return s.store.ShareAccessLog(ctx, token)
}
