package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"kintree/backend/internal/model"
)

func (s *Store) CreateShareLink(ctx context.Context, link model.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.Token] = link
	return nil
}

func (s *Store) GetShareLink(ctx context.Context, token string) (*model.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[token]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (s *Store) ListShareLinks(ctx context.Context, treeID string) ([]model.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := []model.ShareLink{}
	for _, link := range s.links {
		if link.TreeID == treeID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt != links[j].CreatedAt {
			return links[i].CreatedAt > links[j].CreatedAt
		}
		return links[i].Token < links[j].Token
	})
	return links, nil
}

func (s *Store) DeleteShareLink(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, token)
	delete(s.linkViewers, token)
	delete(s.accessLog, token)
	return nil
}

func (s *Store) AddViewer(ctx context.Context, token, email, name string) (*model.Viewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var viewer *model.Viewer
	for _, v := range s.viewers {
		if v.Email == email {
			existing := v
			viewer = &existing
			break
		}
	}
	if viewer == nil {
		v := model.Viewer{ID: uuid.NewString(), Email: email, Name: name}
		s.viewers[v.ID] = v
		viewer = &v
	}
	if s.linkViewers[token] == nil {
		s.linkViewers[token] = map[string]string{}
	}
	if _, ok := s.linkViewers[token][viewer.ID]; !ok {
		s.linkViewers[token][viewer.ID] = model.Now()
	}
	return viewer, nil
}

func (s *Store) RemoveViewer(ctx context.Context, token, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.linkViewers[token], viewerID)
	return nil
}

func (s *Store) ListViewers(ctx context.Context, token string) ([]model.Viewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	viewers := []model.Viewer{}
	for viewerID := range s.linkViewers[token] {
		if v, ok := s.viewers[viewerID]; ok {
			viewers = append(viewers, v)
		}
	}
	sort.Slice(viewers, func(i, j int) bool { return viewers[i].Email < viewers[j].Email })
	return viewers, nil
}

func (s *Store) CheckViewerAccess(ctx context.Context, token, email string) (*model.Viewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for viewerID := range s.linkViewers[token] {
		v, ok := s.viewers[viewerID]
		if ok && v.Email == email {
			match := v
			return &match, nil
		}
	}
	return nil, nil
}

func (s *Store) LogShareAccess(ctx context.Context, token, viewerID, ip, viewedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[viewerID]
	if !ok {
		return nil
	}
	// Newest first, matching the repository's descending read order.
	s.accessLog[token] = append([]model.ShareAccess{{
		Email:    v.Email,
		Name:     v.Name,
		ViewedAt: viewedAt,
		IP:       ip,
	}}, s.accessLog[token]...)
	return nil
}

func (s *Store) ShareAccessLog(ctx context.Context, token string) ([]model.ShareAccess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := make([]model.ShareAccess, len(s.accessLog[token]))
	copy(log, s.accessLog[token])
	return log, nil
}
