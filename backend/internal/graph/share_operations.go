package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

func shareLinkFromRecord(record *neo4j.Record) model.ShareLink {
	return model.ShareLink{
		Token:     getStringFromRecord(record, "token"),
		TreeID:    getStringFromRecord(record, "tree_id"),
		CreatedAt: getStringFromRecord(record, "created_at"),
	}
}

func (r *Repository) CreateShareLink(ctx context.Context, s model.ShareLink) error {
	query := "CREATE (s:ShareLink {id: $token, tree_id: $treeID, created_at: $createdAt})"
	if err := r.run(ctx, query, map[string]interface{}{
		"token": s.Token, "treeID": s.TreeID, "createdAt": s.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}
	return nil
}

func (r *Repository) GetShareLink(ctx context.Context, token string) (*model.ShareLink, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:ShareLink {id: $token})
		RETURN s.id AS token, s.tree_id AS tree_id, s.created_at AS created_at
	`, map[string]interface{}{"token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to query share link: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read share link: %w", err)
		}
		return nil, nil
	}
	link := shareLinkFromRecord(result.Record())
	return &link, nil
}

func (r *Repository) ListShareLinks(ctx context.Context, treeID string) ([]model.ShareLink, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:ShareLink {tree_id: $treeID})
		RETURN s.id AS token, s.tree_id AS tree_id, s.created_at AS created_at
		ORDER BY s.created_at DESC
	`, map[string]interface{}{"treeID": treeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list share links: %w", err)
	}
	links := []model.ShareLink{}
	for result.Next(ctx) {
		links = append(links, shareLinkFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read share links: %w", err)
	}
	return links, nil
}

func (r *Repository) DeleteShareLink(ctx context.Context, token string) error {
	if err := r.run(ctx,
		"MATCH (s:ShareLink {id: $token}) DETACH DELETE s",
		map[string]interface{}{"token": token}); err != nil {
		return fmt.Errorf("failed to delete share link: %w", err)
	}
	return nil
}

// AddViewer creates the viewer node on first sight of the email and the
// CAN_VIEW edge if it is not already there.
func (r *Repository) AddViewer(ctx context.Context, token, email, name string) (*model.Viewer, error) {
	session := r.write(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (v:Viewer {email: $email})
		ON CREATE SET v.id = $viewerID, v.name = $name
		WITH v
		MATCH (s:ShareLink {id: $token})
		MERGE (v)-[g:CAN_VIEW]->(s)
		ON CREATE SET g.granted_at = $grantedAt
		RETURN v.id AS id, v.email AS email, v.name AS name
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"email":     email,
		"name":      name,
		"viewerID":  uuid.NewString(),
		"token":     token,
		"grantedAt": model.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add viewer: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read viewer: %w", err)
	}
	return &model.Viewer{
		ID:    getStringFromRecord(record, "id"),
		Email: getStringFromRecord(record, "email"),
		Name:  getStringFromRecord(record, "name"),
	}, nil
}

func (r *Repository) RemoveViewer(ctx context.Context, token, viewerID string) error {
	query := `
		MATCH (v:Viewer {id: $viewerID})-[g:CAN_VIEW]->(s:ShareLink {id: $token})
		DELETE g
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"viewerID": viewerID, "token": token,
	}); err != nil {
		return fmt.Errorf("failed to remove viewer: %w", err)
	}
	return nil
}

func (r *Repository) ListViewers(ctx context.Context, token string) ([]model.Viewer, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (v:Viewer)-[:CAN_VIEW]->(s:ShareLink {id: $token})
		RETURN v.id AS id, v.email AS email, v.name AS name
		ORDER BY v.email
	`, map[string]interface{}{"token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to list viewers: %w", err)
	}
	viewers := []model.Viewer{}
	for result.Next(ctx) {
		record := result.Record()
		viewers = append(viewers, model.Viewer{
			ID:    getStringFromRecord(record, "id"),
			Email: getStringFromRecord(record, "email"),
			Name:  getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read viewers: %w", err)
	}
	return viewers, nil
}

func (r *Repository) CheckViewerAccess(ctx context.Context, token, email string) (*model.Viewer, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (v:Viewer {email: $email})-[:CAN_VIEW]->(s:ShareLink {id: $token})
		RETURN v.id AS id, v.email AS email, v.name AS name
	`, map[string]interface{}{"email": email, "token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to check viewer access: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read viewer access: %w", err)
		}
		return nil, nil
	}
	record := result.Record()
	return &model.Viewer{
		ID:    getStringFromRecord(record, "id"),
		Email: getStringFromRecord(record, "email"),
		Name:  getStringFromRecord(record, "name"),
	}, nil
}

func (r *Repository) LogShareAccess(ctx context.Context, token, viewerID, ip, viewedAt string) error {
	query := `
		MATCH (v:Viewer {id: $viewerID}), (s:ShareLink {id: $token})
		CREATE (v)-[:VIEWED {id: $id, viewed_at: $viewedAt, ip: $ip}]->(s)
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"viewerID": viewerID,
		"token":    token,
		"id":       uuid.NewString(),
		"viewedAt": viewedAt,
		"ip":       ip,
	}); err != nil {
		return fmt.Errorf("failed to log share access: %w", err)
	}
	return nil
}

func (r *Repository) ShareAccessLog(ctx context.Context, token string) ([]model.ShareAccess, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (v:Viewer)-[a:VIEWED]->(s:ShareLink {id: $token})
		RETURN v.email AS email, v.name AS name, a.viewed_at AS viewed_at, a.ip AS ip
		ORDER BY a.viewed_at DESC
	`, map[string]interface{}{"token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to query access log: %w", err)
	}
	log := []model.ShareAccess{}
	for result.Next(ctx) {
		record := result.Record()
		log = append(log, model.ShareAccess{
			Email:    getStringFromRecord(record, "email"),
			Name:     getStringFromRecord(record, "name"),
			ViewedAt: getStringFromRecord(record, "viewed_at"),
			IP:       getStringFromRecord(record, "ip"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read access log: %w", err)
	}
	return log, nil
}
