package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/cache"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/session"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

type memAdvisorRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[string]*domain.Advisor
}

func newMemAdvisorRepo() *memAdvisorRepo {
	return &memAdvisorRepo{records: map[string]*domain.Advisor{}}
}

func (r *memAdvisorRepo) Create(_ context.Context, advisor *domain.Advisor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	advisor.ID = fmt.Sprintf("member-%d", r.nextID)
	advisor.CreatedAt = time.Now()
	advisor.UpdatedAt = advisor.CreatedAt
	copied := *advisor
	r.records[advisor.ID] = &copied
	return nil
}

func (r *memAdvisorRepo) Update(_ context.Context, advisor *domain.Advisor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[advisor.ID]; !ok {
		return pgx.ErrNoRows
	}
	advisor.UpdatedAt = time.Now()
	copied := *advisor
	r.records[advisor.ID] = &copied
	return nil
}

func (r *memAdvisorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *memAdvisorRepo) GetByID(_ context.Context, id string) (*domain.Advisor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (r *memAdvisorRepo) GetBySlug(_ context.Context, slug string) (*domain.Advisor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.Slug == slug {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAdvisorRepo) List(_ context.Context) ([]domain.Advisor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Advisor, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, *record)
	}
	return out, nil
}

type fakePhotoStore struct {
	mu      sync.Mutex
	saved   []string
	removed []string
}

func (f *fakePhotoStore) Save(_ context.Context, slug, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, slug)
	return "http://localhost:8080/media/" + slug + ".jpg?v=1", nil
}

func (f *fakePhotoStore) Remove(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, slug)
	return nil
}

func newTestTeamService() (*TeamService, *memAdvisorRepo, *fakePhotoStore) {
	repo := newMemAdvisorRepo()
	photos := &fakePhotoStore{}
	svc := NewTeamService(TeamDependencies{
		AdvisorRepo: repo,
		Cache:       cache.NewAdvisorCache(nil, time.Minute, zap.NewNop()),
		Photos:      photos,
	}, zap.NewNop())
	return svc, repo, photos
}

func adminActor() *session.Snapshot {
	return &session.Snapshot{User: &session.Identity{ID: "admin-1", Email: "admin@example.com"}, IsAdmin: true}
}

func memberInputFixture(slug string) MemberInput {
	return MemberInput{
		Slug:  slug,
		Name:  "Jean Dupont",
		Role:  "Conseiller",
		Email: slug + "@example.com",
	}
}

func TestCreateMemberRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestTeamService()

	tests := []struct {
		name  string
		actor *session.Snapshot
		code  string
	}{
		{"anonymous", nil, "UNAUTHORIZED"},
		{"no user", &session.Snapshot{IsAdmin: true}, "UNAUTHORIZED"},
		{"non-admin", &session.Snapshot{User: &session.Identity{ID: "u1"}}, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMember(context.Background(), tt.actor, memberInputFixture("jean-dupont"))
			if err == nil {
				t.Fatal("expected error")
			}
			if code := apperrors.ToDomainError(err).Code; code != tt.code {
				t.Fatalf("error code %q, want %q", code, tt.code)
			}
		})
	}
}

func TestCreateMemberValidatesAndRejectsDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestTeamService()
	actor := adminActor()

	if _, err := svc.CreateMember(context.Background(), actor, MemberInput{Slug: "Jean!", Name: "x", Role: "x", Email: "x@example.com"}); err == nil {
		t.Fatal("invalid slug accepted")
	}

	if _, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont"))
	if err == nil {
		t.Fatal("duplicate slug accepted")
	}
	if code := apperrors.ToDomainError(err).Code; code != "CONFLICT" {
		t.Fatalf("error code %q, want CONFLICT", code)
	}
}

func TestUpdateMember(t *testing.T) {
	svc, _, _ := newTestTeamService()
	actor := adminActor()

	member, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := memberInputFixture("jean-dupont")
	input.Name = "Jean A. Dupont"
	input.IsLeader = true
	updated, err := svc.UpdateMember(context.Background(), actor, member.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Jean A. Dupont" || !updated.IsLeader {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.UpdateMember(context.Background(), actor, "missing-id", input); err == nil {
		t.Fatal("update of missing member succeeded")
	}
}

func TestUpdateMemberSlugCollision(t *testing.T) {
	svc, _, _ := newTestTeamService()
	actor := adminActor()

	if _, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont")); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.CreateMember(context.Background(), actor, memberInputFixture("marie-roy"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := memberInputFixture("jean-dupont")
	if _, err := svc.UpdateMember(context.Background(), actor, second.ID, input); err == nil {
		t.Fatal("slug collision accepted on update")
	}
}

func TestDeleteMemberRemovesPhoto(t *testing.T) {
	svc, repo, photos := newTestTeamService()
	actor := adminActor()

	member, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteMember(context.Background(), actor, member.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), member.ID); err == nil {
		t.Fatal("member still present after delete")
	}
	if len(photos.removed) != 1 || photos.removed[0] != "jean-dupont" {
		t.Fatalf("photo cleanup calls %v, want [jean-dupont]", photos.removed)
	}
}

func TestUploadPhotoSetsURL(t *testing.T) {
	svc, _, photos := newTestTeamService()
	actor := adminActor()

	member, err := svc.CreateMember(context.Background(), actor, memberInputFixture("jean-dupont"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UploadPhoto(context.Background(), actor, member.ID, "photo.jpg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if updated.PhotoURL == nil || !strings.Contains(*updated.PhotoURL, "jean-dupont.jpg") {
		t.Fatalf("photo url not recorded: %v", updated.PhotoURL)
	}
	if len(photos.saved) != 1 {
		t.Fatalf("save calls %v, want one", photos.saved)
	}
}

func TestListMembersFallsThroughToRepository(t *testing.T) {
	svc, _, _ := newTestTeamService()
	actor := adminActor()

	for _, slug := range []string{"jean-dupont", "marie-roy"} {
		if _, err := svc.CreateMember(context.Background(), actor, memberInputFixture(slug)); err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
	}

	members, err := svc.ListMembers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("listed %d members, want 2", len(members))
	}
}
