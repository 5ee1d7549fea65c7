package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/llm"
	"github.com/yab007-glitch/linkedinto/app/post"
)

// Scores 86 against the default criteria
const goodDraft = "🚀 What did 30 days of shipping teach me?\n" +
	"\n" +
	"- Ship small and ship often\n" +
	"- Talk to users every week\n" +
	"- Cut scope before cutting quality\n" +
	"\n" +
	"Most teams wait too long for perfect. Perfect never ships. 💡\n" +
	"\n" +
	"What do you think? Let me know in the comments. ✨\n" +
	"\n" +
	"#buildinpublic #startups #productmanagement"

// Scores well below any reasonable gate
const badDraft = "Buy my course now!!!! WOW AMAZING DEAL BEST OFFER lol"

type mockPostRepo struct {
	posts map[string]*database.ScheduledPost
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*database.ScheduledPost)}
}

func (m *mockPostRepo) CreatePost(p database.ScheduledPost) error {
	m.posts[p.ID] = &p
	return nil
}

func (m *mockPostRepo) GetPost(id string) (*database.ScheduledPost, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockPostRepo) GetAllPosts() ([]database.ScheduledPost, error) {
	var result []database.ScheduledPost
	for _, p := range m.posts {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPostRepo) GetUpcomingPosts(now time.Time, limit int) ([]database.ScheduledPost, error) {
	return nil, nil
}

func (m *mockPostRepo) GetDuePosts(now time.Time) ([]database.ScheduledPost, error) {
	var result []database.ScheduledPost
	for _, p := range m.posts {
		if p.Status == post.StatusApproved && !p.ScheduledFor.After(now) && p.PostedAt == nil {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPostRepo) GetPostStats(now time.Time) (database.PostStats, error) {
	return database.PostStats{}, nil
}

func (m *mockPostRepo) UpdatePostStatus(id string, status string) error {
	p, ok := m.posts[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockPostRepo) UpdatePostContent(id string, content string) error {
	p, ok := m.posts[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Content = content
	return nil
}

func (m *mockPostRepo) MarkPostPosted(id string, externalPostID string, postedAt time.Time) error {
	p, ok := m.posts[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Status = post.StatusPosted
	p.ExternalPostID = externalPostID
	p.PostedAt = &postedAt
	return nil
}

func (m *mockPostRepo) MarkPostFailed(id string, errorMessage string) error {
	p, ok := m.posts[id]
	if !ok || p.Status == post.StatusPosted {
		return database.ErrNotFound
	}
	p.Status = post.StatusFailed
	p.Error = errorMessage
	return nil
}

func (m *mockPostRepo) DeletePost(id string) error {
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) single(t *testing.T) *database.ScheduledPost {
	t.Helper()
	if len(m.posts) != 1 {
		t.Fatalf("Expected exactly 1 post in queue, got %d", len(m.posts))
	}
	for _, p := range m.posts {
		return p
	}
	return nil
}

type mockArticleRepo struct {
	next      *database.Article
	processed []string
}

func (m *mockArticleRepo) UpsertArticle(article database.Article) error { return nil }
func (m *mockArticleRepo) CheckDuplicate(contentHash string) (bool, error) {
	return false, nil
}
func (m *mockArticleRepo) GetNextUnprocessed() (*database.Article, error) { return m.next, nil }
func (m *mockArticleRepo) GetArticlesForExtraction(source string, limit int) ([]database.Article, error) {
	return nil, nil
}
func (m *mockArticleRepo) GetArticleCount() (int, error) { return 0, nil }
func (m *mockArticleRepo) MarkProcessed(id string) error {
	m.processed = append(m.processed, id)
	return nil
}
func (m *mockArticleRepo) UpdateExtractedContent(id string, content string, status string) error {
	return nil
}
func (m *mockArticleRepo) UpdateExtractionStatus(id string, status string) error { return nil }

type mockAutomationRepo struct {
	config  database.AutomationConfig
	lastRun *time.Time
	nextRun *time.Time
}

func (m *mockAutomationRepo) GetConfig() (*database.AutomationConfig, error) {
	copied := m.config
	return &copied, nil
}

func (m *mockAutomationRepo) UpdateConfig(config database.AutomationConfig) error {
	m.config = config
	return nil
}

func (m *mockAutomationRepo) UpdateRunTimes(lastRun time.Time, nextRun time.Time) error {
	m.lastRun = &lastRun
	m.nextRun = &nextRun
	return nil
}

type mockGenerator struct {
	drafts      []*llm.Draft
	errs        []error
	calls       int
	suggestions [][]string
}

func (m *mockGenerator) GeneratePost(ctx context.Context, article *database.Article, suggestions []string) (*llm.Draft, error) {
	idx := m.calls
	m.calls++
	m.suggestions = append(m.suggestions, suggestions)

	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if idx >= len(m.drafts) {
		return nil, fmt.Errorf("unexpected generation call %d", idx)
	}
	return m.drafts[idx], nil
}

type mockNotifier struct {
	subjects []string
}

func (m *mockNotifier) Enabled() bool { return true }
func (m *mockNotifier) Send(ctx context.Context, subject string, message string) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func testArticle() *database.Article {
	return &database.Article{
		ID:       "article-1",
		Source:   "techblog",
		Title:    "Why shipping beats planning",
		Category: "engineering",
		Content:  "Long extracted article text.",
	}
}

func newGenerateTask(articleRepo *mockArticleRepo, automationRepo *mockAutomationRepo,
	postRepo *mockPostRepo, generator *mockGenerator, autoApprove int) *GeneratePostTask {
	return NewGeneratePostTask(automationRepo, articleRepo,
		post.NewQueue(postRepo), post.NewClock(0), post.NewScorer(70),
		generator, nil, 70, autoApprove)
}

func TestGeneratePostTaskDisabledIsNoOp(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: testArticle()}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{Enabled: false}}
	generator := &mockGenerator{}

	task := newGenerateTask(articleRepo, automationRepo, postRepo, generator, 80)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if generator.calls != 0 {
		t.Errorf("Expected no generation calls while disabled, got %d", generator.calls)
	}
	if len(postRepo.posts) != 0 {
		t.Errorf("Expected no posts created while disabled, got %d", len(postRepo.posts))
	}
	if automationRepo.lastRun != nil {
		t.Error("Run times must not change while disabled")
	}
}

func TestGeneratePostTaskNoArticlesIsNoOp(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: nil}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{
		Enabled: true, ScheduleType: post.ScheduleInterval, PostingInterval: 2,
	}}
	generator := &mockGenerator{}

	task := newGenerateTask(articleRepo, automationRepo, postRepo, generator, 80)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if generator.calls != 0 {
		t.Errorf("Expected no generation calls without articles, got %d", generator.calls)
	}
	if len(postRepo.posts) != 0 {
		t.Errorf("Expected no posts created, got %d", len(postRepo.posts))
	}
}

func TestGeneratePostTaskAutoApprovesHighScore(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: testArticle()}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{
		Enabled: true, ScheduleType: post.ScheduleInterval, PostingInterval: 2,
	}}
	generator := &mockGenerator{drafts: []*llm.Draft{{Content: goodDraft}}}
	notifier := &mockNotifier{}

	task := NewGeneratePostTask(automationRepo, articleRepo,
		post.NewQueue(postRepo), post.NewClock(0), post.NewScorer(70),
		generator, notifier, 70, 80)

	before := time.Now().UTC()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	record := postRepo.single(t)
	if record.Status != post.StatusApproved {
		t.Errorf("Expected high-scoring post to be auto-approved, got %s", record.Status)
	}
	if record.Content != goodDraft {
		t.Error("Expected draft content to be stored unchanged")
	}
	if record.ArticleID == nil || *record.ArticleID != "article-1" {
		t.Error("Expected post to reference the source article")
	}
	if !record.ScheduledFor.After(before) {
		t.Errorf("Expected future scheduled time, got %v", record.ScheduledFor)
	}

	if generator.calls != 1 {
		t.Errorf("Expected a single generation call, got %d", generator.calls)
	}
	if len(articleRepo.processed) != 1 || articleRepo.processed[0] != "article-1" {
		t.Errorf("Expected article marked processed, got %v", articleRepo.processed)
	}
	if automationRepo.lastRun == nil || automationRepo.nextRun == nil {
		t.Fatal("Expected run times to be updated")
	}
	if !automationRepo.nextRun.After(*automationRepo.lastRun) {
		t.Error("Expected next run after last run")
	}
	if len(notifier.subjects) != 1 {
		t.Errorf("Expected one notification, got %v", notifier.subjects)
	}
}

func TestGeneratePostTaskKeepsPendingBelowAutoApprove(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: testArticle()}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{
		Enabled: true, ScheduleType: post.ScheduleInterval, PostingInterval: 2,
	}}
	generator := &mockGenerator{drafts: []*llm.Draft{{Content: goodDraft}}}

	// Auto-approve bar above what the draft scores
	task := newGenerateTask(articleRepo, automationRepo, postRepo, generator, 95)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	record := postRepo.single(t)
	if record.Status != post.StatusPending {
		t.Errorf("Expected post to stay pending for review, got %s", record.Status)
	}
}

func TestGeneratePostTaskRegeneratesOnceWithSuggestions(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: testArticle()}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{
		Enabled: true, ScheduleType: post.ScheduleInterval, PostingInterval: 2,
	}}
	generator := &mockGenerator{drafts: []*llm.Draft{
		{Content: badDraft},
		{Content: goodDraft},
	}}

	task := newGenerateTask(articleRepo, automationRepo, postRepo, generator, 80)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if generator.calls != 2 {
		t.Fatalf("Expected exactly 2 generation calls, got %d", generator.calls)
	}
	if len(generator.suggestions[0]) != 0 {
		t.Error("First generation call must not carry suggestions")
	}
	if len(generator.suggestions[1]) == 0 {
		t.Error("Regeneration call must carry the scorer's suggestions")
	}

	record := postRepo.single(t)
	if record.Content != goodDraft {
		t.Error("Expected the improved draft to be used")
	}
	if record.Status != post.StatusApproved {
		t.Errorf("Expected improved draft to be auto-approved, got %s", record.Status)
	}
}

func TestGeneratePostTaskKeepsOriginalWhenRegenerationFails(t *testing.T) {
	postRepo := newMockPostRepo()
	articleRepo := &mockArticleRepo{next: testArticle()}
	automationRepo := &mockAutomationRepo{config: database.AutomationConfig{
		Enabled: true, ScheduleType: post.ScheduleInterval, PostingInterval: 2,
	}}
	generator := &mockGenerator{
		drafts: []*llm.Draft{{Content: badDraft}, nil},
		errs:   []error{nil, fmt.Errorf("model unavailable")},
	}

	task := newGenerateTask(articleRepo, automationRepo, postRepo, generator, 80)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	record := postRepo.single(t)
	if record.Content != badDraft {
		t.Error("Expected the original draft to be kept when regeneration fails")
	}
	if record.Status != post.StatusPending {
		t.Errorf("Expected low-scoring post to stay pending, got %s", record.Status)
	}
	if len(articleRepo.processed) != 1 {
		t.Error("Article must still be marked processed")
	}
}
