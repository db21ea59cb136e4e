package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
	"github.com/shaiso/Answerflow/internal/llm"
	"github.com/shaiso/Answerflow/internal/repo"
)

// fixture — in-memory реализация всех хранилищ движка.
type fixture struct {
	questions map[uuid.UUID]*domain.Question
	flows     []domain.Flow
	agents    map[uuid.UUID]*domain.Agent
	configs   []domain.LLMConfig

	claims   map[string]bool
	logsRows []domain.AgentRunLog
	answers  []domain.Answer
	answered []uuid.UUID
}

func newFixture() *fixture {
	return &fixture{
		questions: make(map[uuid.UUID]*domain.Question),
		agents:    make(map[uuid.UUID]*domain.Agent),
		claims:    make(map[string]bool),
	}
}

func (f *fixture) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if q, ok := f.questions[id]; ok {
		return q, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fixture) MarkAnswered(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.answered = append(f.answered, id)
	return nil
}

func (f *fixture) ListActiveByTrigger(ctx context.Context, triggerType string) ([]domain.Flow, error) {
	var out []domain.Flow
	for _, fl := range f.flows {
		if fl.IsActive && fl.TriggerType == triggerType {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fixture) ClaimRun(ctx context.Context, questionID, flowID uuid.UUID) (bool, error) {
	key := questionID.String() + "/" + flowID.String()
	if f.claims[key] {
		return false, nil
	}
	f.claims[key] = true
	return true, nil
}

func (f *fixture) agentByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	if a, ok := f.agents[id]; ok {
		return a, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fixture) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.LLMConfig, error) {
	for i := range f.configs {
		if f.configs[i].ID == id && f.configs[i].UserID == userID {
			return &f.configs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fixture) FirstForUser(ctx context.Context, userID uuid.UUID) (*domain.LLMConfig, error) {
	for i := range f.configs {
		if f.configs[i].UserID == userID {
			return &f.configs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fixture) Create(ctx context.Context, log *domain.AgentRunLog) error {
	f.logsRows = append(f.logsRows, *log)
	return nil
}

func (f *fixture) CreateAnswer(ctx context.Context, answer *domain.Answer) error {
	f.answers = append(f.answers, *answer)
	return nil
}

// Отдельные адаптеры, потому что fixture не может иметь два метода
// с одинаковым именем для разных интерфейсов.
type agentAdapter struct{ f *fixture }

func (a agentAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	return a.f.agentByID(ctx, id)
}

type answerAdapter struct{ f *fixture }

func (a answerAdapter) Create(ctx context.Context, answer *domain.Answer) error {
	return a.f.CreateAnswer(ctx, answer)
}

// invokeCall — записанный вызов LLM.
type invokeCall struct {
	cfg          *domain.LLMConfig
	model        string
	systemPrompt string
	userContent  string
}

// fakeInvoker возвращает заранее заданные результаты по порядку вызовов.
type fakeInvoker struct {
	calls   []invokeCall
	results []llm.Result
}

func (fi *fakeInvoker) Invoke(ctx context.Context, cfg *domain.LLMConfig, model, systemPrompt, userContent string) llm.Result {
	fi.calls = append(fi.calls, invokeCall{cfg: cfg, model: model, systemPrompt: systemPrompt, userContent: userContent})
	if len(fi.results) == 0 {
		return llm.Result{Content: "default output"}
	}
	res := fi.results[0]
	fi.results = fi.results[1:]
	return res
}

func newRunner(f *fixture, inv *fakeInvoker) *Runner {
	return New(Config{
		Questions: f,
		Flows:     f,
		Agents:    agentAdapter{f},
		Configs:   f,
		Logs:      f,
		Answers:   answerAdapter{f},
		Invoker:   inv,
	})
}

// seedFlow добавляет агента, конфигурацию и flow с заданным графом.
func seedFlow(f *fixture, graph domain.FlowGraph) *domain.Flow {
	userID := uuid.New()
	agent := &domain.Agent{ID: uuid.New(), UserID: userID, Name: "support-bot", CreatedAt: time.Now()}
	f.agents[agent.ID] = agent
	f.configs = append(f.configs, domain.LLMConfig{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "default",
		APIBaseURL: "https://api.example.com/v1",
		APIKey:     "sk-test",
		CreatedAt:  time.Now(),
	})

	flow := domain.Flow{
		ID:          uuid.New(),
		AgentID:     agent.ID,
		Name:        "answer incoming questions",
		TriggerType: domain.TriggerQuestionCreated,
		IsActive:    true,
		Graph:       graph,
		CreatedAt:   time.Now(),
	}
	f.flows = append(f.flows, flow)
	return &f.flows[len(f.flows)-1]
}

func seedQuestion(f *fixture) *domain.Question {
	q := &domain.Question{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "How do I reset my password?",
		Content:   "I lost access to my email.",
		Category:  "account",
		Status:    domain.QuestionStatusOpen,
		CreatedAt: time.Now(),
	}
	f.questions[q.ID] = q
	return q
}

func linearGraph() domain.FlowGraph {
	return domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "t1", Type: domain.NodeTypeTrigger},
			{ID: "a1", Type: domain.NodeTypeAgent, Data: map[string]any{
				"systemPrompt": "Answer the question about {{question.title}}.",
			}},
			{ID: "r1", Type: domain.NodeTypeResponse},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "t1", Target: "a1"},
			{ID: "e2", Source: "a1", Target: "r1"},
		},
	}
}

func TestRunQuestionHappyPath(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{{Content: "Use the reset link."}}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	if len(inv.calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(inv.calls))
	}
	call := inv.calls[0]
	if call.model != domain.DefaultModel {
		t.Errorf("model = %q, want %q", call.model, domain.DefaultModel)
	}
	if want := "Answer the question about How do I reset my password?."; call.systemPrompt != want {
		t.Errorf("systemPrompt = %q, want %q", call.systemPrompt, want)
	}
	wantUser := "Question title: How do I reset my password?\n\nQuestion content:\nI lost access to my email."
	if call.userContent != wantUser {
		t.Errorf("userContent = %q, want %q", call.userContent, wantUser)
	}

	if len(f.answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(f.answers))
	}
	ans := f.answers[0]
	if ans.Content != "Use the reset link." {
		t.Errorf("answer content = %q", ans.Content)
	}
	if !ans.IsAI {
		t.Error("answer should be marked as AI")
	}
	if ans.QuestionID != q.ID {
		t.Error("answer bound to wrong question")
	}

	if len(f.answered) != 1 || f.answered[0] != q.ID {
		t.Errorf("question not marked answered: %v", f.answered)
	}

	if len(f.logsRows) != 1 {
		t.Fatalf("expected 1 run log row, got %d", len(f.logsRows))
	}
	row := f.logsRows[0]
	if row.Status != domain.RunLogStatusSuccess {
		t.Errorf("log status = %q", row.Status)
	}
	if row.ResponseContent != "Use the reset link." {
		t.Errorf("log response = %q", row.ResponseContent)
	}
	if row.NodeID != "a1" {
		t.Errorf("log node_id = %q", row.NodeID)
	}
}

func TestRunQuestionAgentFailureForwardsError(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{{Err: "API error: 500 upstream down"}}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	if len(f.logsRows) != 1 {
		t.Fatalf("expected 1 run log row, got %d", len(f.logsRows))
	}
	row := f.logsRows[0]
	if row.Status != domain.RunLogStatusError {
		t.Errorf("log status = %q", row.Status)
	}
	if row.ErrorMessage != "API error: 500 upstream down" {
		t.Errorf("log error = %q", row.ErrorMessage)
	}

	// Ошибка протекает в ответ с префиксом.
	if len(f.answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(f.answers))
	}
	if want := "[Error] API error: 500 upstream down"; f.answers[0].Content != want {
		t.Errorf("answer content = %q, want %q", f.answers[0].Content, want)
	}
}

func TestRunQuestionChainedAgents(t *testing.T) {
	graph := domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "t1", Type: domain.NodeTypeTrigger},
			{ID: "a1", Type: domain.NodeTypeAgent, Data: map[string]any{
				"systemPrompt": "Draft an answer.",
			}},
			{ID: "a2", Type: domain.NodeTypeAgent, Data: map[string]any{
				"systemPrompt": "Polish this draft: {{previous_output}}",
			}},
			{ID: "r1", Type: domain.NodeTypeResponse},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "t1", Target: "a1"},
			{ID: "e2", Source: "a1", Target: "a2"},
			{ID: "e3", Source: "a2", Target: "r1"},
		},
	}

	f := newFixture()
	seedFlow(f, graph)
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{
		{Content: "rough draft"},
		{Content: "polished answer"},
	}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	if len(inv.calls) != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", len(inv.calls))
	}
	if want := "Polish this draft: rough draft"; inv.calls[1].systemPrompt != want {
		t.Errorf("second prompt = %q, want %q", inv.calls[1].systemPrompt, want)
	}

	if len(f.answers) != 1 || f.answers[0].Content != "polished answer" {
		t.Fatalf("answers = %+v", f.answers)
	}
	if len(f.logsRows) != 2 {
		t.Errorf("expected 2 run log rows, got %d", len(f.logsRows))
	}
}

func TestRunQuestionMissingQuestion(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())

	inv := &fakeInvoker{}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), uuid.New()); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(inv.calls) != 0 {
		t.Errorf("no LLM calls expected, got %d", len(inv.calls))
	}
	if len(f.claims) != 0 {
		t.Errorf("no claims expected, got %d", len(f.claims))
	}
}

func TestRunQuestionOrphanedFlowSkipped(t *testing.T) {
	f := newFixture()
	flow := seedFlow(f, linearGraph())
	delete(f.agents, flow.AgentID)
	q := seedQuestion(f)

	inv := &fakeInvoker{}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(inv.calls) != 0 {
		t.Errorf("no LLM calls expected, got %d", len(inv.calls))
	}
	if len(f.claims) != 0 {
		t.Errorf("orphaned flow must not claim a run, got %d claims", len(f.claims))
	}
	if len(f.answers) != 0 {
		t.Errorf("no answers expected, got %d", len(f.answers))
	}
}

func TestRunQuestionClaimLostSkipsRun(t *testing.T) {
	f := newFixture()
	flow := seedFlow(f, linearGraph())
	q := seedQuestion(f)

	// Прогон уже зарегистрирован другим экземпляром.
	f.claims[q.ID.String()+"/"+flow.ID.String()] = true

	inv := &fakeInvoker{}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(inv.calls) != 0 {
		t.Errorf("no LLM calls expected, got %d", len(inv.calls))
	}
	if len(f.answers) != 0 {
		t.Errorf("no answers expected, got %d", len(f.answers))
	}
}

func TestRunQuestionRedeliveryIsIdempotent(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{{Content: "first"}, {Content: "second"}}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(inv.calls) != 1 {
		t.Errorf("redelivery must not re-run the flow, got %d LLM calls", len(inv.calls))
	}
	if len(f.answers) != 1 {
		t.Errorf("expected exactly 1 answer, got %d", len(f.answers))
	}
}

func TestRunQuestionTwoFlowsIndependent(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())
	seedFlow(f, linearGraph())
	q := seedQuestion(f)

	// Первый flow падает, второй успешен.
	inv := &fakeInvoker{results: []llm.Result{
		{Err: "API error: 429 rate limited"},
		{Content: "second flow answer"},
	}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	if len(inv.calls) != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", len(inv.calls))
	}
	if len(f.answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(f.answers))
	}
	if !strings.HasPrefix(f.answers[0].Content, "[Error] ") {
		t.Errorf("first answer = %q, want error-prefixed", f.answers[0].Content)
	}
	if f.answers[1].Content != "second flow answer" {
		t.Errorf("second answer = %q", f.answers[1].Content)
	}
}

func TestRunQuestionNoTriggerNodesSkipsFlow(t *testing.T) {
	graph := domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "a1", Type: domain.NodeTypeAgent},
			{ID: "r1", Type: domain.NodeTypeResponse},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "a1", Target: "r1"}},
	}

	f := newFixture()
	seedFlow(f, graph)
	q := seedQuestion(f)

	inv := &fakeInvoker{}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(inv.calls) != 0 {
		t.Errorf("no LLM calls expected, got %d", len(inv.calls))
	}
}

func TestRunQuestionUnknownNodeTypeSkipped(t *testing.T) {
	graph := domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "t1", Type: domain.NodeTypeTrigger},
			{ID: "x1", Type: "webhook"},
			{ID: "a1", Type: domain.NodeTypeAgent},
			{ID: "r1", Type: domain.NodeTypeResponse},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "t1", Target: "x1"},
			{ID: "e2", Source: "x1", Target: "a1"},
			{ID: "e3", Source: "a1", Target: "r1"},
		},
	}

	f := newFixture()
	seedFlow(f, graph)
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{{Content: "answer"}}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(inv.calls) != 1 {
		t.Errorf("expected 1 LLM call past the unknown node, got %d", len(inv.calls))
	}
	if len(f.answers) != 1 {
		t.Errorf("expected 1 answer, got %d", len(f.answers))
	}
}

func TestRunQuestionNoResponseNodeNeverAnswers(t *testing.T) {
	// Граф обрывается на agent-узле: вывод копится, но публиковать
	// его некому.
	graph := domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "t1", Type: domain.NodeTypeTrigger},
			{ID: "a1", Type: domain.NodeTypeAgent},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "t1", Target: "a1"}},
	}

	f := newFixture()
	seedFlow(f, graph)
	q := seedQuestion(f)

	inv := &fakeInvoker{results: []llm.Result{{Content: "unpublished output"}}}
	r := newRunner(f, inv)

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	// Agent-узел выполнился и попал в аудит.
	if len(inv.calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(inv.calls))
	}
	if len(f.logsRows) != 1 {
		t.Fatalf("expected 1 run log row, got %d", len(f.logsRows))
	}
	if f.logsRows[0].ResponseContent != "unpublished output" {
		t.Errorf("log response = %q", f.logsRows[0].ResponseContent)
	}

	// Но без response-узла ответа нет и вопрос остаётся открытым.
	if len(f.answers) != 0 {
		t.Errorf("no answers expected, got %d", len(f.answers))
	}
	if len(f.answered) != 0 {
		t.Errorf("question must stay open, answered: %v", f.answered)
	}
}

func TestRunQuestionEmptyOutputNotPublished(t *testing.T) {
	graph := domain.FlowGraph{
		Nodes: []domain.Node{
			{ID: "t1", Type: domain.NodeTypeTrigger},
			{ID: "r1", Type: domain.NodeTypeResponse},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "t1", Target: "r1"}},
	}

	f := newFixture()
	seedFlow(f, graph)
	q := seedQuestion(f)

	r := newRunner(f, &fakeInvoker{})

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}
	if len(f.answers) != 0 {
		t.Errorf("no answers expected, got %d", len(f.answers))
	}
	if len(f.answered) != 0 {
		t.Errorf("question must stay open, answered: %v", f.answered)
	}
}

func TestRunQuestionNoConfigRecordsConfigError(t *testing.T) {
	f := newFixture()
	seedFlow(f, linearGraph())
	f.configs = nil // у владельца нет ни одной конфигурации
	q := seedQuestion(f)

	client := llm.NewClient()
	r := newRunner(f, &fakeInvoker{})
	r.invoker = client

	if err := r.RunQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("RunQuestion: %v", err)
	}

	if len(f.logsRows) != 1 {
		t.Fatalf("expected 1 run log row, got %d", len(f.logsRows))
	}
	row := f.logsRows[0]
	if row.Status != domain.RunLogStatusError {
		t.Errorf("log status = %q", row.Status)
	}
	if !strings.Contains(row.ErrorMessage, "no API key") {
		t.Errorf("log error = %q, want configuration error", row.ErrorMessage)
	}
}
