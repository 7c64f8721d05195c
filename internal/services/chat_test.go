package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/saathi-backend/internal/types"
)

type fakeProfileRepo struct {
	profile *types.UserProfile
}

func (f *fakeProfileRepo) Create(_ context.Context, _ *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	return profile, nil
}

func (f *fakeProfileRepo) GetByUID(_ context.Context, _ *gorm.DB, _ string) (*types.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeProfileRepo) GetOrCreateByUID(_ context.Context, _ *gorm.DB, uid string, defaults *types.UserProfile) (*types.UserProfile, bool, error) {
	if f.profile != nil {
		return f.profile, false, nil
	}
	profile := defaults
	if profile == nil {
		profile = &types.UserProfile{}
	}
	profile.ID = uuid.New()
	profile.UID = uid
	f.profile = profile
	return profile, true, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	f.profile = profile
	return profile, nil
}

func (f *fakeProfileRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	return 0, nil
}

type fakeConvRepo struct {
	created []*types.Conversation
}

func (f *fakeConvRepo) Create(_ context.Context, _ *gorm.DB, conversation *types.Conversation) (*types.Conversation, error) {
	conversation.ID = uuid.New()
	f.created = append(f.created, conversation)
	return conversation, nil
}

func (f *fakeConvRepo) GetRecentByUserProfileID(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ int) ([]*types.Conversation, error) {
	return f.created, nil
}

type fakeMemoryRepo struct {
	upserted []*types.UserMemory
}

func (f *fakeMemoryRepo) Upsert(_ context.Context, _ *gorm.DB, memory *types.UserMemory) (*types.UserMemory, error) {
	f.upserted = append(f.upserted, memory)
	return memory, nil
}

func (f *fakeMemoryRepo) GetRecentByUserProfileID(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ int) ([]*types.UserMemory, error) {
	return f.upserted, nil
}

func (f *fakeMemoryRepo) GetByUserProfileID(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.UserMemory, error) {
	return f.upserted, nil
}

type fakeCrisisRepo struct {
	created []*types.CrisisEvent
}

func (f *fakeCrisisRepo) Create(_ context.Context, _ *gorm.DB, event *types.CrisisEvent) (*types.CrisisEvent, error) {
	event.ID = uuid.New()
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeCrisisRepo) GetRecentByUserProfileID(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ int) ([]*types.CrisisEvent, error) {
	return f.created, nil
}

type fakeCachedStore struct {
	fakeStore
	invalidations int
}

func (f *fakeCachedStore) InvalidateConversations(_ context.Context, _ string) {
	f.invalidations++
}

type chatFixture struct {
	service   ChatService
	profiles  *fakeProfileRepo
	convs     *fakeConvRepo
	memories  *fakeMemoryRepo
	crisis    *fakeCrisisRepo
	store     *fakeCachedStore
	generator *recordingGenerator
}

func newChatFixture(profile *types.UserProfile) *chatFixture {
	f := &chatFixture{
		profiles:  &fakeProfileRepo{profile: profile},
		convs:     &fakeConvRepo{},
		memories:  &fakeMemoryRepo{},
		crisis:    &fakeCrisisRepo{},
		store:     &fakeCachedStore{},
		generator: &recordingGenerator{reply: "That sounds important to you."},
	}
	pipeline := newTestPipeline(f.generator, f.store, &fakeRetriever{})
	f.service = NewChatService(nil, testLogger(), pipeline, f.store, f.profiles, f.convs, f.memories, f.crisis)
	return f
}

func consentedProfile() *types.UserProfile {
	return &types.UserProfile{ID: uuid.New(), UID: "u1", ConsentDataStorage: true}
}

func TestProcessChatPersistsWithConsent(t *testing.T) {
	f := newChatFixture(consentedProfile())

	message := "I like painting, and my major is biology. I want to graduate early."
	resp, err := f.service.ProcessChat(context.Background(), ChatRequest{
		UID:       "u1",
		Message:   message,
		SessionID: "sess-9",
	})
	if err != nil {
		t.Fatalf("ProcessChat: %v", err)
	}
	if resp.Reply != f.generator.reply {
		t.Fatalf("Reply=%q, want generator output", resp.Reply)
	}

	if len(f.convs.created) != 1 {
		t.Fatalf("created %d conversations, want 1", len(f.convs.created))
	}
	conv := f.convs.created[0]
	if conv.UserMessage != message {
		t.Fatalf("UserMessage=%q, want the request message", conv.UserMessage)
	}
	if conv.AIResponse != f.generator.reply {
		t.Fatalf("AIResponse=%q, want the reply", conv.AIResponse)
	}
	if conv.SessionID != "sess-9" {
		t.Fatalf("SessionID=%q, want sess-9", conv.SessionID)
	}
	if conv.CrisisDetected {
		t.Fatal("CrisisDetected=true for benign message")
	}

	wantKeys := map[string]string{
		"painting":       types.MemoryTypeInterest,
		"biology":        types.MemoryTypeAcademic,
		"graduate_early": types.MemoryTypeGoal,
	}
	if len(f.memories.upserted) != len(wantKeys) {
		t.Fatalf("upserted %d memories, want %d: %+v", len(f.memories.upserted), len(wantKeys), f.memories.upserted)
	}
	for _, memory := range f.memories.upserted {
		wantType, ok := wantKeys[memory.Key]
		if !ok {
			t.Fatalf("unexpected memory key %q", memory.Key)
		}
		if memory.MemoryType != wantType {
			t.Fatalf("memory %q has type %q, want %q", memory.Key, memory.MemoryType, wantType)
		}
		if memory.Key != memoryKey(memory.Value) {
			t.Fatalf("memory key %q is not the normalized value %q", memory.Key, memory.Value)
		}
		if memory.UserProfileID != f.profiles.profile.ID {
			t.Fatal("memory not attached to the profile")
		}
		if memory.SourceConversationID == nil || *memory.SourceConversationID != conv.ID {
			t.Fatal("memory not linked to the stored conversation")
		}
	}

	if len(f.crisis.created) != 0 {
		t.Fatalf("created %d crisis events for benign message", len(f.crisis.created))
	}
	if f.store.invalidations != 1 {
		t.Fatalf("cache invalidations=%d, want 1", f.store.invalidations)
	}
}

func TestProcessChatSkipsPersistenceWithoutConsent(t *testing.T) {
	profile := consentedProfile()
	profile.ConsentDataStorage = false
	f := newChatFixture(profile)

	resp, err := f.service.ProcessChat(context.Background(), ChatRequest{
		UID:     "u1",
		Message: "I like painting, and my major is biology.",
	})
	if err != nil {
		t.Fatalf("ProcessChat: %v", err)
	}
	if resp.Reply == "" {
		t.Fatal("reply must be produced even without storage consent")
	}

	if len(f.convs.created) != 0 || len(f.memories.upserted) != 0 || len(f.crisis.created) != 0 {
		t.Fatalf("persistence ran without consent: convs=%d memories=%d crisis=%d",
			len(f.convs.created), len(f.memories.upserted), len(f.crisis.created))
	}
	if f.store.invalidations != 0 {
		t.Fatalf("cache invalidations=%d, want 0", f.store.invalidations)
	}
}

func TestProcessChatRecordsCrisisEvent(t *testing.T) {
	f := newChatFixture(consentedProfile())

	resp, err := f.service.ProcessChat(context.Background(), ChatRequest{
		UID:     "u1",
		Message: "I want to kill myself",
	})
	if err != nil {
		t.Fatalf("ProcessChat: %v", err)
	}
	if !resp.Crisis || resp.Escalation == nil {
		t.Fatalf("response=%+v, want crisis with escalation", resp)
	}

	if len(f.convs.created) != 1 {
		t.Fatalf("created %d conversations, want 1", len(f.convs.created))
	}
	conv := f.convs.created[0]
	if !conv.CrisisDetected || !conv.EscalationTriggered {
		t.Fatalf("conversation flags=%+v, want crisis and escalation set", conv)
	}
	if conv.SessionID != "session_u1" {
		t.Fatalf("SessionID=%q, want the uid-derived default", conv.SessionID)
	}

	if len(f.crisis.created) != 1 {
		t.Fatalf("created %d crisis events, want 1", len(f.crisis.created))
	}
	event := f.crisis.created[0]
	if event.CrisisType != CrisisTypeSuicidalIdeation {
		t.Fatalf("CrisisType=%q, want %q", event.CrisisType, CrisisTypeSuicidalIdeation)
	}
	if event.SeverityScore != 1.0 {
		t.Fatalf("SeverityScore=%v, want 1.0", event.SeverityScore)
	}
	if event.ConversationID != conv.ID {
		t.Fatal("crisis event not linked to the stored conversation")
	}
	if !event.EmergencyResourcesProvided {
		t.Fatal("EmergencyResourcesProvided=false")
	}
	if !strings.Contains(string(event.TriggerKeywords), "kill myself") {
		t.Fatalf("TriggerKeywords=%s, want the matched phrase", event.TriggerKeywords)
	}

	if len(f.memories.upserted) != 0 {
		t.Fatalf("upserted %d memories on crisis path, want 0", len(f.memories.upserted))
	}
}

func TestProcessChatRequiresUIDAndMessage(t *testing.T) {
	f := newChatFixture(consentedProfile())

	if _, err := f.service.ProcessChat(context.Background(), ChatRequest{UID: "u1"}); err == nil {
		t.Fatal("expected error for missing message")
	}
	if _, err := f.service.ProcessChat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected error for missing uid")
	}
}

func TestMemoryKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Graduate Early", "graduate_early"},
		{"chess", "chess"},
		{"computer science", "computer_science"},
	}
	for _, tc := range cases {
		if got := memoryKey(tc.in); got != tc.want {
			t.Fatalf("memoryKey(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
