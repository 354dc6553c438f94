package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/memory"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/dialog/intent"
	"ai-voicebot-be/pkg/dialog/menu"
	"ai-voicebot-be/pkg/dialog/note"
	"ai-voicebot-be/pkg/dialog/response"
	"ai-voicebot-be/pkg/dialog/session"
	"ai-voicebot-be/pkg/events"
	"ai-voicebot-be/pkg/imagegen"
	"ai-voicebot-be/pkg/llm"
	"ai-voicebot-be/pkg/lock"
	"ai-voicebot-be/pkg/speech"
	"ai-voicebot-be/pkg/telegram"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChat int64 = 42

// fakes

type sentItem struct {
	kind   dto.DeliveryKind
	text   string
	data   []byte
	markup *telegram.InlineKeyboardMarkup
}

type fakeChannel struct {
	mu      sync.Mutex
	sent    []sentItem
	failAll error
}

func (c *fakeChannel) record(item sentItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll != nil {
		return c.failAll
	}
	c.sent = append(c.sent, item)
	return nil
}

func (c *fakeChannel) SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error {
	return c.record(sentItem{kind: dto.DeliveryText, text: text, markup: markup})
}

func (c *fakeChannel) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup *telegram.InlineKeyboardMarkup) error {
	return c.record(sentItem{kind: dto.DeliveryPhoto, text: caption, data: photo, markup: markup})
}

func (c *fakeChannel) SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string, markup *telegram.InlineKeyboardMarkup) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return c.record(sentItem{kind: dto.DeliveryDocument, text: filePath, data: data})
}

func (c *fakeChannel) last(t *testing.T) sentItem {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

func (c *fakeChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type reply struct {
	out string
	err error
}

type scriptedProvider struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
}

func (p *scriptedProvider) push(out string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{out: out, err: err})
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if len(p.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r.out, r.err
}

type fakeFiles struct {
	data []byte
	err  error
}

func (f *fakeFiles) Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	return f.data, f.err
}

type fakeTranscriber struct {
	texts []string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.texts) == 0 {
		return "", nil
	}
	text := f.texts[0]
	f.texts = f.texts[1:]
	return text, nil
}

type fakeImages struct {
	img     *imagegen.Image
	err     error
	prompts []string
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) (*imagegen.Image, error) {
	f.prompts = append(f.prompts, prompt)
	return f.img, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type busyLocker struct {
	err      error
	acquired int
}

func (l *busyLocker) Acquire(ctx context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() {}, nil
}

// harness

type harness struct {
	store       *memory.Store
	channel     *fakeChannel
	reasoner    *scriptedProvider
	plain       *scriptedProvider
	files       *fakeFiles
	transcriber *fakeTranscriber
	images      *fakeImages
	publisher   *recordingPublisher
	svc         IDialogueService
	nextUpdate  int
}

func newHarness(t *testing.T, limit int) *harness {
	t.Helper()
	return newLockedHarness(t, limit, nil)
}

func newLockedHarness(t *testing.T, limit int, locker lock.Locker) *harness {
	t.Helper()
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	var tickMu sync.Mutex
	tick := 0
	store := memory.NewStore().WithClock(func() time.Time {
		tickMu.Lock()
		defer tickMu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	})

	h := &harness{
		store:       store,
		channel:     &fakeChannel{},
		reasoner:    &scriptedProvider{},
		plain:       &scriptedProvider{},
		files:       &fakeFiles{data: monoWAV(t, 800)},
		transcriber: &fakeTranscriber{},
		images:      &fakeImages{},
		publisher:   &recordingPublisher{},
	}

	log := logger.NewNopLogger()
	answerer := intent.NewAnswerer(h.plain, log)
	sessions := session.NewManager(answerer)
	verifier := access.NewVerifier(limit).WithClock(func() time.Time { return base })

	h.svc = NewDialogueService(DialogueDeps{
		UowFactory:  store,
		Verifier:    verifier,
		Sessions:    sessions,
		Composer:    note.NewComposer(t.TempDir()),
		Classifier:  intent.NewClassifier(h.reasoner, answerer, log),
		Menus:       menu.NewBuilder("@vakil_bot"),
		Delivery:    NewDeliveryService(h.channel, store, sessions, h.publisher, log),
		Files:       h.files,
		Transcriber: h.transcriber,
		Images:      h.images,
		Publisher:   h.publisher,
		Locker:      locker,
		Logger:      log,
		YoutubeURL:  "https://www.youtube.com/@pishnahadebehtar",
		TempDir:     t.TempDir(),
	})
	return h
}

func monoWAV(t *testing.T, frames int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	data := make([]int, frames)
	for i := range data {
		data[i] = 500
	}
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}

func (h *harness) event(kind dto.EventKind, text string) *dto.InboundEvent {
	h.nextUpdate++
	ev := &dto.InboundEvent{
		UpdateId: strconv.Itoa(h.nextUpdate),
		ChatId:   testChat,
		Kind:     kind,
		Text:     text,
	}
	if kind == dto.EventVoice {
		ev.VoiceFileId = "voice-" + ev.UpdateId
		ev.VoiceMimeType = "audio/ogg"
	}
	if kind == dto.EventUnsupported {
		ev.ContentLabel = text
	}
	return ev
}

func (h *harness) send(t *testing.T, kind dto.EventKind, text string) {
	t.Helper()
	require.NoError(t, h.svc.HandleEvent(context.Background(), h.event(kind, text)))
}

func (h *harness) text(t *testing.T, text string) { h.send(t, dto.EventText, text) }

func (h *harness) press(t *testing.T, data string) { h.send(t, dto.EventCallback, data) }

func (h *harness) voice(t *testing.T) { h.send(t, dto.EventVoice, "") }

func (h *harness) user(t *testing.T) *entity.User {
	t.Helper()
	u, err := h.store.NewUnitOfWork(context.Background()).UserRepository().FindOne(context.Background(),
		specification.ByTelegramID{TelegramID: strconv.FormatInt(testChat, 10)})
	require.NoError(t, err)
	return u
}

func (h *harness) activeCounts(t *testing.T) (sessions, notes int64) {
	t.Helper()
	u := h.user(t)
	if u == nil {
		return 0, 0
	}
	ctx := context.Background()
	uow := h.store.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().Count(ctx, specification.UserOwnedBy{UserID: u.Id}, specification.ActiveOnly{})
	require.NoError(t, err)
	notes, err = uow.NoteRepository().Count(ctx, specification.UserOwnedBy{UserID: u.Id}, specification.ActiveOnly{})
	require.NoError(t, err)
	return sessions, notes
}

func (h *harness) messages(t *testing.T, role string) []*entity.ChatMessage {
	t.Helper()
	u := h.user(t)
	require.NotNil(t, u)
	ctx := context.Background()
	msgs, err := h.store.NewUnitOfWork(ctx).ChatMessageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: u.Id},
		specification.ByRole{Roles: []string{role}},
		specification.Oldest(),
	)
	require.NoError(t, err)
	return msgs
}

func answerJSON(text string) string {
	return `{"needs_image": false, "response": "` + text + `"}`
}

func jpeg(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return b
}

// tests

func TestUsageCountsOnlyAIBackedTurns(t *testing.T) {
	h := newHarness(t, 400)

	h.text(t, "/start")
	h.text(t, "/help")
	h.press(t, menu.CallbackYoutube)

	h.reasoner.push(answerJSON("سلام! چطور کمک کنم؟"), nil)
	h.text(t, "سلام")

	h.reasoner.push("this is not json", nil)
	h.text(t, "یک سوال")
	assert.Equal(t, response.ParseError, h.channel.last(t).text)

	h.reasoner.push("", errors.New("gemini down"))
	h.plain.push("پاسخ جایگزین", nil)
	h.text(t, "سوال دوم")
	assert.Equal(t, "پاسخ جایگزین", h.channel.last(t).text)

	h.plain.push("خلاصه", nil)
	h.press(t, menu.CallbackSummary100)
	assert.Contains(t, h.channel.last(t).text, "خلاصه")

	assert.Equal(t, 3, h.user(t).UsageCount)
	assert.ElementsMatch(t, []string{events.TypeTurnCompleted, events.TypeTurnCompleted}, h.publisher.types())

	// the abandoned turn keeps its user message
	users := h.messages(t, constant.ChatMessageRoleUser)
	require.Len(t, users, 3)
	assert.Equal(t, "یک سوال", users[1].Content)
}

func TestEmptySummaryIsFreeAndKeepsContext(t *testing.T) {
	h := newHarness(t, 400)

	h.text(t, "/summaryall")

	assert.Equal(t, response.Summary(constant.SummaryAllLimit, response.NoMessages), h.channel.last(t).text)
	assert.Equal(t, 0, h.user(t).UsageCount)
	assert.Empty(t, h.plain.prompts)
}

func TestAtMostOneActiveSessionAndNote(t *testing.T) {
	h := newHarness(t, 400)
	h.reasoner.push(answerJSON("a"), nil)
	h.reasoner.push(answerJSON("b"), nil)

	steps := []struct {
		name string
		run  func()
	}{
		{"text", func() { h.text(t, "سلام") }},
		{"makenote", func() { h.text(t, "/makenote") }},
		{"make_new_note", func() { h.press(t, menu.CallbackMakeNewNote) }},
		{"newchat", func() { h.press(t, menu.CallbackNewChat) }},
		{"text again", func() { h.text(t, "دوباره") }},
		{"makenote again", func() { h.press(t, menu.CallbackMakeNote) }},
		{"back", func() { h.press(t, menu.CallbackBackToMenu) }},
		{"newchat twice", func() { h.text(t, "/newchat"); h.text(t, "/NEWCHAT") }},
	}

	for _, step := range steps {
		step.run()
		sessions, notes := h.activeCounts(t)
		assert.LessOrEqual(t, sessions, int64(1), step.name)
		assert.LessOrEqual(t, notes, int64(1), step.name)
	}

	u := h.user(t)
	assert.Equal(t, constant.UserModeNone, u.Mode)
	assert.Nil(t, u.ActiveNoteId)
}

func TestMakeNoteEntersNoteMode(t *testing.T) {
	h := newHarness(t, 400)

	h.text(t, "/makenote")

	u := h.user(t)
	st, ok := u.State().(entity.NoteMakingState)
	require.True(t, ok)
	assert.NotEqual(t, "", st.NoteId.String())
	last := h.channel.last(t)
	assert.Equal(t, response.NoteCreated, last.text)
	assert.Equal(t, menu.CallbackResumeNote, last.markup.InlineKeyboard[0][0].CallbackData)

	_, notes := h.activeCounts(t)
	assert.Equal(t, int64(1), notes)
}

func TestAnswerIsTruncated(t *testing.T) {
	h := newHarness(t, 400)
	long := strings.Repeat("ب", 2000)
	h.reasoner.push(answerJSON(long), nil)

	h.text(t, "یک پاسخ طولانی بده")

	assert.Equal(t, constant.MaxAnswerLength, len([]rune(h.channel.last(t).text)))
	assistants := h.messages(t, constant.ChatMessageRoleAssistant)
	require.Len(t, assistants, 1)
	assert.Equal(t, constant.MaxAnswerLength, len([]rune(assistants[0].Content)))
}

func TestStartIsIdempotent(t *testing.T) {
	h := newHarness(t, 400)
	h.reasoner.push(answerJSON("ok"), nil)
	h.text(t, "سلام")
	h.text(t, "/makenote")
	h.text(t, "/newchat")

	h.text(t, "/start")
	h.text(t, "/start")

	u := h.user(t)
	assert.IsType(t, entity.MenuState{}, u.State())
	sessions, notes := h.activeCounts(t)
	assert.Equal(t, int64(1), sessions)
	assert.Equal(t, int64(0), notes)
	assert.Equal(t, response.WelcomeText, h.channel.last(t).text)
}

func TestImageRequest(t *testing.T) {
	tests := []struct {
		name        string
		img         *imagegen.Image
		genErr      error
		wantPhoto   bool
		wantStored  string
		wantOutcome string
	}{
		{
			name:       "valid jpeg",
			img:        &imagegen.Image{Data: jpeg(1200), ContentType: "image/jpeg"},
			wantPhoto:  true,
			wantStored: response.ImageRecord("a cat"),
		},
		{
			name:       "too small",
			img:        &imagegen.Image{Data: jpeg(900), ContentType: "image/jpeg"},
			wantStored: response.ImageApology,
		},
		{
			name:       "text content type",
			img:        &imagegen.Image{Data: jpeg(1200), ContentType: "text/plain"},
			wantStored: response.ImageApology,
		},
		{
			name:       "generator down",
			genErr:     errors.New("worker 500"),
			wantStored: response.ImageApology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 400)
			h.images.img = tt.img
			h.images.err = tt.genErr
			h.reasoner.push(`{"needs_image": true, "prompt": "a cat"}`, nil)

			h.text(t, "تصویر یک گربه بکش")

			require.Equal(t, []string{"a cat"}, h.images.prompts)
			last := h.channel.last(t)
			if tt.wantPhoto {
				assert.Equal(t, dto.DeliveryPhoto, last.kind)
				assert.Len(t, last.data, 1200)
				assert.Equal(t, response.ImageCaption(false, "", "a cat"), last.text)
			} else {
				assert.Equal(t, dto.DeliveryText, last.kind)
				assert.Equal(t, response.ImageApology, last.text)
				assert.Equal(t, 1, h.channel.count())
			}

			assistants := h.messages(t, constant.ChatMessageRoleAssistant)
			require.Len(t, assistants, 1)
			assert.Equal(t, tt.wantStored, assistants[0].Content)
			assert.Equal(t, 1, h.user(t).UsageCount)
		})
	}
}

func TestBlockedRecipientIsAudited(t *testing.T) {
	h := newHarness(t, 400)
	h.channel.failAll = &telegram.APIError{Method: "sendMessage", Code: 403, Description: "Forbidden: bot was blocked by the user"}
	h.reasoner.push(answerJSON("hi"), nil)

	h.text(t, "سلام")

	system := h.messages(t, constant.ChatMessageRoleSystem)
	require.Len(t, system, 1)
	assert.Equal(t, constant.BlockedRecipientAuditText, system[0].Content)
	assert.Contains(t, h.publisher.types(), events.TypeRecipientBlocked)
	sessions, _ := h.activeCounts(t)
	assert.Equal(t, int64(1), sessions)
}

func TestBlockedPhotoIsTerminal(t *testing.T) {
	h := newHarness(t, 400)
	h.images.img = &imagegen.Image{Data: jpeg(1200), ContentType: "image/jpeg"}
	h.channel.failAll = &telegram.APIError{Method: "sendPhoto", Code: 403, Description: "Forbidden: bot was blocked by the user"}
	h.reasoner.push(`{"needs_image": true, "prompt": "a cat"}`, nil)

	h.text(t, "تصویر یک گربه بکش")

	assert.Len(t, h.messages(t, constant.ChatMessageRoleSystem), 1)
	assert.Empty(t, h.messages(t, constant.ChatMessageRoleAssistant))
	assert.NotContains(t, h.publisher.types(), events.TypeTurnCompleted)
	assert.Equal(t, 1, h.user(t).UsageCount)
}

func TestBlockedExportIsTerminal(t *testing.T) {
	h := newHarness(t, 400)
	h.text(t, "/makenote")
	h.transcriber.texts = []string{"سلام"}
	h.voice(t)

	h.channel.failAll = &telegram.APIError{Method: "sendDocument", Code: 403, Description: "Forbidden: bot was blocked by the user"}
	h.press(t, menu.CallbackExportToWord)

	assert.Len(t, h.messages(t, constant.ChatMessageRoleSystem), 1)
	assert.NotContains(t, h.publisher.types(), events.TypeNoteExported)
}

func TestBusyChatDropsTurn(t *testing.T) {
	locker := &busyLocker{err: lock.ErrNotAcquired}
	h := newLockedHarness(t, 400, locker)
	h.reasoner.push(answerJSON("hi"), nil)

	h.text(t, "سلام")

	assert.Equal(t, 0, h.channel.count())
	assert.Nil(t, h.user(t))
	assert.Empty(t, h.reasoner.prompts)
}

func TestCancelledLockWaitDropsTurn(t *testing.T) {
	locker := &busyLocker{err: fmt.Errorf("%w: voicebot:turn:42: %w", lock.ErrNotAcquired, context.Canceled)}
	h := newLockedHarness(t, 400, locker)
	h.reasoner.push(answerJSON("hi"), nil)

	h.text(t, "سلام")

	assert.Equal(t, 0, h.channel.count())
	assert.Nil(t, h.user(t))
}

func TestLockOutageDoesNotBlockTurns(t *testing.T) {
	locker := &busyLocker{err: errors.New("dial tcp: connection refused")}
	h := newLockedHarness(t, 400, locker)
	h.reasoner.push(answerJSON("hi"), nil)

	h.text(t, "سلام")

	assert.Equal(t, 1, h.channel.count())
	assert.Equal(t, 1, h.user(t).UsageCount)
}

func TestOtherDeliveryFailuresStayInsideTheTurn(t *testing.T) {
	h := newHarness(t, 400)
	h.channel.failAll = &telegram.APIError{Method: "sendMessage", Code: 400, Description: "Bad Request: can't parse entities"}
	h.reasoner.push(answerJSON("hi"), nil)

	h.text(t, "سلام")

	assert.Empty(t, h.messages(t, constant.ChatMessageRoleSystem))
	assert.Len(t, h.messages(t, constant.ChatMessageRoleAssistant), 1)
}

func TestDictationRoundTrip(t *testing.T) {
	h := newHarness(t, 400)
	h.text(t, "/makenote")

	h.transcriber.texts = []string{"سلام", "دنیا"}
	h.voice(t)
	h.voice(t)

	last := h.channel.last(t)
	assert.Equal(t, response.NoteEcho("سلام دنیا"), last.text)
	assert.Equal(t, menu.CallbackResumeNote, last.markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, 2, h.user(t).UsageCount)
	assert.Empty(t, h.reasoner.prompts)

	h.press(t, menu.CallbackCopyNote)
	assert.Equal(t, response.NoteCopy("سلام دنیا"), h.channel.last(t).text)

	h.press(t, menu.CallbackExportToWord)
	h.channel.mu.Lock()
	doc := h.channel.sent[len(h.channel.sent)-2]
	h.channel.mu.Unlock()
	assert.Equal(t, dto.DeliveryDocument, doc.kind)
	assert.NotEmpty(t, doc.data)
	_, err := os.Stat(doc.text)
	assert.True(t, os.IsNotExist(err), "export file must be removed")
	assert.Equal(t, response.WordSent, h.channel.last(t).text)
	assert.Contains(t, h.publisher.types(), events.TypeNoteExported)

	users := h.messages(t, constant.ChatMessageRoleUser)
	require.Len(t, users, 2)
	assert.Equal(t, "دنیا", users[1].Content)
}

func TestExportEmptyNote(t *testing.T) {
	h := newHarness(t, 400)
	h.text(t, "/makenote")

	h.press(t, menu.CallbackExportToWord)

	assert.Equal(t, response.EmptyNote, h.channel.last(t).text)
}

func TestVoiceOutsideNoteModeIsClassified(t *testing.T) {
	h := newHarness(t, 400)
	h.transcriber.texts = []string{"هوا چطور است"}
	h.reasoner.push(answerJSON("آفتابی"), nil)

	h.voice(t)

	assert.Equal(t, response.VoiceFrame("هوا چطور است", "آفتابی"), h.channel.last(t).text)
	assert.Equal(t, 1, h.user(t).UsageCount)
	users := h.messages(t, constant.ChatMessageRoleUser)
	require.Len(t, users, 1)
	assert.Equal(t, "هوا چطور است", users[0].Content)
}

func TestVoiceFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		want  string
	}{
		{name: "download fails", setup: func(h *harness) { h.files.err = errors.New("404") }, want: response.VoiceError},
		{name: "not audio", setup: func(h *harness) { h.files.data = []byte("garbage bytes") }, want: response.VoiceError},
		{name: "transcriber fails", setup: func(h *harness) { h.transcriber.err = errors.New("quota") }, want: response.VoiceError},
		{name: "empty transcript", setup: func(h *harness) { h.transcriber.texts = []string{"   "} }, want: response.EmptyVoice},
		{name: "oversized download", setup: func(h *harness) { h.files.err = fmt.Errorf("%w (>4194304 bytes)", telegram.ErrFileTooLarge) }, want: response.VoiceTooLong},
		{name: "oversized audio", setup: func(h *harness) { h.transcriber.err = fmt.Errorf("%w: 5000000 bytes", speech.ErrAudioTooLarge) }, want: response.VoiceTooLong},
		{name: "empty audio", setup: func(h *harness) { h.transcriber.err = speech.ErrEmptyAudio }, want: response.EmptyVoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 400)
			tt.setup(h)

			h.voice(t)

			assert.Equal(t, tt.want, h.channel.last(t).text)
			assert.Equal(t, 0, h.user(t).UsageCount)
			assert.Empty(t, h.reasoner.prompts)
		})
	}
}

func TestQuotaExceeded(t *testing.T) {
	h := newHarness(t, 1)
	h.reasoner.push(answerJSON("one"), nil)
	h.text(t, "اول")

	h.text(t, "دوم")
	h.text(t, "/help")

	assert.Equal(t, response.QuotaExceeded, h.channel.last(t).text)
	assert.Len(t, h.reasoner.prompts, 1)
	assert.Equal(t, 1, h.user(t).UsageCount)
	assert.Contains(t, h.publisher.types(), events.TypeQuotaExceeded)
}

func TestPeriodRolloverResetsUsageAndNote(t *testing.T) {
	h := newHarness(t, 400)
	ctx := context.Background()
	uow := h.store.NewUnitOfWork(ctx)
	u := &entity.User{TelegramId: strconv.FormatInt(testChat, 10), UsagePeriod: "2026-09", UsageCount: 400}
	require.NoError(t, uow.UserRepository().Create(ctx, u))
	n := &entity.Note{UserId: u.Id, IsActive: true}
	require.NoError(t, uow.NoteRepository().Create(ctx, n))
	u.EnterNoteMaking(n.Id)
	require.NoError(t, uow.UserRepository().Update(ctx, u))

	h.reasoner.push(answerJSON("سلام"), nil)
	h.text(t, "سلام")

	got := h.user(t)
	assert.Equal(t, "2026-10", got.UsagePeriod)
	assert.Equal(t, 1, got.UsageCount)
	assert.IsType(t, entity.MenuState{}, got.State())
	_, notes := h.activeCounts(t)
	assert.Equal(t, int64(0), notes)
}

func TestNoteActionsNeedNoteMode(t *testing.T) {
	for _, data := range []string{menu.CallbackResumeNote, menu.CallbackCopyNote, menu.CallbackExportToWord} {
		t.Run(data, func(t *testing.T) {
			h := newHarness(t, 400)
			h.press(t, data)
			assert.Equal(t, response.NoActiveNote, h.channel.last(t).text)
		})
	}
}

func TestConversationWindowHasCurrentTurnOnce(t *testing.T) {
	h := newHarness(t, 400)
	h.reasoner.push(answerJSON("جواب اول"), nil)
	h.reasoner.push(answerJSON("جواب دوم"), nil)

	h.text(t, "پیام اول")
	h.text(t, "پیام دوم")

	require.Len(t, h.reasoner.prompts, 2)
	second := h.reasoner.prompts[1]
	assert.Equal(t, 1, strings.Count(second, "کاربر: پیام دوم"))
	assert.Contains(t, second, "کاربر: پیام اول\nدستیار: جواب اول\nکاربر: پیام دوم")
}

func TestUnsupportedContent(t *testing.T) {
	t.Run("unknown chat", func(t *testing.T) {
		h := newHarness(t, 400)
		h.send(t, dto.EventUnsupported, "عکس")

		assert.Equal(t, response.UnsupportedContent, h.channel.last(t).text)
		assert.Nil(t, h.user(t))
	})

	t.Run("label stored in active session", func(t *testing.T) {
		h := newHarness(t, 400)
		h.reasoner.push(answerJSON("ok"), nil)
		h.text(t, "سلام")

		h.send(t, dto.EventUnsupported, "استیکر")

		users := h.messages(t, constant.ChatMessageRoleUser)
		require.Len(t, users, 2)
		assert.Equal(t, "استیکر", users[1].Content)
		assert.Equal(t, 1, h.user(t).UsageCount)
	})
}

func TestMalformedEventIsDropped(t *testing.T) {
	h := newHarness(t, 400)

	err := h.svc.HandleEvent(context.Background(), &dto.InboundEvent{Kind: dto.EventText, Text: "hi"})

	assert.ErrorIs(t, err, dto.ErrMalformedEvent)
	assert.Equal(t, 0, h.channel.count())
	assert.Nil(t, h.user(t))
}
