package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/audioconv"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/dialog/command"
	"ai-voicebot-be/pkg/dialog/history"
	"ai-voicebot-be/pkg/dialog/intent"
	"ai-voicebot-be/pkg/dialog/menu"
	"ai-voicebot-be/pkg/dialog/note"
	"ai-voicebot-be/pkg/dialog/response"
	"ai-voicebot-be/pkg/dialog/session"
	"ai-voicebot-be/pkg/events"
	"ai-voicebot-be/pkg/imagegen"
	"ai-voicebot-be/pkg/lock"
	"ai-voicebot-be/pkg/speech"
	"ai-voicebot-be/pkg/telegram"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// IDialogueService handles one inbound event end to end. Every failure is
// settled inside the turn; the returned error only reports malformed events.
type IDialogueService interface {
	HandleEvent(ctx context.Context, ev *dto.InboundEvent) error
}

// DialogueDeps wires the dialogue controller to its collaborators.
type DialogueDeps struct {
	UowFactory  unitofwork.RepositoryFactory
	Verifier    *access.Verifier
	Sessions    *session.Manager
	Composer    *note.Composer
	Classifier  *intent.Classifier
	Menus       *menu.Builder
	Delivery    IDeliveryService
	Files       FileSource
	Transcriber speech.Transcriber
	Images      imagegen.Generator
	Publisher   EventPublisher
	Locker      lock.Locker
	Logger      logger.ILogger
	YoutubeURL  string
	TempDir     string
}

type dialogueService struct {
	uowFactory  unitofwork.RepositoryFactory
	verifier    *access.Verifier
	sessions    *session.Manager
	composer    *note.Composer
	classifier  *intent.Classifier
	menus       *menu.Builder
	delivery    IDeliveryService
	files       FileSource
	transcriber speech.Transcriber
	images      imagegen.Generator
	publisher   EventPublisher
	locker      lock.Locker
	logger      logger.ILogger
	youtubeURL  string
	tempDir     string
}

var (
	eventValidator = validator.New()
	turnTracer     = otel.Tracer("ai-voicebot-be/dialogue")

	errNoteClosed = errors.New("note is no longer active")
)

func NewDialogueService(d DialogueDeps) IDialogueService {
	locker := d.Locker
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &dialogueService{
		uowFactory:  d.UowFactory,
		verifier:    d.Verifier,
		sessions:    d.Sessions,
		composer:    d.Composer,
		classifier:  d.Classifier,
		menus:       d.Menus,
		delivery:    d.Delivery,
		files:       d.Files,
		transcriber: d.Transcriber,
		images:      d.Images,
		publisher:   publisherOrNoop(d.Publisher),
		locker:      locker,
		logger:      d.Logger,
		youtubeURL:  d.YoutubeURL,
		tempDir:     d.TempDir,
	}
}

// turn is the working state of one event.
type turn struct {
	ev   *dto.InboundEvent
	user *entity.User
	// text is the message text, callback data or voice transcript.
	text string
}

func (s *dialogueService) HandleEvent(ctx context.Context, ev *dto.InboundEvent) error {
	if ev == nil {
		return dto.ErrMalformedEvent
	}
	if err := eventValidator.Struct(ev); err != nil {
		s.logger.Warn("DIALOGUE", "Dropping malformed event", map[string]interface{}{
			"update_id": ev.UpdateId,
			"error":     err,
		})
		return fmt.Errorf("%w: %v", dto.ErrMalformedEvent, err)
	}

	ctx, span := turnTracer.Start(ctx, "dialogue.turn", trace.WithAttributes(
		attribute.Int64("chat.id", ev.ChatId),
		attribute.String("update.id", ev.UpdateId),
		attribute.String("event.kind", string(ev.Kind)),
	))
	defer span.End()

	release, err := s.locker.Acquire(ctx, lock.Key(ev.ChatKey()))
	if errors.Is(err, lock.ErrNotAcquired) {
		// another turn for this chat is still running; this is a redelivery
		// or a concurrent event and is acknowledged without a reply
		s.logger.Warn("DIALOGUE", "Chat busy, dropping turn", s.details(ev, map[string]interface{}{
			"error": err,
		}))
		span.SetStatus(codes.Error, "chat busy")
		return nil
	}
	if err != nil {
		s.logger.Warn("DIALOGUE", "Turn lock unavailable, continuing without it", s.details(ev, map[string]interface{}{
			"error": err,
		}))
		release = func() {}
	}
	defer release()

	s.logger.Info("DIALOGUE", "Turn started", s.details(ev, nil))

	if err := s.process(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		s.logger.Error("DIALOGUE", "Turn failed", s.details(ev, map[string]interface{}{
			"error": err,
		}))
		s.notify(ctx, ev, response.GenericError, s.menus.Main())
	}
	return nil
}

func (s *dialogueService) process(ctx context.Context, ev *dto.InboundEvent) error {
	if ev.Kind == dto.EventUnsupported {
		return s.handleUnsupported(ctx, ev)
	}

	user, err := inUserTx(ctx, s.uowFactory, s.verifier, ev.ChatKey(), nil)
	if err != nil {
		s.logger.Error("DIALOGUE", "Failed to load user", s.details(ev, map[string]interface{}{
			"error": err,
		}))
		s.notify(ctx, ev, response.UserError, s.menus.Main())
		return nil
	}

	if err := s.verifier.Check(user); err != nil {
		var quota *dto.QuotaExceededError
		if errors.As(err, &quota) {
			s.logger.Info("DIALOGUE", "Quota exceeded", s.details(ev, map[string]interface{}{
				"used":   quota.Used,
				"limit":  quota.Limit,
				"period": quota.Period,
			}))
			s.publish(ctx, events.QuotaExceeded(ev.ChatKey(), ev.UpdateId, quota.Used, quota.Limit, quota.Period))
		}
		s.notify(ctx, ev, response.QuotaExceeded, s.menus.Main())
		return nil
	}

	t := &turn{ev: ev, user: user, text: ev.Text}

	if ev.IsVoice() {
		text, ok := s.transcribe(ctx, t)
		if !ok {
			return nil
		}
		t.text = text
		if st, ok := user.State().(entity.NoteMakingState); ok {
			return s.dictate(ctx, t, st.NoteId)
		}
		return s.converse(ctx, t)
	}

	if cmd := command.Resolve(t.text); cmd.Kind != command.None {
		s.logger.Debug("DIALOGUE", "Command resolved", s.details(ev, map[string]interface{}{
			"command": cmd.Kind.String(),
		}))
		return s.runCommand(ctx, t, cmd)
	}

	if strings.TrimSpace(t.text) == "" {
		s.notify(ctx, ev, response.UnsupportedContent, s.menus.Main())
		return nil
	}
	return s.converse(ctx, t)
}

// handleUnsupported keeps the content label in the active session, if there
// is one, and tells the user what is accepted.
func (s *dialogueService) handleUnsupported(ctx context.Context, ev *dto.InboundEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByTelegramID{TelegramID: ev.ChatKey()})
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user != nil {
		sess, err := s.sessions.ActiveSession(ctx, uow, user.Id)
		if err != nil {
			return err
		}
		if sess != nil {
			err = s.sessions.Append(ctx, uow, &entity.ChatMessage{
				ChatSessionId: sess.Id,
				UserId:        user.Id,
				Role:          constant.ChatMessageRoleUser,
				Content:       ev.ContentLabel,
				UpdateId:      ev.UpdateId,
				Metadata: map[string]interface{}{
					constant.MessageMetaKind:         string(dto.EventUnsupported),
					constant.MessageMetaContentLabel: ev.ContentLabel,
				},
			})
			if err != nil {
				return err
			}
		}
	}
	if user == nil {
		s.logger.Info("DIALOGUE", "Unsupported content from unknown chat", s.details(ev, nil))
	}
	s.notify(ctx, ev, response.UnsupportedContent, s.menus.Main())
	return nil
}

// transcribe downloads, converts and transcribes a voice message. It answers
// the user itself when it returns false.
func (s *dialogueService) transcribe(ctx context.Context, t *turn) (string, bool) {
	kb := s.menus.For(t.user.State())

	audio, err := s.files.Download(ctx, t.ev.VoiceFileId, constant.MaxVoiceDownloadBytes)
	if err == nil {
		audio, err = audioconv.ToWAV(ctx, audio, audioconv.Options{TempDir: s.tempDir})
	}
	var text string
	if err == nil {
		text, err = s.transcriber.Transcribe(ctx, audio, "audio/wav")
	}
	if err != nil {
		notice := voiceNotice(err)
		s.logger.Error("SPEECH", "Voice processing failed", s.details(t.ev, map[string]interface{}{
			"file_id":    t.ev.VoiceFileId,
			"validation": notice != response.VoiceError,
			"error":      err,
		}))
		s.notify(ctx, t.ev, notice, kb)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.notify(ctx, t.ev, response.EmptyVoice, kb)
		return "", false
	}
	s.logger.Debug("SPEECH", "Voice transcribed", s.details(t.ev, map[string]interface{}{
		"chars": len([]rune(text)),
	}))
	return text, true
}

func voiceNotice(err error) string {
	switch {
	case errors.Is(err, speech.ErrAudioTooLarge), errors.Is(err, telegram.ErrFileTooLarge):
		return response.VoiceTooLong
	case errors.Is(err, speech.ErrEmptyAudio):
		return response.EmptyVoice
	}
	return response.VoiceError
}

// dictate appends a transcribed voice message to the active note and echoes
// the whole note back.
func (s *dialogueService) dictate(ctx context.Context, t *turn, noteId uuid.UUID) error {
	var full string
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		st, ok := user.State().(entity.NoteMakingState)
		if !ok || st.NoteId != noteId {
			return errNoteClosed
		}
		if _, err := s.appendUserTurn(ctx, uow, t, user.Id); err != nil {
			return err
		}
		if err := s.composer.AppendChunk(ctx, uow, noteId, t.text); err != nil {
			return err
		}
		if err := s.verifier.Increment(ctx, uow, user.Id); err != nil {
			return err
		}
		var err error
		full, err = s.composer.FullText(ctx, uow, noteId)
		return err
	})
	if errors.Is(err, errNoteClosed) {
		s.notify(ctx, t.ev, response.NoActiveNote, s.menus.Main())
		return nil
	}
	if err != nil {
		s.logger.Error("DIALOGUE", "Failed to save note chunk", s.details(t.ev, map[string]interface{}{
			"note_id": noteId.String(),
			"error":   err,
		}))
		s.notify(ctx, t.ev, response.NoteSaveFail, s.menus.Note())
		return nil
	}

	s.notify(ctx, t.ev, response.NoteEcho(full), s.menus.Note())
	return nil
}

// converse classifies a free-form turn and answers with text or an image.
func (s *dialogueService) converse(ctx context.Context, t *turn) error {
	var sess *entity.ChatSession
	var window string
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		var err error
		sess, err = s.sessions.GetOrCreateActiveSession(ctx, uow, user.Id)
		if err != nil {
			return err
		}
		turns, err := s.sessions.RecentTurns(ctx, uow, sess.Id, constant.ConversationWindowSize)
		if err != nil {
			return err
		}
		window = history.WithTurn(history.Render(turns), t.text)
		return s.sessions.Append(ctx, uow, s.userMessage(t, sess.Id, user.Id))
	})
	if err != nil {
		return fmt.Errorf("record user turn: %w", err)
	}

	outcome, err := s.classifier.Classify(ctx, sess.Context, window)
	if err != nil {
		if !errors.Is(err, dto.ErrClassificationParse) {
			return err
		}
		// the user turn stays stored and the turn is not counted
		s.notify(ctx, t.ev, response.ParseError, s.menus.Main())
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.verifier.Increment(ctx, uow, t.user.Id); err != nil {
		return err
	}

	switch v := outcome.Verdict.(type) {
	case intent.Answer:
		result := "answer"
		if outcome.Fallback {
			result = "fallback"
		}
		return s.answer(ctx, uow, t, sess.Id, v.Text, result)
	case intent.ImageRequest:
		return s.draw(ctx, uow, t, sess.Id, v.Prompt)
	}
	return fmt.Errorf("unexpected verdict %T", outcome.Verdict)
}

func (s *dialogueService) answer(ctx context.Context, uow unitofwork.UnitOfWork, t *turn, sessionId uuid.UUID, text, result string) error {
	if err := s.sessions.Append(ctx, uow, s.assistantMessage(t, sessionId, text)); err != nil {
		return err
	}
	s.notify(ctx, t.ev, response.Reply(t.ev.IsVoice(), t.text, text), s.menus.Main())
	s.publish(ctx, events.TurnCompleted(t.ev.ChatKey(), t.ev.UpdateId, result, t.ev.IsVoice()))
	return nil
}

// draw generates and sends an image. Any generation, validation or delivery
// failure falls back to the image apology.
func (s *dialogueService) draw(ctx context.Context, uow unitofwork.UnitOfWork, t *turn, sessionId uuid.UUID, prompt string) error {
	img, err := s.images.Generate(ctx, prompt)
	if err == nil {
		err = s.delivery.SendPhoto(ctx, t.ev, img, response.ImageCaption(t.ev.IsVoice(), t.text, prompt), s.menus.Main())
	}
	if errors.Is(err, dto.ErrBlockedRecipient) {
		return nil
	}
	if err != nil {
		s.logger.Error("IMAGEGEN", "Image generation failed", s.details(t.ev, map[string]interface{}{
			"prompt":     prompt,
			"validation": errors.Is(err, dto.ErrValidation),
			"error":      err,
		}))
		return s.answer(ctx, uow, t, sessionId, response.ImageApology, "image_failed")
	}

	if err := s.sessions.Append(ctx, uow, s.assistantMessage(t, sessionId, response.ImageRecord(prompt))); err != nil {
		return err
	}
	s.publish(ctx, events.TurnCompleted(t.ev.ChatKey(), t.ev.UpdateId, "image", t.ev.IsVoice()))
	return nil
}

func (s *dialogueService) runCommand(ctx context.Context, t *turn, cmd command.Command) error {
	if cmd.RequiresNoteMode() {
		st, ok := t.user.State().(entity.NoteMakingState)
		if !ok {
			s.notify(ctx, t.ev, response.NoActiveNote, s.menus.Main())
			return nil
		}
		return s.runNoteAction(ctx, t, cmd, st.NoteId)
	}

	switch cmd.Kind {
	case command.Start:
		return s.backToMenu(ctx, t)
	case command.Help:
		s.notify(ctx, t.ev, response.HelpText, s.menus.Main())
	case command.Youtube:
		s.notify(ctx, t.ev, response.Youtube(s.youtubeURL), s.menus.Main())
	case command.NewChat:
		return s.newChat(ctx, t)
	case command.Summary:
		return s.summarize(ctx, t, cmd.SummaryLimit)
	case command.MakeNote:
		return s.startNote(ctx, t)
	default:
		return fmt.Errorf("unhandled command %s", cmd.Kind)
	}
	return nil
}

func (s *dialogueService) backToMenu(ctx context.Context, t *turn) error {
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		if err := s.composer.Finish(ctx, uow, user.Id); err != nil {
			return err
		}
		user.ReturnToMenu()
		return uow.UserRepository().Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("return to menu: %w", err)
	}
	s.notify(ctx, t.ev, response.WelcomeText, s.menus.Main())
	return nil
}

func (s *dialogueService) newChat(ctx context.Context, t *turn) error {
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		if err := s.composer.Finish(ctx, uow, user.Id); err != nil {
			return err
		}
		user.ReturnToMenu()
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return err
		}
		_, err := s.sessions.StartNew(ctx, uow, user.Id)
		return err
	})
	if err != nil {
		return fmt.Errorf("new chat: %w", err)
	}
	s.notify(ctx, t.ev, response.NewChat, s.menus.Main())
	return nil
}

func (s *dialogueService) summarize(ctx context.Context, t *turn, limit int) error {
	var digest *session.Digest
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		d, err := s.sessions.SummarizeAndPersist(ctx, uow, user, limit)
		if err != nil {
			return err
		}
		if d.Called {
			if err := s.verifier.Increment(ctx, uow, user.Id); err != nil {
				return err
			}
		}
		digest = d
		return nil
	})
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	s.notify(ctx, t.ev, response.Summary(limit, digest.Text), s.menus.Main())
	return nil
}

func (s *dialogueService) startNote(ctx context.Context, t *turn) error {
	_, err := inUserTx(ctx, s.uowFactory, s.verifier, t.ev.ChatKey(), func(uow unitofwork.UnitOfWork, user *entity.User) error {
		if err := s.sessions.DeactivateAllSessions(ctx, uow, user.Id); err != nil {
			return err
		}
		n, err := s.composer.Start(ctx, uow, user.Id)
		if err != nil {
			return err
		}
		user.EnterNoteMaking(n.Id)
		return uow.UserRepository().Update(ctx, user)
	})
	if err != nil {
		s.logger.Error("DIALOGUE", "Failed to start note", s.details(t.ev, map[string]interface{}{
			"error": err,
		}))
		s.notify(ctx, t.ev, response.NoteCreateFail, s.menus.Main())
		return nil
	}
	s.notify(ctx, t.ev, response.NoteCreated, s.menus.Note())
	return nil
}

func (s *dialogueService) runNoteAction(ctx context.Context, t *turn, cmd command.Command, noteId uuid.UUID) error {
	if cmd.Kind == command.ResumeNote {
		s.notify(ctx, t.ev, response.ResumeNote, s.menus.Note())
		return nil
	}

	full, err := s.composer.FullText(ctx, s.uowFactory.NewUnitOfWork(ctx), noteId)
	if err != nil {
		return err
	}
	if cmd.Kind == command.CopyNote {
		s.notify(ctx, t.ev, response.NoteCopy(full), s.menus.Note())
		return nil
	}

	if full == "" {
		s.notify(ctx, t.ev, response.EmptyNote, s.menus.Note())
		return nil
	}
	filename := fmt.Sprintf("note_%s.docx", t.ev.ChatKey())
	err = s.composer.Export(ctx, full, func(ctx context.Context, path string) error {
		return s.delivery.SendDocument(ctx, t.ev, path, filename, response.WordCaption, nil)
	})
	if err != nil {
		var de *dto.DeliveryError
		if errors.As(err, &de) || errors.Is(err, dto.ErrBlockedRecipient) {
			return nil
		}
		return err
	}
	s.publish(ctx, events.NoteExported(t.ev.ChatKey(), t.ev.UpdateId, noteId.String(), len([]rune(full))))
	s.notify(ctx, t.ev, response.WordSent, s.menus.Note())
	return nil
}

// appendUserTurn stores the user's message in the active session.
func (s *dialogueService) appendUserTurn(ctx context.Context, uow unitofwork.UnitOfWork, t *turn, userId uuid.UUID) (*entity.ChatSession, error) {
	sess, err := s.sessions.GetOrCreateActiveSession(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return sess, s.sessions.Append(ctx, uow, s.userMessage(t, sess.Id, userId))
}

func (s *dialogueService) userMessage(t *turn, sessionId, userId uuid.UUID) *entity.ChatMessage {
	meta := map[string]interface{}{constant.MessageMetaKind: string(t.ev.Kind)}
	if t.ev.IsVoice() {
		meta[constant.MessageMetaFileId] = t.ev.VoiceFileId
	}
	return &entity.ChatMessage{
		ChatSessionId: sessionId,
		UserId:        userId,
		Role:          constant.ChatMessageRoleUser,
		Content:       t.text,
		UpdateId:      t.ev.UpdateId,
		Metadata:      meta,
	}
}

func (s *dialogueService) assistantMessage(t *turn, sessionId uuid.UUID, text string) *entity.ChatMessage {
	return &entity.ChatMessage{
		ChatSessionId: sessionId,
		UserId:        t.user.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       text,
		UpdateId:      t.ev.UpdateId,
	}
}

// notify sends a text reply. Delivery errors are already logged by the
// delivery service and end here.
func (s *dialogueService) notify(ctx context.Context, ev *dto.InboundEvent, text string, kb menu.Keyboard) {
	if err := s.delivery.SendText(ctx, ev, text, kb); err != nil {
		s.logger.Debug("DIALOGUE", "Reply not delivered", s.details(ev, map[string]interface{}{
			"error": err,
		}))
	}
}

func (s *dialogueService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("DIALOGUE", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
	}
}

func (s *dialogueService) details(ev *dto.InboundEvent, extra map[string]interface{}) map[string]interface{} {
	d := map[string]interface{}{
		"chat_id":   ev.ChatId,
		"update_id": ev.UpdateId,
		"kind":      string(ev.Kind),
	}
	for k, v := range extra {
		d[k] = v
	}
	return d
}
