// Command simulation drives the dialogue from a terminal against the
// in-memory store. Plain lines are text messages, "/..." lines are commands,
// ":cb <data>" presses a menu button and ":voice <file>" sends a local
// OGG/WAV file as a voice note.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ai-voicebot-be/internal/config"
	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/memory"
	"ai-voicebot-be/internal/service"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/dialog/intent"
	"ai-voicebot-be/pkg/dialog/menu"
	"ai-voicebot-be/pkg/dialog/note"
	"ai-voicebot-be/pkg/dialog/session"
	"ai-voicebot-be/pkg/imagegen"
	"ai-voicebot-be/pkg/llm"
	"ai-voicebot-be/pkg/llm/factory"
	"ai-voicebot-be/pkg/llm/gemini"
	"ai-voicebot-be/pkg/speech"
	"ai-voicebot-be/pkg/telegram"

	"github.com/fatih/color"
	cli "github.com/spf13/pflag"
)

func main() {
	chatID := cli.Int64P("chat", "c", 1001, "Chat id to simulate")
	offline := cli.BoolP("offline", "o", false, "Use canned completions instead of real providers")
	limit := cli.IntP("limit", "l", 0, "Monthly usage limit (default from USAGE_LIMIT)")
	cli.Parse()

	cfg := config.Load()
	if *limit > 0 {
		cfg.Quota.MonthlyLimit = *limit
	}
	if cfg.Ai.GoogleAPIKey == "" && !*offline {
		color.Yellow("GOOGLE_API_KEY is not set, running offline")
		*offline = true
	}

	log := logger.NewNopLogger()
	store := memory.NewStore()

	var (
		reasoner    llm.LLMProvider
		chain       llm.LLMProvider
		transcriber speech.Transcriber
	)
	if *offline {
		reasoner = cannedProvider{json: true}
		chain = cannedProvider{}
		transcriber = cannedTranscriber{}
	} else {
		primary := gemini.NewGeminiProvider(cfg.Ai.GeminiBaseURL, cfg.Ai.GoogleAPIKey, cfg.Ai.GeminiModel)
		tiers := []llm.Tier{{Name: "gemini", Provider: primary}}
		if secondary, err := factory.NewSecondaryProvider(factory.SecondaryConfig{
			Provider:  cfg.Ai.SecondaryProvider,
			BaseURL:   cfg.Ai.OpenRouterBaseURL,
			APIKey:    cfg.Ai.OpenRouterAPIKey,
			Model:     cfg.Ai.OpenRouterModel,
			MaxTokens: constant.SecondaryMaxTokens,
		}); err == nil {
			tiers = append(tiers, llm.Tier{Name: cfg.Ai.SecondaryProvider, Provider: secondary})
		}
		reasoner = primary
		chain = llm.NewFallbackChain(log, tiers...)
		transcriber = speech.NewGeminiTranscriber(primary)
	}

	answerer := intent.NewAnswerer(chain, log)
	sessions := session.NewManager(answerer)
	channel := consoleChannel{}
	tempDir := os.TempDir()

	dialogue := service.NewDialogueService(service.DialogueDeps{
		UowFactory:  store,
		Verifier:    access.NewVerifier(cfg.Quota.MonthlyLimit),
		Sessions:    sessions,
		Composer:    note.NewComposer(tempDir),
		Classifier:  intent.NewClassifier(reasoner, answerer, log),
		Menus:       menu.NewBuilder(cfg.Telegram.LegalBotUsername),
		Delivery:    service.NewDeliveryService(channel, store, sessions, nil, log),
		Files:       localFiles{},
		Transcriber: transcriber,
		Images:      imagegen.NewWorkerClient(cfg.Image.GeneratorURL, cfg.Image.GeneratorAPIKey),
		Logger:      log,
		YoutubeURL:  cfg.Telegram.YoutubeChannelURL,
		TempDir:     tempDir,
	})

	color.Cyan("=== Voice bot simulation (chat %d) ===", *chatID)
	color.Cyan("type /start to begin, Ctrl-D to quit")

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	update := 0
	for {
		fmt.Print(color.GreenString("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		update++

		ev := &dto.InboundEvent{UpdateId: strconv.Itoa(update), ChatId: *chatID, Kind: dto.EventText, Text: line}
		switch {
		case strings.HasPrefix(line, ":cb "):
			ev.Kind = dto.EventCallback
			ev.Text = strings.TrimSpace(strings.TrimPrefix(line, ":cb "))
		case strings.HasPrefix(line, ":voice "):
			ev.Kind = dto.EventVoice
			ev.Text = ""
			ev.VoiceFileId = strings.TrimSpace(strings.TrimPrefix(line, ":voice "))
		case strings.HasPrefix(line, ":photo"):
			ev.Kind = dto.EventUnsupported
			ev.Text = ""
			ev.ContentLabel = "عکس"
		}

		if err := dialogue.HandleEvent(ctx, ev); err != nil {
			color.Red("rejected: %v", err)
		}
	}
}

type consoleChannel struct{}

func (consoleChannel) SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error {
	color.White("bot> %s", text)
	printKeyboard(markup)
	return nil
}

func (consoleChannel) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup *telegram.InlineKeyboardMarkup) error {
	path := fmt.Sprintf("%s/sim_%d_%d.jpg", os.TempDir(), chatID, len(photo))
	if err := os.WriteFile(path, photo, 0o644); err != nil {
		return err
	}
	color.Magenta("bot> [photo %s] %s", path, caption)
	printKeyboard(markup)
	return nil
}

func (consoleChannel) SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string, markup *telegram.InlineKeyboardMarkup) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return err
	}
	color.Magenta("bot> [document ./%s] %s", filename, caption)
	return nil
}

func printKeyboard(markup *telegram.InlineKeyboardMarkup) {
	if markup == nil {
		return
	}
	for _, row := range markup.InlineKeyboard {
		labels := make([]string, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				labels = append(labels, fmt.Sprintf("[%s → %s]", b.Text, b.URL))
				continue
			}
			labels = append(labels, fmt.Sprintf("[%s :cb %s]", b.Text, b.CallbackData))
		}
		color.HiBlack("     %s", strings.Join(labels, " "))
	}
}

// localFiles treats the voice file id as a path on disk.
type localFiles struct{}

func (localFiles) Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(fileID)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", dto.ErrValidation, info.Size())
	}
	return os.ReadFile(fileID)
}

type cannedProvider struct {
	json bool
}

func (p cannedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (p cannedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := lines[len(lines)-1]
	reply := "(offline) " + last
	if !p.json {
		return reply, nil
	}
	if strings.Contains(last, "تصویر") || strings.Contains(strings.ToLower(last), "draw") {
		out, _ := json.Marshal(map[string]interface{}{"needs_image": true, "prompt": last})
		return string(out), nil
	}
	out, _ := json.Marshal(map[string]interface{}{"needs_image": false, "response": reply})
	return string(out), nil
}

type cannedTranscriber struct{}

func (cannedTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return fmt.Sprintf("(offline transcript of %d bytes)", len(audio)), nil
}
