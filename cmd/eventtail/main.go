// Command eventtail prints domain events from the VOICEBOT_EVENTS stream as
// they are published.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-voicebot-be/pkg/events"
	pktNats "ai-voicebot-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	eventType := cli.StringP("type", "t", ">", "Event type to follow, e.g. recipient.blocked")
	durable := cli.StringP("durable", "d", "", "Durable consumer name (ephemeral when empty)")
	cli.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	url := os.Getenv("NATS_URL")
	if url == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, *eventType, *durable, func(ctx context.Context, event events.Event) error {
		data, _ := json.Marshal(event.Payload())
		printer := color.New(color.FgWhite)
		switch event.EventType() {
		case events.TypeRecipientBlocked, events.TypeQuotaExceeded:
			printer = color.New(color.FgYellow)
		case events.TypeNoteExported:
			printer = color.New(color.FgCyan)
		}
		printer.Printf("%s %-22s %s\n", event.Timestamp().Format("15:04:05"), event.EventType(), data)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	color.Green("Following %s events, Ctrl-C to stop", *eventType)
	<-ctx.Done()
}
