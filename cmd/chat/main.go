package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"parent-assistant-be/internal/bootstrap"
	"parent-assistant-be/internal/config"
	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/service"
	"parent-assistant-be/pkg/ai/router"
	"parent-assistant-be/pkg/database"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/response"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	// the CLI never needs the cross-instance bus
	cfg.App.EventsEnabled = false

	var gormDB *gorm.DB
	if cfg.Assistant.VectorBackend == "pgvector" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
		defer database.Close(gormDB)
	}

	ctx := context.Background()
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	assistant := container.AssistantService
	created, err := assistant.CreateSession(ctx)
	if err != nil {
		log.Fatalf("Create session failed: %v", err)
	}
	sessionID := created.SessionId

	color.Cyan("🎓 Veli Asistanı (çıkmak için /quit)\n")
	printLevels()

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		color.Yellow("\nKademe seçin (örn. lise ortaokul): ")
		if !in.Scan() {
			return
		}
		res, err := assistant.SetLevels(ctx, sessionID, &dto.SetLevelsRequest{Levels: strings.Fields(strings.ReplaceAll(in.Text(), ",", " "))})
		if err != nil {
			color.Red("%v", err)
			continue
		}
		color.Green("%s", res.Announcement)
		break
	}

	for {
		fmt.Print(color.New(color.FgHiBlue, color.Bold).Sprint("\nSiz: "))
		if !in.Scan() {
			return
		}

		input := router.Parse(in.Text())
		if !input.IsCommand() {
			if input.Text == "" {
				continue
			}
			res, err := assistant.Chat(ctx, sessionID, &dto.ChatRequest{Message: input.Text})
			if err != nil {
				color.Red("%v", err)
				continue
			}
			color.White("\nAsistan: %s", res.Answer)
			color.New(color.Faint).Printf("[%s → %s, %s]\n", res.Label, res.Destination, res.Status)
			continue
		}

		if input.Command == router.CommandQuit {
			color.Cyan("Görüşmek üzere!")
			return
		}
		if err := runCommand(ctx, assistant, sessionID, input); err != nil {
			color.Red("%v", err)
		}
	}
}

func runCommand(ctx context.Context, assistant service.IAssistantService, sessionID string, input *router.ParsedInput) error {
	switch input.Command {
	case router.CommandLevels:
		if len(input.Args) == 0 {
			printLevels()
			return nil
		}
		res, err := assistant.SetLevels(ctx, sessionID, &dto.SetLevelsRequest{Levels: input.Args})
		if err != nil {
			return err
		}
		color.Green("%s", res.Announcement)

	case router.CommandClear:
		keep := len(input.Args) > 0 && input.Args[0] == "keep"
		res, err := assistant.ClearHistory(ctx, sessionID, &dto.ClearHistoryRequest{PreserveLevels: keep})
		if err != nil {
			return err
		}
		color.Green(response.HistoryClearedMessage)
		if len(res.ActiveLevels) == 0 {
			color.Yellow(response.OnboardingMessage + " (/levels ...)")
		}

	case router.CommandCompress:
		if len(input.Args) != 1 || (input.Args[0] != "on" && input.Args[0] != "off") {
			return fmt.Errorf("kullanım: /compress on|off")
		}
		res, err := assistant.SetCompression(ctx, sessionID, input.Args[0] == "on")
		if err != nil {
			return err
		}
		color.Green("Sıkıştırma: %v", res.CompressEnabled)

	case router.CommandState:
		res, err := assistant.GetState(ctx, sessionID)
		if err != nil {
			return err
		}
		color.Cyan("Oturum: %s\nThread: %s\nAşama: %s\nKademeler: %s\nMesaj sayısı: %d\nSıkıştırma: %v",
			res.SessionId, res.ThreadId, res.Phase, strings.Join(res.ActiveLevels, ", "), len(res.Turns), res.CompressEnabled)
		if len(res.LastSources) > 0 {
			color.Cyan("Son kaynaklar (%s): %s", res.LastSource, strings.Join(res.LastSources, " | "))
		}
	}
	return nil
}

func printLevels() {
	for _, lv := range level.All {
		color.White("  %-10s %s", string(lv), lv.DisplayName())
	}
}
