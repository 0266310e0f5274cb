// Command chatcli runs the scheduling assistant as a local REPL. Conversation
// state lives in process memory, so only GEMINI_API_KEY is needed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fedeargo/agend-citas/internal/agent"
	"github.com/fedeargo/agend-citas/internal/checkpoint"
	appconfig "github.com/fedeargo/agend-citas/internal/config"
	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/internal/scheduling"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

// memoryCheckpointer keeps checkpoints in process memory for the REPL.
type memoryCheckpointer struct {
	tuples map[string]*checkpoint.Tuple
}

func (m *memoryCheckpointer) Get(_ context.Context, threadID string) (*checkpoint.Tuple, error) {
	return m.tuples[threadID], nil
}

func (m *memoryCheckpointer) Put(_ context.Context, threadID string, cp *checkpoint.Checkpoint, md *checkpoint.Metadata) (checkpoint.Ref, error) {
	m.tuples[threadID] = &checkpoint.Tuple{
		ThreadID:   threadID,
		WrittenAt:  time.Now().UTC().Format(time.RFC3339Nano),
		Checkpoint: cp,
		Metadata:   md,
	}
	return checkpoint.Ref{ThreadID: threadID, CheckpointID: cp.ID}, nil
}

func (m *memoryCheckpointer) PutWrites(_ context.Context, _, _, _ string, _ []checkpoint.ChannelWrite, _ string) error {
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	llm, err := agent.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		log.Fatalf("gemini: %v", err)
	}
	defer llm.Close()

	dir := directory.NewSeededStore()
	led := ledger.NewInMemoryLedger(dir)
	engine := scheduling.NewEngine(dir, led, time.Now)
	booker := scheduling.NewBooker(engine, led, scheduling.NewLocalLocker(), logger, time.Now)

	registry, err := agent.NewSchedulingRegistry(agent.ToolDeps{
		Directory:   dir,
		Ledger:      led,
		Engine:      engine,
		Booker:      booker,
		HorizonDays: cfg.HorizonDays,
		Now:         time.Now,
	})
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	assistant, err := agent.New(llm, registry, &memoryCheckpointer{tuples: make(map[string]*checkpoint.Tuple)}, logger, nil)
	if err != nil {
		log.Fatalf("agent: %v", err)
	}

	userID := os.Getenv("CHAT_USER_ID")
	if userID == "" {
		userID = "local-user"
	}

	fmt.Println("agend-citas assistant. Type your message, or \"exit\" to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		turnCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		reply, err := assistant.Respond(turnCtx, userID, line)
		cancel()
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}
