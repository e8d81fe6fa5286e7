package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/internal/usecase"
	"webtest-pilot/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	scanner  *bufio.Scanner
	stopping bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)

	return &Interface{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:  params.Usecase,
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  sigChan,
		scanner:  bufio.NewScanner(os.Stdin),
		stopping: false,
	}
}

func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-i.sigChan
		fmt.Println("\n\nInterrupt received, stopping...")
		i.stopping = true
		i.Stop()
	}()

	for {
		if i.stopping {
			break
		}

		fmt.Print("\nWhat kind of test case would you like to generate? Describe the scenario: ")

		if !i.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(i.scanner.Text())

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if err.Error() == "exit" {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Printf("Error: %v\n", err)
		}
	}

	return nil
}

func (i *Interface) Stop() error {
	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")

	i.cancel()

	fmt.Println("Goodbye!")
	os.Exit(0)

	return nil
}

func (i *Interface) handleCommand(input string) error {
	switch input {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Println("Shutting down...")

		return fmt.Errorf("exit")
	default:
		return i.runScenario(input)
	}
}

func (i *Interface) runScenario(intent string) error {
	url := i.config.AppConfig.TargetURL
	if url == "" {
		fmt.Print("Target URL: ")

		if !i.scanner.Scan() {
			return fmt.Errorf("exit")
		}

		url = strings.TrimSpace(i.scanner.Text())
	}

	fmt.Printf("\nStarting test run against %s\n", url)
	fmt.Println(strings.Repeat("─", 51))

	run, err := i.usecase.Pipeline.Run(i.ctx, url, intent)
	if err != nil {
		fmt.Printf("\nRun failed: %v\n", err)

		return nil
	}

	fmt.Println("\n" + strings.Repeat("─", 51))

	if run.Status == entity.RunStatusCompleted {
		fmt.Printf("Test run %s completed successfully\n\n", run.ID)
		fmt.Printf("Result: %s\n", run.Result)
	} else {
		fmt.Printf("Test run %s failed: %s\n", run.ID, run.Error)
	}

	for _, phase := range run.Log {
		status := "ok"
		if !phase.Success {
			status = "failed"
		}

		fmt.Printf("  %-10s %-6s %s\n", phase.Phase, status, phase.Detail)
	}

	return nil
}

func (i *Interface) printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║                 LLM UI Test Pilot                         ║
║                                                           ║
║   Detect page elements, generate a test case with an      ║
║   LLM, replay it in the browser                           ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  help, h       - Show this help message
  exit, quit, q - Exit the application

To run a test, describe the scenario in natural language:
  Examples:
    - Fill in the loan calculator with a 2.5M amount and 8% rate
    - Submit the signup form with realistic data
    - Pick "Monthly" from the billing dropdown and submit

The pilot detects the page's interactive elements, asks the model for a
step list and replays it against the live page.
`
	fmt.Println(help)
}
