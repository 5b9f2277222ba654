package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/cmd/paz/internal/config"
	"github.com/pazhealth/paz/pkg/companion"
	"github.com/pazhealth/paz/pkg/kv"
)

var (
	chatProvider     string
	chatConversation string
	chatNew          bool
	chatClear        bool
	chatHistory      int
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Talk with the companion",
	Long: `Talk with the companion, a supportive assistant backed by Gemini or OpenAI.

With a message, sends it and prints the reply. Without one, starts an
interactive session on stdin; type "exit" or press ctrl+d to leave.

The conversation is kept in the local database, so later sessions continue
where you left off.

Configuration:
  paz config set home gemini api_key AIza...     (or GEMINI_API_KEY)
  paz config set home openai api_key sk-...      (or OPENAI_API_KEY)

Examples:
  paz chat "I can't sleep before exams"
  paz chat --provider openai
  paz chat --new`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		id := chatConversation
		if chatNew {
			id = companion.NewConversationID()
			fmt.Fprintf(os.Stderr, "Conversation: %s\n", id)
		}
		conv, err := companion.OpenConversation(ctx, e.kv, kv.Key{keyPrefix, e.user()}, id)
		if err != nil {
			return err
		}
		if chatClear {
			if err := conv.Clear(ctx); err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Println("Conversation cleared.")
				return nil
			}
		}

		model, err := openModel(ctx, e)
		if err != nil {
			return err
		}
		lang := e.language(ctx)
		c := companion.New(model, companion.WithLanguage(lang), companion.WithHistoryLimit(chatHistory))

		if len(args) > 0 {
			reply, err := c.Chat(ctx, conv, strings.Join(args, " "))
			fmt.Println(reply)
			return err
		}
		return chatLoop(ctx, c, conv)
	},
}

// chatLoop reads one message per line until EOF or "exit".
func chatLoop(ctx context.Context, c *companion.Companion, conv *companion.Conversation) error {
	fmt.Println(companion.Greeting(c.Language()))
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			fmt.Println()
			return sc.Err()
		}
		text := strings.TrimSpace(sc.Text())
		switch text {
		case "":
			continue
		case "exit", "quit", "salir":
			return nil
		}
		reply, err := c.Chat(ctx, conv, text)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("paz: chat", "err", err)
		}
		fmt.Println(reply)
	}
}

// openModel builds the chat model for --provider. Without the flag the first
// provider with an API key wins, Gemini before OpenAI.
func openModel(ctx context.Context, e *env) (companion.Model, error) {
	gemini, err := config.LoadOptional[config.ModelConfig](e.ctxDir, config.ServiceGemini)
	if err != nil {
		return nil, err
	}
	openai, err := config.LoadOptional[config.ModelConfig](e.ctxDir, config.ServiceOpenAI)
	if err != nil {
		return nil, err
	}
	if gemini.APIKey == "" {
		gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if openai.APIKey == "" {
		openai.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	provider := chatProvider
	if provider == "" {
		switch {
		case gemini.APIKey != "":
			provider = config.ServiceGemini
		case openai.APIKey != "":
			provider = config.ServiceOpenAI
		default:
			return nil, errors.New("no chat model configured; set an api_key with 'paz config set <context> gemini api_key <key>'")
		}
	}

	switch provider {
	case config.ServiceGemini:
		return companion.NewGeminiModel(ctx, companion.GeminiConfig{
			APIKey:  gemini.APIKey,
			Model:   gemini.Model,
			BaseURL: gemini.BaseURL,
		})
	case config.ServiceOpenAI:
		return companion.NewOpenAIModel(companion.OpenAIConfig{
			APIKey:  openai.APIKey,
			Model:   openai.Model,
			BaseURL: openai.BaseURL,
		})
	}
	return nil, fmt.Errorf("unknown provider %q (gemini, openai)", provider)
}

func init() {
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", "", "model provider: gemini, openai (default: the configured one)")
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "default", "conversation id")
	chatCmd.Flags().BoolVar(&chatNew, "new", false, "start a new conversation")
	chatCmd.Flags().BoolVar(&chatClear, "clear", false, "forget the conversation history first")
	chatCmd.Flags().IntVar(&chatHistory, "history", companion.DefaultHistoryLimit, "messages of history sent to the model")

	rootCmd.AddCommand(chatCmd)
}
