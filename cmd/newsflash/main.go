package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"NewsFlash/internal/app"
	"NewsFlash/internal/config"
	"NewsFlash/internal/domain"
	"NewsFlash/internal/logging"
	"NewsFlash/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "newsflash",
	Short: "Conversational news assistant with AI summaries",
	Long: `NewsFlash collects news topics through a short conversation,
retrieves matching articles, and prints localized summaries with
sentiment labels.`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var searchLang string

var searchCmd = &cobra.Command{
	Use:   "search [topic]...",
	Short: "Run a one-shot search for the given topics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), args, searchLang)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchLang, "lang", "en", "summary language code")
	rootCmd.AddCommand(chatCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func runChat(ctx context.Context) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	service := application.Service()
	sessionID := usecase.NewSessionID()

	fmt.Println("NewsFlash. Type a language to begin, 'reset' to start over, 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "reset":
			if err := service.Reset(ctx, sessionID); err != nil {
				fmt.Println("reset failed:", err)
				continue
			}
			sessionID = usecase.NewSessionID()
			fmt.Println("Session cleared.")
			continue
		case "":
			continue
		}

		if more, ok := strings.CutPrefix(line, "more "); ok {
			articles, err := service.LoadMore(ctx, sessionID, strings.TrimSpace(more))
			if err != nil {
				fmt.Println("load more failed:", err)
				continue
			}
			printArticles(articles)
			continue
		}

		reply, err := service.HandleMessage(ctx, sessionID, line)
		if errors.Is(err, usecase.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		fmt.Println(reply.Text)
		if reply.Results != nil {
			printResults(reply.Results)
		}
	}
}

func runSearch(ctx context.Context, topics []string, lang string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	results := application.Pipeline().Search(ctx, usecase.NewSessionID(), topics, lang)
	printResults(results)
	return nil
}

func printResults(results map[string]domain.TopicResult) {
	topics := make([]string, 0, len(results))
	for topic := range results {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		result := results[topic]
		fmt.Printf("\n## %s\n", topic)
		if result.Err != nil {
			fmt.Println("  search failed:", result.Err)
			continue
		}
		if len(result.Articles) == 0 {
			fmt.Println("  no articles found")
			continue
		}
		printArticles(result.Articles)
	}
}

func printArticles(articles []domain.ArticleSummary) {
	for i, article := range articles {
		fmt.Printf("%d. %s [%s]\n", i+1, article.Title, article.Sentiment)
		if article.Source != "" {
			fmt.Printf("   %s\n", article.Source)
		}
		fmt.Printf("   %s\n", article.Summary)
		fmt.Printf("   %s\n", article.URL)
	}
}
