// ABOUTME: CLI commands for conversational turns: chat and modify
// ABOUTME: Text comes from args or stdin; images are attached by path
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/core"
	"github.com/harper/tweak-my-meal/internal/llm"
)

var (
	chatSession string
	chatImages  []string
	chatMode    string
	chatMaxTime int
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [text]",
		Short: "Describe a meal or your ingredients and get ideas",
		Long: `Start or continue a conversation about a meal.

Send a dish name, a list of ingredients, or photos. When the assistant
asks follow-up questions, answer them with the same --session.

Examples:
  tweak chat "chicken alfredo"
  tweak chat --mode ingredients "rice, eggs, spinach"
  tweak chat --image fridge.jpg
  tweak chat --session 7d1c... "it's a vegetarian lasagna"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatSession, "session", "", "Session id to continue (a new one is generated when empty)")
	cmd.Flags().StringArrayVar(&chatImages, "image", nil, "Attach an image file (can be repeated)")
	cmd.Flags().StringVar(&chatMode, "mode", "auto", "What you are sending: auto, meal, or ingredients")
	cmd.Flags().IntVar(&chatMaxTime, "max-time", 0, "Maximum cooking time in minutes")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	req := core.TurnRequest{
		SessionID: chatSession,
		Text:      text,
		ModeHint:  chatMode,
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if chatMaxTime > 0 {
		req.MaxTimeMinutes = &chatMaxTime
	}
	for _, path := range chatImages {
		img, err := llm.ReadImageFile(path)
		if err != nil {
			return fmt.Errorf("image %s: %w", path, err)
		}
		req.Images = append(req.Images, img)
		req.ImageRefs = append(req.ImageRefs, path)
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer closeApp(a)
	req.UserID = a.Config.DefaultUser

	res, err := a.Orchestrator.HandleTurn(cmd.Context(), req)
	if err != nil {
		return cliError(err)
	}
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), res)
	}
	printTurn(cmd.OutOrStdout(), res)
	return nil
}

// NewModifyCmd creates the modify command
func NewModifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modify <session-id> <change>",
		Short: "Ask for different suggestions",
		Long: `Regenerate the suggestions of a session.

The change is added as an extra ingredient or direction.

Examples:
  tweak modify 7d1c... "add mushrooms"
  tweak modify 7d1c... "make it dairy free"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Orchestrator.HandleModification(cmd.Context(), a.Config.DefaultUser, args[0], args[1])
			if err != nil {
				return cliError(err)
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printTurn(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

// readText takes the text argument, or stdin when it is piped
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		if info, err := f.Stat(); err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// cliError flattens a client-facing error into its message and details. Model
// and internal errors keep their cause.
func cliError(err error) error {
	e, ok := apperr.As(err)
	if !ok || e.Code == apperr.CodeModel || e.Code == apperr.CodeInternal {
		return err
	}
	if field, ok := e.Details["field"]; ok {
		return fmt.Errorf("%s: %s (%v)", e.Code, e.Message, field)
	}
	return fmt.Errorf("%s: %s", e.Code, e.Message)
}
