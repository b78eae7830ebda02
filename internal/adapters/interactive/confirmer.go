package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// ErrNonInteractive is returned when a confirmation is needed but prompting is disabled
var ErrNonInteractive = errors.New("confirmation required but running in non-interactive mode")

// ConfirmerAdapter asks yes/no questions on the terminal
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	prompt func(label string) error
}

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{config: cfg, prompt: runPrompt}
}

// Confirm returns true when the user answers yes
func (c *ConfirmerAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	if c.config.NonInteractive {
		return false, ErrNonInteractive
	}

	err := c.prompt(message)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, fmt.Errorf("prompt interrupted: %w", err)
	default:
		return false, fmt.Errorf("prompt failed: %w", err)
	}
}

func runPrompt(label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err
}

// Ensure the adapter implements the interface
var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
