package commands

import (
	"GophTodo/internal/config"
	"GophTodo/internal/middleware"
	"context"
	"fmt"
)

type tokenCmd struct{}

func (tokenCmd) Name() string        { return "token" }
func (tokenCmd) Description() string { return "Sign a dev token with AUTH_SECRET" }
func (tokenCmd) Usage() string       { return "token <userId>" }

func (tokenCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	token, err := middleware.IssueToken(args[0], cfg.AuthSecret)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, token)
	return nil
}

func init() { RegisterCmd(tokenCmd{}) }
