package commands

import (
	"GophTodo/internal/cli/api"
	"GophTodo/internal/config"
	"GophTodo/internal/model"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// errNoToken команда требует токен, а он не задан
var errNoToken = errors.New("no token: pass --token or set TODO_TOKEN")

func endpoint(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.ServerURL, "/") + path
}

func todoPath(todoID string) string {
	return "/api/todos/" + url.PathEscape(todoID)
}

func requireToken(cfg *config.Config) (string, error) {
	if cfg.Token == "" {
		return "", errNoToken
	}
	return cfg.Token, nil
}

func printTodo(it model.TodoItem) {
	mark := " "
	if it.Done {
		mark = "x"
	}
	line := fmt.Sprintf("%s\t[%s] %s", it.TodoID, mark, it.Name)
	if it.DueDate != "" {
		line += "\tdue " + it.DueDate
	}
	if it.AttachmentURL != nil {
		line += "\t" + *it.AttachmentURL
	}
	fmt.Fprintln(Out, line)
}

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "List your todos" }
func (listCmd) Usage() string       { return "list" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	var resp struct {
		Items []model.TodoItem `json:"items"`
	}
	if err := api.Call(ctx, http.MethodGet, endpoint(cfg, "/api/todos"), nil, token, &resp); err != nil {
		return err
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(Out, "No todos")
		return nil
	}
	for _, it := range resp.Items {
		printTodo(it)
	}
	return nil
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Create a todo" }
func (addCmd) Usage() string       { return "add <name> [dueDate]" }

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	req := map[string]string{"name": args[0]}
	if len(args) == 2 {
		req["dueDate"] = args[1]
	}
	var resp struct {
		Item model.TodoItem `json:"item"`
	}
	if err := api.Call(ctx, http.MethodPost, endpoint(cfg, "/api/todos"), req, token, &resp); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created %s\n", resp.Item.TodoID)
	return nil
}

type updateCmd struct{}

func (updateCmd) Name() string        { return "update" }
func (updateCmd) Description() string { return "Change name, due date or done flag" }
func (updateCmd) Usage() string {
	return "update <todoId> [--name n] [--due d] [--done true|false]"
}

func (updateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	todoID := args[0]

	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "")
	due := fs.String("due", "", "")
	done := fs.String("done", "", "")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	req := map[string]any{}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req["name"] = *name
		case "due":
			req["dueDate"] = *due
		case "done":
			v, err := strconv.ParseBool(*done)
			if err != nil {
				parseErr = ErrUsage
				return
			}
			req["done"] = v
		}
	})
	if parseErr != nil || len(req) == 0 {
		return ErrUsage
	}

	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	if err := api.Call(ctx, http.MethodPatch, endpoint(cfg, todoPath(todoID)), req, token, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Updated %s\n", todoID)
	return nil
}

type doneCmd struct{}

func (doneCmd) Name() string        { return "done" }
func (doneCmd) Description() string { return "Mark a todo as done" }
func (doneCmd) Usage() string       { return "done <todoId>" }

func (doneCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return updateCmd{}.Run(ctx, cfg, []string{args[0], "--done", "true"})
}

type rmCmd struct{}

func (rmCmd) Name() string        { return "rm" }
func (rmCmd) Description() string { return "Delete a todo" }
func (rmCmd) Usage() string       { return "rm <todoId>" }

func (rmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	if err := api.Call(ctx, http.MethodDelete, endpoint(cfg, todoPath(args[0])), nil, token, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s\n", args[0])
	return nil
}

func init() {
	RegisterCmd(listCmd{})
	RegisterCmd(addCmd{})
	RegisterCmd(updateCmd{})
	RegisterCmd(doneCmd{})
	RegisterCmd(rmCmd{})
}
