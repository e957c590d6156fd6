package commands

import (
	"GophTodo/internal/cli/api"
	"GophTodo/internal/config"
	"context"
	"fmt"
	"net/http"
)

type uploadURLCmd struct{}

func (uploadURLCmd) Name() string        { return "upload-url" }
func (uploadURLCmd) Description() string { return "Get a signed upload URL for an attachment" }
func (uploadURLCmd) Usage() string       { return "upload-url <attachmentId>" }

func (uploadURLCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	var resp struct {
		UploadURL string `json:"uploadUrl"`
	}
	req := map[string]string{"attachmentId": args[0]}
	if err := api.Call(ctx, http.MethodPost, endpoint(cfg, "/api/attachments/upload-url"), req, token, &resp); err != nil {
		return err
	}
	fmt.Fprintln(Out, resp.UploadURL)
	return nil
}

type attachCmd struct{}

func (attachCmd) Name() string { return "attach" }
func (attachCmd) Description() string {
	return "Link an attachment to a todo (new one if attachmentId is omitted)"
}
func (attachCmd) Usage() string { return "attach <todoId> [attachmentId]" }

func (attachCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	url := endpoint(cfg, todoPath(args[0])+"/attachment")

	// без attachmentId сервер выдаёт новое вложение вместе со ссылкой на загрузку
	if len(args) == 1 {
		var resp struct {
			AttachmentID  string `json:"attachmentId"`
			UploadURL     string `json:"uploadUrl"`
			AttachmentURL string `json:"attachmentUrl"`
		}
		if err := api.Call(ctx, http.MethodPost, url, nil, token, &resp); err != nil {
			return err
		}
		fmt.Fprintf(Out, "attachmentId:  %s\nuploadUrl:     %s\nattachmentUrl: %s\n",
			resp.AttachmentID, resp.UploadURL, resp.AttachmentURL)
		return nil
	}

	var resp struct {
		AttachmentURL string `json:"attachmentUrl"`
	}
	req := map[string]string{"attachmentId": args[1]}
	if err := api.Call(ctx, http.MethodPut, url, req, token, &resp); err != nil {
		return err
	}
	fmt.Fprintln(Out, resp.AttachmentURL)
	return nil
}

func init() {
	RegisterCmd(uploadURLCmd{})
	RegisterCmd(attachCmd{})
}
