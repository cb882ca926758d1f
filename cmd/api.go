package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct, authenticated GET against the catalog and prints the body.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.client.Get(ctx, path, params)
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrTransport, resp.StatusCode, string(resp.Body))
	}

	body := bytes.TrimPrefix(resp.Body, []byte("\xef\xbb\xbf"))
	if !cmd.Bool("raw") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}

// parseParams turns key=value pairs into query parameters.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: param %q must be key=value", shared.ErrInvalidArgument, p)
		}
		params[k] = v
	}
	return params, nil
}
