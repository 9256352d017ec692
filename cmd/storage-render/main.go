package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ix-apps/storage-render/internal/compose"
	"github.com/ix-apps/storage-render/internal/gerrors"
	"github.com/ix-apps/storage-render/internal/log"
	"github.com/ix-apps/storage-render/internal/schemas"
	"github.com/ix-apps/storage-render/internal/server"
)

func main() {
	App()
}

func render(ctx context.Context, args CLIArgs) error {
	if err := log.Configure(args.LogLevel); err != nil {
		return err
	}
	ctx = log.AppendArgsCtx(ctx, "input", args.Render.Input)

	req, err := schemas.LoadRenderRequest(args.Render.Input, os.Stdin)
	if err != nil {
		return err
	}
	doc, err := compose.Render(ctx, req)
	if err != nil {
		return err
	}
	out, err := doc.YAML()
	if err != nil {
		return err
	}

	if args.Render.Output == "" {
		_, err = os.Stdout.Write(out)
		return gerrors.Wrap(err)
	}
	if err := os.WriteFile(args.Render.Output, out, 0o644); err != nil {
		return gerrors.Wrapf(err, "writing output %s", args.Render.Output)
	}
	log.Info(ctx, "Wrote compose document", "output", args.Render.Output)
	return nil
}

func serve(ctx context.Context, args CLIArgs, version string) error {
	outputs := []io.Writer{os.Stdout}
	if args.Serve.LogFile != "" {
		logFile, err := log.CreateAppendFile(args.Serve.LogFile)
		if err != nil {
			return fmt.Errorf("create log file: %w", err)
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				log.Error(context.TODO(), "Failed to close log file", "err", err)
			}
		}()
		outputs = append(outputs, logFile)
	}
	if err := log.Configure(args.LogLevel, outputs...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderServer := server.NewRenderServer(fmt.Sprintf(":%d", args.Serve.HTTPPort), version)
	if err := renderServer.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
