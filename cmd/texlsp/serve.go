package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/lsp"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the language server over stdio",
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	// An explicit config wins over the one found in the workspace root.
	var cfg *texlsp.Config

	if path := cmd.String("config"); path != "" {
		cfg, err = texlsp.LoadConfigFile(path)
		if err != nil {
			return err
		}
	}

	logger.Info("Starting texlsp server", zap.String("version", version))

	return serve(ctx, logger, cfg, os.Stdin, os.Stdout)
}

func serve(ctx context.Context, logger *zap.Logger, cfg *texlsp.Config, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	client := protocol.ClientDispatcher(conn, logger)
	server := lsp.NewServer(client, logger, cfg)

	conn.Go(ctx, protocol.ServerHandler(server, nil))

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
