// Package lsp implements a Language Server Protocol server for LaTeX and BibTeX.
package lsp

import (
	"context"
	"errors"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/completion"
)

// Server implements the LSP Server interface for texlsp.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Configuration and the completion providers built from it.
	// Written only by NewServer and Initialize. Clients send no other
	// request until initialize has returned, so handlers read these
	// without holding mu.
	config     *texlsp.Config
	dispatcher *completion.Dispatcher

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Language texlsp.Language
}

// Snapshot returns an immutable view of the document for the completion core.
func (d *Document) Snapshot() texlsp.Document {
	return texlsp.NewDocument(string(d.URI), d.Content, d.Language)
}

// NewServer creates a new LSP server.
// cfg may be nil, in which case the server looks for a config file in the
// workspace root during Initialize.
func NewServer(client protocol.Client, logger *zap.Logger, cfg *texlsp.Config) *Server {
	s := &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
	}
	s.configure(cfg)

	return s
}

// configure builds the dispatcher for cfg, falling back to the built-in
// providers when the config cannot be used.
// Callers must not run concurrently with request handlers.
func (s *Server) configure(cfg *texlsp.Config) {
	dispatcher, err := completion.FromConfig(cfg, s.logger)
	if err != nil {
		s.logger.Warn("Ignoring invalid completion config", zap.Error(err))

		cfg = nil
		dispatcher = completion.NewDispatcher(s.logger, completion.Builtin()...)
	}

	s.config = cfg
	s.dispatcher = dispatcher

	s.logger.Debug("Completion providers", zap.Strings("providers", dispatcher.Providers()))
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootUri", string(params.RootURI)))

	// Extract workspace root from params
	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	if s.workspaceRoot != "" && s.config == nil {
		cfg, err := texlsp.LoadConfig(s.workspaceRoot)

		switch {
		case err == nil:
			s.logger.Info("Loaded config", zap.String("root", s.workspaceRoot))
			s.configure(cfg)
		case errors.Is(err, texlsp.ErrConfigNotFound):
		default:
			s.logger.Warn("Failed to load config", zap.String("root", s.workspaceRoot), zap.Error(err))
		}
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"{", "[", "@", ","},
				ResolveProvider:   false,
			},
			FoldingRangeProvider:   true,
			DocumentSymbolProvider: true,
			RenameProvider: &protocol.RenameOptions{
				PrepareProvider: true,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "texlsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.String("languageId", string(params.TextDocument.LanguageID)))

	doc := &Document{
		URI:      params.TextDocument.URI,
		Version:  params.TextDocument.Version,
		Content:  params.TextDocument.Text,
		Language: s.languageOf(params.TextDocument.URI, params.TextDocument.LanguageID),
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) == 0 {
		s.mu.Unlock()

		return nil
	}

	updated := *doc
	updated.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	updated.Version = params.TextDocument.Version
	s.documents[params.TextDocument.URI] = &updated

	s.mu.Unlock()

	s.publishDiagnostics(ctx, &updated)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics for closed document
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a document by URI (read-locked). Stored documents are
// never mutated in place, so the returned pointer is safe to read.
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// languageOf resolves a document language from the client's language id,
// falling back to the configured patterns and the file extension.
func (s *Server) languageOf(uri protocol.DocumentURI, id protocol.LanguageIdentifier) texlsp.Language {
	if id != "" {
		lang, err := texlsp.ParseLanguage(string(id))
		if err == nil {
			return lang
		}
	}

	lang, err := s.config.LanguageFor(URIToPath(uri))
	if err != nil {
		s.logger.Debug("Unknown document language",
			zap.String("uri", string(uri)),
			zap.String("languageId", string(id)))

		return 0
	}

	return lang
}
