package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func completionParams(uri protocol.DocumentURI, line, character uint32) *protocol.CompletionParams {
	return &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
	}
}

func itemLabels(list *protocol.CompletionList) []string {
	labels := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}

	return labels
}

func TestServer_Completion_ColorModels(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	openDocument(t, server, "file:///main.tex", "latex", "\\definecolorset\n{}")

	list, err := server.Completion(ctx, completionParams("file:///main.tex", 1, 1))
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.False(t, list.IsIncomplete)

	labels := itemLabels(list)
	assert.Contains(t, labels, "rgb")
	assert.Contains(t, labels, "HTML")
	assert.Contains(t, labels, "cmyk")

	for _, item := range list.Items {
		assert.Equal(t, protocol.CompletionItemKindEnumMember, item.Kind, item.Label)
		assert.Equal(t, item.Label, item.InsertText)
		assert.NotEmpty(t, item.Detail)
	}
}

func TestServer_Completion_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		uri        protocol.DocumentURI
		languageID string
		text       string
		line, char uint32
	}{
		{name: "bibtex document", uri: "file:///refs.bib", languageID: "bibtex", text: "\\definecolorset\n{}", line: 1, char: 1},
		{name: "command name", uri: "file:///main.tex", languageID: "latex", text: "\\definecolor\n{}", line: 0, char: 3},
		{name: "unterminated group", uri: "file:///main.tex", languageID: "latex", text: "\\definecolorset{", line: 0, char: 16},
		{name: "off grid", uri: "file:///main.tex", languageID: "latex", text: "\\definecolorset{}", line: 9, char: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newTestServer(t)
			openDocument(t, server, tt.uri, tt.languageID, tt.text)

			list, err := server.Completion(context.Background(), completionParams(tt.uri, tt.line, tt.char))
			require.NoError(t, err)
			require.NotNil(t, list)
			assert.NotNil(t, list.Items)
			assert.Empty(t, list.Items)
		})
	}
}

func TestServer_Completion_EntryTypes(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	openDocument(t, server, "file:///refs.bib", "bibtex", "@")

	list, err := server.Completion(context.Background(), completionParams("file:///refs.bib", 0, 1))
	require.NoError(t, err)

	assert.Contains(t, itemLabels(list), "article")

	for _, item := range list.Items {
		assert.Equal(t, protocol.CompletionItemKindClass, item.Kind)
	}
}

func TestServer_Completion_LanguageFromExtension(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	// No language id: the .bib extension decides.
	openDocument(t, server, "file:///refs.bib", "", "@")

	list, err := server.Completion(context.Background(), completionParams("file:///refs.bib", 0, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, list.Items)
}

func TestServer_Completion_NoDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	list, err := server.Completion(context.Background(), completionParams("file:///missing.tex", 0, 0))
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestServer_Completion_AfterChange(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	openDocument(t, server, "file:///main.tex", "latex", "\\foo{}")

	list, err := server.Completion(ctx, completionParams("file:///main.tex", 0, 5))
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	err = server.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///main.tex"},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "\\color[]{x}"}},
	})
	require.NoError(t, err)

	list, err = server.Completion(ctx, completionParams("file:///main.tex", 0, 7))
	require.NoError(t, err)
	assert.Contains(t, itemLabels(list), "rgb")
}

func TestServer_Stubs(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	hover, err := server.Hover(ctx, &protocol.HoverParams{})
	require.NoError(t, err)
	assert.Nil(t, hover)

	item := &protocol.CompletionItem{Label: "rgb"}
	resolved, err := server.CompletionResolve(ctx, item)
	require.NoError(t, err)
	assert.Same(t, item, resolved)

	result, err := server.Request(ctx, "texlsp/unknown", nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}
