package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func newTestServer(t *testing.T, out *bytes.Buffer) *Server {
	t.Helper()
	return NewServer(bytes.NewReader(nil), out, ServerOptions{})
}

func openDoc(t *testing.T, s *Server, uri, text string) {
	t.Helper()
	params := didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: text},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.handleDidOpen(&rpcMessage{Method: "textDocument/didOpen", Params: payload}); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
}

func readResponse(t *testing.T, out *bytes.Buffer) rpcMessage {
	t.Helper()
	payload, err := readMessage(bufio.NewReader(bytes.NewReader(out.Bytes())))
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var msg rpcMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return msg
}

func decodeEdits(t *testing.T, msg rpcMessage) []textEdit {
	t.Helper()
	var edits []textEdit
	if err := json.Unmarshal(msg.Result, &edits); err != nil {
		t.Fatalf("decode edits: %v", err)
	}
	return edits
}

func TestFormattingProducesFullDocumentEdit(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "test.pb"))
	var out bytes.Buffer
	server := newTestServer(t, &out)
	openDoc(t, server, uri, "If a\nx()\nEndIf")

	params := documentFormattingParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Options:      formattingOptions{TabSize: 4, InsertSpaces: true},
	}
	payload, _ := json.Marshal(params)
	if err := server.handleFormatting(&rpcMessage{ID: json.RawMessage("1"), Params: payload}); err != nil {
		t.Fatalf("formatting: %v", err)
	}

	edits := decodeEdits(t, readResponse(t, &out))
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].NewText != "If a\n    x()\nEndIf" {
		t.Errorf("edit text = %q", edits[0].NewText)
	}
	if edits[0].Range.Start != (position{Line: 0, Character: 0}) {
		t.Errorf("edit start = %+v", edits[0].Range.Start)
	}
	if edits[0].Range.End != (position{Line: 2, Character: 5}) {
		t.Errorf("edit end = %+v", edits[0].Range.End)
	}
}

func TestFormattingNoChangeReturnsEmptyEditSet(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "test.pb"))
	var out bytes.Buffer
	server := newTestServer(t, &out)
	openDoc(t, server, uri, "If a\n    x()\nEndIf")

	params := documentFormattingParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Options:      formattingOptions{TabSize: 4, InsertSpaces: true},
	}
	payload, _ := json.Marshal(params)
	if err := server.handleFormatting(&rpcMessage{ID: json.RawMessage("2"), Params: payload}); err != nil {
		t.Fatalf("formatting: %v", err)
	}

	edits := decodeEdits(t, readResponse(t, &out))
	if len(edits) != 0 {
		t.Errorf("expected empty edit set, got %d edits", len(edits))
	}
}

func TestFormattingUnknownDocument(t *testing.T) {
	var out bytes.Buffer
	server := newTestServer(t, &out)

	params := documentFormattingParams{
		TextDocument: textDocumentIdentifier{URI: pathToURI("/nowhere/missing.pb")},
	}
	payload, _ := json.Marshal(params)
	if err := server.handleFormatting(&rpcMessage{ID: json.RawMessage("3"), Params: payload}); err != nil {
		t.Fatalf("formatting: %v", err)
	}

	msg := readResponse(t, &out)
	if string(msg.Result) != "null" {
		t.Errorf("expected null result, got %s", msg.Result)
	}
}

func TestRangeFormattingTouchesOnlyRequestedLines(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "test.pb"))
	var out bytes.Buffer
	server := newTestServer(t, &out)
	openDoc(t, server, uri, "If a\nx()\ny()\nEndIf")

	params := documentRangeFormattingParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range: lspRange{
			Start: position{Line: 1, Character: 1},
			End:   position{Line: 2, Character: 2},
		},
		Options: formattingOptions{TabSize: 4, InsertSpaces: true},
	}
	payload, _ := json.Marshal(params)
	if err := server.handleRangeFormatting(&rpcMessage{ID: json.RawMessage("4"), Params: payload}); err != nil {
		t.Fatalf("rangeFormatting: %v", err)
	}

	edits := decodeEdits(t, readResponse(t, &out))
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	want := textEdit{
		Range: lspRange{
			Start: position{Line: 1, Character: 0},
			End:   position{Line: 2, Character: 3},
		},
		NewText: "    x()\n    y()",
	}
	if edits[0] != want {
		t.Errorf("edit = %+v, want %+v", edits[0], want)
	}
}

func TestRangeFormattingEndAtColumnZeroExcludesLine(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "test.pb"))
	var out bytes.Buffer
	server := newTestServer(t, &out)
	openDoc(t, server, uri, "If a\nx()\nEndIf")

	// selecting line 1 plus the zero-width start of line 2 formats line 1 only
	params := documentRangeFormattingParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range: lspRange{
			Start: position{Line: 1, Character: 0},
			End:   position{Line: 2, Character: 0},
		},
		Options: formattingOptions{TabSize: 4, InsertSpaces: true},
	}
	payload, _ := json.Marshal(params)
	if err := server.handleRangeFormatting(&rpcMessage{ID: json.RawMessage("5"), Params: payload}); err != nil {
		t.Fatalf("rangeFormatting: %v", err)
	}

	edits := decodeEdits(t, readResponse(t, &out))
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].Range.End.Line != 1 {
		t.Errorf("edit reaches line %d, want 1", edits[0].Range.End.Line)
	}
	if edits[0].NewText != "    x()" {
		t.Errorf("edit text = %q", edits[0].NewText)
	}
}

func TestFormattingFallsBackToServerDefaults(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "test.pb"))
	var out bytes.Buffer
	server := NewServer(bytes.NewReader(nil), &out, ServerOptions{})

	raw, _ := json.Marshal(lspSettings{
		Basfmt: basfmtSettings{Format: formatSettings{
			TabSize:      intPtr(2),
			InsertSpaces: boolPtr(true),
		}},
	})
	server.applySettings(raw)

	openDoc(t, server, uri, "If a\nx()\nEndIf")

	params := documentFormattingParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		// no options in the request
	}
	payload, _ := json.Marshal(params)
	if err := server.handleFormatting(&rpcMessage{ID: json.RawMessage("6"), Params: payload}); err != nil {
		t.Fatalf("formatting: %v", err)
	}

	edits := decodeEdits(t, readResponse(t, &out))
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].NewText != "If a\n  x()\nEndIf" {
		t.Errorf("edit text = %q", edits[0].NewText)
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
