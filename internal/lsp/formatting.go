package lsp

import (
	"encoding/json"
	"strings"

	"basfmt/internal/indent"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	text, ok := s.documentText(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}

	formatted, changed := indent.FormatDocument(text, s.resolveOptions(params.Options))
	if !changed {
		// no-op: the client applies an empty edit set
		return s.sendResponse(msg.ID, []textEdit{})
	}
	edit := textEdit{
		Range: lspRange{
			Start: position{Line: 0, Character: 0},
			End:   endPosition(text),
		},
		NewText: formatted,
	}
	return s.sendResponse(msg.ID, []textEdit{edit})
}

func (s *Server) handleRangeFormatting(msg *rpcMessage) error {
	var params documentRangeFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	text, ok := s.documentText(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}

	startLine := params.Range.Start.Line
	endLine := params.Range.End.Line
	// a range ending at column 0 does not actually touch that line
	if endLine > startLine && params.Range.End.Character == 0 {
		endLine--
	}

	edit, changed := indent.FormatRange(text, startLine, endLine, s.resolveOptions(params.Options))
	if !changed {
		return s.sendResponse(msg.ID, []textEdit{})
	}

	lines := strings.Split(text, "\n")
	lastLine := ""
	if edit.EndLine < len(lines) {
		lastLine = lines[edit.EndLine]
	}
	result := textEdit{
		Range: lspRange{
			Start: position{Line: edit.StartLine, Character: 0},
			End:   position{Line: edit.EndLine, Character: utf16Len(lastLine)},
		},
		NewText: edit.Text,
	}
	return s.sendResponse(msg.ID, []textEdit{result})
}

func (s *Server) documentText(uri string) (string, bool) {
	uri = canonicalURI(uri)
	if uri == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.openDocs[uri]
	return text, ok
}

// resolveOptions merges request options over the server defaults; a request
// with no tab size falls back to configuration.
func (s *Server) resolveOptions(opts formattingOptions) indent.Options {
	s.mu.Lock()
	defaults := s.defaults
	s.mu.Unlock()

	if opts.TabSize <= 0 {
		return defaults
	}
	return indent.Options{TabSize: opts.TabSize, InsertSpaces: opts.InsertSpaces}
}
