package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/setanarut/spritemeta"
)

type reply struct {
	ImageType      string          `json:"image_type"`
	AnimationNames []string        `json:"animation_names"`
	CharacterName  string          `json:"character_name"`
	Error          json.RawMessage `json:"error"`
}

// ParseReply decodes the model's message. The content may be plain JSON or
// JSON wrapped in prose or a code fence; in the latter case the first
// balanced {...} span is used. A reply carrying an "error" field counts as
// unavailable. An unknown image_type is dropped, keeping the other fields.
func ParseReply(content string) (*spritemeta.OracleResult, error) {
	var r reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		span, ok := ExtractJSON(content)
		if !ok {
			return nil, fmt.Errorf("%w: no JSON object in reply", spritemeta.ErrOracleUnavailable)
		}
		r = reply{}
		if err := json.Unmarshal([]byte(span), &r); err != nil {
			return nil, fmt.Errorf("%w: decode reply: %w", spritemeta.ErrOracleUnavailable, err)
		}
	}
	if len(r.Error) > 0 && !bytes.Equal(r.Error, []byte("null")) {
		return nil, fmt.Errorf("%w: reply reports error %s", spritemeta.ErrOracleUnavailable, r.Error)
	}

	res := &spritemeta.OracleResult{
		AnimationNames: r.AnimationNames,
		CharacterName:  r.CharacterName,
	}
	if role, ok := spritemeta.ParseRole(r.ImageType); ok {
		res.Role = role
	}
	return res, nil
}

// ExtractJSON returns the first balanced {...} span of s. Braces inside
// JSON strings are skipped.
func ExtractJSON(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if end, ok := matchBrace(s, start); ok {
			return s[start : end+1], true
		}
	}
	return "", false
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
