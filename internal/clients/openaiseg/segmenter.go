package openaiseg

import (
  "context"
  "encoding/json"
  "os"
  "regexp"
  "strings"
  openai "github.com/sashabaranov/go-openai"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
)

// Segmenter splits a story into ordered sentence segments.
type Segmenter interface {
  Split(ctx context.Context, content string) []string
}

type segmenter struct {
  log    *logger.Logger
  client *openai.Client
}

// New builds the AI-backed segmenter. Without OPENAI_API_KEY it degrades to
// the rule-based fallback splitter.
func New(log *logger.Logger) Segmenter {
  segLog := log.With("client", "OpenAISegmenter")
  apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
  if apiKey == "" {
    segLog.Warn("OPENAI_API_KEY not set, sentence splitting falls back to rule-based method")
    return &segmenter{log: segLog}
  }
  return &segmenter{log: segLog, client: openai.NewClient(apiKey)}
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)
var quotedPattern = regexp.MustCompile(`"([^"]*)"`)

func (s *segmenter) Split(ctx context.Context, content string) []string {
  if s.client == nil {
    return FallbackSplit(content)
  }

  prompt := "아래 이야기를 순서대로 문장 단위로 나눠서 JSON 배열로 만들어줘. " +
    "각 문장은 따옴표로 감싸고, 배열 형태로만 답변해줘. " +
    "예시: [\"첫 번째 문장입니다.\", \"두 번째 문장입니다.\"]\n\n" + content

  resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
    Model: openai.GPT3Dot5Turbo,
    Messages: []openai.ChatCompletionMessage{
      {Role: openai.ChatMessageRoleSystem, Content: "너는 문장 분리기야. 주어진 텍스트를 문장 단위로 나누어 JSON 배열로 반환해줘."},
      {Role: openai.ChatMessageRoleUser, Content: prompt},
    },
    MaxTokens:   1024,
    Temperature: 0.2,
  })
  if err != nil {
    s.log.Error("OpenAI API error, using fallback split", "error", err)
    return FallbackSplit(content)
  }
  if len(resp.Choices) == 0 {
    s.log.Warn("Empty response from OpenAI, using fallback split")
    return FallbackSplit(content)
  }

  text := resp.Choices[0].Message.Content
  if match := jsonArrayPattern.FindString(text); match != "" {
    var segments []string
    if err := json.Unmarshal([]byte(match), &segments); err == nil && len(segments) > 0 {
      s.log.Info("Split story into segments", "count", len(segments))
      return trimNonEmpty(segments)
    }
    s.log.Warn("JSON parsing of segment array failed, extracting quoted sentences")
  }

  // Model answered in prose; salvage anything quoted before giving up.
  if quoted := quotedPattern.FindAllStringSubmatch(text, -1); len(quoted) > 0 {
    segments := make([]string, 0, len(quoted))
    for _, m := range quoted {
      segments = append(segments, m[1])
    }
    if cleaned := trimNonEmpty(segments); len(cleaned) > 0 {
      return cleaned
    }
  }
  return FallbackSplit(content)
}

// FallbackSplit mirrors the period-based split used when the AI is
// unavailable.
func FallbackSplit(content string) []string {
  parts := strings.Split(content, ".")
  return trimNonEmpty(parts)
}

func trimNonEmpty(parts []string) []string {
  out := make([]string, 0, len(parts))
  for _, p := range parts {
    if trimmed := strings.TrimSpace(p); trimmed != "" {
      out = append(out, trimmed)
    }
  }
  return out
}
