package openaiseg

import (
  "context"
  "reflect"
  "testing"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
)

func TestFallbackSplit(t *testing.T) {
  cases := []struct {
    name    string
    content string
    want    []string
  }{
    {
      name:    "simple sentences",
      content: "봄이 왔습니다. 꽃이 피었습니다. 새가 노래합니다.",
      want:    []string{"봄이 왔습니다", "꽃이 피었습니다", "새가 노래합니다"},
    },
    {
      name:    "no period",
      content: "마침표 없는 이야기",
      want:    []string{"마침표 없는 이야기"},
    },
    {
      name:    "extra whitespace and empty parts",
      content: "  첫 문장.   . 둘째 문장.  ",
      want:    []string{"첫 문장", "둘째 문장"},
    },
    {
      name:    "empty content",
      content: "",
      want:    []string{},
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got := FallbackSplit(tc.content)
      if !reflect.DeepEqual(got, tc.want) {
        t.Fatalf("FallbackSplit(%q) = %v, want %v", tc.content, got, tc.want)
      }
    })
  }
}

func TestSplitWithoutAPIKeyUsesFallback(t *testing.T) {
  t.Setenv("OPENAI_API_KEY", "")
  seg := New(logger.NewNop())

  got := seg.Split(context.Background(), "하나. 둘.")
  want := []string{"하나", "둘"}
  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Split = %v, want %v", got, want)
  }
}
